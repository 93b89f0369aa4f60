package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"flashdeck/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, withStorage bool) (*fiber.App, *mocks.Client, sqlmock.Sqlmock) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	db, sqlMock := setupMockDB(t)
	svc := NewService(db, []any{note{}}, nil, "test-bucket", "", zap.NewNop())
	if withStorage {
		svc = NewService(db, []any{note{}}, mockClient, "test-bucket", "", zap.NewNop())
	}
	feature := NewFeature(svc)
	assert.Equal(t, "integrity", feature.Name())
	assert.True(t, feature.IsEnabled())
	require.NoError(t, feature.Load(app))
	return app, mockClient, sqlMock
}

func TestHandleServerCheck(t *testing.T) {
	app, _, sqlMock := setupTestApp(t, false)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "varchar(64)", "NO", "PRI", nil, "").
		AddRow("body", "text", "YES", "", nil, "")
	sqlMock.ExpectQuery("SHOW COLUMNS FROM `notes`").WillReturnRows(rows)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/server", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["matched"])
}

func TestHandleStorageCheck(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		app, _, _ := setupTestApp(t, false)
		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage", nil))
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("missing bucket", func(t *testing.T) {
		app, client, _ := setupTestApp(t, true)
		client.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, false, body["exists"])
	})

	t.Run("fix", func(t *testing.T) {
		app, client, _ := setupTestApp(t, true)
		client.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(nil)

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage?fix=true", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, true, body["fixed"])
	})

	t.Run("error", func(t *testing.T) {
		app, client, _ := setupTestApp(t, true)
		client.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage", nil))
		require.NoError(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	})
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, client, sqlMock := setupTestApp(t, true)

	client.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)
	sqlMock.ExpectQuery(".*").WillReturnError(assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body, "server")
	assert.Contains(t, body, "storage")
}
