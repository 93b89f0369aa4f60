package sharing_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"flashdeck/core/models"
	"flashdeck/feature/sharing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T, lib *fakeLibrary) (*fiber.App, *sharing.Registry) {
	t.Helper()
	svc, reg := newService(t, 0, lib)
	app := fiber.New()
	feature := sharing.NewFeature(svc)
	assert.Equal(t, "sharing", feature.Name())
	assert.True(t, feature.IsEnabled())
	require.NoError(t, feature.Load(app))
	return app, reg
}

func TestHandleGenerateCode(t *testing.T) {
	app, _ := setupApp(t, newFakeLibrary("u1"))

	resp, err := app.Test(httptest.NewRequest("GET", "/sharing/code", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, sharing.IsShareCode(body["code"]))
}

func TestHandleImport(t *testing.T) {
	lib := newFakeLibrary("reader")
	app, reg := setupApp(t, lib)
	require.NoError(t, reg.Upsert(context.Background(), sharedSet("s1", "Biology", true, "ABC123", "author")))

	req := httptest.NewRequest("POST", "/sharing/import", strings.NewReader(`{"code":"abc123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var set models.FlashcardSet
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&set))
	assert.Equal(t, "Biology", set.Title)
	assert.Len(t, lib.added, 1)

	req = httptest.NewRequest("POST", "/sharing/import", strings.NewReader(`{"code":"NOPE00"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandlePublish(t *testing.T) {
	lib := newFakeLibrary("u1", models.FlashcardSet{ID: "s1", Title: "Biology", Cards: []models.Flashcard{}})
	app, _ := setupApp(t, lib)

	resp, err := app.Test(httptest.NewRequest("POST", "/sharing/sets/s1/publish?code=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/sharing/public", nil))
	require.NoError(t, err)
	var public []models.FlashcardSet
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&public))
	require.Len(t, public, 1)
	assert.NotNil(t, public[0].ShareCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/sharing/sets/missing/publish", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/sharing/public/s1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestHandlePublish_SignedOut(t *testing.T) {
	app, _ := setupApp(t, &fakeLibrary{sets: map[string]models.FlashcardSet{}})

	resp, err := app.Test(httptest.NewRequest("POST", "/sharing/sets/s1/publish", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
