package profile_test

import (
	"context"
	"testing"
	"time"

	"flashdeck/core/models"
	"flashdeck/feature/profile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSQLite(t *testing.T) (*gorm.DB, *profile.DBStore) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := profile.NewDBStore(db)
	require.NoError(t, store.Migrate())
	return db, store
}

func TestDBStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	_, store := setupSQLite(t)

	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, profile.ErrNotFound)

	require.NoError(t, store.Create(ctx, &models.AppUser{ID: "u1", Email: "u1@example.com"}))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", got.Email)
	assert.NotNil(t, got.FlashcardSets)
	assert.Empty(t, got.FlashcardSets)

	sets := []models.FlashcardSet{{ID: "s1", Title: "Biology", Cards: []models.Flashcard{{ID: "c1", Question: "Q"}}}}
	require.NoError(t, store.UpdateSets(ctx, "u1", sets))

	name := "Ada"
	require.NoError(t, store.UpdateDisplayName(ctx, "u1", &name))

	got, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.FlashcardSets, 1)
	assert.Equal(t, "Biology", got.FlashcardSets[0].Title)
	assert.Equal(t, "Q", got.FlashcardSets[0].Cards[0].Question)
	assert.Equal(t, "Ada", *got.DisplayName)
	assert.Equal(t, "u1@example.com", got.Email)
}

func TestDBStore_UpdateMissing(t *testing.T) {
	_, store := setupSQLite(t)

	err := store.UpdateSets(context.Background(), "ghost", nil)
	assert.ErrorIs(t, err, profile.ErrNotFound)
}

func TestDBStore_CorruptDocument(t *testing.T) {
	db, store := setupSQLite(t)
	require.NoError(t, db.Exec(
		"INSERT INTO user_profiles (id, email, flashcard_sets, updated_at) VALUES (?, ?, ?, ?)",
		"u2", "u2@example.com", "{broken", time.Now(),
	).Error)

	_, err := store.Get(context.Background(), "u2")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, profile.ErrNotFound)
}

func TestDBStore_MySQLUpdateSets(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	store := profile.NewDBStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `user_profiles` SET .*`flashcard_sets`.*WHERE id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = store.UpdateSets(context.Background(), "u1", []models.FlashcardSet{{ID: "s1"}})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBStore_MySQLUpdateUnchanged(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	store := profile.NewDBStore(db)

	t.Run("existing row with identical values", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `user_profiles` SET .*`display_name`.*WHERE id = \\?").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `user_profiles` WHERE id = \\?").
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		name := "Ada"
		assert.NoError(t, store.UpdateDisplayName(context.Background(), "u1", &name))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE `user_profiles` SET .*`display_name`.*WHERE id = \\?").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `user_profiles` WHERE id = \\?").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := store.UpdateDisplayName(context.Background(), "ghost", nil)
		assert.ErrorIs(t, err, profile.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNew(t *testing.T) {
	db, _ := setupSQLite(t)

	store, err := profile.New(profile.Config{Backend: profile.BackendDatabase}, db, nil, "")
	require.NoError(t, err)
	assert.IsType(t, &profile.DBStore{}, store)

	_, err = profile.New(profile.Config{Backend: profile.BackendStorage}, db, nil, "")
	assert.Error(t, err)

	_, err = profile.New(profile.Config{Backend: "ftp"}, db, nil, "")
	assert.Error(t, err)

	assert.True(t, profile.Config{Backend: "storage"}.IsValidBackend())
	assert.False(t, profile.Config{Backend: "ftp"}.IsValidBackend())
}
