package identity_test

import (
	"context"
	"testing"

	"flashdeck/core/models"
	"flashdeck/feature/identity"
	"flashdeck/feature/localstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setup(t *testing.T) (*gorm.DB, *localstore.KV, *identity.Provider) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	kv, err := localstore.NewKV(db)
	require.NoError(t, err)

	p, err := identity.NewProvider(context.Background(), db, kv, identity.Config{MinPasswordLength: 6, BcryptCost: 4}, zap.NewNop())
	require.NoError(t, err)
	return db, kv, p
}

func TestProvider_SignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	_, _, p := setup(t)

	uid, err := p.SignUp(ctx, " Ada@Example.com ", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, uid)
	assert.Equal(t, models.SessionEvent{AccountID: uid, Email: "ada@example.com"}, p.Current())

	require.NoError(t, p.SignOut(ctx))
	assert.False(t, p.Current().SignedIn())

	again, err := p.SignIn(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, uid, again)
}

func TestProvider_Errors(t *testing.T) {
	ctx := context.Background()
	_, _, p := setup(t)
	_, err := p.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"WeakPassword", func() error { _, err := p.SignUp(ctx, "bob@example.com", "123"); return err }, identity.ErrWeakPassword},
		{"InvalidEmail", func() error { _, err := p.SignUp(ctx, "not-an-email", "secret1"); return err }, identity.ErrInvalidEmail},
		{"EmailInUse", func() error { _, err := p.SignUp(ctx, "ADA@example.com", "secret1"); return err }, identity.ErrEmailInUse},
		{"UnknownEmail", func() error { _, err := p.SignIn(ctx, "nobody@example.com", "secret1"); return err }, identity.ErrInvalidCredentials},
		{"WrongPassword", func() error { _, err := p.SignIn(ctx, "ada@example.com", "wrong!!"); return err }, identity.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), tt.want)
		})
	}
}

func TestProvider_StoreFailureIsNetworkError(t *testing.T) {
	ctx := context.Background()
	db, _, p := setup(t)
	require.NoError(t, db.Migrator().DropTable(&identity.Account{}))

	_, err := p.SignIn(ctx, "ada@example.com", "secret1")
	assert.ErrorIs(t, err, identity.ErrNetwork)
}

func TestProvider_Subscribe(t *testing.T) {
	ctx := context.Background()
	_, _, p := setup(t)

	ch, cancel := p.Subscribe()
	defer cancel()
	assert.Equal(t, models.SessionEvent{}, <-ch)

	uid, err := p.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, uid, (<-ch).AccountID)

	require.NoError(t, p.SignOut(ctx))
	assert.False(t, (<-ch).SignedIn())
}

func TestProvider_SubscribeKeepsNewest(t *testing.T) {
	ctx := context.Background()
	_, _, p := setup(t)
	ch, cancel := p.Subscribe()
	defer cancel()

	for i := 0; i < 20; i++ {
		require.NoError(t, p.SignOut(ctx))
	}
	_, err := p.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	var last models.SessionEvent
	for len(ch) > 0 {
		last = <-ch
	}
	assert.True(t, last.SignedIn())
}

func TestProvider_RestoresSession(t *testing.T) {
	ctx := context.Background()
	db, kv, p := setup(t)
	uid, err := p.SignUp(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	restored, err := identity.NewProvider(ctx, db, kv, identity.Config{BcryptCost: 4}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, uid, restored.Current().AccountID)

	ch, cancel := restored.Subscribe()
	defer cancel()
	assert.Equal(t, uid, (<-ch).AccountID)
}

func TestHasher(t *testing.T) {
	h := identity.NewHasher(4)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NoError(t, h.Verify(hash, "secret1"))
	assert.Error(t, h.Verify(hash, "secret2"))

	_, err = h.Hash(string(make([]byte, 73)))
	assert.ErrorIs(t, err, identity.ErrWeakPassword)
}
