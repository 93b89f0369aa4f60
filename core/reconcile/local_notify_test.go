package reconcile_test

import (
	"context"
	"testing"
	"time"

	"flashdeck/core/models"
	"flashdeck/core/reconcile"
	"flashdeck/feature/localstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newLocalStore(t *testing.T) *localstore.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	kv, err := localstore.NewKV(db)
	require.NoError(t, err)
	return localstore.NewStore(kv, localstore.Config{BlobKey: "flashcardSets"}, zap.NewNop())
}

func startWithStore(t *testing.T, h *harness, store *localstore.Store) {
	t.Helper()
	h.engine = reconcile.New(reconcile.Deps{
		Local:    store,
		Remote:   h.profiles,
		Shares:   h.shares,
		Identity: h.identity,
	}, reconcile.Config{FetchTimeoutSeconds: 2})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = h.engine.Run(ctx) }()
	h.settle(t)
}

func TestEngine_ReloadsOnLocalWrite(t *testing.T) {
	store := newLocalStore(t)
	store.Save(context.Background(), []models.FlashcardSet{set("L1", "Biology")})

	h := newHarness(t, "")
	startWithStore(t, h, store)
	require.Equal(t, []string{"L1"}, ids(h.engine.FlashcardSets()))

	// Written by another holder of the same store, not through the engine.
	store.Save(context.Background(), []models.FlashcardSet{set("L1", "Biology"), set("L2", "Physics")})

	assert.Eventually(t, func() bool {
		got := ids(h.engine.FlashcardSets())
		return len(got) == 2 && got[1] == "L2"
	}, 2*time.Second, 10*time.Millisecond)

	store.Clear(context.Background())
	assert.Eventually(t, func() bool {
		return len(h.engine.FlashcardSets()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEngine_IgnoresLocalWriteWhenSignedIn(t *testing.T) {
	store := newLocalStore(t)

	h := newHarness(t, "U1")
	h.profiles.docs["U1"] = &models.AppUser{ID: "U1", FlashcardSets: []models.FlashcardSet{set("R1", "Remote")}}
	startWithStore(t, h, store)
	require.Equal(t, []string{"R1"}, ids(h.engine.FlashcardSets()))

	store.Save(context.Background(), []models.FlashcardSet{set("L9", "Stray")})

	assert.Never(t, func() bool {
		got := ids(h.engine.FlashcardSets())
		return len(got) != 1 || got[0] != "R1"
	}, 200*time.Millisecond, 20*time.Millisecond)
}
