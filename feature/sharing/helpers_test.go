package sharing_test

import (
	"context"
	"sync"
	"testing"

	"flashdeck/core/models"
	"flashdeck/core/reconcile"
	"flashdeck/feature/sharing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRegistry(t *testing.T) *sharing.Registry {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	reg := sharing.NewRegistry(db)
	require.NoError(t, reg.Migrate())
	return reg
}

type fakeLibrary struct {
	mu    sync.Mutex
	uid   *string
	sets  map[string]models.FlashcardSet
	added []models.FlashcardSet
}

func newFakeLibrary(uid string, sets ...models.FlashcardSet) *fakeLibrary {
	lib := &fakeLibrary{uid: models.StringPtr(uid), sets: map[string]models.FlashcardSet{}}
	for _, s := range sets {
		lib.sets[s.ID] = s
	}
	return lib
}

func (f *fakeLibrary) CurrentAccountID() *string { return f.uid }

func (f *fakeLibrary) FlashcardSet(id string) (models.FlashcardSet, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sets[id]
	return s.Clone(), ok
}

func (f *fakeLibrary) AddSet(ctx context.Context, set models.FlashcardSet) (models.FlashcardSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, set)
	f.sets[set.ID] = set
	return set, nil
}

func (f *fakeLibrary) MutateSet(ctx context.Context, id string, fn func(*models.FlashcardSet) error) (models.FlashcardSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sets[id]
	if !ok {
		return models.FlashcardSet{}, reconcile.ErrMutationTargetMissing
	}
	if err := fn(&s); err != nil {
		return models.FlashcardSet{}, err
	}
	f.sets[id] = s
	return s.Clone(), nil
}

func newService(t *testing.T, ttl int, lib *fakeLibrary) (*sharing.Service, *sharing.Registry) {
	t.Helper()
	reg := setupRegistry(t)
	svc := sharing.NewService(reg, sharing.Config{CacheTTLSeconds: ttl}, zap.NewNop())
	if lib != nil {
		svc.Bind(lib)
	}
	return svc, reg
}

func sharedSet(id, title string, public bool, code, owner string) models.FlashcardSet {
	return models.FlashcardSet{
		ID:        id,
		Title:     title,
		Color:     "#34C759",
		Cards:     []models.Flashcard{{ID: id + "-c1", Question: "Q1", Answer: "A1"}},
		IsPublic:  public,
		ShareCode: models.StringPtr(code),
		OwnerID:   models.StringPtr(owner),
	}
}

func ids(sets []models.FlashcardSet) []string {
	out := make([]string, len(sets))
	for i, s := range sets {
		out[i] = s.ID
	}
	return out
}
