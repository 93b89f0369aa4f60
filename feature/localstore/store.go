package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"flashdeck/core/models"

	"go.uber.org/zap"
)

// Store keeps the signed-out set collection as a single JSON array.
// It satisfies reconcile.LocalStore and reconcile.LocalNotifier.
type Store struct {
	kv     *KV
	key    string
	logger *zap.Logger

	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

// NewStore creates a store writing under cfg.BlobKey.
func NewStore(kv *KV, cfg Config, logger *zap.Logger) *Store {
	key := cfg.BlobKey
	if key == "" {
		key = "flashcardSets"
	}
	return &Store{
		kv:     kv,
		key:    key,
		logger: logger,
		subs:   make(map[int]chan struct{}),
	}
}

// Load returns the stored sets. Missing or corrupt data loads as empty.
func (s *Store) Load(ctx context.Context) []models.FlashcardSet {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrKeyNotFound) {
		return []models.FlashcardSet{}
	}
	if err != nil {
		s.logger.Warn("Failed to read local sets", zap.Error(err))
		return []models.FlashcardSet{}
	}

	var sets []models.FlashcardSet
	if err := json.Unmarshal([]byte(raw), &sets); err != nil {
		s.logger.Warn("Local sets are corrupt, treating as empty", zap.Error(err))
		return []models.FlashcardSet{}
	}
	if sets == nil {
		sets = []models.FlashcardSet{}
	}
	return sets
}

// Save replaces the stored snapshot. Failures are logged.
func (s *Store) Save(ctx context.Context, sets []models.FlashcardSet) {
	if sets == nil {
		sets = []models.FlashcardSet{}
	}
	raw, err := json.Marshal(sets)
	if err != nil {
		s.logger.Error("Failed to encode local sets", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		s.logger.Error("Failed to save local sets", zap.Error(err))
		return
	}
	s.notify()
}

// Clear deletes the stored snapshot. Failures are logged.
func (s *Store) Clear(ctx context.Context) {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		s.logger.Error("Failed to clear local sets", zap.Error(err))
		return
	}
	s.notify()
}

// Subscribe returns a channel signalled after every successful Save or
// Clear. Signals coalesce: a slow reader sees at most one pending signal.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
