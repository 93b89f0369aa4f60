package sharing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flashdeck/core/models"
	"flashdeck/core/reconcile"
	"flashdeck/core/utils"

	"go.uber.org/zap"
)

var (
	// ErrShareNotFound is returned when a code or id resolves to no entry.
	ErrShareNotFound = errors.New("shared set not found")
	// ErrNotSignedIn is returned when publishing without an account.
	ErrNotSignedIn = reconcile.ErrNotSignedIn
)

const publicKey = "public"

// Library is the user's set collection, provided by the reconcile engine.
type Library interface {
	CurrentAccountID() *string
	FlashcardSet(id string) (models.FlashcardSet, bool)
	AddSet(ctx context.Context, set models.FlashcardSet) (models.FlashcardSet, error)
	MutateSet(ctx context.Context, id string, fn func(*models.FlashcardSet) error) (models.FlashcardSet, error)
}

// Service coordinates share codes, publishing and imports.
type Service struct {
	registry *Registry
	library  Library
	cache    *listCache
	attempts int
	logger   *zap.Logger
}

// NewService creates a sharing service. Bind a Library before using the
// operations that read or write the user's sets.
func NewService(registry *Registry, cfg Config, logger *zap.Logger) *Service {
	attempts := cfg.CodeAttempts
	if attempts <= 0 {
		attempts = 5
	}
	return &Service{
		registry: registry,
		cache:    newListCache(time.Duration(cfg.CacheTTLSeconds) * time.Second),
		attempts: attempts,
		logger:   logger,
	}
}

// Bind attaches the user's library. The engine and the service reference
// each other, so one side is wired after construction.
func (s *Service) Bind(library Library) {
	s.library = library
}

func (s *Service) accountID() *string {
	if s.library == nil {
		return nil
	}
	return s.library.CurrentAccountID()
}

// GenerateShareCode returns a fresh share code.
func (s *Service) GenerateShareCode() (string, error) {
	return GenerateShareCode()
}

// uniqueCode regenerates on collision with an existing entry, best effort.
func (s *Service) uniqueCode(ctx context.Context) (string, error) {
	var code string
	for i := 0; i < s.attempts; i++ {
		c, err := GenerateShareCode()
		if err != nil {
			return "", err
		}
		code = c
		_, err = s.registry.FindByCode(ctx, code)
		if errors.Is(err, ErrShareNotFound) {
			return code, nil
		}
		if err != nil {
			s.logger.Warn("Share code collision check failed", zap.Error(err))
			return code, nil
		}
	}
	s.logger.Warn("Share code collided on every attempt", zap.Int("attempts", s.attempts))
	return code, nil
}

// Publish upserts set into the registry with its current visibility and
// code. A set without an owner is stamped with the signed-in account.
func (s *Service) Publish(ctx context.Context, set models.FlashcardSet) error {
	uid := s.accountID()
	if uid == nil {
		return ErrNotSignedIn
	}
	set = set.Clone()
	if set.OwnerID == nil {
		set.OwnerID = uid
	}
	if err := s.registry.Upsert(ctx, set); err != nil {
		return err
	}
	s.cache.invalidate()
	s.logger.Info("Published set", zap.String("set_id", set.ID), zap.Bool("public", set.IsPublic))
	return nil
}

// Unpublish hides an entry but keeps it and its code.
func (s *Service) Unpublish(ctx context.Context, id string) error {
	if err := s.registry.SetVisibility(ctx, id, false); err != nil {
		return err
	}
	s.cache.invalidate()
	return nil
}

// DeletePublic removes an entry outright. It satisfies reconcile.ShareRemover.
func (s *Service) DeletePublic(ctx context.Context, id string) error {
	if err := s.registry.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.invalidate()
	return nil
}

// FetchPublic returns every public entry.
func (s *Service) FetchPublic(ctx context.Context) ([]models.FlashcardSet, error) {
	return s.cache.get(ctx, publicKey, s.registry.ListPublic)
}

// FetchOwnedPublic returns every entry owned by accountID.
func (s *Service) FetchOwnedPublic(ctx context.Context, accountID string) ([]models.FlashcardSet, error) {
	return s.registry.ListByOwner(ctx, accountID)
}

// ImportByCode resolves code to a personal copy. Every failure to resolve is
// reported as ErrShareNotFound.
func (s *Service) ImportByCode(ctx context.Context, code string) (models.FlashcardSet, error) {
	code = utils.NormalizeShareCode(code)
	if !IsShareCode(code) {
		return models.FlashcardSet{}, ErrShareNotFound
	}
	found, err := s.registry.FindByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, ErrShareNotFound) {
			s.logger.Warn("Share code lookup failed", zap.String("code", code), zap.Error(err))
		}
		return models.FlashcardSet{}, ErrShareNotFound
	}
	return MakePersonalCopy(found, s.accountID()), nil
}

// MakePersonalCopy copies set for the current account.
func (s *Service) MakePersonalCopy(set models.FlashcardSet) models.FlashcardSet {
	return MakePersonalCopy(set, s.accountID())
}

// ImportToLibrary imports code and adds the copy to the user's library.
func (s *Service) ImportToLibrary(ctx context.Context, code string) (models.FlashcardSet, error) {
	cp, err := s.ImportByCode(ctx, code)
	if err != nil {
		return models.FlashcardSet{}, err
	}
	return s.library.AddSet(ctx, cp)
}

// CopyPublic adds a personal copy of the registry entry id to the library.
func (s *Service) CopyPublic(ctx context.Context, id string) (models.FlashcardSet, error) {
	found, err := s.registry.Get(ctx, id)
	if err != nil {
		return models.FlashcardSet{}, err
	}
	return s.library.AddSet(ctx, s.MakePersonalCopy(found))
}

// ShareSet marks a library set public, assigns a code when asked and none
// exists, saves it through the library, then publishes it.
func (s *Service) ShareSet(ctx context.Context, id string, generateCode bool) (models.FlashcardSet, error) {
	if s.accountID() == nil {
		return models.FlashcardSet{}, ErrNotSignedIn
	}

	var code string
	if generateCode {
		if current, ok := s.library.FlashcardSet(id); ok && current.ShareCode == nil {
			c, err := s.uniqueCode(ctx)
			if err != nil {
				return models.FlashcardSet{}, err
			}
			code = c
		}
	}

	updated, err := s.library.MutateSet(ctx, id, func(set *models.FlashcardSet) error {
		set.IsPublic = true
		if code != "" && set.ShareCode == nil {
			set.ShareCode = models.StringPtr(code)
		}
		return nil
	})
	if err != nil {
		return models.FlashcardSet{}, fmt.Errorf("share set %s: %w", id, err)
	}

	if err := s.Publish(ctx, updated); err != nil {
		return models.FlashcardSet{}, err
	}
	return updated, nil
}

// UnshareSet marks a library set private and hides its registry entry.
// A set no longer in the library still has its entry hidden.
func (s *Service) UnshareSet(ctx context.Context, id string) error {
	_, err := s.library.MutateSet(ctx, id, func(set *models.FlashcardSet) error {
		set.IsPublic = false
		return nil
	})
	if err != nil && !errors.Is(err, reconcile.ErrMutationTargetMissing) {
		return fmt.Errorf("unshare set %s: %w", id, err)
	}
	return s.Unpublish(ctx, id)
}
