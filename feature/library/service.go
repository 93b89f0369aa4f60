package library

import (
	"context"
	"errors"
	"strings"
	"time"

	"flashdeck/core/models"
	"flashdeck/core/reconcile"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCardNotFound is returned when a card id is not in the set.
var ErrCardNotFound = errors.New("card not found")

// Credentials is the body of sign-in and sign-up requests.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CardInput describes a card in a create or update request.
type CardInput struct {
	ID        string `json:"id,omitempty"`
	Question  string `json:"question" validate:"required"`
	Answer    string `json:"answer"`
	IsStarred bool   `json:"isStarred"`
}

// SetInput is the body of set create and update requests.
type SetInput struct {
	Title string      `json:"title" validate:"required,max=200"`
	Color string      `json:"color"`
	Cards []CardInput `json:"cards" validate:"dive"`
}

// DisplayNameInput is the body of a profile update.
type DisplayNameInput struct {
	DisplayName string `json:"displayName" validate:"max=100"`
}

// StateResponse reports the engine's auth state.
type StateResponse struct {
	Auth         models.AuthStateView `json:"auth"`
	ErrorMessage string               `json:"errorMessage,omitempty"`
}

// Service exposes the reconcile engine to HTTP handlers.
type Service struct {
	engine   *reconcile.Engine
	validate *validator.Validate
	settle   time.Duration
	logger   *zap.Logger
}

// NewService creates a library service. Auth calls wait up to settle for the
// engine to finish loading the profile.
func NewService(engine *reconcile.Engine, settle time.Duration, logger *zap.Logger) *Service {
	return &Service{
		engine:   engine,
		validate: validator.New(),
		settle:   settle,
		logger:   logger,
	}
}

// State returns the current auth state and last error message.
func (s *Service) State() StateResponse {
	return StateResponse{
		Auth:         s.engine.CurrentAuthState().View(),
		ErrorMessage: s.engine.ErrorMessage(),
	}
}

// SignIn signs in and waits for the profile to settle.
func (s *Service) SignIn(ctx context.Context, creds Credentials) (StateResponse, error) {
	if err := s.engine.SignIn(ctx, creds.Email, creds.Password); err != nil {
		return s.State(), err
	}
	return s.waitSettled(ctx)
}

// SignUp creates an account and waits for the profile to settle.
func (s *Service) SignUp(ctx context.Context, creds Credentials) (StateResponse, error) {
	if err := s.engine.SignUp(ctx, creds.Email, creds.Password); err != nil {
		return s.State(), err
	}
	return s.waitSettled(ctx)
}

// SignOut signs out and waits for the engine to settle.
func (s *Service) SignOut(ctx context.Context) (StateResponse, error) {
	if err := s.engine.SignOut(ctx); err != nil {
		return s.State(), err
	}
	return s.waitSettled(ctx)
}

func (s *Service) waitSettled(ctx context.Context) (StateResponse, error) {
	waitCtx, cancel := context.WithTimeout(ctx, s.settle)
	defer cancel()
	err := s.engine.WaitSettled(waitCtx)
	return s.State(), err
}

// Profile returns the signed-in profile or nil.
func (s *Service) Profile() *models.AppUser {
	return s.engine.CurrentProfile()
}

// SetDisplayName validates and stores a display name.
func (s *Service) SetDisplayName(ctx context.Context, in DisplayNameInput) (*models.AppUser, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if err := s.engine.SetDisplayName(ctx, in.DisplayName); err != nil {
		return nil, err
	}
	return s.engine.CurrentProfile(), nil
}

// Sets returns the authoritative collection.
func (s *Service) Sets() []models.FlashcardSet {
	return s.engine.FlashcardSets()
}

// Set returns one set.
func (s *Service) Set(id string) (models.FlashcardSet, bool) {
	return s.engine.FlashcardSet(id)
}

// CreateSet validates in and adds it as a new set.
func (s *Service) CreateSet(ctx context.Context, in SetInput) (models.FlashcardSet, error) {
	if err := s.validate.Struct(in); err != nil {
		return models.FlashcardSet{}, err
	}
	set := models.NewFlashcardSet(strings.TrimSpace(in.Title), in.Color)
	set.Cards = toCards(in.Cards)
	return s.engine.AddSet(ctx, set)
}

// UpdateSet replaces title, color and cards of an existing set.
func (s *Service) UpdateSet(ctx context.Context, id string, in SetInput) (models.FlashcardSet, error) {
	if err := s.validate.Struct(in); err != nil {
		return models.FlashcardSet{}, err
	}
	current, ok := s.engine.FlashcardSet(id)
	if !ok {
		return models.FlashcardSet{}, reconcile.ErrMutationTargetMissing
	}
	next := models.NewFlashcardSet(strings.TrimSpace(in.Title), in.Color)
	current.Title = next.Title
	current.Color = next.Color
	current.Cards = toCards(in.Cards)
	return s.engine.UpdateSet(ctx, current)
}

// DeleteSet removes a set and its shared copy.
func (s *Service) DeleteSet(ctx context.Context, id string) error {
	return s.engine.DeleteSet(ctx, id)
}

// AddCard appends a card to a set.
func (s *Service) AddCard(ctx context.Context, setID string, in CardInput) (models.FlashcardSet, error) {
	if err := s.validate.Struct(in); err != nil {
		return models.FlashcardSet{}, err
	}
	card := models.NewFlashcard(in.Question, in.Answer)
	card.IsStarred = in.IsStarred
	return s.engine.MutateSet(ctx, setID, func(set *models.FlashcardSet) error {
		set.Cards = append(set.Cards, card)
		return nil
	})
}

// ToggleStar flips the starred flag of one card.
func (s *Service) ToggleStar(ctx context.Context, setID, cardID string) (models.FlashcardSet, error) {
	return s.engine.MutateSet(ctx, setID, func(set *models.FlashcardSet) error {
		i := set.CardIndex(cardID)
		if i < 0 {
			return ErrCardNotFound
		}
		set.Cards[i].IsStarred = !set.Cards[i].IsStarred
		return nil
	})
}

func toCards(in []CardInput) []models.Flashcard {
	cards := make([]models.Flashcard, len(in))
	for i, c := range in {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		cards[i] = models.Flashcard{ID: id, Question: c.Question, Answer: c.Answer, IsStarred: c.IsStarred}
	}
	return cards
}
