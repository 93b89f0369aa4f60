package models

import (
	"time"

	"flashdeck/core/utils"

	"github.com/google/uuid"
)

// Flashcard is a single card. Identity is the ID; two cards with the same ID
// are the same card regardless of content.
type Flashcard struct {
	ID        string `json:"id"`
	Question  string `json:"question" validate:"required"`
	Answer    string `json:"answer"`
	IsStarred bool   `json:"isStarred"`
}

// NewFlashcard returns a card with a fresh ID.
func NewFlashcard(question, answer string) Flashcard {
	return Flashcard{
		ID:       uuid.NewString(),
		Question: question,
		Answer:   answer,
	}
}

// FlashcardSet is a user-owned collection of cards.
type FlashcardSet struct {
	// ID is immutable once the set is created.
	ID string `json:"id"`

	// Title is the display title.
	Title string `json:"title" validate:"required,max=200"`

	// Color is a "#RRGGBB" hex surrogate for the display color.
	Color string `json:"color"`

	// UpdatedAt changes on every content change.
	UpdatedAt time.Time `json:"updatedAt"`

	// Cards keeps the user's order.
	Cards []Flashcard `json:"cards"`

	// IsPublic marks the set as listed in the share registry.
	IsPublic bool `json:"isPublic"`

	// ShareCode is present only once a code has been generated.
	ShareCode *string `json:"shareCode"`

	// OwnerID is nil for local-only sets created while signed out.
	OwnerID *string `json:"ownerId"`
}

// NewFlashcardSet returns an empty private set with a fresh ID.
func NewFlashcardSet(title, color string) FlashcardSet {
	return FlashcardSet{
		ID:        uuid.NewString(),
		Title:     title,
		Color:     utils.NormalizeHexColor(color),
		UpdatedAt: time.Now().UTC(),
		Cards:     []Flashcard{},
	}
}

// CardCount returns the number of cards in the set.
func (s FlashcardSet) CardCount() int {
	return len(s.Cards)
}

// Clone returns a deep copy. Mutating the copy's cards or optional fields
// never affects the receiver.
func (s FlashcardSet) Clone() FlashcardSet {
	out := s
	if s.Cards != nil {
		out.Cards = make([]Flashcard, len(s.Cards))
		copy(out.Cards, s.Cards)
	}
	out.ShareCode = cloneString(s.ShareCode)
	out.OwnerID = cloneString(s.OwnerID)
	return out
}

// CardIndex returns the position of the card with the given ID, or -1.
func (s FlashcardSet) CardIndex(cardID string) int {
	for i, c := range s.Cards {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// CloneSets deep-copies a slice of sets. A nil input yields an empty slice.
func CloneSets(sets []FlashcardSet) []FlashcardSet {
	out := make([]FlashcardSet, len(sets))
	for i, s := range sets {
		out[i] = s.Clone()
	}
	return out
}

// IndexOfSet returns the position of the set with the given ID, or -1.
func IndexOfSet(sets []FlashcardSet, id string) int {
	for i, s := range sets {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// StringPtr returns a pointer to v, or nil when v is empty.
func StringPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// StringValue dereferences p, returning "" for nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
