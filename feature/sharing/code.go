package sharing

import (
	"fmt"
	"time"

	"flashdeck/core/models"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// ShareCodeAlphabet is the symbol set for share codes.
	ShareCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// ShareCodeLength is the number of symbols in a share code.
	ShareCodeLength = 6
)

// GenerateShareCode returns a random code drawn uniformly from
// ShareCodeAlphabet.
func GenerateShareCode() (string, error) {
	code, err := gonanoid.Generate(ShareCodeAlphabet, ShareCodeLength)
	if err != nil {
		return "", fmt.Errorf("generate share code: %w", err)
	}
	return code, nil
}

// IsShareCode reports whether code has the share code shape.
func IsShareCode(code string) bool {
	if len(code) != ShareCodeLength {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// MakePersonalCopy returns a private copy of set owned by accountID (nil
// when signed out). The copy and each of its cards get fresh ids so that
// editing one never touches the other.
func MakePersonalCopy(set models.FlashcardSet, accountID *string) models.FlashcardSet {
	cards := make([]models.Flashcard, len(set.Cards))
	for i, c := range set.Cards {
		c.ID = uuid.NewString()
		cards[i] = c
	}

	var owner *string
	if accountID != nil {
		owner = models.StringPtr(*accountID)
	}

	return models.FlashcardSet{
		ID:        uuid.NewString(),
		Title:     set.Title,
		Color:     set.Color,
		UpdatedAt: time.Now().UTC(),
		Cards:     cards,
		IsPublic:  false,
		ShareCode: nil,
		OwnerID:   owner,
	}
}
