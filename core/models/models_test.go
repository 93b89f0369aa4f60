package models_test

import (
	"testing"

	"flashdeck/core/models"

	"github.com/stretchr/testify/assert"
)

func TestFlashcardSet_Clone(t *testing.T) {
	code := "ABC123"
	owner := "u1"
	set := models.FlashcardSet{
		ID:        "s1",
		Title:     "Biology",
		Cards:     []models.Flashcard{{ID: "c1", Question: "Q", Answer: "A"}},
		ShareCode: &code,
		OwnerID:   &owner,
	}

	clone := set.Clone()
	clone.Cards[0].Question = "changed"
	*clone.ShareCode = "ZZZZZZ"
	*clone.OwnerID = "u2"

	assert.Equal(t, "Q", set.Cards[0].Question)
	assert.Equal(t, "ABC123", *set.ShareCode)
	assert.Equal(t, "u1", *set.OwnerID)
	assert.Equal(t, 1, clone.CardCount())
}

func TestAppUser_Clone(t *testing.T) {
	name := "Ada"
	user := &models.AppUser{
		ID:            "u1",
		DisplayName:   &name,
		FlashcardSets: []models.FlashcardSet{{ID: "s1", Title: "Biology"}},
	}

	clone := user.Clone()
	assert.NotSame(t, user, clone)
	*clone.DisplayName = "Grace"
	clone.FlashcardSets[0].Title = "changed"

	assert.Equal(t, "Ada", *user.DisplayName)
	assert.Equal(t, "Biology", user.FlashcardSets[0].Title)
	assert.Equal(t, "u1", clone.ID)
}

func TestNewFlashcardSet(t *testing.T) {
	set := models.NewFlashcardSet("Chemistry", "not-a-color")

	assert.NotEmpty(t, set.ID)
	assert.Equal(t, "#007AFF", set.Color)
	assert.False(t, set.IsPublic)
	assert.Nil(t, set.ShareCode)
	assert.Nil(t, set.OwnerID)
	assert.Equal(t, 0, set.CardCount())
}

func TestIndexOfSet(t *testing.T) {
	sets := []models.FlashcardSet{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, 1, models.IndexOfSet(sets, "b"))
	assert.Equal(t, -1, models.IndexOfSet(sets, "c"))
}

func TestAuthState(t *testing.T) {
	tests := []struct {
		name    string
		state   models.AuthState
		settled bool
		view    models.AuthStateView
	}{
		{"Loading", models.Loading(), false, models.AuthStateView{Status: "loading"}},
		{"SignedOut", models.SignedOut(), true, models.AuthStateView{Status: "signed_out"}},
		{"Pending", models.SignedIn("u1", models.ProfilePending), false, models.AuthStateView{Status: "signed_in", AccountID: "u1", Profile: "pending"}},
		{"Ready", models.SignedIn("u1", models.ProfileReady), true, models.AuthStateView{Status: "signed_in", AccountID: "u1", Profile: "ready"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.settled, tt.state.Settled())
			assert.Equal(t, tt.view, tt.state.View())
		})
	}
}
