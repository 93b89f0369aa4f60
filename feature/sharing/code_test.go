package sharing_test

import (
	"testing"

	"flashdeck/core/models"
	"flashdeck/feature/sharing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShareCode(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 200; i++ {
		code, err := sharing.GenerateShareCode()
		require.NoError(t, err)
		assert.True(t, sharing.IsShareCode(code), code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 190)
}

func TestIsShareCode(t *testing.T) {
	assert.True(t, sharing.IsShareCode("AB12CD"))
	assert.False(t, sharing.IsShareCode("ab12cd"))
	assert.False(t, sharing.IsShareCode("AB12C"))
	assert.False(t, sharing.IsShareCode("AB-2CD"))
}

func TestMakePersonalCopy(t *testing.T) {
	src := sharedSet("s1", "Biology", true, "ABC123", "author")
	uid := "reader"

	cp := sharing.MakePersonalCopy(src, &uid)

	assert.NotEqual(t, src.ID, cp.ID)
	assert.Equal(t, src.Title, cp.Title)
	assert.Equal(t, src.Color, cp.Color)
	assert.False(t, cp.IsPublic)
	assert.Nil(t, cp.ShareCode)
	assert.Equal(t, "reader", *cp.OwnerID)
	assert.False(t, cp.UpdatedAt.IsZero())

	require.Len(t, cp.Cards, len(src.Cards))
	for i := range src.Cards {
		assert.NotEqual(t, src.Cards[i].ID, cp.Cards[i].ID)
		assert.Equal(t, src.Cards[i].Question, cp.Cards[i].Question)
		assert.Equal(t, src.Cards[i].Answer, cp.Cards[i].Answer)
	}

	cp.Cards[0].Question = "edited"
	uid = "changed"
	assert.Equal(t, "Q1", src.Cards[0].Question)
	assert.Equal(t, "reader", *cp.OwnerID)
}

func TestMakePersonalCopy_SignedOut(t *testing.T) {
	cp := sharing.MakePersonalCopy(models.FlashcardSet{ID: "s1", Title: "Empty"}, nil)

	assert.Nil(t, cp.OwnerID)
	assert.NotNil(t, cp.Cards)
	assert.Empty(t, cp.Cards)
}
