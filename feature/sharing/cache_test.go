package sharing

import (
	"context"
	"testing"
	"time"

	"flashdeck/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCache_ServesWithinTTL(t *testing.T) {
	c := newListCache(time.Minute)
	loads := 0
	load := func(context.Context) ([]models.FlashcardSet, error) {
		loads++
		return []models.FlashcardSet{{ID: "s1"}}, nil
	}

	for i := 0; i < 3; i++ {
		sets, err := c.get(context.Background(), publicKey, load)
		require.NoError(t, err)
		assert.Len(t, sets, 1)
	}
	assert.Equal(t, 1, loads)

	c.invalidate()
	_, err := c.get(context.Background(), publicKey, load)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}

func TestListCache_InvalidateDuringLoadDropsResult(t *testing.T) {
	c := newListCache(time.Minute)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan []models.FlashcardSet, 1)

	go func() {
		sets, _ := c.get(ctx, publicKey, func(context.Context) ([]models.FlashcardSet, error) {
			close(started)
			<-release
			return []models.FlashcardSet{{ID: "unpublished"}}, nil
		})
		done <- sets
	}()

	<-started
	c.invalidate()
	close(release)

	select {
	case first := <-done:
		assert.Len(t, first, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("load did not finish")
	}

	sets, err := c.get(ctx, publicKey, func(context.Context) ([]models.FlashcardSet, error) {
		return []models.FlashcardSet{}, nil
	})
	require.NoError(t, err)
	assert.Empty(t, sets)
}
