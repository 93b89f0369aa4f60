package sharing

import (
	"context"
	"sync"
	"time"

	"flashdeck/core/models"

	"golang.org/x/sync/singleflight"
)

type cacheEntry struct {
	sets  []models.FlashcardSet
	built time.Time
}

// listCache holds registry listings for a short TTL. Concurrent misses for
// the same key share one load.
type listCache struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
	gen     uint64 // bumped by invalidate
	sf      singleflight.Group
}

func newListCache(ttl time.Duration) *listCache {
	return &listCache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

func (c *listCache) fresh(key string) ([]models.FlashcardSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || time.Since(e.built) > c.ttl {
		return nil, false
	}
	return e.sets, true
}

// get returns a copy of the cached listing for key, loading it on a miss.
func (c *listCache) get(ctx context.Context, key string, load func(context.Context) ([]models.FlashcardSet, error)) ([]models.FlashcardSet, error) {
	if c.ttl <= 0 {
		return load(ctx)
	}
	if sets, ok := c.fresh(key); ok {
		return models.CloneSets(sets), nil
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		if sets, ok := c.fresh(key); ok {
			return sets, nil
		}
		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		sets, err := load(ctx)
		if err != nil {
			return nil, err
		}

		// A listing loaded before an invalidate is returned to its caller
		// but never stored.
		c.mu.Lock()
		if c.gen == gen {
			c.entries[key] = cacheEntry{sets: sets, built: time.Now()}
		}
		c.mu.Unlock()
		return sets, nil
	})
	if err != nil {
		return nil, err
	}
	return models.CloneSets(v.([]models.FlashcardSet)), nil
}

func (c *listCache) invalidate() {
	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.entries = make(map[string]cacheEntry)
	c.gen++
	c.mu.Unlock()

	for _, k := range keys {
		c.sf.Forget(k)
	}
	c.sf.Forget(publicKey)
}
