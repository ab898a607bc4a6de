package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cachedIndex is a reservation index with its build time.
type cachedIndex struct {
	index *ReservationIndex
	built time.Time
}

// IndexCache holds reservation indices keyed by source, so that repeated runs
// against the same journey log skip reading and normalizing it again.
type IndexCache struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]cachedIndex
	sf      singleflight.Group
	now     func() time.Time
}

// LoadFunc reads the reservation records of a source.
type LoadFunc func(ctx context.Context) ([]ReservationRecord, error)

// NewIndexCache returns a cache whose entries live for ttl. A zero ttl disables
// caching: every call loads and indexes again.
func NewIndexCache(ttl time.Duration) *IndexCache {
	return &IndexCache{
		ttl:     ttl,
		entries: make(map[string]cachedIndex),
		now:     time.Now,
	}
}

func (c *IndexCache) fresh(key string) (*ReservationIndex, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.ttl <= 0 || c.now().Sub(entry.built) > c.ttl {
		return nil, false
	}
	return entry.index, true
}

// GetOrBuild returns the index cached under key, or loads and indexes it.
// Concurrent misses on the same key share one load.
func (c *IndexCache) GetOrBuild(ctx context.Context, key string, policy Policy, load LoadFunc) (*ReservationIndex, error) {
	cacheKey := string(policy) + "|" + key

	if idx, ok := c.fresh(cacheKey); ok {
		return idx, nil
	}

	result, err, _ := c.sf.Do(cacheKey, func() (any, error) {
		if idx, ok := c.fresh(cacheKey); ok {
			return idx, nil
		}

		records, err := load(ctx)
		if err != nil {
			return nil, err
		}
		idx := IndexReservations(records, policy)

		if c.ttl > 0 {
			c.mu.Lock()
			c.entries[cacheKey] = cachedIndex{index: idx, built: c.now()}
			c.mu.Unlock()
		}
		return idx, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*ReservationIndex), nil
}
