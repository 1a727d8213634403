package repository

import (
	"context"
	"sync"
)

// Cache is a read-through cache keyed by entity identity. Entries live until the
// caller invalidates them; there is no expiry.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]V
	gens    map[K]uint64
	epoch   uint64
}

// NewCache creates an empty cache.
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{entries: make(map[K]V), gens: make(map[K]uint64)}
}

// Get returns the cached value for key, calling load on a miss. Load errors are
// returned as-is and nothing is cached. A load that overlaps an invalidation of
// its key is returned to the caller but not stored.
func (c *Cache[K, V]) Get(ctx context.Context, key K, load func(context.Context) (V, error)) (V, error) {
	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	gen, epoch := c.gens[key], c.epoch
	c.mu.Unlock()

	v, err := load(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	if c.gens[key] == gen && c.epoch == epoch {
		c.entries[key] = v
	}
	c.mu.Unlock()
	return v, nil
}

// Invalidate drops a single key.
func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gens[key]++
	c.mu.Unlock()
}

// InvalidateAll drops every key.
func (c *Cache[K, V]) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[K]V)
	c.epoch++
	c.mu.Unlock()
}
