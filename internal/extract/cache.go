package extract

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is a concurrent string-keyed store with per-key get-or-compute.
//
// Entries are only ever replaced by key or dropped all at once by ClearAll;
// there is no per-entry eviction. A computation that started before a
// ClearAll returns its value to the caller but does not repopulate the cache.
type Cache[V any] struct {
	mu         sync.RWMutex
	entries    map[string]V
	generation uint64
	group      singleflight.Group
}

// NewCache creates an empty cache
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]V)}
}

// Get returns the cached value for key
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put stores v under key, replacing any previous value
func (c *Cache[V]) Put(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

// GetOrCompute returns the cached value for key, or runs compute once for
// all concurrent callers asking for the same key. Errors are not cached.
func (c *Cache[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	res, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}

		v, err := compute()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.generation == gen {
			c.entries[key] = v
		}
		c.mu.Unlock()

		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	return res.(V), nil
}

// ClearAll drops every entry
func (c *Cache[V]) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]V)
	c.generation++
}

// Len returns the number of cached entries
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
