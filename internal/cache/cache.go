package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the validity window of an upstream payload.
const DefaultTTL = 5 * time.Minute

// Cache keeps values for a fixed window from the moment they were stored.
// Expired entries are treated as absent on read and replaced by the next Put.
type Cache[T any] struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]entry[T]
}

type entry[T any] struct {
	value    T
	storedAt time.Time
}

// New creates an empty cache. A non-positive ttl falls back to DefaultTTL.
func New[T any](ttl time.Duration) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache[T]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[T]),
	}
}

// Get returns the value stored under key if it is still inside the TTL window.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero T
	if !ok {
		return zero, false
	}

	if c.now().Sub(e.storedAt) >= c.ttl {
		return zero, false
	}

	return e.value, true
}

// Put stores value under key, replacing whatever was there.
func (c *Cache[T]) Put(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[T]{value: value, storedAt: c.now()}
}

// TTL returns the configured validity window.
func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}
