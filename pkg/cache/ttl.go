package cache

import (
	"sync"
	"time"
)

// Cache is an in-memory key/value store with a fixed time-to-live per
// instance. Expiry is lazy: an entry older than the TTL is deleted on the
// read that observes it, there is no background sweep. One instance holds
// exactly one (key type, value type, TTL) combination; callers needing
// different TTLs per data kind create one cache per kind.
//
// Safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]entry[V]
	ttl     time.Duration
	now     func() time.Time
}

type entry[V any] struct {
	value     V
	writtenAt time.Time
}

// Option configures a Cache.
type Option[K comparable, V any] func(*Cache[K, V])

// WithClock overrides the time source. Used by tests to make expiry
// deterministic.
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.now = now
	}
}

// New creates a cache whose entries expire ttl after they were written.
func New[K comparable, V any](ttl time.Duration, opts ...Option[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the stored value for key, or reports absence. An entry whose
// age exceeds the TTL is evicted as a side effect of the read.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	age := c.now().Sub(e.writtenAt)
	if age > c.ttl {
		delete(c.entries, key)
		return zero, false
	}

	return e.value, true
}

// Put stores value under key, overwriting any existing entry and resetting
// its timestamp.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, writtenAt: c.now()}
}

// Remove deletes the entry for key, if present.
func (c *Cache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]entry[V])
}

// Len returns the number of stored entries, including entries that have
// expired but not yet been evicted by a read.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
