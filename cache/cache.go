// Package cache provides a process-local response cache with a fixed
// time-to-live. Entries expire lazily: an expired entry behaves exactly
// like a missing one and is only removed when overwritten.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value    T
	storedAt time.Time
}

// Cache is a TTL-bounded key/value store. Values are snapshots; callers
// must not mutate a stored value in place.
type Cache[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry[T]
	now     func() time.Time
}

// New creates a Cache whose entries are served for at most ttl.
func New[T any](ttl time.Duration) *Cache[T] {
	return NewWithClock[T](ttl, time.Now)
}

// NewWithClock creates a Cache with a custom clock (for testing).
func NewWithClock[T any](ttl time.Duration, now func() time.Time) *Cache[T] {
	return &Cache[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
		now:     now,
	}
}

// Get returns the value stored under key if it exists and is younger
// than the TTL. Expired and missing entries are indistinguishable.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Put stores value under key unconditionally, stamping the current time.
// An existing entry for the same key is overwritten.
func (c *Cache[T]) Put(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[T]{value: value, storedAt: c.now()}
}

// Clear removes every entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[T])
}

// Len returns the number of stored entries. Expired entries still count
// until they are overwritten; expiry is checked only at read time.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
