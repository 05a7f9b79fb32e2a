// Package cache provides a small in-memory TTL cache used to avoid
// hammering the upstream catalog service from the public products
// endpoint. Chat sessions bypass it: a product intent always refetches.
package cache

import (
	"sync"
	"time"
)

// entry holds a cached value with its expiry deadline
type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Cache is a generic TTL cache safe for concurrent use
type Cache[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
}

// New creates an empty cache
func New[T any]() *Cache[T] {
	return &Cache[T]{items: make(map[string]entry[T])}
}

// Get retrieves a value if present and not expired
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		var zero T
		return zero, false
	}

	if time.Now().After(item.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		var zero T
		return zero, false
	}

	return item.value, true
}

// Set stores a value with the given TTL
func (c *Cache[T]) Set(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[T]{value: value, expiresAt: time.Now().Add(ttl)}
}

// Delete removes a single key
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes all items
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry[T])
}
