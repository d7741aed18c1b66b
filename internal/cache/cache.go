// Package cache provides a keyed TTL cache with singleflight coalescing.
//
// Keys are "entityType" or "entityType/scopeID" strings. Concurrent loads
// for the same key share a single underlying call; invalidation marks a key
// (or every key under a type prefix) stale so the next load bypasses it.
package cache

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key builds a cache key from an entity type and optional scope ID.
func Key(entityType, scopeID string) string {
	if scopeID == "" {
		return entityType
	}
	return entityType + "/" + scopeID
}

type entry struct {
	value    any
	loadedAt time.Time
	ttl      time.Duration
}

func (e *entry) fresh(now time.Time) bool {
	return now.Sub(e.loadedAt) < e.ttl
}

// Cache is a TTL cache safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	group   singleflight.Group
	now     func() time.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// GetOrLoad returns the cached value for key if present and not stale;
// otherwise it runs load and caches the result for ttl. Concurrent callers
// for the same key share one load call via singleflight. Load errors are
// not cached.
func (c *Cache) GetOrLoad(key string, ttl time.Duration, load func() (any, error)) (any, error) {
	// Fast path: fresh entry.
	c.mu.RLock()
	if e, ok := c.entries[key]; ok && e.fresh(c.now()) {
		v := e.value
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	// Slow path: coalesce concurrent loads per key.
	v, err, _ := c.group.Do(key, func() (any, error) {
		// Double-check after winning the singleflight slot: a concurrent
		// caller may have already populated the entry.
		c.mu.RLock()
		if e, ok := c.entries[key]; ok && e.fresh(c.now()) {
			v := e.value
			c.mu.RUnlock()
			return v, nil
		}
		c.mu.RUnlock()

		value, err := load()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = &entry{value: value, loadedAt: c.now(), ttl: ttl}
		c.mu.Unlock()

		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Peek returns the cached value without loading, and whether it was fresh.
func (c *Cache) Peek(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[key]; ok && e.fresh(c.now()) {
		return e.value, true
	}
	return nil, false
}

// Invalidate drops a single key. The next GetOrLoad on that key bypasses
// any previously cached value regardless of its remaining TTL.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidatePrefix drops the bare type key and every scoped key under it.
func (c *Cache) InvalidatePrefix(entityType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, entityType)
	prefix := entityType + "/"
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

// Clear drops every entry. Used on logout so no stale entity data survives
// into an unauthenticated session.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
}
