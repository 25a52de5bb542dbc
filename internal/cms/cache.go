package cms

import (
	"sync"
	"time"
)

// cacheEntry pairs a cached value with its expiry.
type cacheEntry struct {
	value   any
	expires time.Time
}

// Cache is an explicit TTL cache for resolved pages and named content, keyed
// by slug or content key. Entries expire passively after the revalidation
// window; InvalidateAll flushes eagerly after writes.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     func() time.Duration
	now     func() time.Time
}

// NewCache constructs a cache whose TTL is re-read on every Set so setting
// changes take effect without a restart.
func NewCache(ttl func() time.Duration) *Cache {
	if ttl == nil {
		ttl = func() time.Duration { return time.Minute }
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key when present and unexpired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expires) {
		return nil, false
	}
	return entry.value, true
}

// Set stores a value under key with the current TTL.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expires: c.now().Add(c.ttl())}
	c.mu.Unlock()
}

// Invalidate removes a single key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateAll flushes every entry. Content-to-page dependencies are not
// tracked, so writes invalidate broadly.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len reports the number of live entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
