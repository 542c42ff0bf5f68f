package cache

import (
	"context"
	"sync"
	"time"
)

// cacheEntry holds a cached value with its timestamp.
type cacheEntry struct {
	value     string
	timestamp time.Time
}

// InMemoryCache is a thread-safe in-memory cache with TTL support.
type InMemoryCache struct {
	cache  map[string]cacheEntry
	mu     sync.RWMutex
	ttl    time.Duration
	now    func() time.Time
	hits   int64
	misses int64
}

// Stats reports cache effectiveness for a run.
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// NewInMemoryCache creates a new in-memory cache with the specified TTL.
// If ttlSeconds is 0 or negative, entries never expire.
func NewInMemoryCache(ttlSeconds int) *InMemoryCache {
	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return &InMemoryCache{
		cache: make(map[string]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a value from the cache.
// Returns the value and true if found and not expired, empty string and false otherwise.
func (c *InMemoryCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.cache[key]
	if ok && c.expired(entry) {
		delete(c.cache, key)
		ok = false
	}
	if !ok {
		c.misses++
		return "", false
	}

	c.hits++
	return entry.value, true
}

// Set stores a value in the cache.
func (c *InMemoryCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = cacheEntry{
		value:     value,
		timestamp: c.now(),
	}
	return nil
}

// Delete removes a single entry.
func (c *InMemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, key)
}

// Len returns the number of entries in the cache (including expired ones).
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Clear removes all entries from the cache and resets the counters.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cacheEntry)
	c.hits, c.misses = 0, 0
}

// Stats returns the hit and miss counters.
func (c *InMemoryCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Entries: len(c.cache), Hits: c.hits, Misses: c.misses}
}

// Entries returns all non-expired entries as key-value pairs.
func (c *InMemoryCache) Entries() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]string, len(c.cache))
	for key, entry := range c.cache {
		if c.expired(entry) {
			continue
		}
		result[key] = entry.value
	}

	return result
}

// ListEntries implements Enumerable.
func (c *InMemoryCache) ListEntries(ctx context.Context) (map[string]string, error) {
	return c.Entries(), ctx.Err()
}

// expired must be called with c.mu held.
func (c *InMemoryCache) expired(entry cacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(entry.timestamp) > c.ttl
}

var _ Enumerable = (*InMemoryCache)(nil)
