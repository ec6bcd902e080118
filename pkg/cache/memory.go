package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryCache is an in-process Cache with per-entry expiry.
//
// Expired entries are dropped lazily on Get and swept opportunistically on
// Put, so no background goroutine is needed. Suitable for single-instance
// deployments; use RedisCache to share results across instances.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	entry     Entry
	expiresAt time.Time
}

// NewMemoryCache creates an in-memory cache. A ttl of 0 means entries never
// expire; this is fine because the dataset never changes within a process
// lifetime.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Get returns the cached entry for key, if present and not expired.
func (c *MemoryCache) Get(ctx context.Context, key string) (Entry, bool, error) {
	select {
	case <-ctx.Done():
		return Entry{}, false, ctx.Err()
	default:
	}

	c.mu.RLock()
	e, found := c.entries[key]
	c.mu.RUnlock()

	if !found {
		return Entry{}, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return Entry{}, false, nil
	}
	return e.entry, true, nil
}

// Put stores an entry, replacing any existing one for the same key.
func (c *MemoryCache) Put(ctx context.Context, key string, entry Entry) error {
	if key == "" {
		return errors.New("cache key cannot be empty")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}

	c.mu.Lock()
	c.sweepLocked()
	c.entries[key] = memoryEntry{entry: entry, expiresAt: expiresAt}
	c.mu.Unlock()

	return nil
}

// sweepLocked removes expired entries. Caller must hold the write lock.
func (c *MemoryCache) sweepLocked() {
	if c.ttl == 0 {
		return
	}
	now := time.Now()
	for key, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of cached entries, including any not yet swept.
// Primarily useful for tests.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
