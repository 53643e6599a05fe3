package cache

import (
	"context"
	"sync"
	"time"

	"cosmic-blueprint/internal/domain"
)

type memoryEntry struct {
	bp      *domain.Blueprint
	expires time.Time
}

// MemoryCache is an in-process BlueprintCache with TTL expiry.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// Compile-time interface check.
var _ BlueprintCache = (*MemoryCache)(nil)

// NewMemoryCache creates an empty cache.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock sets a custom clock function for expiry tests.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

// Get returns a copy of the cached Blueprint. Expired entries are misses.
func (c *MemoryCache) Get(_ context.Context, fingerprint string) (*domain.Blueprint, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[Key(fingerprint)]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expires) {
		c.mu.Lock()
		// A concurrent Set may have replaced the entry since RUnlock.
		if cur, ok := c.entries[Key(fingerprint)]; ok && !c.now().Before(cur.expires) {
			delete(c.entries, Key(fingerprint))
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.bp.Clone(), true, nil
}

// Set stores a copy of bp.
func (c *MemoryCache) Set(_ context.Context, fingerprint string, bp *domain.Blueprint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[Key(fingerprint)] = memoryEntry{bp: bp.Clone(), expires: c.now().Add(c.ttl)}
	return nil
}

// Len returns the number of entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
