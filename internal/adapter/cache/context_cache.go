package cache

import (
	"sync"
	"time"
)

// ContextCache is an in-memory TTL cache keyed by string. It fronts the
// vector search service (world-info activation results) and the token
// counter. Entries carry their own absolute expiry computed at set time;
// expired entries are evicted lazily on read and by a periodic sweep.
//
// Process-local only: nothing is shared across instances or persisted.
type ContextCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry

	defaultTTL time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// NewContextCache creates a cache with the given default TTL and starts a
// background sweep at sweepInterval. Call Stop to terminate the sweep.
func NewContextCache(defaultTTL, sweepInterval time.Duration) *ContextCache {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}

	c := &ContextCache{
		entries:    make(map[string]cacheEntry),
		defaultTTL: defaultTTL,
		stop:       make(chan struct{}),
	}

	go c.sweepLoop(sweepInterval)

	return c
}

// Get returns the value for key. Absent both when never set and when
// expired; an expired entry is evicted on read.
func (c *ContextCache) Get(key string) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if cur, ok := c.entries[key]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.value, true
}

// Set stores value under key with the default TTL. Last write wins.
func (c *ContextCache) Set(key string, value any) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL.
func (c *ContextCache) SetTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

// Delete removes a single key.
func (c *ContextCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes all entries.
func (c *ContextCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of entries, including any not yet swept.
func (c *ContextCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stop terminates the background sweep goroutine. Safe to call twice.
func (c *ContextCache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *ContextCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}

// sweep evicts expired entries so values that are set but never read again
// do not accumulate.
func (c *ContextCache) sweep() {
	now := time.Now()
	c.mu.Lock()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}
