package cache

import (
	"context"
	"sync"
	"time"
)

// CacheEntry represents a cached URL with expiration
type CacheEntry struct {
	URL        string
	ExpiryTime time.Time
}

// MemoryURLCache provides thread-safe in-process URL caching
type MemoryURLCache struct {
	cache map[string]CacheEntry
	mutex sync.RWMutex
	now   func() time.Time
}

// NewMemoryURLCache creates a new URL cache instance
func NewMemoryURLCache() *MemoryURLCache {
	return &MemoryURLCache{
		cache: make(map[string]CacheEntry),
		now:   time.Now,
	}
}

// Get retrieves a URL from cache if not expired
func (c *MemoryURLCache) Get(_ context.Context, key string) (string, bool) {
	c.mutex.RLock()
	entry, found := c.cache[key]
	c.mutex.RUnlock()

	if found && c.now().Before(entry.ExpiryTime) {
		return entry.URL, true
	}

	return "", false
}

// Set stores a URL in cache for ttl
func (c *MemoryURLCache) Set(_ context.Context, key, url string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mutex.Lock()
	c.cache[key] = CacheEntry{
		URL:        url,
		ExpiryTime: c.now().Add(ttl),
	}
	c.mutex.Unlock()
}

func (c *MemoryURLCache) Delete(_ context.Context, key string) {
	c.mutex.Lock()
	delete(c.cache, key)
	c.mutex.Unlock()
}

// Clear removes expired entries from cache
func (c *MemoryURLCache) Clear() {
	now := c.now()
	c.mutex.Lock()
	for key, entry := range c.cache {
		if now.After(entry.ExpiryTime) {
			delete(c.cache, key)
		}
	}
	c.mutex.Unlock()
}

// StartJanitor clears expired entries every interval until ctx is done.
func (c *MemoryURLCache) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Clear()
			}
		}
	}()
}
