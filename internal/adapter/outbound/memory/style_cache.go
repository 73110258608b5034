package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mockupstudio/server/internal/port/outbound"
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// styleCache implements outbound.StyleCachePort in process memory.
type styleCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewStyleCache creates a process-local style cache.
func NewStyleCache() outbound.StyleCachePort {
	return &styleCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *styleCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expiresAt) {
		return nil, outbound.ErrCacheMiss
	}
	return e.value, nil
}

func (c *styleCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *styleCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	return nil
}

// Compile-time check
var _ outbound.StyleCachePort = (*styleCache)(nil)
