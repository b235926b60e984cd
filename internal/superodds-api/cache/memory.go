package cache

import (
	"context"
	"sync"
	"time"

	"github.com/radieske/superodds-monitor/internal/superodds-api/dto"
)

// MemoryCache mantém as entradas no processo, protegido por RWMutex
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]Entry
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{ttl: ttl, entries: make(map[string]Entry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (Entry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, payload dto.SuperOddsResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Payload: payload, CapturedAt: c.now()}
	return nil
}

func (c *MemoryCache) Sweep(_ context.Context) (int, error) {
	cutoff := c.now().Add(-2 * c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.entries {
		if e.CapturedAt.Before(cutoff) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed, nil
}

// Len retorna o número de entradas (inclusive expiradas ainda não varridas)
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
