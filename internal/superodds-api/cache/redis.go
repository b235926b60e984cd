package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/superodds-monitor/internal/superodds-api/dto"
)

// RedisCache guarda as entradas em JSON com expiração de 2×TTL,
// permitindo que várias réplicas da API compartilhem o cache
type RedisCache struct {
	r   *redis.Client
	ttl time.Duration
	now func() time.Time
}

func NewRedisCache(r *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{r: r, ttl: ttl, now: time.Now}
}

func key(url string) string { return "superodds:cache:" + url }

func (c *RedisCache) Get(ctx context.Context, url string) (Entry, bool, error) {
	b, err := c.r.Get(ctx, key(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (c *RedisCache) Set(ctx context.Context, url string, payload dto.SuperOddsResponse) error {
	b, err := json.Marshal(Entry{Payload: payload, CapturedAt: c.now()})
	if err != nil {
		return err
	}
	return c.r.Set(ctx, key(url), b, 2*c.ttl).Err()
}

// Sweep não faz nada: a expiração do Redis já remove as entradas antigas
func (c *RedisCache) Sweep(context.Context) (int, error) { return 0, nil }
