package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/superodds-monitor/pkg/contracts/events"
)

// DefaultTTL mantém o último snapshot por um dia sem novas capturas
const DefaultTTL = 24 * time.Hour

// RedisStore guarda o último snapshot processado de cada URL
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(c *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{Client: c, TTL: ttl}
}

// Key gera a chave Redis do último snapshot de uma URL
func Key(url string) string { return "superodds:last:" + url }

// Last devolve o último snapshot da URL; ok=false quando ainda não existe
func (r *RedisStore) Last(ctx context.Context, url string) (events.SuperOddsSnapshot, bool, error) {
	var s events.SuperOddsSnapshot
	b, err := r.Client.Get(ctx, Key(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return s, false, nil
	}
	if err != nil {
		return s, false, err
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, false, err
	}
	return s, true, nil
}

// Save substitui o último snapshot da URL, renovando o TTL
func (r *RedisStore) Save(ctx context.Context, s events.SuperOddsSnapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, Key(s.URL), b, r.TTL).Err()
}
