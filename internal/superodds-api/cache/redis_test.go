package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/radieske/superodds-monitor/internal/superodds-api/dto"
	"github.com/radieske/superodds-monitor/pkg/models"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisCacheGetSet(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()
	c := NewRedisCache(rdb, 30*time.Second)
	captured := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return captured }

	payload := dto.SuperOddsResponse{
		URL:       "https://a",
		TotalOdds: 1,
		Odds:      []models.OddRecord{{OddValue: 2.5, Market: "Resultado Final"}},
		Status:    models.StatusFound,
	}
	if err := c.Set(ctx, "https://a", payload); err != nil {
		t.Fatalf("set: %v", err)
	}

	e, ok, err := c.Get(ctx, "https://a")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if !e.CapturedAt.Equal(captured) {
		t.Errorf("capturedAt = %v", e.CapturedAt)
	}
	if e.Payload.TotalOdds != 1 || e.Payload.Odds[0].OddValue != 2.5 {
		t.Errorf("unexpected payload %+v", e.Payload)
	}
}

func TestRedisCacheMiss(t *testing.T) {
	_, rdb := newTestRedis(t)
	c := NewRedisCache(rdb, 30*time.Second)

	_, ok, err := c.Get(context.Background(), "https://nada")
	if ok || err != nil {
		t.Errorf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestRedisCacheExpiresAfterTwiceTTL(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()
	c := NewRedisCache(rdb, 30*time.Second)

	if err := c.Set(ctx, "https://a", dto.SuperOddsResponse{URL: "https://a"}); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL("superodds:cache:https://a"); ttl != time.Minute {
		t.Errorf("redis ttl = %v, want 1m", ttl)
	}

	mr.FastForward(59 * time.Second)
	if _, ok, _ := c.Get(ctx, "https://a"); !ok {
		t.Error("entry should still exist before 2×TTL")
	}
	mr.FastForward(2 * time.Second)
	if _, ok, _ := c.Get(ctx, "https://a"); ok {
		t.Error("entry should expire after 2×TTL")
	}
}

func TestRedisCacheCorruptEntry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	c := NewRedisCache(rdb, 30*time.Second)
	if err := mr.Set("superodds:cache:https://a", "{quebrado"); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := c.Get(context.Background(), "https://a"); err == nil || ok {
		t.Errorf("expected decode error, got ok=%v err=%v", ok, err)
	}
}

func TestRedisCacheSweepIsNoop(t *testing.T) {
	_, rdb := newTestRedis(t)
	n, err := NewRedisCache(rdb, 0).Sweep(context.Background())
	if n != 0 || err != nil {
		t.Errorf("sweep = %d, %v", n, err)
	}
}
