// Package cache stores fetched price bars in Redis between runs.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"PortfolioSentinel/internal/model"
)

// Store keeps bar series keyed by symbol and day.
type Store interface {
	GetBars(ctx context.Context, key string) ([]model.PriceBar, bool, error)
	SetBars(ctx context.Context, key string, bars []model.PriceBar, ttl time.Duration) error
}

// BarsKey builds the cache key for a symbol's daily bars as of a date.
func BarsKey(provider, symbol string, days int, asOf time.Time) string {
	return fmt.Sprintf("bars:%s:%s:%d:%s", provider, symbol, days, asOf.UTC().Format("2006-01-02"))
}

// RedisStore is a Store backed by Redis.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisStore connects to addr and pings it.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisStore{client: client, prefix: "sentinel:"}, nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) GetBars(ctx context.Context, key string) ([]model.PriceBar, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var bars []model.PriceBar
	if err := json.Unmarshal(val, &bars); err != nil {
		return nil, false, fmt.Errorf("decode cached bars: %w", err)
	}
	return bars, true, nil
}

func (s *RedisStore) SetBars(ctx context.Context, key string, bars []model.PriceBar, ttl time.Duration) error {
	data, err := json.Marshal(bars)
	if err != nil {
		return fmt.Errorf("encode bars: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+key, string(data), ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
