package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RedisCache stores cache entries in Redis so warm state survives restarts
// and is shared across replicas. Backend failures degrade to cache misses.
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache creates a RedisCache and pings the server.
func NewRedisCache(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCache{rdb: rdb}, nil
}

// Compile-time interface check.
var _ Cache = (*RedisCache)(nil)

// Close shuts down the Redis client.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// Get returns the cached value for key. Any backend error, including an
// unparseable stored value, reads as a miss.
func (c *RedisCache) Get(ctx context.Context, key string) (decimal.Decimal, bool) {
	raw, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Put stores value under key with the given TTL. Write failures are ignored;
// the next Get simply misses.
func (c *RedisCache) Put(ctx context.Context, key string, value decimal.Decimal, ttl time.Duration) {
	c.rdb.Set(ctx, key, value.String(), ttl)
}
