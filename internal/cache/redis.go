package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cosmic-blueprint/internal/domain"
)

// RedisCache is a Redis-backed BlueprintCache. Entries expire after ttl.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Compile-time interface check.
var _ BlueprintCache = (*RedisCache)(nil)

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Connect parses a redis:// URL, pings the server and returns a RedisCache.
func Connect(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewRedisCache(client, ttl), nil
}

// Get returns the cached Blueprint of a fingerprint.
func (c *RedisCache) Get(ctx context.Context, fingerprint string) (*domain.Blueprint, bool, error) {
	data, err := c.client.Get(ctx, Key(fingerprint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var bp domain.Blueprint
	if err := json.Unmarshal(data, &bp); err != nil {
		return nil, false, fmt.Errorf("decode cached blueprint: %w", err)
	}
	return &bp, true, nil
}

// Set stores a Blueprint with the cache TTL.
func (c *RedisCache) Set(ctx context.Context, fingerprint string, bp *domain.Blueprint) error {
	data, err := json.Marshal(bp)
	if err != nil {
		return fmt.Errorf("encode blueprint: %w", err)
	}
	if err := c.client.Set(ctx, Key(fingerprint), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Health checks if the Redis connection is healthy.
func (c *RedisCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
