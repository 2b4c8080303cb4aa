package cache

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Environment variables read by [RedisOptionsFromEnv].
const (
	EnvRedisAddr     = "GEOGRAPH_REDIS_ADDR"
	EnvRedisPassword = "GEOGRAPH_REDIS_PASSWORD"
	EnvRedisDB       = "GEOGRAPH_REDIS_DB"
)

// RedisCache stores entries in Redis. Transient connection failures are
// retried with backoff.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// RedisOptionsFromEnv reads the connection settings from the environment.
// It returns nil when no address is configured.
func RedisOptionsFromEnv() *redis.Options {
	addr := os.Getenv(EnvRedisAddr)
	if addr == "" {
		return nil
	}
	db := 0
	if v := os.Getenv(EnvRedisDB); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			db = n
		}
	}
	return &redis.Options{Addr: addr, Password: os.Getenv(EnvRedisPassword), DB: db}
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, opts *redis.Options) (*RedisCache, error) {
	c := NewRedisCache(redis.NewClient(opts))
	if err := c.client.Ping(ctx).Err(); err != nil {
		_ = c.client.Close()
		return nil, err
	}
	return c, nil
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		if err != nil {
			return Retryable(err)
		}
		data = b
		return nil
	})
	if errors.Is(err, ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value in Redis. A zero ttl never expires.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, func() error {
		return Retryable(c.client.Set(ctx, key, data, ttl).Err())
	})
}

// Delete removes a key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Close closes the client connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
