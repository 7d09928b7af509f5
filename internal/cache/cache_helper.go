package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheNotAvailable = errors.New("cache not available")
	ErrCacheNotFound     = errors.New("cache not found")
)

// CacheConfig defines cache configuration for different data types
type CacheConfig struct {
	TTL    time.Duration
	Prefix string
}

// AnalyticsCacheConfig holds the placement report between writes.
var AnalyticsCacheConfig = CacheConfig{
	TTL:    5 * time.Minute,
	Prefix: "analytics:",
}

// CacheHelper provides JSON get/set over Redis. A nil helper, or one
// without a client, behaves as an always-empty cache.
type CacheHelper struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCacheHelper creates a new cache helper instance
func NewCacheHelper(client *redis.Client, config CacheConfig) *CacheHelper {
	return &CacheHelper{
		client: client,
		prefix: config.Prefix,
		ttl:    config.TTL,
	}
}

func (c *CacheHelper) available() bool {
	return c != nil && c.client != nil
}

// GetCacheKey generates a cache key with prefix
func (c *CacheHelper) GetCacheKey(key string) string {
	return fmt.Sprintf("%s%s", c.prefix, key)
}

// Get retrieves and unmarshals data from cache
func (c *CacheHelper) Get(ctx context.Context, key string, dest interface{}) error {
	if !c.available() {
		return ErrCacheNotAvailable
	}

	data, err := c.client.Get(ctx, c.GetCacheKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheNotFound
		}
		return fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}
	return nil
}

// Set marshals and stores data with the helper's TTL
func (c *CacheHelper) Set(ctx context.Context, key string, value interface{}) error {
	if !c.available() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	return c.client.Set(ctx, c.GetCacheKey(key), data, c.ttl).Err()
}

// Delete removes keys from cache
func (c *CacheHelper) Delete(ctx context.Context, keys ...string) error {
	if !c.available() || len(keys) == 0 {
		return nil
	}

	cacheKeys := make([]string, len(keys))
	for i, key := range keys {
		cacheKeys[i] = c.GetCacheKey(key)
	}
	return c.client.Del(ctx, cacheKeys...).Err()
}

// Generation returns how many times key has been invalidated.
func (c *CacheHelper) Generation(ctx context.Context, key string) (int64, error) {
	if !c.available() {
		return 0, ErrCacheNotAvailable
	}

	gen, err := c.client.Get(ctx, c.generationKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache generation error: %w", err)
	}
	return gen, nil
}

// Invalidate bumps the generation of key. Values stored under an older
// generation, including ones written later by fetches already in flight,
// are never read again.
func (c *CacheHelper) Invalidate(ctx context.Context, key string) error {
	if !c.available() {
		return nil
	}

	gen, err := c.client.Incr(ctx, c.generationKey(key)).Result()
	if err != nil {
		return fmt.Errorf("cache invalidate error: %w", err)
	}
	return c.Delete(ctx, versionedKey(key, gen-1))
}

func (c *CacheHelper) generationKey(key string) string {
	return c.GetCacheKey(key + ":gen")
}

func versionedKey(key string, gen int64) string {
	return fmt.Sprintf("%s:%d", key, gen)
}

// CacheOrExecute returns the value cached for the current generation of key,
// or runs fetch and caches its result under the generation read before the
// fetch started. Cache failures never fail the call.
func CacheOrExecute[T any](ctx context.Context, c *CacheHelper, key string, fetch func() (T, error)) (T, error) {
	gen, err := c.Generation(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheNotAvailable) {
			slog.WarnContext(ctx, "Cache read failed, querying source", "error", err, "key", key)
		}
		return fetch()
	}
	versioned := versionedKey(key, gen)

	var cached T
	err = c.Get(ctx, versioned, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheNotFound) {
		slog.WarnContext(ctx, "Cache read failed, querying source", "error", err, "key", versioned)
	}

	result, err := fetch()
	if err != nil {
		return result, err
	}

	if err := c.Set(ctx, versioned, result); err != nil {
		slog.WarnContext(ctx, "Cache set error", "error", err, "key", versioned)
	}
	return result, nil
}
