package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is the expiry applied by Set when no explicit TTL is given.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a typed key-value wrapper over redis. It carries no business
// logic: keys are passed through verbatim and values go through the codec.
type Cache[T any] struct {
	rdb        redis.UniversalClient
	codec      Codec[T]
	defaultTTL time.Duration
}

func New[T any](rdb redis.UniversalClient, codec Codec[T], defaultTTL time.Duration) *Cache[T] {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache[T]{
		rdb:        rdb,
		codec:      codec,
		defaultTTL: defaultTTL,
	}
}

// Set writes the value under key with the default TTL. Values that encode to
// an empty payload are skipped.
func (c *Cache[T]) Set(ctx context.Context, key string, value T) error {
	return c.SetWithTTL(ctx, key, value, c.defaultTTL)
}

// SetWithTTL writes the value with an explicit expiry; ttl <= 0 means the key
// does not expire.
func (c *Cache[T]) SetWithTTL(ctx context.Context, key string, value T, ttl time.Duration) error {
	data, err := c.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("set cache key %q: %w", key, err)
	}
	return nil
}

// Get reads the value under key. The second return is false when the key is
// missing, expired, or holds an empty payload.
func (c *Cache[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("get cache key %q: %w", key, err)
	}
	if len(data) == 0 {
		return zero, false, nil
	}

	value, err := c.codec.Decode(data)
	if err != nil {
		return zero, false, fmt.Errorf("decode cache value for %q: %w", key, err)
	}
	return value, true, nil
}

// Has reports whether the key exists.
func (c *Cache[T]) Has(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check cache key %q: %w", key, err)
	}
	return n > 0, nil
}

// Delete removes the key, reporting whether it existed.
func (c *Cache[T]) Delete(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("delete cache key %q: %w", key, err)
	}
	return n > 0, nil
}

// Expire sets a new TTL on the key, reporting whether the key existed.
func (c *Cache[T]) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.Expire(ctx, key, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("expire cache key %q: %w", key, err)
	}
	return ok, nil
}

// Keys returns an iterator over keys matching pattern ("*" for all). The
// iterator pages through SCAN, so large key spaces can be consumed
// incrementally; ordering is unspecified.
func (c *Cache[T]) Keys(ctx context.Context, pattern string) *redis.ScanIterator {
	if pattern == "" {
		pattern = "*"
	}
	return c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
}
