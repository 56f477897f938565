package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// interface for the Redis commands the store issues. *redis.Client satisfies it.
type CacheClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// NoExpiry is the TTL reported for a key that exists without an expiry.
const NoExpiry time.Duration = -1

// Store is the key-value contract every cache consumer depends on.
//
// Get and Set never surface connectivity failures: a failed read is a miss
// and a failed write is dropped. Increment, Expire and TTL return errors so
// the rate limiter can decide to fail open. ScanAndDelete only surfaces
// ErrInvalidPattern.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
	ScanAndDelete(ctx context.Context, pattern string) (int, error)
	Ping(ctx context.Context) (time.Duration, error)
}
