package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-search/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// scanBatch is the COUNT hint per SCAN round trip.
const scanBatch = 200

// RedisStore implements Store on top of a Redis client.
type RedisStore struct {
	client CacheClient
}

func NewRedisStore(client CacheClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the raw value for key; any failure reads as a miss.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	start := time.Now()
	val, err := s.client.Get(ctx, key).Bytes()
	RecordOperationDuration("get", start)
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logDegraded("get", key, NewCacheError("get", err, true))
		return nil, false
	}
	return val, true
}

// Set overwrites key unconditionally. Writes without a positive TTL are
// refused and store failures are dropped.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		logger.GlobalLogger.Errorf("refusing cache write: key=%s ttl=%s: %v", key, ttl, ErrInvalidTTL)
		return
	}
	start := time.Now()
	err := s.client.Set(ctx, key, value, ttl).Err()
	RecordOperationDuration("set", start)
	if err != nil {
		logDegraded("set", key, NewCacheError("set", err, true))
	}
}

// Increment atomically bumps the counter at key and returns the new value.
func (s *RedisStore) Increment(ctx context.Context, key string) (int64, error) {
	start := time.Now()
	n, err := s.client.Incr(ctx, key).Result()
	RecordOperationDuration("incr", start)
	if err != nil {
		IncrementError("incr")
		return 0, NewCacheError("incr", err, true)
	}
	return n, nil
}

// Expire sets the TTL of key.
func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("expire %s: %w", key, ErrInvalidTTL)
	}
	start := time.Now()
	err := s.client.Expire(ctx, key, ttl).Err()
	RecordOperationDuration("expire", start)
	if err != nil {
		IncrementError("expire")
		return NewCacheError("expire", err, true)
	}
	return nil
}

// TTL reports the time left on key. A key without an expiry reports
// NoExpiry; a missing key reports 0.
func (s *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	start := time.Now()
	ttl, err := s.client.TTL(ctx, key).Result()
	RecordOperationDuration("ttl", start)
	if err != nil {
		IncrementError("ttl")
		return 0, NewCacheError("ttl", err, true)
	}
	switch {
	case ttl == -1:
		return NoExpiry, nil
	case ttl < 0:
		return 0, nil
	}
	return ttl, nil
}

// ScanAndDelete removes every key matching pattern using cursor-based SCAN
// batches. The pattern is validated before any store call. A store failure
// mid-scan stops the sweep and reports what was deleted so far.
func (s *RedisStore) ScanAndDelete(ctx context.Context, pattern string) (int, error) {
	if err := ValidatePattern(pattern); err != nil {
		return 0, err
	}

	start := time.Now()
	defer RecordOperationDuration("scan_delete", start)

	deleted := 0
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			logDegraded("scan", pattern, NewCacheError("scan", err, true))
			return deleted, nil
		}
		if len(keys) > 0 {
			n, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				logDegraded("del", pattern, NewCacheError("del", err, true))
				return deleted, nil
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	logger.GlobalLogger.Debugf("cache invalidated: pattern=%s deleted=%d", pattern, deleted)
	return deleted, nil
}

// Ping measures a round trip to the store.
func (s *RedisStore) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	err := s.client.Ping(ctx).Err()
	latency := time.Since(start)
	RecordOperationDuration("ping", start)
	if err != nil {
		IncrementError("ping")
		return latency, NewCacheError("ping", err, true)
	}
	return latency, nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
