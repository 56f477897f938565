package cache

import (
	"context"
	"encoding/json"
	"time"

	"rental-search/pkg/logger"
)

// GetJSON decodes the value at key into dest. Undecodable entries count as misses.
func GetJSON(ctx context.Context, store Store, key string, dest interface{}) bool {
	data, ok := store.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		IncrementError("get_unmarshal")
		logger.GlobalLogger.Errorf("failed to unmarshal value for key %s: %v", key, err)
		return false
	}
	return true
}

// SetJSON encodes value and stores it under key for ttl.
func SetJSON(ctx context.Context, store Store, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		IncrementError("set_marshal")
		logger.GlobalLogger.Errorf("failed to marshal value for key %s: %v", key, err)
		return
	}
	store.Set(ctx, key, data, ttl)
}
