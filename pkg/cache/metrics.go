package cache

import (
	"time"

	"rental-search/pkg/logger"
	"rental-search/pkg/metrics"

	"golang.org/x/time/rate"
)

// one degraded-store warning per interval; the error counter still sees every failure.
var degradedLog = rate.Sometimes{Interval: 30 * time.Second}

// record the duration of a Redis operation with the given label.
func RecordOperationDuration(label string, start time.Time) {
	metrics.RedisOperationDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
}

// increment the error counter for a Redis operation with the given label.
func IncrementError(label string) {
	metrics.RedisErrorsTotal.WithLabelValues(label).Inc()
}

// RecordHit and RecordMiss count lookups per logical cache (search, suggestions, ...).
func RecordHit(cacheName string) {
	metrics.CacheHitsTotal.WithLabelValues(cacheName).Inc()
}

func RecordMiss(cacheName string) {
	metrics.CacheMissesTotal.WithLabelValues(cacheName).Inc()
}

func logDegraded(operation, key string, err error) {
	IncrementError(operation)
	degradedLog.Do(func() {
		logger.GlobalLogger.Warnf("cache degraded, continuing without it: operation=%s key=%s error=%v", operation, key, err)
	})
}
