package services

import (
	"context"
	"time"

	"rental-search/pkg/cache"
	"rental-search/pkg/logger"
	"rental-search/pkg/metrics"

	"golang.org/x/time/rate"
)

// Rate limit scopes. Each scope keeps its own counters.
const (
	ScopePublic        = "public"
	ScopeAuthenticated = "auth"
	ScopeStrict        = "strict"
)

// RateDecision is the outcome of one admission check.
type RateDecision struct {
	Limited   bool
	Count     int64
	Limit     int
	Remaining int
	// RetryAfter is the time left in the window; set only when Limited.
	RetryAfter time.Duration
	// FailedOpen is set when the store could not be reached and the request was admitted.
	FailedOpen bool
}

// RateLimiter is a fixed-window counter kept in the cache store.
type RateLimiter struct {
	store       cache.Store
	failOpenLog rate.Sometimes
}

func NewRateLimiter(store cache.Store) *RateLimiter {
	return &RateLimiter{
		store:       store,
		failOpenLog: rate.Sometimes{Interval: 30 * time.Second},
	}
}

// Check counts one request for (scope, identity). The first request of a
// window sets the counter's expiry. Store failures admit the request.
func (l *RateLimiter) Check(ctx context.Context, scope, identity string, maxRequests int, window time.Duration) RateDecision {
	key := cache.RateLimitKey(scope, identity)

	count, err := l.store.Increment(ctx, key)
	if err != nil {
		l.failOpen(scope, key, err)
		return RateDecision{Limit: maxRequests, Remaining: maxRequests, FailedOpen: true}
	}
	if count == 1 {
		l.arm(ctx, key, window)
	}

	d := RateDecision{
		Limited: count > int64(maxRequests),
		Count:   count,
		Limit:   maxRequests,
	}
	if d.Limited {
		d.RetryAfter = l.remaining(ctx, key, window)
	} else {
		d.Remaining = maxRequests - int(count)
	}

	outcome := "allowed"
	if d.Limited {
		outcome = "limited"
	}
	metrics.RateLimitDecisionsTotal.WithLabelValues(scope, outcome).Inc()
	return d
}

func (l *RateLimiter) arm(ctx context.Context, key string, window time.Duration) {
	if err := l.store.Expire(ctx, key, window); err != nil {
		logger.GlobalLogger.Errorf("rate limit window not armed: key=%s error=%v", key, err)
	}
}

// remaining reads the time left on a limited counter. A counter whose
// expiry was never set is re-armed so the caller is not limited forever.
func (l *RateLimiter) remaining(ctx context.Context, key string, window time.Duration) time.Duration {
	ttl, err := l.store.TTL(ctx, key)
	if err != nil {
		return window
	}
	if ttl == cache.NoExpiry {
		logger.GlobalLogger.Warnf("rate limit window missing, re-arming: key=%s", key)
		l.arm(ctx, key, window)
		return window
	}
	if ttl <= 0 {
		return window
	}
	return ttl
}

// CheckRateLimit reports whether the caller has exceeded maxRequests in the current window.
func (l *RateLimiter) CheckRateLimit(ctx context.Context, scope, identity string, maxRequests int, window time.Duration) bool {
	return l.Check(ctx, scope, identity, maxRequests, window).Limited
}

func (l *RateLimiter) failOpen(scope, key string, err error) {
	metrics.RateLimitDecisionsTotal.WithLabelValues(scope, "fail_open").Inc()
	l.failOpenLog.Do(func() {
		logger.GlobalLogger.Warnf("rate limiter failing open: key=%s error=%v", key, err)
	})
}
