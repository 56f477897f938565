package middleware

import (
	"math"
	"strconv"
	"time"

	"rental-search/internal/errors"
	"rental-search/internal/services"
	"rental-search/pkg/config"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware admits anonymous callers by client IP under the
// public budget and signed-in callers by user id under the authenticated one.
func RateLimitMiddleware(limiter *services.RateLimiter, cfg config.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetString(ContextUserID); userID != "" {
			admit(c, limiter, services.ScopeAuthenticated, userID, cfg.Authenticated)
			return
		}
		admit(c, limiter, services.ScopePublic, c.ClientIP(), cfg.Public)
	}
}

// StrictRateLimit guards sensitive endpoints with the strict budget.
func StrictRateLimit(limiter *services.RateLimiter, scope config.RateLimitScope) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := c.GetString(ContextUserID)
		if identity == "" {
			identity = c.ClientIP()
		}
		admit(c, limiter, services.ScopeStrict, identity, scope)
	}
}

func admit(c *gin.Context, limiter *services.RateLimiter, scope, identity string, budget config.RateLimitScope) {
	d := limiter.Check(c.Request.Context(), scope, identity, budget.MaxRequests, budget.Window)

	c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	if d.Limited {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(d.RetryAfter, budget.Window)))
		_ = c.Error(errors.RateLimited())
		c.Abort()
		return
	}
	c.Next()
}

// retryAfterSeconds rounds the time left in the window up to whole seconds.
func retryAfterSeconds(left, window time.Duration) int {
	if left <= 0 {
		left = window
	}
	return int(math.Ceil(left.Seconds()))
}
