package middleware

import (
	"net/http"
	"time"

	"rental-search/pkg/logger"

	"github.com/gin-gonic/gin"
)

// LoggingMiddleware writes one access line per request. Server errors log
// at ERROR, client errors at WARN, everything else at INFO.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		line := "method=%s path=%s status=%d latency=%s bytes=%d client_ip=%s user_id=%s request_id=%s"
		args := []interface{}{
			c.Request.Method, path, status, time.Since(start), max(c.Writer.Size(), 0),
			c.ClientIP(), c.GetString(ContextUserID), c.GetString(ContextRequestID),
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.GlobalLogger.Errorf(line, args...)
		case status >= http.StatusBadRequest:
			logger.GlobalLogger.Warnf(line, args...)
		default:
			logger.GlobalLogger.Printf(line, args...)
		}
	}
}
