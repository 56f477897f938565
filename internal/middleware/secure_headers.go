package middleware

import (
	"github.com/gin-gonic/gin"
)

// apiHeaders suit a JSON-only API: nothing may be framed, sniffed or embedded.
var apiHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"Referrer-Policy":         "no-referrer",
	"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
}

// SecureHeaders sets the API security headers. HSTS is only sent when the
// service is deployed behind TLS.
func SecureHeaders(tlsDeployed bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		for name, value := range apiHeaders {
			c.Header(name, value)
		}
		if tlsDeployed {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
