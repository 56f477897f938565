package middleware

import (
	"strings"

	"rental-search/internal/auth"
	apperrors "rental-search/internal/errors"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	ContextClaims = "claims"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", true
	}
	return parts[1], true
}

// OptionalAuth attaches the caller's claims when a bearer token is sent.
// Anonymous requests pass through; a bad token is rejected.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if !present {
			c.Next()
			return
		}

		claims, err := auth.ValidateJWT(token, secret)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RequireAdmin admits only callers whose claims carry the admin role.
// It expects OptionalAuth earlier in the chain.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextClaims)
		if !exists {
			_ = c.Error(auth.ErrInvalidToken)
			c.Abort()
			return
		}
		claims, _ := value.(*auth.Claims)
		if !claims.IsAdmin() {
			_ = c.Error(apperrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
