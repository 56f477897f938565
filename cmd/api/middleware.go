package main

import (
	"time"

	"rental-search/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// configure all middleware for the router
func (a *App) setupMiddleware() {
	a.Router.Use(gin.Recovery())
	a.Router.Use(middleware.RequestID())

	// CORS middleware
	a.Router.Use(setupCORS(a.Config.Server.Env, a.Config.Server.AllowedOrigins))

	// Other middleware
	a.Router.Use(middleware.MetricsMiddleware())
	a.Router.Use(middleware.LoggingMiddleware())
	a.Router.Use(middleware.SecureHeaders(a.Config.Server.Env == "production"))
	a.Router.Use(middleware.ErrorHandler())
	a.Router.Use(middleware.OptionalAuth(a.Config.JWT.Secret))
}

// configure CORS middleware
func setupCORS(env string, allowedOrigins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	if env == "production" && len(allowedOrigins) > 0 {
		corsConfig.AllowAllOrigins = false
		corsConfig.AllowOrigins = allowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}

	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With", middleware.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After", middleware.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour

	return cors.New(corsConfig)
}
