package main

import (
	"net/http"

	"rental-search/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all routes
func (a *App) setupRoutes() {
	a.setupOperationalRoutes()
	a.setupAPIRoutes()
}

// setupOperationalRoutes exposes health and metrics outside the rate limiter
func (a *App) setupOperationalRoutes() {
	a.Router.GET("/health", a.HealthHandler.Health)
	a.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	a.Router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Not found", "code": "NOT_FOUND"}})
	})
}

// setupAPIRoutes configures API routes
func (a *App) setupAPIRoutes() {
	limits := a.Config.RateLimit

	api := a.Router.Group("/api")
	api.Use(middleware.RateLimitMiddleware(a.RateLimiter, limits))
	{
		api.GET("/search", a.SearchHandler.Search)
		api.POST("/search", a.SearchHandler.SearchPost)
		api.GET("/search/suggestions", a.SuggestionHandler.GetSuggestions)
		api.GET("/properties/featured", a.SearchHandler.Featured)

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin(), middleware.StrictRateLimit(a.RateLimiter, limits.Strict))
		{
			admin.POST("/cache/invalidate", a.AdminHandler.InvalidatePattern)
			admin.DELETE("/cache/listings", a.AdminHandler.InvalidateListings)
			admin.DELETE("/cache/suggestions", a.AdminHandler.InvalidateSuggestions)
		}
	}
}
