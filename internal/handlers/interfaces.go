package handlers

import (
	"context"

	"rental-search/internal/models"
)

type Searcher interface {
	Search(ctx context.Context, q models.SearchQuery) (*models.SearchResults, error)
	Featured(ctx context.Context, location *models.Location, limit int) ([]models.Property, error)
	InvalidateListings(ctx context.Context) (int, error)
}

type Suggester interface {
	GetSuggestions(ctx context.Context, query string, location *models.Location, limit int) models.SuggestionsResponse
	InvalidateSuggestions(ctx context.Context) (int, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) models.HealthReport
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) (int, error)
}
