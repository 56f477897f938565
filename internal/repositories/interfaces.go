package repositories

import (
	"context"
	"errors"

	"rental-search/internal/models"
)

// ErrRepositoryUnavailable wraps every backend failure or timeout.
var ErrRepositoryUnavailable = errors.New("property repository unavailable")

// PropertyRepository is the read side of the listing store. Implementations
// must be idempotent and free of side effects.
type PropertyRepository interface {
	Search(ctx context.Context, query models.SearchQuery) (*models.SearchResults, error)
	SuggestLocations(ctx context.Context, text string, location *models.Location, limit int) ([]models.Suggestion, error)
	PopularSearches(ctx context.Context, limit int) ([]models.PopularSearch, error)
	Featured(ctx context.Context, location *models.Location, limit int) ([]models.Property, error)
	Ping(ctx context.Context) error
}

// AnalyticsSink counts searched queries. Callers never wait on it for correctness.
type AnalyticsSink interface {
	RecordSearch(ctx context.Context, text string, hasLocation bool, locationBucket string) error
}
