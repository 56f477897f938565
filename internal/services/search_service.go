package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-search/internal/models"
	"rental-search/internal/repositories"
	"rental-search/pkg/cache"
	"rental-search/pkg/config"
	"rental-search/pkg/logger"
)

// ErrSearchUnavailable is returned when listings cannot be fetched.
var ErrSearchUnavailable = errors.New("search temporarily unavailable")

const (
	analyticsTimeout     = 5 * time.Second
	DefaultFeaturedLimit = 6
	searchCache          = "search"
	featuredCache        = "featured"
)

// SearchService fronts the property repository with the results cache.
type SearchService struct {
	store     cache.Store
	repo      repositories.PropertyRepository
	analytics repositories.AnalyticsSink
	cfg       config.SearchConfig
}

func NewSearchService(store cache.Store, repo repositories.PropertyRepository, analytics repositories.AnalyticsSink, cfg config.SearchConfig) *SearchService {
	return &SearchService{store: store, repo: repo, analytics: analytics, cfg: cfg}
}

// Search serves q from the results cache, or from the repository on a miss.
// Only non-empty results are cached.
func (s *SearchService) Search(ctx context.Context, q models.SearchQuery) (*models.SearchResults, error) {
	q = q.WithDefaults()
	key := cache.SearchKey(q)

	var cached models.SearchResults
	if cache.GetJSON(ctx, s.store, key, &cached) {
		cache.RecordHit(searchCache)
		cached.FromCache = true
		return &cached, nil
	}
	cache.RecordMiss(searchCache)

	s.recordSearch(ctx, q)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	res, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}
	if res == nil {
		res = &models.SearchResults{Properties: []models.Property{}, Page: q.Page, Limit: q.Limit}
	}
	res.FromCache = false

	if len(res.Properties) > 0 {
		cache.SetJSON(ctx, s.store, key, res, s.cfg.ResultsTTL)
	}
	return res, nil
}

// recordSearch counts the query text in the background. Failures are logged only.
func (s *SearchService) recordSearch(ctx context.Context, q models.SearchQuery) {
	if s.analytics == nil || models.NormalizeText(q.Text) == "" {
		return
	}
	text := q.Text
	bucket := ""
	if q.Location != nil {
		bucket = cache.LocationBucket(*q.Location)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), analyticsTimeout)
	go func() {
		defer cancel()
		if err := s.analytics.RecordSearch(ctx, text, q.Location != nil, bucket); err != nil {
			logger.GlobalLogger.Warnf("search analytics dropped: query=%q error=%v", text, err)
		}
	}()
}

// Featured returns featured listings near location, or globally when it is nil.
func (s *SearchService) Featured(ctx context.Context, location *models.Location, limit int) ([]models.Property, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	limit = min(limit, models.MaxSearchLimit)
	key := cache.FeaturedKey(location, limit)

	var cached []models.Property
	if cache.GetJSON(ctx, s.store, key, &cached) {
		cache.RecordHit(featuredCache)
		return cached, nil
	}
	cache.RecordMiss(featuredCache)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	properties, err := s.repo.Featured(ctx, location, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}
	if properties == nil {
		properties = []models.Property{}
	}
	if len(properties) > 0 {
		cache.SetJSON(ctx, s.store, key, properties, s.cfg.FeaturedTTL)
	}
	return properties, nil
}

// InvalidateListings evicts cached search results and featured lists after listing writes.
func (s *SearchService) InvalidateListings(ctx context.Context) (int, error) {
	total := 0
	for _, pattern := range []string{cache.SearchPattern, cache.FeaturedPattern} {
		n, err := s.store.ScanAndDelete(ctx, pattern)
		if err != nil {
			return total, err
		}
		total += n
	}
	logger.GlobalLogger.Printf("listing caches invalidated: deleted=%d", total)
	return total, nil
}
