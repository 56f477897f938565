package services

import (
	"context"
	"sync/atomic"
	"unicode/utf8"

	"rental-search/internal/models"
	"rental-search/internal/repositories"
	"rental-search/pkg/cache"
	"rental-search/pkg/config"
	"rental-search/pkg/logger"
	"rental-search/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

const (
	minQueryLength   = 2
	degradedMessage  = "suggestions are temporarily limited"
	suggestionsCache = "suggestions"
)

type SuggestionService struct {
	store   cache.Store
	popular *PopularSearches
	sources []SuggestionSource
	cfg     config.SuggestionsConfig
}

// NewSuggestionService wires the sources in their fixed fan-out order:
// location, property attributes, popular searches, recent searches.
func NewSuggestionService(store cache.Store, repo repositories.PropertyRepository, cfg config.SuggestionsConfig) *SuggestionService {
	popular := NewPopularSearches(store, repo, cfg.PopularTTL, cfg.PopularFetchLimit)
	return &SuggestionService{
		store:   store,
		popular: popular,
		sources: []SuggestionSource{
			locationSource{repo: repo},
			attributeSource{},
			popularSource{popular: popular},
			recentSource{},
		},
		cfg: cfg,
	}
}

func (s *SuggestionService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	return min(limit, s.cfg.MaxLimit)
}

// GetSuggestions never fails. A failing source contributes nothing; only
// a fan-out deadline or every source failing degrades to the fallback list.
func (s *SuggestionService) GetSuggestions(ctx context.Context, query string, location *models.Location, limit int) models.SuggestionsResponse {
	limit = s.clampLimit(limit)
	normalized := models.NormalizeText(query)

	if utf8.RuneCountInString(normalized) < minQueryLength {
		return models.SuggestionsResponse{
			Success: true,
			Data:    Rank(defaultSuggestions(location), "", location, limit),
			Query:   query,
		}
	}

	var key string
	if s.cfg.CachingEnabled() {
		key = cache.SuggestionKey(normalized, location, limit)
		var cached []models.Suggestion
		if cache.GetJSON(ctx, s.store, key, &cached) {
			cache.RecordHit(suggestionsCache)
			return models.SuggestionsResponse{Success: true, Data: cached, Query: query}
		}
		cache.RecordMiss(suggestionsCache)
	}

	candidates, failed, ok := s.fanOut(ctx, normalized, location, limit)
	if !ok || failed == len(s.sources) {
		return models.SuggestionsResponse{
			Success: false,
			Data:    s.fallback(query, location, limit),
			Query:   query,
			Error:   degradedMessage,
		}
	}

	ranked := Rank(candidates, normalized, location, limit)
	if key != "" && failed == 0 {
		cache.SetJSON(ctx, s.store, key, ranked, s.cfg.CacheTTL)
	}
	return models.SuggestionsResponse{Success: true, Data: ranked, Query: query}
}

// fanOut queries every source concurrently under the fan-out deadline.
// ok is false when the deadline passed before all sources answered.
func (s *SuggestionService) fanOut(ctx context.Context, query string, location *models.Location, limit int) ([]models.Suggestion, int, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FanoutTimeout)
	defer cancel()

	results := make([][]models.Suggestion, len(s.sources))
	var failed atomic.Int32

	var g errgroup.Group
	for i, src := range s.sources {
		g.Go(func() error {
			list, err := src.Suggest(ctx, query, location, limit)
			if err != nil {
				failed.Add(1)
				metrics.SuggestionSourceFailuresTotal.WithLabelValues(src.Name()).Inc()
				logger.GlobalLogger.Warnf("suggestion source failed: source=%s query=%q error=%v", src.Name(), query, err)
				return nil
			}
			results[i] = list
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.GlobalLogger.Warnf("suggestion fan-out deadline exceeded: query=%q", query)
		return nil, len(s.sources), false
	}

	var candidates []models.Suggestion
	for _, list := range results {
		candidates = append(candidates, list...)
	}
	return candidates, int(failed.Load()), true
}

// fallback is the literal query followed by the defaults.
func (s *SuggestionService) fallback(query string, location *models.Location, limit int) []models.Suggestion {
	list := append([]models.Suggestion{literalSuggestion(query)}, defaultSuggestions(location)...)
	return dedupe(list, limit)
}

// InvalidateSuggestions drops cached suggestion lists and the popular-query list.
func (s *SuggestionService) InvalidateSuggestions(ctx context.Context) (int, error) {
	total := 0
	for _, pattern := range []string{cache.SuggestionsPattern, cache.PopularSearchesKey} {
		n, err := s.store.ScanAndDelete(ctx, pattern)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
