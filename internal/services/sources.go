package services

import (
	"context"
	"strings"
	"time"

	"rental-search/internal/models"
	"rental-search/internal/repositories"
	"rental-search/pkg/cache"
)

const (
	locationIcon   = "map-pin"
	propertyIcon   = "home"
	featureIcon    = "sparkles"
	popularIcon    = "trending-up"
	landmarkIcon   = "landmark"
	searchIcon     = "search"
	typeWeight     = 0.8
	featureWeight  = 0.6
	popularWeight  = 0.7
	popularBonus   = 100.0
	popularDecay   = 10.0
	popularMinimum = 0.0
)

// SuggestionSource produces candidates for one query. Sources fail
// independently; a failure costs only that source's candidates.
type SuggestionSource interface {
	Name() string
	Suggest(ctx context.Context, query string, location *models.Location, limit int) ([]models.Suggestion, error)
}

type locationSource struct {
	repo repositories.PropertyRepository
}

func (locationSource) Name() string { return "location" }

func (s locationSource) Suggest(ctx context.Context, query string, location *models.Location, limit int) ([]models.Suggestion, error) {
	return s.repo.SuggestLocations(ctx, query, location, limit)
}

var typeLabels = map[models.PropertyType]string{
	models.PropertyTypeApartment:  "Apartment",
	models.PropertyTypeHouse:      "House",
	models.PropertyTypeRoom:       "Room",
	models.PropertyTypeStudio:     "Studio",
	models.PropertyTypeOffice:     "Office",
	models.PropertyTypeCommercial: "Commercial",
}

var typeOrder = []models.PropertyType{
	models.PropertyTypeApartment,
	models.PropertyTypeHouse,
	models.PropertyTypeRoom,
	models.PropertyTypeStudio,
	models.PropertyTypeOffice,
	models.PropertyTypeCommercial,
}

var featureKeywords = []string{
	"furnished",
	"pet friendly",
	"parking",
	"pool",
	"garden",
	"gym",
	"balcony",
	"air conditioning",
	"security",
	"wifi",
}

func propertyTypeSuggestion(t models.PropertyType, idPrefix string) models.Suggestion {
	return models.Suggestion{
		ID:       idPrefix + "type-" + string(t),
		Text:     typeLabels[t] + " rentals",
		Type:     models.SuggestionTypeProperty,
		Icon:     propertyIcon,
		Metadata: models.SuggestionMetadata{Weight: weightPtr(typeWeight)},
	}
}

// matches reports a substring match in either direction.
func matches(query, keyword string) bool {
	return strings.Contains(query, keyword) || strings.Contains(keyword, query)
}

// attributeSource matches the static property-type and feature vocabulary.
type attributeSource struct{}

func (attributeSource) Name() string { return "property" }

func (attributeSource) Suggest(_ context.Context, query string, _ *models.Location, limit int) ([]models.Suggestion, error) {
	q := models.NormalizeText(query)
	out := []models.Suggestion{}
	if q == "" {
		return out, nil
	}
	for _, t := range typeOrder {
		if len(out) >= limit {
			return out, nil
		}
		if matches(q, string(t)) || matches(q, strings.ToLower(typeLabels[t])) {
			out = append(out, propertyTypeSuggestion(t, ""))
		}
	}
	for _, f := range featureKeywords {
		if len(out) >= limit {
			break
		}
		if matches(q, f) {
			out = append(out, models.Suggestion{
				ID:       "feature-" + slug(f),
				Text:     capitalize(f) + " properties",
				Type:     models.SuggestionTypeProperty,
				Icon:     featureIcon,
				Metadata: models.SuggestionMetadata{Weight: weightPtr(featureWeight)},
			})
		}
	}
	return out, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// PopularSearches is the popular-query list read through the cache store
// and refilled from the repository on a miss.
type PopularSearches struct {
	store      cache.Store
	repo       repositories.PropertyRepository
	ttl        time.Duration
	fetchLimit int
}

func NewPopularSearches(store cache.Store, repo repositories.PropertyRepository, ttl time.Duration, fetchLimit int) *PopularSearches {
	return &PopularSearches{store: store, repo: repo, ttl: ttl, fetchLimit: fetchLimit}
}

// List returns the most searched queries, most popular first. Concurrent
// misses may both refill; the refill is idempotent.
func (p *PopularSearches) List(ctx context.Context) ([]models.PopularSearch, error) {
	var popular []models.PopularSearch
	if cache.GetJSON(ctx, p.store, cache.PopularSearchesKey, &popular) {
		cache.RecordHit("popular")
		return popular, nil
	}
	cache.RecordMiss("popular")

	popular, err := p.repo.PopularSearches(ctx, p.fetchLimit)
	if err != nil {
		return nil, err
	}
	cache.SetJSON(ctx, p.store, cache.PopularSearchesKey, popular, p.ttl)
	return popular, nil
}

type popularSource struct {
	popular *PopularSearches
}

func (popularSource) Name() string { return "popular" }

func (s popularSource) Suggest(ctx context.Context, query string, _ *models.Location, limit int) ([]models.Suggestion, error) {
	q := models.NormalizeText(query)
	out := []models.Suggestion{}
	if q == "" {
		return out, nil
	}
	list, err := s.popular.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if len(out) >= limit {
			break
		}
		text := models.NormalizeText(p.Query)
		if text == "" || !strings.Contains(text, q) {
			continue
		}
		bonus := max(popularBonus-popularDecay*float64(len(out)), popularMinimum)
		out = append(out, models.Suggestion{
			ID:   "popular-" + slug(text),
			Text: p.Query,
			Type: models.SuggestionTypeProperty,
			Icon: popularIcon,
			Metadata: models.SuggestionMetadata{
				PopularityScore: &bonus,
				Weight:          weightPtr(popularWeight),
			},
		})
	}
	return out, nil
}

// recentSource is a placeholder: recent searches live on the client.
type recentSource struct{}

func (recentSource) Name() string { return "recent" }

func (recentSource) Suggest(context.Context, string, *models.Location, int) ([]models.Suggestion, error) {
	return []models.Suggestion{}, nil
}
