package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"rental-search/internal/models"
	"rental-search/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/mock"
)

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Search(ctx context.Context, query models.SearchQuery) (*models.SearchResults, error) {
	args := m.Called(ctx, query)
	res, _ := args.Get(0).(*models.SearchResults)
	return res, args.Error(1)
}

func (m *MockPropertyRepository) SuggestLocations(ctx context.Context, text string, location *models.Location, limit int) ([]models.Suggestion, error) {
	args := m.Called(ctx, text, location, limit)
	res, _ := args.Get(0).([]models.Suggestion)
	return res, args.Error(1)
}

func (m *MockPropertyRepository) PopularSearches(ctx context.Context, limit int) ([]models.PopularSearch, error) {
	args := m.Called(ctx, limit)
	res, _ := args.Get(0).([]models.PopularSearch)
	return res, args.Error(1)
}

func (m *MockPropertyRepository) Featured(ctx context.Context, location *models.Location, limit int) ([]models.Property, error) {
	args := m.Called(ctx, location, limit)
	res, _ := args.Get(0).([]models.Property)
	return res, args.Error(1)
}

func (m *MockPropertyRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockAnalyticsSink struct {
	mock.Mock
	recorded atomic.Int32
}

func (m *MockAnalyticsSink) RecordSearch(ctx context.Context, text string, hasLocation bool, locationBucket string) error {
	defer m.recorded.Add(1)
	return m.Called(ctx, text, hasLocation, locationBucket).Error(0)
}

func newTestStore(t *testing.T) (*cache.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	store := cache.NewRedisStore(client)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

// stubSource returns fixed candidates, an error, or blocks for delay.
type stubSource struct {
	name  string
	list  []models.Suggestion
	err   error
	delay time.Duration
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Suggest(ctx context.Context, _ string, _ *models.Location, _ int) ([]models.Suggestion, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.list, s.err
}

func suggestion(text string, typ models.SuggestionType, weight float64) models.Suggestion {
	return models.Suggestion{ID: text, Text: text, Type: typ, Metadata: models.SuggestionMetadata{Weight: &weight}}
}

func texts(list []models.Suggestion) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Text
	}
	return out
}
