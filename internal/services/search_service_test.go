package services

import (
	"context"
	"testing"
	"time"

	"rental-search/internal/models"
	"rental-search/internal/repositories"
	"rental-search/pkg/cache"
	"rental-search/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		Timeout:     10 * time.Second,
		ResultsTTL:  5 * time.Minute,
		FeaturedTTL: 15 * time.Minute,
	}
}

func someResults() *models.SearchResults {
	return &models.SearchResults{
		Properties: []models.Property{{ID: "p1", Title: "Casa en Palmira", Price: 900}},
		Total:      1,
		Page:       1,
		Limit:      20,
	}
}

func TestSearch_MissThenHit(t *testing.T) {
	store, mr := newTestStore(t)
	repo := new(MockPropertyRepository)
	analytics := new(MockAnalyticsSink)
	loc := &models.Location{Lat: 14.07234, Lng: -87.19211}
	q := models.SearchQuery{Text: "Palmira", Location: loc}

	repo.On("Search", mock.Anything, q.WithDefaults()).Return(someResults(), nil).Once()
	analytics.On("RecordSearch", mock.Anything, "Palmira", true, "14.072_-87.192").Return(nil).Once()

	svc := NewSearchService(store, repo, analytics, testSearchConfig())
	ctx := context.Background()

	res, err := svc.Search(ctx, q)
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, "p1", res.Properties[0].ID)
	assert.Equal(t, 5*time.Minute, mr.TTL(cache.SearchKey(q)))

	// Equivalent query: same bucket, explicit defaults, different case.
	equivalent := models.SearchQuery{Text: "palmira ", Location: &models.Location{Lat: 14.0723, Lng: -87.1921}, Page: 1, Limit: 20, SortBy: models.SortRelevance}
	res, err = svc.Search(ctx, equivalent)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, "p1", res.Properties[0].ID)

	assert.Eventually(t, func() bool {
		return analytics.recorded.Load() == 1
	}, time.Second, 10*time.Millisecond)
	repo.AssertExpectations(t)
	analytics.AssertExpectations(t)
}

func TestSearch_EmptyResultsAreNotCached(t *testing.T) {
	store, mr := newTestStore(t)
	repo := new(MockPropertyRepository)
	q := models.SearchQuery{Filters: &models.SearchFilters{PriceMax: float64Ptr(10)}}
	repo.On("Search", mock.Anything, q.WithDefaults()).
		Return(&models.SearchResults{Properties: []models.Property{}, Page: 1, Limit: 20}, nil).Twice()

	svc := NewSearchService(store, repo, nil, testSearchConfig())
	for i := 0; i < 2; i++ {
		res, err := svc.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, res.Properties)
		assert.False(t, res.FromCache)
	}
	assert.Empty(t, mr.Keys())
	repo.AssertExpectations(t)
}

func TestSearch_RepositoryFailure(t *testing.T) {
	store, mr := newTestStore(t)
	repo := new(MockPropertyRepository)
	repo.On("Search", mock.Anything, mock.Anything).Return(nil, repositories.ErrRepositoryUnavailable)

	svc := NewSearchService(store, repo, nil, testSearchConfig())
	res, err := svc.Search(context.Background(), models.SearchQuery{Text: "casa"})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrSearchUnavailable)
	assert.ErrorIs(t, err, repositories.ErrRepositoryUnavailable)
	assert.Empty(t, mr.Keys())
}

func TestSearch_NoAnalyticsWithoutText(t *testing.T) {
	store, _ := newTestStore(t)
	repo := new(MockPropertyRepository)
	analytics := new(MockAnalyticsSink)
	repo.On("Search", mock.Anything, mock.Anything).Return(someResults(), nil)

	svc := NewSearchService(store, repo, analytics, testSearchConfig())
	_, err := svc.Search(context.Background(), models.SearchQuery{Text: "   "})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	analytics.AssertNotCalled(t, "RecordSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_AnalyticsFailureIsNotPropagated(t *testing.T) {
	store, _ := newTestStore(t)
	repo := new(MockPropertyRepository)
	analytics := new(MockAnalyticsSink)
	repo.On("Search", mock.Anything, mock.Anything).Return(someResults(), nil)
	analytics.On("RecordSearch", mock.Anything, "casa", false, "").Return(repositories.ErrRepositoryUnavailable)

	svc := NewSearchService(store, repo, analytics, testSearchConfig())
	res, err := svc.Search(context.Background(), models.SearchQuery{Text: "casa"})
	require.NoError(t, err)
	assert.Len(t, res.Properties, 1)

	assert.Eventually(t, func() bool {
		return analytics.recorded.Load() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSearch_StoreOutageFallsThroughToRepository(t *testing.T) {
	store, mr := newTestStore(t)
	repo := new(MockPropertyRepository)
	repo.On("Search", mock.Anything, mock.Anything).Return(someResults(), nil).Twice()
	mr.SetError("ERR store unavailable")

	svc := NewSearchService(store, repo, nil, testSearchConfig())
	for i := 0; i < 2; i++ {
		res, err := svc.Search(context.Background(), models.SearchQuery{Text: "casa"})
		require.NoError(t, err)
		assert.False(t, res.FromCache)
	}
	repo.AssertExpectations(t)
}

func TestFeatured(t *testing.T) {
	store, mr := newTestStore(t)
	repo := new(MockPropertyRepository)
	loc := &models.Location{Lat: 14.07234, Lng: -87.19211}
	repo.On("Featured", mock.Anything, loc, 6).Return([]models.Property{{ID: "f1", Featured: true}}, nil).Once()
	repo.On("Featured", mock.Anything, (*models.Location)(nil), 3).Return([]models.Property{}, nil).Twice()

	svc := NewSearchService(store, repo, nil, testSearchConfig())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		props, err := svc.Featured(ctx, loc, 0)
		require.NoError(t, err)
		assert.Equal(t, "f1", props[0].ID)
	}
	assert.Equal(t, 15*time.Minute, mr.TTL("featured:14.072_-87.192:6"))

	for i := 0; i < 2; i++ {
		props, err := svc.Featured(ctx, nil, 3)
		require.NoError(t, err)
		assert.Empty(t, props)
	}
	assert.False(t, mr.Exists("featured:global:3"))
	repo.AssertExpectations(t)
}

func TestFeatured_Failure(t *testing.T) {
	store, _ := newTestStore(t)
	repo := new(MockPropertyRepository)
	repo.On("Featured", mock.Anything, mock.Anything, mock.Anything).Return(nil, repositories.ErrRepositoryUnavailable)

	_, err := NewSearchService(store, repo, nil, testSearchConfig()).Featured(context.Background(), nil, 6)
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

func TestInvalidateListings(t *testing.T) {
	store, mr := newTestStore(t)
	for _, k := range []string{"search:a", "search:b", "featured:global:6", "suggestions:casa:8", "ratelimit:public:1.2.3.4"} {
		require.NoError(t, mr.Set(k, "v"))
	}

	n, err := NewSearchService(store, new(MockPropertyRepository), nil, testSearchConfig()).InvalidateListings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.ElementsMatch(t, []string{"suggestions:casa:8", "ratelimit:public:1.2.3.4"}, mr.Keys())
}

func float64Ptr(v float64) *float64 { return &v }
