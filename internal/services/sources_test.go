package services

import (
	"context"
	"testing"
	"time"

	"rental-search/internal/models"
	"rental-search/internal/repositories"
	"rental-search/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAttributeSource(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"apart", []string{"Apartment rentals"}},
		{"Apartment with POOL", []string{"Apartment rentals", "Pool properties"}},
		{"pet", []string{"Pet friendly properties"}},
		{"houses", []string{"House rentals"}},
		{"house", []string{"House rentals"}},
		{"qwerty", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := attributeSource{}.Suggest(context.Background(), tt.query, nil, 8)
			require.NoError(t, err)
			assert.Equal(t, tt.want, texts(got))
		})
	}
}

func TestAttributeSource_Weights(t *testing.T) {
	got, err := attributeSource{}.Suggest(context.Background(), "studio parking", nil, 8)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0.8, *got[0].Metadata.Weight)
	assert.Equal(t, "type-studio", got[0].ID)
	assert.Equal(t, 0.6, *got[1].Metadata.Weight)
	assert.Equal(t, "feature-parking", got[1].ID)
}

func TestPopularSearches_CachesList(t *testing.T) {
	store, mr := newTestStore(t)
	repo := new(MockPropertyRepository)
	repo.On("PopularSearches", mock.Anything, 50).
		Return([]models.PopularSearch{{Query: "casa palmira", Count: 9}}, nil).Twice()

	popular := NewPopularSearches(store, repo, 5*time.Minute, 50)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		list, err := popular.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "casa palmira", list[0].Query)
	}
	repo.AssertNumberOfCalls(t, "PopularSearches", 1)
	assert.Equal(t, 5*time.Minute, mr.TTL(cache.PopularSearchesKey))

	mr.FastForward(5 * time.Minute)
	_, err := popular.List(ctx)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "PopularSearches", 2)
}

func TestPopularSearches_RepositoryError(t *testing.T) {
	store, mr := newTestStore(t)
	repo := new(MockPropertyRepository)
	repo.On("PopularSearches", mock.Anything, 50).Return(nil, repositories.ErrRepositoryUnavailable)

	_, err := NewPopularSearches(store, repo, time.Minute, 50).List(context.Background())
	assert.ErrorIs(t, err, repositories.ErrRepositoryUnavailable)
	assert.False(t, mr.Exists(cache.PopularSearchesKey))
}

func TestPopularSource_DecayingBonus(t *testing.T) {
	store, _ := newTestStore(t)
	repo := new(MockPropertyRepository)
	repo.On("PopularSearches", mock.Anything, 50).Return([]models.PopularSearch{
		{Query: "Casa en Palmira", Count: 40},
		{Query: "apartamento centro", Count: 30},
		{Query: "palmira amueblado", Count: 20},
		{Query: "cuarto palmira", Count: 10},
	}, nil)

	src := popularSource{popular: NewPopularSearches(store, repo, time.Minute, 50)}
	got, err := src.Suggest(context.Background(), "palmira", nil, 2)
	require.NoError(t, err)

	require.Equal(t, []string{"Casa en Palmira", "palmira amueblado"}, texts(got))
	assert.Equal(t, 100.0, *got[0].Metadata.PopularityScore)
	assert.Equal(t, 90.0, *got[1].Metadata.PopularityScore)
	assert.Equal(t, 0.7, *got[1].Metadata.Weight)
}

func TestRecentSource(t *testing.T) {
	got, err := recentSource{}.Suggest(context.Background(), "anything", nil, 8)
	require.NoError(t, err)
	assert.Empty(t, got)
}
