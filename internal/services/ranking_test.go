package services

import (
	"testing"

	"rental-search/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank_Scoring(t *testing.T) {
	popularity := 90.0
	popular := suggestion("Casa en Palmira", models.SuggestionTypeProperty, 0.7)
	popular.Metadata.PopularityScore = &popularity
	noWeight := models.Suggestion{Text: "palmira", Type: models.SuggestionTypeLandmark}

	tests := []struct {
		name      string
		candidate models.Suggestion
		query     string
		location  *models.Location
		want      float64
	}{
		{"weight only", suggestion("Lomas del Guijarro", models.SuggestionTypeLocation, 0.9), "palmira", nil, 0.9},
		{"default weight with exact match", noWeight, "Palmira", nil, 0.5 + 0.5 + 0.3},
		{"prefix", suggestion("Palmira Norte", models.SuggestionTypeLocation, 0.9), "palm", nil, 0.9 + 0.3},
		{"location bonus", suggestion("Colonia Palmira", models.SuggestionTypeLocation, 0.9), "pal", &models.Location{Lat: 14.1, Lng: -87.2}, 0.9 + 0.2},
		{"no location bonus for landmarks", suggestion("Centro", models.SuggestionTypeLandmark, 0.7), "pal", &models.Location{}, 0.7},
		{"popularity", popular, "palmira", nil, 0.7 + 0.09},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := Rank([]models.Suggestion{tt.candidate}, tt.query, tt.location, 8)
			require.Len(t, ranked, 1)
			require.NotNil(t, ranked[0].Score)
			assert.InDelta(t, tt.want, *ranked[0].Score, 1e-9)
		})
	}
}

func TestRank_OrdersStablyAndDedupes(t *testing.T) {
	candidates := []models.Suggestion{
		suggestion("Apartment rentals", models.SuggestionTypeProperty, 0.8),
		suggestion("Colonia Palmira", models.SuggestionTypeLocation, 0.9),
		suggestion("House rentals", models.SuggestionTypeProperty, 0.8),
		suggestion("  colonia palmira ", models.SuggestionTypeProperty, 0.7),
		suggestion("Pool properties", models.SuggestionTypeProperty, 0.6),
	}

	ranked := Rank(candidates, "xyz", nil, 8)

	assert.Equal(t, []string{"Colonia Palmira", "Apartment rentals", "House rentals", "Pool properties"}, texts(ranked))
	assert.Equal(t, "Colonia Palmira", ranked[0].ID)
}

func TestRank_DedupeKeepsHighestScored(t *testing.T) {
	candidates := []models.Suggestion{
		suggestion("palmira", models.SuggestionTypeProperty, 0.5),
		suggestion("Palmira", models.SuggestionTypeLocation, 0.9),
	}

	ranked := Rank(candidates, "zzz", nil, 8)
	require.Len(t, ranked, 1)
	assert.Equal(t, models.SuggestionTypeLocation, ranked[0].Type)
}

func TestRank_Truncates(t *testing.T) {
	var candidates []models.Suggestion
	for _, s := range []string{"a1", "a2", "a3", "a4", "a5"} {
		candidates = append(candidates, suggestion(s, models.SuggestionTypeProperty, 0.5))
	}

	assert.Len(t, Rank(candidates, "a", nil, 3), 3)
	assert.Empty(t, Rank(candidates, "a", nil, 0))
	assert.Len(t, Rank(candidates, "a", nil, 20), 5)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	candidates := []models.Suggestion{suggestion("House rentals", models.SuggestionTypeProperty, 0.8)}
	Rank(candidates, "house", nil, 8)
	assert.Nil(t, candidates[0].Score)
}
