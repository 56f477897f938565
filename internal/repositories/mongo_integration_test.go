//go:build integration

package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"rental-search/internal/models"
	"rental-search/pkg/config"
	"rental-search/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupMongo(t *testing.T) *MongoPropertyRepository {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections"),
	}
	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mongoC.Terminate(ctx) })

	host, err := mongoC.Host(ctx)
	require.NoError(t, err)
	port, err := mongoC.MappedPort(ctx, "27017")
	require.NoError(t, err)

	client, err := database.ConnectMongo(ctx, config.DatabaseConfig{URI: fmt.Sprintf("mongodb://%s:%s", host, port.Port())})
	require.NoError(t, err)
	t.Cleanup(func() { database.DisconnectMongo(client) })

	db := database.NewMongoDatabase(client.Database("rentals_test"))
	require.NoError(t, db.CreateIndexes(ctx))

	now := time.Now().UTC().Truncate(time.Millisecond)
	_, err = db.Collection(database.PropertiesCollection).InsertMany(ctx, []interface{}{
		models.Property{ID: "p1", Title: "Apartamento en Colonia Palmira", PropertyType: models.PropertyTypeApartment, Price: 800, Bedrooms: 2, Neighborhood: "Colonia Palmira", Coordinates: &models.Coordinates{Lat: 14.09, Lng: -87.19}, Featured: true, CreatedAt: now},
		models.Property{ID: "p2", Title: "Casa amplia", PropertyType: models.PropertyTypeHouse, Price: 1500, Bedrooms: 3, PetFriendly: true, Neighborhood: "Lomas del Guijarro", Coordinates: &models.Coordinates{Lat: 14.11, Lng: -87.17}, CreatedAt: now.Add(-time.Hour)},
		models.Property{ID: "p3", Title: "Studio near Palmira", PropertyType: models.PropertyTypeStudio, Price: 450, Bedrooms: 1, Neighborhood: "Colonia Palmira", Featured: true, CreatedAt: now.Add(-2 * time.Hour)},
	})
	require.NoError(t, err)

	_, err = db.Collection(database.NeighborhoodsCollection).InsertMany(ctx, []interface{}{
		neighborhood{ID: "n1", Name: "Colonia Palmira", PropertyCount: 12},
		neighborhood{ID: "n2", Name: "Lomas del Guijarro", PropertyCount: 30},
	})
	require.NoError(t, err)

	return NewMongoPropertyRepository(db)
}

func TestMongoPropertyRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	repo := setupMongo(t)
	ctx := context.Background()

	t.Run("search by text", func(t *testing.T) {
		res, err := repo.Search(ctx, models.SearchQuery{Text: "PALMIRA"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, res.Total)
		assert.Equal(t, "p1", res.Properties[0].ID)
	})

	t.Run("filters and price sort", func(t *testing.T) {
		res, err := repo.Search(ctx, models.SearchQuery{
			SortBy:  models.SortPriceDesc,
			Filters: &models.SearchFilters{PriceMax: float64Ptr(1000)},
		})
		require.NoError(t, err)
		require.Len(t, res.Properties, 2)
		assert.Equal(t, "p1", res.Properties[0].ID)
		assert.Equal(t, "p3", res.Properties[1].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		res, err := repo.Search(ctx, models.SearchQuery{Page: 1, Limit: 2, SortBy: models.SortDateDesc})
		require.NoError(t, err)
		assert.True(t, res.HasMore)
		assert.Len(t, res.Properties, 2)
	})

	t.Run("distance sort", func(t *testing.T) {
		res, err := repo.Search(ctx, models.SearchQuery{SortBy: models.SortDistance, Location: &models.Location{Lat: 14.11, Lng: -87.17}})
		require.NoError(t, err)
		require.Len(t, res.Properties, 3)
		assert.Equal(t, "p2", res.Properties[0].ID)
		assert.Equal(t, "p3", res.Properties[2].ID)
	})

	t.Run("featured", func(t *testing.T) {
		featured, err := repo.Featured(ctx, nil, 5)
		require.NoError(t, err)
		require.Len(t, featured, 2)
		assert.Equal(t, "p1", featured[0].ID)
	})

	t.Run("location suggestions", func(t *testing.T) {
		suggestions, err := repo.SuggestLocations(ctx, "colonia", nil, 5)
		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		assert.Equal(t, "neighborhood-n1", suggestions[0].ID)
	})

	t.Run("analytics", func(t *testing.T) {
		require.NoError(t, repo.RecordSearch(ctx, "Colonia Palmira", false, ""))
		require.NoError(t, repo.RecordSearch(ctx, "colonia  palmira", true, "14.090_-87.190"))
		require.NoError(t, repo.RecordSearch(ctx, "casa", false, ""))

		popular, err := repo.PopularSearches(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, []models.PopularSearch{{Query: "colonia palmira", Count: 2}, {Query: "casa", Count: 1}}, popular)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})
}
