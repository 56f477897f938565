package database

import (
	"context"
	"time"

	"rental-search/pkg/config"
	"rental-search/pkg/logger"
	"rental-search/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var mongoIndexes = map[string][]mongo.IndexModel{
	PropertiesCollection: {
		{Keys: bson.D{{Key: "neighborhood", Value: 1}}},
		{Keys: bson.D{{Key: "propertyType", Value: 1}, {Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "featured", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	},
	NeighborhoodsCollection: {
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	AnalyticsCollection: {
		{Keys: bson.D{{Key: "query", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "count", Value: -1}}},
	},
}

// CreateIndexes creates the indexes the search, suggestion and analytics queries rely on.
func CreateIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for name, models := range mongoIndexes {
		start := time.Now()
		_, err := db.Collection(name).Indexes().CreateMany(ctx, models)
		metrics.RepositoryOperationDuration.WithLabelValues("create_indexes", config.DriverMongo).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.RepositoryErrorsTotal.WithLabelValues("create_indexes", config.DriverMongo).Inc()
			logger.GlobalLogger.Errorf("Failed to create indexes on %s: %v", name, err)
			return err
		}
	}

	logger.GlobalLogger.Println("MongoDB indexes created successfully.")
	return nil
}
