// Package database opens the listing stores: MongoDB by default, PostgreSQL as the alternate backend.
package database

import (
	"context"
	"fmt"
	"time"

	"rental-search/pkg/config"
	"rental-search/pkg/logger"
	"rental-search/pkg/metrics"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	PropertiesCollection    = "properties"
	NeighborhoodsCollection = "neighborhoods"
	AnalyticsCollection     = "search_analytics"
)

// ConnectMongo opens and pings a MongoDB client for cfg.URI.
func ConnectMongo(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.URI).
		SetConnectTimeout(10 * time.Second).
		SetMaxPoolSize(100)

	start := time.Now()
	client, err := mongo.Connect(ctx, clientOptions)
	metrics.RepositoryOperationDuration.WithLabelValues("connect", config.DriverMongo).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RepositoryErrorsTotal.WithLabelValues("connect", config.DriverMongo).Inc()
		logger.GlobalLogger.Errorf("failed to connect to MongoDB: %v", err)
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	start = time.Now()
	err = client.Ping(ctx, nil)
	metrics.RepositoryOperationDuration.WithLabelValues("ping", config.DriverMongo).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RepositoryErrorsTotal.WithLabelValues("ping", config.DriverMongo).Inc()
		_ = client.Disconnect(ctx)
		logger.GlobalLogger.Errorf("failed to ping MongoDB: %v", err)
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	logger.GlobalLogger.Println("MongoDB connected successfully.")
	return client, nil
}

// DisconnectMongo closes the client, logging rather than returning failures.
func DisconnectMongo(client *mongo.Client) {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	err := client.Disconnect(ctx)
	metrics.RepositoryOperationDuration.WithLabelValues("disconnect", config.DriverMongo).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RepositoryErrorsTotal.WithLabelValues("disconnect", config.DriverMongo).Inc()
		logger.GlobalLogger.Errorf("Error closing MongoDB: %v", err)
		return
	}
	logger.GlobalLogger.Println("MongoDB connection closed")
}
