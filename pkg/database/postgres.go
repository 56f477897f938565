package database

import (
	"context"
	"fmt"
	"time"

	"rental-search/pkg/config"
	"rental-search/pkg/logger"
	"rental-search/pkg/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS neighborhoods (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL UNIQUE,
	lat            DOUBLE PRECISION,
	lng            DOUBLE PRECISION,
	property_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS properties (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	property_type  TEXT NOT NULL,
	price          DOUBLE PRECISION NOT NULL,
	currency       TEXT NOT NULL DEFAULT 'HNL',
	bedrooms       INTEGER NOT NULL DEFAULT 0,
	bathrooms      INTEGER NOT NULL DEFAULT 0,
	amenities      TEXT[] NOT NULL DEFAULT '{}',
	furnished      BOOLEAN NOT NULL DEFAULT FALSE,
	pet_friendly   BOOLEAN NOT NULL DEFAULT FALSE,
	parking        BOOLEAN NOT NULL DEFAULT FALSE,
	neighborhood   TEXT NOT NULL DEFAULT '',
	address        TEXT NOT NULL DEFAULT '',
	lat            DOUBLE PRECISION,
	lng            DOUBLE PRECISION,
	featured       BOOLEAN NOT NULL DEFAULT FALSE,
	available_from DATE,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS properties_type_price_idx ON properties (property_type, price);
CREATE INDEX IF NOT EXISTS properties_featured_idx ON properties (featured, created_at DESC);

CREATE TABLE IF NOT EXISTS search_analytics (
	query           TEXT PRIMARY KEY,
	count           BIGINT NOT NULL DEFAULT 0,
	has_location    BOOLEAN NOT NULL DEFAULT FALSE,
	location_bucket TEXT,
	last_searched   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS search_analytics_count_idx ON search_analytics (count DESC);
`

// NewPostgresPool opens a pgx pool for url and verifies it with a ping.
func NewPostgresPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres url: %w", err)
	}
	poolCfg.MaxConns = 20
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	start := time.Now()
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err == nil {
		err = pool.Ping(ctx)
	}
	metrics.RepositoryOperationDuration.WithLabelValues("connect", config.DriverPostgres).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RepositoryErrorsTotal.WithLabelValues("connect", config.DriverPostgres).Inc()
		if pool != nil {
			pool.Close()
		}
		logger.GlobalLogger.Errorf("failed to connect to PostgreSQL: %v", err)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	logger.GlobalLogger.Println("PostgreSQL connected successfully.")
	return pool, nil
}

// EnsureSchema creates the tables and indexes the repositories query.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	start := time.Now()
	_, err := pool.Exec(ctx, postgresSchema)
	metrics.RepositoryOperationDuration.WithLabelValues("ensure_schema", config.DriverPostgres).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RepositoryErrorsTotal.WithLabelValues("ensure_schema", config.DriverPostgres).Inc()
		logger.GlobalLogger.Errorf("Failed to create schema: %v", err)
		return err
	}
	return nil
}
