package repositories

import (
	"fmt"
	"time"

	"rental-search/pkg/logger"
	"rental-search/pkg/metrics"
)

const (
	backendMongo    = "mongo"
	backendPostgres = "postgres"
)

func observe(operation, backend string, start time.Time) {
	metrics.RepositoryOperationDuration.WithLabelValues(operation, backend).Observe(time.Since(start).Seconds())
}

// unavailable counts and logs a backend failure and wraps it as ErrRepositoryUnavailable.
func unavailable(operation, backend string, err error) error {
	metrics.RepositoryErrorsTotal.WithLabelValues(operation, backend).Inc()
	logger.GlobalLogger.Errorf("repository failure: backend=%s operation=%s error=%v", backend, operation, err)
	return fmt.Errorf("%w: %s %s: %v", ErrRepositoryUnavailable, backend, operation, err)
}
