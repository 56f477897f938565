package services

import (
	"context"
	"time"

	"rental-search/internal/models"
	"rental-search/pkg/cache"

	"golang.org/x/sync/errgroup"
)

// Pinger is anything with a liveness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

const (
	checkOK          = "ok"
	checkSlow        = "slow"
	checkUnavailable = "unavailable"
)

type HealthService struct {
	store         cache.Store
	repo          Pinger
	slowThreshold time.Duration
}

func NewHealthService(store cache.Store, repo Pinger, slowThreshold time.Duration) *HealthService {
	return &HealthService{store: store, repo: repo, slowThreshold: slowThreshold}
}

// HealthCheck probes the cache store and the repository concurrently. A
// slow or unreachable cache degrades the service; an unreachable
// repository makes it unhealthy.
func (h *HealthService) HealthCheck(ctx context.Context) models.HealthReport {
	var (
		cacheLatency time.Duration
		cacheErr     error
		repoErr      error
	)

	var g errgroup.Group
	g.Go(func() error {
		cacheLatency, cacheErr = h.store.Ping(ctx)
		return nil
	})
	g.Go(func() error {
		repoErr = h.repo.Ping(ctx)
		return nil
	})
	_ = g.Wait()

	report := models.HealthReport{Status: models.StatusHealthy, Checks: map[string]string{}}

	switch {
	case cacheErr != nil:
		report.Checks["cache"] = checkUnavailable
		report.Status = models.StatusDegraded
	case cacheLatency > h.slowThreshold:
		report.Checks["cache"] = checkSlow
		report.Status = models.StatusDegraded
	default:
		report.Checks["cache"] = checkOK
	}
	if cacheErr == nil {
		ms := cacheLatency.Milliseconds()
		report.CacheLatencyMs = &ms
	}

	if repoErr != nil {
		report.Checks["repository"] = checkUnavailable
		report.Status = models.StatusUnhealthy
	} else {
		report.Checks["repository"] = checkOK
	}
	return report
}
