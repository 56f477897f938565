package services

import (
	"context"
	"testing"
	"time"

	"rental-search/internal/models"
	"rental-search/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		cacheDown  bool
		repoErr    error
		threshold  time.Duration
		wantStatus models.HealthStatus
		wantCache  string
		wantRepo   string
		hasLatency bool
	}{
		{"healthy", false, nil, time.Second, models.StatusHealthy, "ok", "ok", true},
		{"slow cache", false, nil, -time.Nanosecond, models.StatusDegraded, "slow", "ok", true},
		{"cache down", true, nil, time.Second, models.StatusDegraded, "unavailable", "ok", false},
		{"repository down", false, repositories.ErrRepositoryUnavailable, time.Second, models.StatusUnhealthy, "ok", "unavailable", true},
		{"both down", true, repositories.ErrRepositoryUnavailable, time.Second, models.StatusUnhealthy, "unavailable", "unavailable", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mr := newTestStore(t)
			if tt.cacheDown {
				mr.SetError("ERR store unavailable")
			}
			repo := new(MockPropertyRepository)
			repo.On("Ping", mock.Anything).Return(tt.repoErr)

			report := NewHealthService(store, repo, tt.threshold).HealthCheck(context.Background())

			assert.Equal(t, tt.wantStatus, report.Status)
			assert.Equal(t, tt.wantCache, report.Checks["cache"])
			assert.Equal(t, tt.wantRepo, report.Checks["repository"])
			if tt.hasLatency {
				require.NotNil(t, report.CacheLatencyMs)
				assert.GreaterOrEqual(t, *report.CacheLatencyMs, int64(0))
			} else {
				assert.Nil(t, report.CacheLatencyMs)
			}
		})
	}
}
