package models

type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

type HealthReport struct {
	Status         HealthStatus      `json:"status"`
	CacheLatencyMs *int64            `json:"cacheLatencyMs,omitempty"`
	Checks         map[string]string `json:"checks,omitempty"`
}
