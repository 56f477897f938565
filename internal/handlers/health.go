package handlers

import (
	"context"
	"net/http"
	"time"

	"rental-search/internal/models"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 5 * time.Second

type HealthHandler struct {
	health HealthChecker
}

func NewHealthHandler(health HealthChecker) *HealthHandler {
	return &HealthHandler{health: health}
}

// Health godoc
// @Summary Service health
// @Description Cache and repository health. Degraded cache still answers 200.
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthReport
// @Failure 503 {object} models.HealthReport
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	report := h.health.HealthCheck(ctx)
	status := http.StatusOK
	if report.Status == models.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
