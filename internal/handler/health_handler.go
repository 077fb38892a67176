// Package handler provides HTTP request handlers for the application.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shortsboard/shorts-analytics/internal/models"
)

const readinessTimeout = 2 * time.Second

// Pinger checks connectivity to a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports whether a connection-oriented client is usable.
type HealthChecker interface {
	IsHealthy() bool
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	database  Pinger
	cache     Pinger
	publisher HealthChecker
}

// NewHealthHandler creates a new HealthHandler instance. cache and
// publisher are optional.
func NewHealthHandler(database Pinger, cache Pinger, publisher HealthChecker) *HealthHandler {
	return &HealthHandler{
		database:  database,
		cache:     cache,
		publisher: publisher,
	}
}

// LivenessProbe checks if the application is running.
func (h *HealthHandler) LivenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponseDTO{Status: "UP"})
}

// ReadinessProbe checks if the application is ready to serve traffic.
// Only the database is required; the cache and publisher are reported
// but degrade gracefully.
func (h *HealthHandler) ReadinessProbe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	resp := models.HealthResponseDTO{
		Status:     "UP",
		Components: map[string]string{"database": "healthy"},
	}
	status := http.StatusOK

	if err := h.database.Ping(ctx); err != nil {
		resp.Status = "DOWN"
		resp.Components["database"] = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		resp.Components["redis"] = "healthy"
		if err := h.cache.Ping(ctx); err != nil {
			resp.Components["redis"] = "unhealthy"
		}
	}

	if h.publisher != nil {
		resp.Components["rabbitmq"] = "healthy"
		if !h.publisher.IsHealthy() {
			resp.Components["rabbitmq"] = "unhealthy"
		}
	}

	c.JSON(status, resp)
}
