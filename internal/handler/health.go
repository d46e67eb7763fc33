package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Store     string `json:"store"`
}

// Health holds the probe handlers.
type Health struct {
	store Pinger
}

// NewHealth creates probe handlers around the record store connection.
// A nil store (memory-backed runs) always reports ready.
func NewHealth(store Pinger) *Health {
	return &Health{store: store}
}

// HandleHealth returns the health status of the service
// Used for Cloud Run liveness probe
func (h *Health) HandleHealth(c *gin.Context) {
	storeStatus := "ready"
	status := "healthy"
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			storeStatus = "unavailable"
			status = "degraded"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Store:     storeStatus,
	})
}

// HandleReadiness returns whether the service is ready to accept traffic
// Used for Cloud Run startup probe - stricter than health
func (h *Health) HandleReadiness(c *gin.Context) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"reason": "store_unreachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
