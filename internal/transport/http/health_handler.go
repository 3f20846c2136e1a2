package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// Version is the application version reported by the health endpoints.
const Version = "1.0.0"

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "healthy",
		"version": Version,
		"uptime":  time.Since(h.startedAt).String(),
	})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"version": Version})
}
