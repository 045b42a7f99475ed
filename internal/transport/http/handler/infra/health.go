package infra

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/llamarelay/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/llamarelay/internal/version"
)

// RootStatus returns JSON status and version information at /.
func (h *Handlers) RootStatus(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, map[string]any{
		"name":    "llamarelay",
		"version": version.Version,
		"status":  "running",
		"gateway": "/api/ollama/",
		"admin":   "/api/admin",
	}, http.StatusOK)
}

// HealthCheck handler returns the application health status.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, map[string]any{
		"status": "active",
		"app":    "llamarelay",
		"uptime": time.Since(h.StartTime).Round(time.Second).String(),
	}, http.StatusOK)
}

// MetricsHandler serves Prometheus metrics, or 404 when they are disabled.
func (h *Handlers) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	if h.Metrics == nil {
		http.NotFound(w, r)
		return
	}
	h.Metrics.ServeHTTP(w, r)
}
