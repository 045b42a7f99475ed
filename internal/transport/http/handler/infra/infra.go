// Package infra serves the unauthenticated status endpoints.
package infra

import (
	"net/http"
	"time"
)

// Handlers holds the dependencies for infrastructure HTTP handlers.
type Handlers struct {
	StartTime time.Time

	// Metrics serves /metrics; nil when metrics are disabled.
	Metrics http.Handler
}

// New creates a new instance of infrastructure handlers.
func New(startTime time.Time, metrics http.Handler) *Handlers {
	return &Handlers{
		StartTime: startTime,
		Metrics:   metrics,
	}
}
