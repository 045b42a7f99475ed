// Package admin serves the password-protected administration API.
package admin

import (
	"time"

	"github.com/mandalnilabja/llamarelay/internal/storage"
)

// Handlers holds the dependencies for admin HTTP handlers.
type Handlers struct {
	Storage     storage.Storage
	StartTime   time.Time
	UpstreamURL string
}

// New creates a new instance of admin handlers.
func New(store storage.Storage, startTime time.Time, upstreamURL string) *Handlers {
	return &Handlers{
		Storage:     store,
		StartTime:   startTime,
		UpstreamURL: upstreamURL,
	}
}
