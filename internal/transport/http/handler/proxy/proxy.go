package proxy

import (
	"log/slog"

	"github.com/mandalnilabja/llamarelay/internal/auth"
	"github.com/mandalnilabja/llamarelay/internal/metrics"
	"github.com/mandalnilabja/llamarelay/internal/provider"
	"github.com/mandalnilabja/llamarelay/internal/storage"
	"github.com/mandalnilabja/llamarelay/internal/transport/http/middleware/ratelimit"
)

// Handlers holds the dependencies for proxy HTTP handlers.
type Handlers struct {
	Provider   provider.Provider
	Authorizer auth.Authorizer
	Logger     *slog.Logger

	// Optional collaborators; nil disables each.
	Logs    *storage.LogWriter
	Metrics *metrics.Collector
	Limiter *ratelimit.Limiter
}

// New creates a new instance of proxy handlers. A nil authorizer admits everyone.
func New(prov provider.Provider, authorizer auth.Authorizer, logger *slog.Logger) *Handlers {
	if authorizer == nil {
		authorizer = auth.AllowAll()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		Provider:   prov,
		Authorizer: authorizer,
		Logger:     logger,
	}
}
