// Package handler composes the HTTP handlers served by the gateway.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mandalnilabja/llamarelay/internal/auth"
	"github.com/mandalnilabja/llamarelay/internal/provider"
	"github.com/mandalnilabja/llamarelay/internal/storage"
	"github.com/mandalnilabja/llamarelay/internal/transport/http/handler/admin"
	"github.com/mandalnilabja/llamarelay/internal/transport/http/handler/infra"
	"github.com/mandalnilabja/llamarelay/internal/transport/http/handler/proxy"
)

// Repo composes all domain-specific handlers.
type Repo struct {
	Admin *admin.Handlers
	Proxy *proxy.Handlers
	Infra *infra.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
// metrics may be nil when metrics are disabled.
func NewRepo(prov provider.Provider, authorizer auth.Authorizer, store storage.Storage, metrics http.Handler, logger *slog.Logger) *Repo {
	startTime := time.Now()
	return &Repo{
		Admin: admin.New(store, startTime, prov.BaseURL()),
		Proxy: proxy.New(prov, authorizer, logger),
		Infra: infra.New(startTime, metrics),
	}
}
