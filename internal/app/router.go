package app

import (
	"log/slog"
	"net/http"

	"github.com/mandalnilabja/llamarelay/internal/storage"
	"github.com/mandalnilabja/llamarelay/internal/transport/http/handler"
	"github.com/mandalnilabja/llamarelay/internal/transport/http/middleware"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	Logger  *slog.Logger
	Storage storage.Storage
}

// NewRouter creates and configures the HTTP router with all application routes.
// Returns an http.Handler with middleware applied.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	mux := http.NewServeMux()

	// Public routes (no auth)
	mux.HandleFunc("GET /api/health", repo.Infra.HealthCheck)
	mux.HandleFunc("GET /metrics", repo.Infra.MetricsHandler)

	// Gateway routes. The handler runs its own auth gate so preflight and
	// path rejections are answered before credentials are checked.
	mux.HandleFunc("GET /api/ollama/{path...}", repo.Proxy.Ollama)
	mux.HandleFunc("POST /api/ollama/{path...}", repo.Proxy.Ollama)
	mux.HandleFunc("OPTIONS /api/ollama/{path...}", repo.Proxy.Ollama)

	// Admin API routes (require admin auth)
	if opts != nil && opts.Storage != nil {
		registerAdminRoutes(mux, repo, opts)
	}

	// Root returns JSON status
	mux.HandleFunc("GET /{$}", repo.Infra.RootStatus)

	// Apply middleware chain (order: outer to inner)
	var h http.Handler = mux

	// Request logging (if logger provided)
	if opts != nil && opts.Logger != nil {
		h = middleware.RequestLogger(opts.Logger)(h)
	}

	// Request ID (always applied)
	h = middleware.RequestID(h)

	// CORS (always applied for browser clients)
	h = middleware.CORS(h)

	// Recovery is outermost so it also covers the other middleware
	logger := slog.Default()
	if opts != nil && opts.Logger != nil {
		logger = opts.Logger
	}
	h = middleware.Recovery(logger)(h)

	return h
}

// registerAdminRoutes adds all admin API routes to the router.
func registerAdminRoutes(mux *http.ServeMux, repo *handler.Repo, opts *RouterOptions) {
	adminAuth := middleware.AdminAuth(opts.Storage)

	withAuth := func(h http.HandlerFunc) http.Handler {
		return adminAuth(h)
	}

	// Password management
	mux.Handle("PUT /api/admin/password", withAuth(repo.Admin.ChangeAdminPassword))

	// Request logs
	mux.Handle("GET /api/admin/logs", withAuth(repo.Admin.GetRequestLogs))
	mux.Handle("DELETE /api/admin/logs", withAuth(repo.Admin.DeleteRequestLogs))

	// System info
	mux.Handle("GET /api/admin/health", withAuth(repo.Admin.AdminHealth))
	mux.Handle("GET /api/admin/info", withAuth(repo.Admin.AdminInfo))
}
