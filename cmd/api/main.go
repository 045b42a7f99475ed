package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mandalnilabja/llamarelay/internal/app"
	"github.com/mandalnilabja/llamarelay/internal/auth"
	"github.com/mandalnilabja/llamarelay/internal/config"
	"github.com/mandalnilabja/llamarelay/internal/metrics"
	"github.com/mandalnilabja/llamarelay/internal/provider/ollama"
	"github.com/mandalnilabja/llamarelay/internal/storage"
	"github.com/mandalnilabja/llamarelay/internal/transport/http/handler"
	"github.com/mandalnilabja/llamarelay/internal/transport/http/middleware/ratelimit"
)

// limiterIdle drops rate limit buckets for clients quiet this long.
const limiterIdle = 10 * time.Minute

func main() {
	cfg := config.Load()
	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.EnsureDataDir(); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := config.EnsureConfigFile(); err != nil {
		logger.Warn("could not write default config file", "error", err)
	}

	store, err := storage.NewSQLiteStorage(config.DBPath())
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	if err := ensureAdminPassword(store, logger); err != nil {
		return err
	}

	// Authorization
	plainHashes, err := accessCodeHashes(nil, config.PlainAccessCodes())
	if err != nil {
		return err
	}
	cache, err := auth.NewCodeCache()
	if err != nil {
		return fmt.Errorf("failed to create access code cache: %w", err)
	}
	defer cache.Close()

	codes := auth.NewAccessCodeAuthorizer(append(cfg.AccessCodes, plainHashes...), cfg.HideUserAPIKey, cache)
	var authorizer auth.Authorizer = codes
	if cfg.JWTSecret != "" {
		authorizer = auth.Any(codes, auth.NewTokenAuthorizer(cfg.JWTSecret))
	}

	watchConfig(ctx, logger, func(fc *config.FileConfig) {
		codes.SetHashes(append(append([]string(nil), fc.AccessCodes...), plainHashes...))
	})

	// Upstream
	httpClient, err := ollama.NewHTTPClient(cfg.UpstreamProxy)
	if err != nil {
		return fmt.Errorf("invalid upstream proxy: %w", err)
	}
	prov := ollama.New(cfg.OllamaURL, ollama.WithHTTPClient(httpClient))

	var collector *metrics.Collector
	var metricsHandler http.Handler
	if cfg.EnableMetrics {
		collector = metrics.NewCollector(nil)
		metricsHandler = collector.Handler()
	}

	repo := handler.NewRepo(prov, authorizer, store, metricsHandler, logger)
	repo.Proxy.Metrics = collector

	if cfg.EnableRequestLog {
		logs := storage.NewLogWriter(store, 1024, logger)
		defer logs.Close()
		repo.Proxy.Logs = logs

		pruner := storage.NewPruner(store, cfg.LogRetentionDays, cfg.LogPruneSchedule, logger)
		if err := pruner.Start(ctx); err != nil {
			return err
		}
		defer pruner.Stop()
	}

	if cfg.RateLimit > 0 {
		limiter := ratelimit.New(cfg.RateLimit)
		repo.Proxy.Limiter = limiter
		go sweepLimiter(ctx, limiter)
	}

	router := app.NewRouter(repo, &app.RouterOptions{
		Logger:  logger,
		Storage: store,
	})

	printStartupBanner(cfg, prov.BaseURL())

	srv := app.NewServer(cfg, router, logger)
	return srv.Start(ctx)
}

// watchConfig reloads access codes when the config file changes.
func watchConfig(ctx context.Context, logger *slog.Logger, onChange func(*config.FileConfig)) {
	watcher, err := config.NewWatcher(config.ConfigPath(), logger)
	if err != nil {
		logger.Warn("config hot reload disabled", "error", err)
		return
	}
	go func() {
		if err := watcher.Watch(ctx, onChange); err != nil {
			logger.Error("config watcher stopped", "error", err)
		}
	}()
}

func sweepLimiter(ctx context.Context, limiter *ratelimit.Limiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep(limiterIdle)
		}
	}
}
