// Package main is the entrypoint for the seatboard API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiranshivaraju/seatboard/internal/api"
	"github.com/kiranshivaraju/seatboard/internal/api/handler"
	mw "github.com/kiranshivaraju/seatboard/internal/api/middleware"
	"github.com/kiranshivaraju/seatboard/internal/api/response"
	"github.com/kiranshivaraju/seatboard/internal/auth"
	"github.com/kiranshivaraju/seatboard/internal/cache"
	"github.com/kiranshivaraju/seatboard/internal/config"
	"github.com/kiranshivaraju/seatboard/internal/dashboard"
	"github.com/kiranshivaraju/seatboard/internal/metrics"
	"github.com/kiranshivaraju/seatboard/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env, "timezone", cfg.Server.Location.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied", "dir", cfg.Database.MigrationsDir)

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create store and seed the bootstrap key
	pgStore := store.NewPostgresStore(pool)

	seeded, err := auth.SeedDefaultKey(ctx, pgStore, cfg.Admin.BootstrapKey)
	if err != nil {
		return fmt.Errorf("seed security key: %w", err)
	}
	if seeded {
		slog.Info("bootstrap security key created", "label", auth.DefaultKeyLabel)
	}

	// 6. Metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// 7. Build router with dependencies
	sessions := auth.NewSessions(redisCache, cfg.Session.Secret, cfg.Session.TTL)
	verifier := auth.NewKeyStoreVerifier(pgStore)
	board := dashboard.NewService(pgStore, cfg.Server.Location, m)
	cookies := handler.CookieOptions{Secure: cfg.Server.IsProduction()}
	clock := handler.Clock(time.Now)

	deps := api.Dependencies{
		AdminGuard:     mw.NewAdminGuard(sessions),
		LoginRateLimit: mw.NewRateLimit(redisCache, "login", cfg.RateLimit.LoginRequestsPerMin, m),
		AdminRateLimit: mw.NewRateLimit(redisCache, "admin", cfg.RateLimit.RequestsPerMin, m),
		Metrics:        m,

		HealthHandler:  healthHandler(pgStore, redisCache),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),

		ListPostsHandler:   handler.NewListPostsHandler(pgStore, clock),
		GetPostHandler:     handler.NewGetPostHandler(pgStore, clock),
		CreatePostHandler:  handler.NewCreatePostHandler(pgStore, clock),
		UpdatePostHandler:  handler.NewUpdatePostHandler(pgStore, clock),
		PublishPostHandler: handler.NewPublishPostHandler(pgStore, clock),
		DeletePostHandler:  handler.NewDeletePostHandler(pgStore),

		LoginHandler:     handler.NewLoginHandler(verifier, sessions, cookies, m),
		LogoutHandler:    handler.NewLogoutHandler(sessions, cookies),
		DashboardHandler: handler.NewDashboardHandler(board, clock),
		ListKeysHandler:  handler.NewListKeysHandler(pgStore),
		CreateKeyHandler: handler.NewCreateKeyHandler(pgStore, clock),
		DeleteKeyHandler: handler.NewDeleteKeyHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler checks database and cache connectivity.
func healthHandler(db, c pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := db.Ping(r.Context()); err != nil {
			slog.Warn("health check failed", "service", "database", "error", err)
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			slog.Warn("health check failed", "service", "cache", "error", err)
			checks["cache"] = "degraded"
		}

		if checks["database"] != "ok" || checks["cache"] != "ok" {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
