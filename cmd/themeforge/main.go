// Package main is the entry point for the themeforge event page server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"themeforge/internal/cache"
	"themeforge/internal/config"
	"themeforge/internal/database"
	"themeforge/internal/engine"
	"themeforge/internal/handlers"
	"themeforge/internal/middleware"
	"themeforge/internal/router"
	"themeforge/internal/sections"
	"themeforge/internal/store"
)

func main() {
	// Load configuration from environment variables and an optional .env file.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	slog.SetDefault(newLogger(cfg))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"page_cache_ttl", cfg.PageCacheTTL.String(),
		"plan_cache_size", cfg.PlanCacheSize,
	)

	// Bounds the startup pings and the catalog count.
	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startCancel()

	// Connect to PostgreSQL.
	db, err := database.Connect(startCtx, cfg.DSN(), database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the demo catalog, tenant and event (no-op if themes exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (L2 page cache).
	valkeyClient, err := cache.ConnectValkey(startCtx, cache.ValkeyOptions{
		Host:     cfg.ValkeyHost,
		Port:     cfg.ValkeyPort,
		Password: cfg.ValkeyPassword,
		DB:       cfg.ValkeyDB,
	})
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Section renderers and the page layout are compiled once at startup.
	registry, err := sections.NewRegistry()
	if err != nil {
		slog.Error("failed to compile section templates", "error", err)
		os.Exit(1)
	}
	layout, err := sections.NewLayout()
	if err != nil {
		slog.Error("failed to compile page layout", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	themeStore := store.NewThemeStore(db)
	tenantStore := store.NewTenantStore(db)
	brandingStore := store.NewBrandingStore(db)
	eventStore := store.NewEventStore(db)
	entitlementStore := store.NewEntitlementStore(db)
	cacheLogStore := store.NewCacheLogStore(db)

	if count, err := themeStore.Count(startCtx); err != nil {
		slog.Warn("failed to count catalog themes", "error", err)
	} else {
		slog.Info("theme catalog loaded", "themes", count)
	}

	// Resolution engine with its in-memory plan cache (L1).
	eng := engine.New(registry, layout, cfg.PlanCacheSize)

	// L2 page cache (full-page HTML in Valkey).
	pageCache := cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)

	// Create handler groups with their dependencies.
	publicHandlers := handlers.NewPublic(eng, themeStore, tenantStore, brandingStore, eventStore, pageCache)
	apiHandlers := handlers.NewAPI(eng, themeStore, tenantStore, brandingStore, eventStore, entitlementStore, pageCache, cacheLogStore)

	limiter := middleware.NewPerMinute(cfg.RateLimitPerMinute)
	defer limiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(publicHandlers, apiHandlers, limiter)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig, "timeout", cfg.ShutdownTimeout.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// newLogger returns a debug-level text logger in development and an
// info-level JSON logger otherwise.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsDev() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
