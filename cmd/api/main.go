// Copyright (c) 2026 Skinsight. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Skinsight HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables (fatal on missing secrets).
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build the token service and inference backends.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/taibuivan/skinsight/internal/api"
	"github.com/taibuivan/skinsight/internal/chat/history"
	"github.com/taibuivan/skinsight/internal/inference"
	"github.com/taibuivan/skinsight/internal/inference/classifier"
	"github.com/taibuivan/skinsight/internal/inference/generate"
	"github.com/taibuivan/skinsight/internal/platform/config"
	"github.com/taibuivan/skinsight/internal/platform/constants"
	"github.com/taibuivan/skinsight/internal/platform/migration"
	pgstore "github.com/taibuivan/skinsight/internal/platform/postgres"
	redisstore "github.com/taibuivan/skinsight/internal/platform/redis"
	"github.com/taibuivan/skinsight/internal/platform/sec"
	"github.com/taibuivan/skinsight/internal/users/admin"
	"github.com/taibuivan/skinsight/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Skinsight] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// Load fails fast on missing SECRET_KEY, DATABASE_URL, REDIS_URL, or
	// GEMINI_API_KEY; the process must never come up half-configured.
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security & Inference Backends ──────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.SecretKey, constants.AuthIssuer, cfg.TokenTTL())
	must(log, err, "initialize jwt service")

	// Classifier is optional infrastructure: without CLASSIFIER_URL the
	// service runs with /detect answering 503, matching a deployment where
	// the model never loaded.
	var engine classifier.Engine
	if cfg.ClassifierURL != "" {
		engine = classifier.NewHTTPEngine(cfg.ClassifierURL)
		log.Info("classifier_configured", slog.String("url", cfg.ClassifierURL))
	} else {
		log.Warn("classifier_not_configured", slog.String("effect", "/detect will return 503"))
	}
	adapter := classifier.NewAdapter(engine)

	gemini := generate.NewGeminiClient(cfg.GeminiURL, cfg.GeminiModel, cfg.GeminiAPIKey)
	generator := generate.NewCachedClient(gemini, rdb, log)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	var checkClassifier func() error
	if engine != nil {
		checkClassifier = func() error {
			return engine.Ready(context.Background())
		}
	}

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckClassifier: checkClassifier,
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(userRepository, jwtSvc)
	authHandler := auth.NewHandler(authService)

	historyRepository := history.NewRepository(pool)
	historyService := history.NewService(historyRepository)
	historyHandler := history.NewHandler(historyService, authService)

	inferenceService := inference.NewService(adapter, generator, historyService)
	inferenceHandler := inference.NewHandler(inferenceService, authService)

	adminService := admin.NewService(userRepository, historyService)
	adminHandler := admin.NewHandler(adminService, authService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Inference: inferenceHandler,
		History:   historyHandler,
		Admin:     adminHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
