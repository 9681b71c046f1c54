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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nocturnehq/nocturne/internal/migrations/postgres"
	"github.com/nocturnehq/nocturne/internal/night"
	xredis "github.com/nocturnehq/nocturne/internal/redis"
	"github.com/nocturnehq/nocturne/internal/server"
	"github.com/nocturnehq/nocturne/internal/server/handler"
	servermw "github.com/nocturnehq/nocturne/internal/server/middleware"
	"github.com/nocturnehq/nocturne/internal/service/insight"
	"github.com/nocturnehq/nocturne/internal/storage"
	"github.com/nocturnehq/nocturne/internal/version"
	"github.com/nocturnehq/nocturne/internal/xhttp/middleware"
	"github.com/nocturnehq/nocturne/internal/xslog"
)

const (
	keyPort        = "port"
	keyEnvironment = "environment"
)

func main() {
	_ = godotenv.Load()

	logger := xslog.NewLoggerFromEnv(os.Stdout)
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", xslog.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := server.ReadConfig()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var serviceOpts []insight.Option
	if cfg.Database.URL != "" {
		pool, err := initPostgres(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize postgres: %w", err)
		}
		defer pool.Close()
		serviceOpts = append(serviceOpts, insight.WithSampleStore(storage.NewPostgresStore(pool)))
	}

	limiter, err := initLimiter(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	service := insight.New(night.NewWindow(), serviceOpts...)

	uploadHandler := handler.NewUpload(service, cfg.MaxUploadBytes)
	insightsHandler := handler.NewInsights(service)

	mux := http.NewServeMux()

	// Uploads are expensive; only they sit behind the IP rate limiter.
	mux.Handle("POST /api/upload", middleware.Chain(
		http.HandlerFunc(uploadHandler.HandleUpload),
		servermw.RateLimit(limiter),
	))
	mux.HandleFunc("GET /api/summary", insightsHandler.HandleSummary)
	mux.HandleFunc("GET /api/nights", insightsHandler.HandleNights)
	mux.HandleFunc("GET /api/sleep-score", insightsHandler.HandleScore)
	mux.HandleFunc("GET /health", handler.Health(version.Get()))
	mux.Handle("/", handler.Frontend(cfg.FrontendDir))

	wrapped := middleware.Chain(mux,
		middleware.Recovery,
		middleware.Logging,
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS,
		middleware.SecurityHeaders,
	)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           wrapped,
		ReadHeaderTimeout: 10 * time.Second,
		// Exports run to hundreds of megabytes; give uploads room.
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.InfoContext(ctx, "starting server",
			xslog.Version(),
			slog.String(keyPort, cfg.Port),
			slog.String(keyEnvironment, cfg.Env.String()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "server error", xslog.Error(err))
		}
	}()

	<-done
	logger.InfoContext(ctx, "shutdown signal received, initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.InfoContext(ctx, "server stopped")
	return nil
}

func initLimiter(ctx context.Context, cfg server.Config, logger *slog.Logger) (storage.RateLimiter, error) {
	if cfg.Redis.URL == "" {
		logger.InfoContext(ctx, "initializing in-memory rate limiter")
		return storage.NewMemoryLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Burst), nil
	}

	logger.InfoContext(ctx, "initializing Redis rate limiter")
	client, err := xredis.New(ctx, xredis.Config{URL: cfg.Redis.URL})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return storage.NewRedisLimiter(client, int(cfg.RateLimit.Limit)), nil
}

func initPostgres(ctx context.Context, cfg server.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	logger.InfoContext(ctx, "initializing PostgreSQL")

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := postgres.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return pool, nil
}
