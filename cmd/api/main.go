package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/erzhan12/habit-reward-go/config"
	authadapters "github.com/erzhan12/habit-reward-go/internal/auth/adapters"
	authports "github.com/erzhan12/habit-reward-go/internal/auth/ports"
	authsvc "github.com/erzhan12/habit-reward-go/internal/auth/service"
	"github.com/erzhan12/habit-reward-go/internal/common/database"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/common/metrics"
	"github.com/erzhan12/habit-reward-go/internal/common/observability"
	"github.com/erzhan12/habit-reward-go/internal/common/validator"
	habitports "github.com/erzhan12/habit-reward-go/internal/habits/ports"
	habitsvc "github.com/erzhan12/habit-reward-go/internal/habits/service"
	"github.com/erzhan12/habit-reward-go/migrations"
)

// Build-time variables injected via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// main is deliberately kept simple: it only calls run().
func main() {
	ctx := context.Background()
	if err := run(ctx, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// run is the real entry point for the application.
func run(ctx context.Context, _, _ io.Writer) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info(ctx, "starting app",
		logger.Field{Key: "env", Value: cfg.AppEnv},
		logger.Field{Key: "version", Value: version},
		logger.Field{Key: "commit", Value: commit},
		logger.Field{Key: "build_time", Value: buildTime},
	)

	otelProvider, db, err := initInfrastructure(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer otelProvider.Shutdown(ctx)
	defer db.Close()

	router := buildRouter(ctx, cfg, db, otelProvider, appLogger)
	httpServer := NewServer(cfg, router, appLogger)

	serverErrors := make(chan error, 1)
	go func() {
		if err := httpServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		appLogger.Info(ctx, "shutdown signal received")
	}

	return gracefulShutdown(ctx, httpServer, appLogger)
}

// initInfrastructure initializes all infrastructure dependencies.
func initInfrastructure(
	ctx context.Context,
	cfg *config.Config,
	appLogger logger.Logger,
) (*observability.Provider, *sqlx.DB, error) {
	otelProvider, err := observability.New(ctx, observability.Config{
		ServiceName:    cfg.AppName,
		ServiceVersion: version,
		Environment:    cfg.AppEnv,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		EnableTracing:  cfg.OTLPEnableTracing,
		EnableMetrics:  cfg.OTLPEnableMetrics,
		SampleRate:     cfg.OTLPSampleRate,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	appLogger.Info(ctx, "OpenTelemetry initialized",
		logger.Field{Key: "tracing", Value: cfg.OTLPEnableTracing},
		logger.Field{Key: "metrics", Value: cfg.OTLPEnableMetrics},
	)

	if _, err := observability.InitMetrics(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	db, err := database.NewSQLXConnection(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	appLogger.Info(ctx, "database connection established")

	if err := database.RunMigrations(cfg.DSN(), migrations.FS, "."); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	appLogger.Info(ctx, "database migrations completed")

	return otelProvider, db, nil
}

// buildRouter wires the auth and habits modules and mounts their REST
// and webhook surfaces onto a single chi router.
func buildRouter(
	ctx context.Context,
	cfg *config.Config,
	db *sqlx.DB,
	otelProvider *observability.Provider,
	appLogger logger.Logger,
) chi.Router {
	metricsClient := metrics.NewPrometheusMetricsClient()
	validate := validator.New("en")

	authApp := authsvc.NewApplication(ctx, cfg, db, appLogger, metricsClient)
	userRepo := authadapters.NewUserPostgresRepository(db)
	habitsApp := habitsvc.NewApplication(ctx, db, userRepo, appLogger, metricsClient)

	return NewRouter(RouterConfig{
		Config:         cfg,
		AuthHandlers:   authports.NewHandlers(authApp, validate),
		HabitHandlers:  habitports.NewHandlers(habitsApp, validate),
		Webhook:        habitports.NewWebhookHandler(habitsApp, cfg.ChatTransportToken, appLogger),
		AuthMiddleware: authApp.AuthMiddleware,
		OTELProvider:   otelProvider,
	})
}

// gracefulShutdown handles graceful shutdown of the HTTP server.
func gracefulShutdown(ctx context.Context, httpServer *Server, appLogger logger.Logger) error {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	appLogger.Info(ctx, "server stopped gracefully")
	return nil
}
