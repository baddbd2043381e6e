package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/erzhan12/habit-reward-go/config"
	authadapters "github.com/erzhan12/habit-reward-go/internal/auth/adapters"
	"github.com/erzhan12/habit-reward-go/internal/auth/domain/authcode"
	"github.com/erzhan12/habit-reward-go/internal/common/database"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	habitsadapters "github.com/erzhan12/habit-reward-go/internal/habits/adapters"
)

// auditLogRetention bounds how long completed/reverted/claimed audit
// snapshots are kept; A10 runs this as its own sweep, independent of
// and on a different cadence than auth-code cleanup.
const auditLogRetention = 90 * 24 * time.Hour

const (
	taskCleanupAuthCodes = "authcodes:cleanup"
	taskCleanupAuditLog  = "auditlog:cleanup"
)

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

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
	appLogger.Info(ctx, "starting worker", logger.Field{Key: "env", Value: cfg.AppEnv})

	db, err := database.NewSQLXConnection(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	appLogger.Info(ctx, "database connection established")

	authCodeRepo := authadapters.NewAuthCodePostgresRepository(db)
	userRepo := authadapters.NewUserPostgresRepository(db)
	authCodes := authcode.NewService(authCodeRepo, userRepo)
	auditLogs := habitsadapters.NewAuditLogPostgresRepository(db)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisDSN(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 5,
			Queues:      map[string]int{"default": 1},
			Logger:      newAsynqLogger(appLogger),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(taskCleanupAuthCodes, func(taskCtx context.Context, _ *asynq.Task) error {
		n, err := authCodes.CleanupExpired(taskCtx, time.Now())
		if err != nil {
			appLogger.Error(taskCtx, err, "auth-code cleanup failed")
			return err
		}
		appLogger.Info(taskCtx, "auth-code cleanup completed", logger.Field{Key: "deleted", Value: n})
		return nil
	})
	mux.HandleFunc(taskCleanupAuditLog, func(taskCtx context.Context, _ *asynq.Task) error {
		n, err := auditLogs.Cleanup(taskCtx, time.Now().Add(-auditLogRetention))
		if err != nil {
			appLogger.Error(taskCtx, err, "audit-log cleanup failed")
			return err
		}
		appLogger.Info(taskCtx, "audit-log cleanup completed", logger.Field{Key: "deleted", Value: n})
		return nil
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Logger: newAsynqLogger(appLogger)})

	if _, err := scheduler.Register("*/15 * * * *", asynq.NewTask(taskCleanupAuthCodes, nil)); err != nil {
		return fmt.Errorf("failed to register auth-code cleanup schedule: %w", err)
	}
	if _, err := scheduler.Register("0 3 * * *", asynq.NewTask(taskCleanupAuditLog, nil)); err != nil {
		return fmt.Errorf("failed to register audit-log cleanup schedule: %w", err)
	}

	appLogger.Info(ctx, "starting worker and scheduler")

	schedulerErrors := make(chan error, 1)
	go func() {
		if err := scheduler.Run(); err != nil {
			schedulerErrors <- err
		}
	}()

	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.Run(mux); err != nil {
			serverErrors <- err
		}
	}()

	select {
	case err := <-schedulerErrors:
		return fmt.Errorf("scheduler failed: %w", err)
	case err := <-serverErrors:
		return fmt.Errorf("worker server failed: %w", err)
	case <-ctx.Done():
		appLogger.Info(ctx, "shutdown signal received")
	}

	srv.Shutdown()
	scheduler.Shutdown()

	appLogger.Info(ctx, "worker stopped gracefully")
	return nil
}

// newAsynqLogger adapts the structured application logger to asynq's
// logger interface.
func newAsynqLogger(l logger.Logger) asynq.Logger {
	return &asynqLoggerAdapter{l}
}

type asynqLoggerAdapter struct {
	logger logger.Logger
}

func (l *asynqLoggerAdapter) Debug(args ...interface{}) {
	l.logger.Debug(context.Background(), "asynq", logger.Field{Key: "msg", Value: args})
}

func (l *asynqLoggerAdapter) Info(args ...interface{}) {
	l.logger.Info(context.Background(), "asynq", logger.Field{Key: "msg", Value: args})
}

func (l *asynqLoggerAdapter) Warn(args ...interface{}) {
	l.logger.Warn(context.Background(), "asynq", logger.Field{Key: "msg", Value: args})
}

func (l *asynqLoggerAdapter) Error(args ...interface{}) {
	l.logger.Error(context.Background(), nil, "asynq", logger.Field{Key: "msg", Value: args})
}

func (l *asynqLoggerAdapter) Fatal(args ...interface{}) {
	l.logger.Error(context.Background(), nil, "asynq fatal", logger.Field{Key: "msg", Value: args})
	os.Exit(1)
}
