package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/erzhan12/habit-reward-go/internal/common/database"
	"github.com/erzhan12/habit-reward-go/migrations"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance
type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnectionString string
	DB               *sqlx.DB
}

// NewPostgresContainer creates and starts a new PostgreSQL container for testing
func NewPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	container, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("habit_reward_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &PostgresContainer{
		PostgresContainer: container,
		ConnectionString:  connStr,
		DB:                db,
	}, nil
}

// RunMigrations applies the real schema migrations against the
// container, the same way the API process does on startup.
func (c *PostgresContainer) RunMigrations(ctx context.Context) error {
	return database.RunMigrations(c.ConnectionString, migrations.FS, ".")
}

// Cleanup cleans up the container and database connection
func (c *PostgresContainer) Cleanup(ctx context.Context) error {
	if c.DB != nil {
		c.DB.Close()
	}
	return c.Terminate(ctx)
}

// TruncateTables clears all data from tables (useful between tests)
func (c *PostgresContainer) TruncateTables(ctx context.Context) error {
	tables := []string{
		"bot_audit_logs", "reward_progress", "habit_logs",
		"rewards", "habits", "api_keys", "auth_codes", "users",
	}
	for _, table := range tables {
		_, err := c.DB.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return err
		}
	}
	return nil
}
