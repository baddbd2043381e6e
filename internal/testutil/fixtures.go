package testutil

import (
	"context"
	"time"
)

// TestUser represents a test user fixture, keyed by Telegram ID the
// same way the real user aggregate is.
type TestUser struct {
	UserID     int64
	TelegramID int64
	Name       string
	Language   string
	Timezone   string
	IsActive   bool
}

// CreateTestUser creates a user directly in the database for testing
// and returns its assigned UserID.
func (c *PostgresContainer) CreateTestUser(ctx context.Context, user TestUser) (int64, error) {
	if user.Language == "" {
		user.Language = "en"
	}
	if user.Timezone == "" {
		user.Timezone = "UTC"
	}

	const q = `
		INSERT INTO users (telegram_id, name, language, timezone, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id
	`
	var id int64
	err := c.DB.QueryRowxContext(ctx, q, user.TelegramID, user.Name, user.Language, user.Timezone, user.IsActive).Scan(&id)
	return id, err
}

// TestHabit represents a test habit fixture
type TestHabit struct {
	UserID          int64
	Name            string
	Category        *string
	Weight          int
	AllowedSkipDays int
	ExemptWeekdays  []int64
	IsActive        bool
}

// CreateTestHabit creates a habit directly in the database for testing
// and returns its assigned HabitID.
func (c *PostgresContainer) CreateTestHabit(ctx context.Context, habit TestHabit) (int64, error) {
	if habit.Weight == 0 {
		habit.Weight = 1
	}
	if habit.ExemptWeekdays == nil {
		habit.ExemptWeekdays = []int64{}
	}

	now := time.Now()
	const q = `
		INSERT INTO habits (user_id, name, category, weight, allowed_skip_days, exempt_weekdays, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING habit_id
	`
	var id int64
	err := c.DB.QueryRowxContext(ctx, q,
		habit.UserID, habit.Name, habit.Category, habit.Weight,
		habit.AllowedSkipDays, habit.ExemptWeekdays, habit.IsActive, now, now,
	).Scan(&id)
	return id, err
}

// DefaultTestUser returns a default test user fixture.
func DefaultTestUser(telegramID int64) TestUser {
	return TestUser{
		TelegramID: telegramID,
		Name:       "Test User",
		Language:   "en",
		Timezone:   "UTC",
		IsActive:   true,
	}
}
