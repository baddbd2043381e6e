package adapters

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/common/database"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habit"
	"github.com/lib/pq"
)

type habitModel struct {
	HabitID         int64          `db:"habit_id"`
	UserID          int64          `db:"user_id"`
	Name            string         `db:"name"`
	Category        sql.NullString `db:"category"`
	Weight          int            `db:"weight"`
	AllowedSkipDays int            `db:"allowed_skip_days"`
	ExemptWeekdays  pq.Int64Array  `db:"exempt_weekdays"`
	IsActive        bool           `db:"is_active"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// HabitPostgresRepository is the sqlx/lib-pq backed implementation of
// habit.Repository.
type HabitPostgresRepository struct {
	db database.DBTX
}

func NewHabitPostgresRepository(db database.DBTX) *HabitPostgresRepository {
	return &HabitPostgresRepository{db: db}
}

func (r *HabitPostgresRepository) AddHabit(ctx context.Context, h *habit.Habit) (int64, error) {
	const q = `
		INSERT INTO habits (user_id, name, category, weight, allowed_skip_days, exempt_weekdays, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING habit_id
	`
	var habitID int64
	err := r.db.QueryRowxContext(ctx, q,
		h.UserID(),
		h.Name(),
		categoryToNull(h.Category()),
		h.Weight(),
		h.AllowedSkipDays(),
		weekdaysToArray(h.ExemptWeekdays()),
		h.IsActive(),
		h.CreatedAt(),
		h.UpdatedAt(),
	).Scan(&habitID)
	return habitID, err
}

func (r *HabitPostgresRepository) GetHabit(ctx context.Context, habitID int64) (*habit.Habit, error) {
	var m habitModel
	const q = `SELECT * FROM habits WHERE habit_id = $1`
	err := r.db.GetContext(ctx, &m, q, habitID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, habit.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalHabit(m), nil
}

func (r *HabitPostgresRepository) GetHabitByName(ctx context.Context, userID int64, name string) (*habit.Habit, error) {
	var m habitModel
	const q = `SELECT * FROM habits WHERE user_id = $1 AND name = $2`
	err := r.db.GetContext(ctx, &m, q, userID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, habit.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalHabit(m), nil
}

func (r *HabitPostgresRepository) ListHabits(ctx context.Context, userID int64, activeOnly bool, category *string) ([]*habit.Habit, error) {
	q := `SELECT * FROM habits WHERE user_id = $1`
	args := []interface{}{userID}
	if activeOnly {
		q += ` AND is_active = true`
	}
	if category != nil {
		args = append(args, *category)
		q += ` AND category = $2`
	}
	q += ` ORDER BY created_at DESC`

	var models []habitModel
	if err := r.db.SelectContext(ctx, &models, q, args...); err != nil {
		return nil, err
	}
	habits := make([]*habit.Habit, len(models))
	for i, m := range models {
		habits[i] = unmarshalHabit(m)
	}
	return habits, nil
}

func (r *HabitPostgresRepository) UpdateHabit(
	ctx context.Context,
	habitID, userID int64,
	updateFn func(h *habit.Habit) (*habit.Habit, error),
) (*habit.Habit, error) {
	var result *habit.Habit
	err := database.RunInTx(ctx, r.db, func(tx database.DBTX) error {
		var m habitModel
		const q = `SELECT * FROM habits WHERE habit_id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &m, q, habitID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return habit.ErrNotFound
			}
			return err
		}

		h := unmarshalHabit(m)
		if err := h.CanBeModifiedBy(userID); err != nil {
			return err
		}

		updated, err := updateFn(h)
		if err != nil {
			return err
		}

		const update = `
			UPDATE habits
			SET name = $1, category = $2, weight = $3, allowed_skip_days = $4,
			    exempt_weekdays = $5, is_active = $6, updated_at = $7
			WHERE habit_id = $8
		`
		_, err = tx.ExecContext(ctx, update,
			updated.Name(),
			categoryToNull(updated.Category()),
			updated.Weight(),
			updated.AllowedSkipDays(),
			weekdaysToArray(updated.ExemptWeekdays()),
			updated.IsActive(),
			updated.UpdatedAt(),
			habitID,
		)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	return result, err
}

func unmarshalHabit(m habitModel) *habit.Habit {
	weekdays := make([]int, len(m.ExemptWeekdays))
	for i, d := range m.ExemptWeekdays {
		weekdays[i] = int(d)
	}
	return habit.UnmarshalHabitFromDatabase(
		m.HabitID,
		m.UserID,
		m.Name,
		nullStringToPtr(m.Category),
		m.Weight,
		m.AllowedSkipDays,
		weekdays,
		m.IsActive,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func categoryToNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func weekdaysToArray(days []int) pq.Int64Array {
	out := make(pq.Int64Array, len(days))
	for i, d := range days {
		out[i] = int64(d)
	}
	return out
}

// nullStringToPtr converts sql.NullString to *string, nil if not valid.
func nullStringToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
