package adapters

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/common/clock"
	"github.com/erzhan12/habit-reward-go/internal/common/database"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habitlog"
)

type habitLogModel struct {
	LogID             int64          `db:"log_id"`
	UserID            int64          `db:"user_id"`
	HabitID           int64          `db:"habit_id"`
	RewardID          sql.NullInt64  `db:"reward_id"`
	GotReward         bool           `db:"got_reward"`
	StreakCount       int            `db:"streak_count"`
	HabitWeightSnap   int            `db:"habit_weight_snapshot"`
	TotalWeight       float64        `db:"total_weight"`
	LastCompletedDate time.Time      `db:"last_completed_date"`
	CreatedAt         time.Time      `db:"created_at"`
}

// HabitLogPostgresRepository is the sqlx/lib-pq backed implementation of
// habitlog.Repository. Logs are immutable: there is no update query,
// only insert, delete, and the narrow streak_count rewrite used by
// suffix recomputation.
type HabitLogPostgresRepository struct {
	db database.DBTX
}

func NewHabitLogPostgresRepository(db database.DBTX) *HabitLogPostgresRepository {
	return &HabitLogPostgresRepository{db: db}
}

func (r *HabitLogPostgresRepository) AddLog(ctx context.Context, l *habitlog.HabitLog) (int64, error) {
	const q = `
		INSERT INTO habit_logs (user_id, habit_id, reward_id, got_reward, streak_count, habit_weight_snapshot, total_weight, last_completed_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING log_id
	`
	var logID int64
	err := r.db.QueryRowxContext(ctx, q,
		l.UserID(),
		l.HabitID(),
		rewardIDToNull(l.RewardID()),
		l.GotReward(),
		l.StreakCount(),
		l.HabitWeightSnapshot(),
		l.TotalWeight(),
		l.LastCompletedDate().String(),
		l.CreatedAt(),
	).Scan(&logID)
	return logID, err
}

func (r *HabitLogPostgresRepository) DeleteLog(ctx context.Context, logID, userID int64) error {
	const q = `DELETE FROM habit_logs WHERE log_id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, logID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return habitlog.ErrNotFound
	}
	return nil
}

func (r *HabitLogPostgresRepository) UpdateStreakCount(ctx context.Context, logID int64, streakCount int) error {
	const q = `UPDATE habit_logs SET streak_count = $1 WHERE log_id = $2`
	_, err := r.db.ExecContext(ctx, q, streakCount, logID)
	return err
}

func (r *HabitLogPostgresRepository) GetLatestLog(ctx context.Context, userID, habitID int64) (*habitlog.HabitLog, error) {
	var m habitLogModel
	const q = `
		SELECT * FROM habit_logs
		WHERE user_id = $1 AND habit_id = $2
		ORDER BY last_completed_date DESC, log_id DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &m, q, userID, habitID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, habitlog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalHabitLog(m)
}

func (r *HabitLogPostgresRepository) GetLatestLogBefore(ctx context.Context, userID, habitID int64, before clock.Date) (*habitlog.HabitLog, error) {
	var m habitLogModel
	const q = `
		SELECT * FROM habit_logs
		WHERE user_id = $1 AND habit_id = $2 AND last_completed_date < $3
		ORDER BY last_completed_date DESC, log_id DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &m, q, userID, habitID, before.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, habitlog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalHabitLog(m)
}

func (r *HabitLogPostgresRepository) GetLogByDate(ctx context.Context, userID, habitID int64, date clock.Date) (*habitlog.HabitLog, error) {
	var m habitLogModel
	const q = `
		SELECT * FROM habit_logs
		WHERE user_id = $1 AND habit_id = $2 AND last_completed_date = $3
	`
	err := r.db.GetContext(ctx, &m, q, userID, habitID, date.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, habitlog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalHabitLog(m)
}

func (r *HabitLogPostgresRepository) GetLogByID(ctx context.Context, logID int64) (*habitlog.HabitLog, error) {
	var m habitLogModel
	const q = `SELECT * FROM habit_logs WHERE log_id = $1`
	err := r.db.GetContext(ctx, &m, q, logID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, habitlog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalHabitLog(m)
}

func (r *HabitLogPostgresRepository) ListLogsAfter(ctx context.Context, userID, habitID int64, after clock.Date) ([]*habitlog.HabitLog, error) {
	const q = `
		SELECT * FROM habit_logs
		WHERE user_id = $1 AND habit_id = $2 AND last_completed_date > $3
		ORDER BY last_completed_date ASC, log_id ASC
	`
	var models []habitLogModel
	if err := r.db.SelectContext(ctx, &models, q, userID, habitID, after.String()); err != nil {
		return nil, err
	}
	return unmarshalHabitLogs(models)
}

func (r *HabitLogPostgresRepository) ListLogs(ctx context.Context, userID int64, f habitlog.ListLogsFilter) ([]*habitlog.HabitLog, error) {
	q := `SELECT * FROM habit_logs WHERE user_id = ?`
	args := []interface{}{userID}
	if f.HabitID != nil {
		q += ` AND habit_id = ?`
		args = append(args, *f.HabitID)
	}
	if f.StartDate != nil {
		q += ` AND last_completed_date >= ?`
		args = append(args, f.StartDate.String())
	}
	if f.EndDate != nil {
		q += ` AND last_completed_date <= ?`
		args = append(args, f.EndDate.String())
	}
	q += ` ORDER BY last_completed_date DESC, log_id DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)
	q = r.db.Rebind(q)

	var models []habitLogModel
	if err := r.db.SelectContext(ctx, &models, q, args...); err != nil {
		return nil, err
	}
	return unmarshalHabitLogs(models)
}

func unmarshalHabitLogs(models []habitLogModel) ([]*habitlog.HabitLog, error) {
	logs := make([]*habitlog.HabitLog, len(models))
	for i, m := range models {
		l, err := unmarshalHabitLog(m)
		if err != nil {
			return nil, err
		}
		logs[i] = l
	}
	return logs, nil
}

func unmarshalHabitLog(m habitLogModel) (*habitlog.HabitLog, error) {
	date, err := clock.ParseDate(m.LastCompletedDate.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	return habitlog.UnmarshalFromDatabase(
		m.LogID,
		m.UserID,
		m.HabitID,
		nullToRewardID(m.RewardID),
		m.GotReward,
		m.StreakCount,
		m.HabitWeightSnap,
		m.TotalWeight,
		date,
		m.CreatedAt,
	), nil
}

func rewardIDToNull(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func nullToRewardID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
