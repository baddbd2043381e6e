package habitlog

import (
	"context"

	"github.com/erzhan12/habit-reward-go/internal/common/clock"
)

// Reader is the narrow read-side contract for habit logs.
type Reader interface {
	// GetLatestLog returns the most recent log for the habit, or
	// ErrNotFound if the habit has never been completed.
	GetLatestLog(ctx context.Context, userID, habitID int64) (*HabitLog, error)

	// GetLatestLogBefore returns the most recent log credited strictly
	// before the given date. Used by the streak calculator to walk
	// backwards from a backdated completion.
	GetLatestLogBefore(ctx context.Context, userID, habitID int64, before clock.Date) (*HabitLog, error)

	// GetLogByDate returns the log (if any) credited to exactly this
	// calendar date.
	GetLogByDate(ctx context.Context, userID, habitID int64, date clock.Date) (*HabitLog, error)

	// GetLogByID returns a log by its primary key, for ownership-checked
	// operations that only know the log id.
	GetLogByID(ctx context.Context, logID int64) (*HabitLog, error)

	// ListLogsAfter returns logs credited strictly after the given date,
	// ordered by LastCompletedDate ascending. Used for suffix
	// recomputation after a backdated completion.
	ListLogsAfter(ctx context.Context, userID, habitID int64, after clock.Date) ([]*HabitLog, error)

	// ListLogs returns a page of logs for a user, optionally scoped to a
	// single habit and/or a calendar date range, ordered by
	// LastCompletedDate descending.
	ListLogs(ctx context.Context, userID int64, f ListLogsFilter) ([]*HabitLog, error)
}

// ListLogsFilter narrows ListLogs; nil fields are unconstrained.
type ListLogsFilter struct {
	HabitID   *int64
	StartDate *clock.Date
	EndDate   *clock.Date
	Limit     int
	Offset    int
}

// Writer is the narrow write-side contract for habit logs.
type Writer interface {
	AddLog(ctx context.Context, l *HabitLog) (int64, error)
	DeleteLog(ctx context.Context, logID, userID int64) error
	UpdateStreakCount(ctx context.Context, logID int64, streakCount int) error
}

// Repository is the full contract a storage implementation must satisfy.
type Repository interface {
	Reader
	Writer
}
