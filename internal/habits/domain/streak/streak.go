// Package streak derives streak counts from habit-log history, with
// grace-day and weekday-exemption leniency.
package streak

import (
	"context"
	"errors"

	"github.com/erzhan12/habit-reward-go/internal/common/clock"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habit"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habitlog"
)

// Calculator derives streak counts for a target completion date from
// the log history and the habit's leniency settings.
type Calculator struct {
	logs   habitlog.Reader
	habits habit.Reader
}

func NewCalculator(logs habitlog.Reader, habits habit.Reader) *Calculator {
	return &Calculator{logs: logs, habits: habits}
}

// StreakFor computes the streak a completion on targetDate would carry,
// given the log history strictly before it.
func (c *Calculator) StreakFor(ctx context.Context, userID, habitID int64, targetDate clock.Date) (int, error) {
	h, err := c.habits.GetHabit(ctx, habitID)
	if err != nil {
		// Fail-closed: a habit that cannot be loaded is treated as a
		// broken streak rather than propagating the error.
		return 1, nil
	}

	prev, err := c.logs.GetLatestLogBefore(ctx, userID, habitID, targetDate)
	if err != nil {
		if errors.Is(err, habitlog.ErrNotFound) {
			return 1, nil
		}
		return 0, err
	}

	gapDayBefore := targetDate.AddDays(-1)
	prevDate := prev.LastCompletedDate()

	switch {
	case prevDate.Equal(gapDayBefore):
		return prev.StreakCount() + 1, nil
	case prevDate.Before(gapDayBefore):
		missed := countNonExemptDaysBetween(prevDate, targetDate, h)
		if missed <= h.AllowedSkipDays() {
			return prev.StreakCount() + 1, nil
		}
		return 1, nil
	default:
		// A later log exists than targetDate — should not occur given
		// C6's duplicate-day check, but fail safe rather than panic.
		return 1, nil
	}
}

// CurrentStreak returns the streak already recorded on the most recent
// log, without projecting any new completion. Returns 0 if none exists.
func (c *Calculator) CurrentStreak(ctx context.Context, userID, habitID int64) (int, error) {
	latest, err := c.logs.GetLatestLog(ctx, userID, habitID)
	if err != nil {
		if errors.Is(err, habitlog.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return latest.StreakCount(), nil
}

// countNonExemptDaysBetween counts dates in the open interval
// (from, to) whose ISO weekday is not exempt for h.
func countNonExemptDaysBetween(from, to clock.Date, h *habit.Habit) int {
	count := 0
	for d := from.AddDays(1); d.Before(to); d = d.AddDays(1) {
		if !h.IsExemptWeekday(d.ISOWeekday()) {
			count++
		}
	}
	return count
}
