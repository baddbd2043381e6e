package streak_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/erzhan12/habit-reward-go/internal/common/clock"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habit"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habitlog"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/streak"
)

type fakeHabitReader struct {
	habit *habit.Habit
}

func (f *fakeHabitReader) GetHabit(ctx context.Context, habitID int64) (*habit.Habit, error) {
	if f.habit == nil {
		return nil, habit.ErrNotFound
	}
	return f.habit, nil
}

func (f *fakeHabitReader) GetHabitByName(ctx context.Context, userID int64, name string) (*habit.Habit, error) {
	return f.GetHabit(ctx, 0)
}

func (f *fakeHabitReader) ListHabits(ctx context.Context, userID int64, activeOnly bool, category *string) ([]*habit.Habit, error) {
	return []*habit.Habit{f.habit}, nil
}

type fakeLogReader struct {
	latest       *habitlog.HabitLog
	latestBefore *habitlog.HabitLog
}

func (f *fakeLogReader) GetLatestLog(ctx context.Context, userID, habitID int64) (*habitlog.HabitLog, error) {
	if f.latest == nil {
		return nil, habitlog.ErrNotFound
	}
	return f.latest, nil
}

func (f *fakeLogReader) GetLatestLogBefore(ctx context.Context, userID, habitID int64, before clock.Date) (*habitlog.HabitLog, error) {
	if f.latestBefore == nil {
		return nil, habitlog.ErrNotFound
	}
	return f.latestBefore, nil
}

func (f *fakeLogReader) GetLogByDate(ctx context.Context, userID, habitID int64, date clock.Date) (*habitlog.HabitLog, error) {
	return nil, habitlog.ErrNotFound
}

func (f *fakeLogReader) GetLogByID(ctx context.Context, logID int64) (*habitlog.HabitLog, error) {
	return nil, habitlog.ErrNotFound
}

func (f *fakeLogReader) ListLogsAfter(ctx context.Context, userID, habitID int64, after clock.Date) ([]*habitlog.HabitLog, error) {
	return nil, nil
}

func (f *fakeLogReader) ListLogs(ctx context.Context, userID int64, filter habitlog.ListLogsFilter) ([]*habitlog.HabitLog, error) {
	return nil, nil
}

func mustHabit(t *testing.T, allowedSkipDays int, exemptWeekdays []int) *habit.Habit {
	t.Helper()
	h, err := habit.NewHabit(1, "read", nil, 10, allowedSkipDays, exemptWeekdays)
	if err != nil {
		t.Fatalf("habit.NewHabit: %v", err)
	}
	return h
}

func mustLog(t *testing.T, date clock.Date, streakCount int) *habitlog.HabitLog {
	t.Helper()
	l, err := habitlog.New(1, 1, nil, false, streakCount, 10, 10, date)
	if err != nil {
		t.Fatalf("habitlog.New: %v", err)
	}
	return l
}

func TestCalculatorStreakFor(t *testing.T) {
	t.Parallel()

	Convey("Given a habit with no allowed skip days", t, func() {
		h := mustHabit(t, 0, nil)
		target, err := clock.ParseDate("2026-07-31") // a Friday
		So(err, ShouldBeNil)

		Convey("When there is no prior log", func() {
			calc := streak.NewCalculator(&fakeLogReader{}, &fakeHabitReader{habit: h})
			got, err := calc.StreakFor(context.Background(), 1, 1, target)

			Convey("Then the streak starts at 1", func() {
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 1)
			})
		})

		Convey("When the prior log was completed the day before", func() {
			prevDate, err := clock.ParseDate("2026-07-30")
			So(err, ShouldBeNil)
			prev := mustLog(t, prevDate, 4)
			calc := streak.NewCalculator(&fakeLogReader{latestBefore: prev}, &fakeHabitReader{habit: h})
			got, err := calc.StreakFor(context.Background(), 1, 1, target)

			Convey("Then the streak extends by one", func() {
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 5)
			})
		})

		Convey("When the prior log has a two-day gap with zero allowed skip days", func() {
			prevDate, err := clock.ParseDate("2026-07-28")
			So(err, ShouldBeNil)
			prev := mustLog(t, prevDate, 4)
			calc := streak.NewCalculator(&fakeLogReader{latestBefore: prev}, &fakeHabitReader{habit: h})
			got, err := calc.StreakFor(context.Background(), 1, 1, target)

			Convey("Then the streak resets to 1", func() {
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a habit that allows one skip day and exempts Sundays", t, func() {
		h := mustHabit(t, 1, []int{7})

		Convey("When the gap day is a non-exempt weekday within the allowance", func() {
			// gap: 2026-07-29 (Wed) missed between Tue and Thu.
			prevDate, err := clock.ParseDate("2026-07-28") // Tuesday
			So(err, ShouldBeNil)
			target, err := clock.ParseDate("2026-07-30") // Thursday, 1 missed day (Wed)
			So(err, ShouldBeNil)
			prev := mustLog(t, prevDate, 2)
			calc := streak.NewCalculator(&fakeLogReader{latestBefore: prev}, &fakeHabitReader{habit: h})
			got, err := calc.StreakFor(context.Background(), 1, 1, target)

			Convey("Then the streak extends because the miss is within the allowance", func() {
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 3)
			})
		})

		Convey("When the gap days include an exempt Sunday that doesn't count", func() {
			prevDate, err := clock.ParseDate("2026-07-24") // Friday
			So(err, ShouldBeNil)
			target, err := clock.ParseDate("2026-07-27") // Monday; missed Sat(25) + Sun(26, exempt)
			So(err, ShouldBeNil)
			prev := mustLog(t, prevDate, 2)
			calc := streak.NewCalculator(&fakeLogReader{latestBefore: prev}, &fakeHabitReader{habit: h})
			got, err := calc.StreakFor(context.Background(), 1, 1, target)

			Convey("Then only the non-exempt missed day counts against the allowance", func() {
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 3)
			})
		})

		Convey("When the gap exceeds the allowance even after exemptions", func() {
			prevDate, err := clock.ParseDate("2026-07-20") // Monday
			So(err, ShouldBeNil)
			target, err := clock.ParseDate("2026-07-27") // Monday a week later
			So(err, ShouldBeNil)
			prev := mustLog(t, prevDate, 2)
			calc := streak.NewCalculator(&fakeLogReader{latestBefore: prev}, &fakeHabitReader{habit: h})
			got, err := calc.StreakFor(context.Background(), 1, 1, target)

			Convey("Then the streak resets to 1", func() {
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a habit that fails to load", t, func() {
		calc := streak.NewCalculator(&fakeLogReader{}, &fakeHabitReader{habit: nil})
		target, err := clock.ParseDate("2026-07-31")
		So(err, ShouldBeNil)
		got, err := calc.StreakFor(context.Background(), 1, 1, target)

		Convey("Then it fails closed to a streak of 1 with no error", func() {
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 1)
		})
	})
}

func TestCalculatorCurrentStreak(t *testing.T) {
	t.Parallel()

	Convey("Given a calculator", t, func() {
		Convey("When there is no log", func() {
			calc := streak.NewCalculator(&fakeLogReader{}, &fakeHabitReader{})
			got, err := calc.CurrentStreak(context.Background(), 1, 1)

			Convey("Then it returns 0", func() {
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 0)
			})
		})

		Convey("When a log exists", func() {
			date, err := clock.ParseDate("2026-07-31")
			So(err, ShouldBeNil)
			latest := mustLog(t, date, 7)
			calc := streak.NewCalculator(&fakeLogReader{latest: latest}, &fakeHabitReader{})
			got, err := calc.CurrentStreak(context.Background(), 1, 1)

			Convey("Then it returns the log's recorded streak", func() {
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 7)
			})
		})
	})
}
