package command_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/user"
	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/clock"
	"github.com/erzhan12/habit-reward-go/internal/habits/app/command"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habit"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/reward"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/streak"
)

func setupCompletionFixture(t *testing.T) (*fakeUow, *user.User, *habit.Habit) {
	t.Helper()
	now := time.Now()
	u := user.UnmarshalUserFromDatabase(1, 42, "Test", "en", "UTC", true, now, now)
	h := habit.UnmarshalHabitFromDatabase(100, 1, "read", nil, 10, 0, nil, true, now.Add(-30*24*time.Hour), now)

	uow := newFakeUow()
	uow.habits.byID[100] = h
	return uow, u, h
}

func TestProcessCompletionHandle(t *testing.T) {
	t.Parallel()

	Convey("Given a completion handler with no reward candidates", t, func() {
		uow, u, _ := setupCompletionFixture(t)
		users := &fakeUserReader{byTelegramID: map[int64]*user.User{42: u}}
		calc := streak.NewCalculator(uow.HabitLogs(), uow.Habits())
		selector := reward.NewSelector(uow.Rewards())
		h := command.NewProcessCompletionHandler(users, uow, calc, selector, noopLogger{}, noopMetrics{})

		Convey("When an unknown telegram id completes", func() {
			_, err := h.Handle(context.Background(), command.ProcessCompletion{TelegramID: 999, HabitName: "read"})

			Convey("Then it returns UserNotFound", func() {
				appErr := apperror.GetAppError(err)
				So(appErr, ShouldNotBeNil)
				So(appErr.Code, ShouldEqual, apperror.ErrCodeUserNotFound)
			})
		})

		Convey("When an inactive user completes", func() {
			inactiveUser := user.UnmarshalUserFromDatabase(1, 43, "Test", "en", "UTC", false, time.Now(), time.Now())
			users2 := &fakeUserReader{byTelegramID: map[int64]*user.User{43: inactiveUser}}
			h2 := command.NewProcessCompletionHandler(users2, uow, calc, selector, noopLogger{}, noopMetrics{})
			_, err := h2.Handle(context.Background(), command.ProcessCompletion{TelegramID: 43, HabitName: "read"})

			Convey("Then it returns UserInactive", func() {
				appErr := apperror.GetAppError(err)
				So(appErr, ShouldNotBeNil)
				So(appErr.Code, ShouldEqual, apperror.ErrCodeUserInactive)
			})
		})

		Convey("When the habit name doesn't exist", func() {
			_, err := h.Handle(context.Background(), command.ProcessCompletion{TelegramID: 42, HabitName: "nonexistent"})

			Convey("Then it returns HabitNotFound", func() {
				appErr := apperror.GetAppError(err)
				So(appErr, ShouldNotBeNil)
				So(appErr.Code, ShouldEqual, apperror.ErrCodeHabitNotFound)
			})
		})

		Convey("When the habit is completed for the first time today", func() {
			result, err := h.Handle(context.Background(), command.ProcessCompletion{TelegramID: 42, HabitName: "read"})

			Convey("Then it confirms with a fresh streak of 1 and no reward", func() {
				So(err, ShouldBeNil)
				So(result.HabitConfirmed, ShouldBeTrue)
				So(result.Streak, ShouldEqual, 1)
				So(result.GotReward, ShouldBeFalse)
				So(result.TotalWeight, ShouldEqual, 11.0)
			})
		})

		Convey("When the same habit is completed twice for the same day", func() {
			_, err := h.Handle(context.Background(), command.ProcessCompletion{TelegramID: 42, HabitName: "read"})
			So(err, ShouldBeNil)
			_, err = h.Handle(context.Background(), command.ProcessCompletion{TelegramID: 42, HabitName: "read"})

			Convey("Then the second attempt returns AlreadyCompleted", func() {
				appErr := apperror.GetAppError(err)
				So(appErr, ShouldNotBeNil)
				So(appErr.Code, ShouldEqual, apperror.ErrCodeAlreadyCompleted)
			})
		})

		Convey("When the target date is in the future", func() {
			future := clock.UserToday("UTC").AddDays(1)
			_, err := h.Handle(context.Background(), command.ProcessCompletion{TelegramID: 42, HabitName: "read", TargetDate: &future})

			Convey("Then it returns FutureDate", func() {
				appErr := apperror.GetAppError(err)
				So(appErr, ShouldNotBeNil)
				So(appErr.Code, ShouldEqual, apperror.ErrCodeFutureDate)
			})
		})

		Convey("When the target date is more than 7 days in the past", func() {
			tooOld := clock.UserToday("UTC").AddDays(-8)
			_, err := h.Handle(context.Background(), command.ProcessCompletion{TelegramID: 42, HabitName: "read", TargetDate: &tooOld})

			Convey("Then it returns TooOld", func() {
				appErr := apperror.GetAppError(err)
				So(appErr, ShouldNotBeNil)
				So(appErr.Code, ShouldEqual, apperror.ErrCodeTooOld)
			})
		})
	})

	Convey("Given a completion handler with a guaranteed reward draw", t, func() {
		uow, u, _ := setupCompletionFixture(t)
		users := &fakeUserReader{byTelegramID: map[int64]*user.User{42: u}}
		prize, err := reward.New(1, "sticker", 5, 3, nil, 0)
		So(err, ShouldBeNil)
		uow.rewards.byID[1] = prize

		calc := streak.NewCalculator(uow.HabitLogs(), uow.Habits())
		selector := reward.NewSelector(uow.Rewards()).WithRand(func() float64 { return 0 })
		h := command.NewProcessCompletionHandler(users, uow, calc, selector, noopLogger{}, noopMetrics{})

		Convey("When the habit is completed", func() {
			result, err := h.Handle(context.Background(), command.ProcessCompletion{TelegramID: 42, HabitName: "read"})

			Convey("Then it reports the reward and increments progress", func() {
				So(err, ShouldBeNil)
				So(result.GotReward, ShouldBeTrue)
				So(*result.RewardName, ShouldEqual, "sticker")
				So(*result.PiecesEarned, ShouldEqual, 1)
				So(*result.PiecesRequired, ShouldEqual, 3)
			})
		})
	})
}

func TestProcessCompletionSuffixRecomputation(t *testing.T) {
	t.Parallel()

	Convey("Given a habit with a completion logged for today", t, func() {
		uow, u, h := setupCompletionFixture(t)
		users := &fakeUserReader{byTelegramID: map[int64]*user.User{42: u}}
		calc := streak.NewCalculator(uow.HabitLogs(), uow.Habits())
		selector := reward.NewSelector(uow.Rewards())
		handler := command.NewProcessCompletionHandler(users, uow, calc, selector, noopLogger{}, noopMetrics{})

		today := clock.UserToday("UTC")
		_, err := handler.Handle(context.Background(), command.ProcessCompletion{TelegramID: 42, HabitName: "read"})
		So(err, ShouldBeNil)

		Convey("When a backdated completion fills the gap the day before", func() {
			yesterday := today.AddDays(-1)
			_, err := handler.Handle(context.Background(), command.ProcessCompletion{TelegramID: 42, HabitName: "read", TargetDate: &yesterday})
			So(err, ShouldBeNil)

			Convey("Then today's log is recomputed to extend the streak", func() {
				todayLog, err := uow.logs.GetLogByDate(context.Background(), u.UserID(), h.HabitID(), today)
				So(err, ShouldBeNil)
				So(todayLog.StreakCount(), ShouldEqual, 2)
			})
		})
	})
}
