package command_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/user"
	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/habits/app/command"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/reward"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/streak"
)

func TestRevertLatestHandle(t *testing.T) {
	t.Parallel()

	Convey("Given a user with a completed, reward-earning habit", t, func() {
		uow, u, h := setupCompletionFixture(t)
		users := &fakeUserReader{byTelegramID: map[int64]*user.User{42: u}}
		prize, err := reward.New(1, "sticker", 5, 3, nil, 0)
		So(err, ShouldBeNil)
		uow.rewards.byID[1] = reward.UnmarshalFromDatabase(1, prize.UserID(), prize.Name(), prize.Weight(), prize.PiecesRequired(), prize.PieceValue(), prize.MaxDailyClaims(), prize.IsActive(), prize.CreatedAt(), prize.UpdatedAt())

		calc := streak.NewCalculator(uow.HabitLogs(), uow.Habits())
		selector := reward.NewSelector(uow.Rewards()).WithRand(func() float64 { return 0 })
		completionHandler := command.NewProcessCompletionHandler(users, uow, calc, selector, noopLogger{}, noopMetrics{})
		_, err = completionHandler.Handle(context.Background(), command.ProcessCompletion{TelegramID: 42, HabitName: "read"})
		So(err, ShouldBeNil)

		revertHandler := command.NewRevertLatestHandler(users, uow, noopLogger{}, noopMetrics{})

		Convey("When the user reverts it", func() {
			result, err := revertHandler.Handle(context.Background(), command.RevertLatest{TelegramID: 42, HabitName: "read"})

			Convey("Then it deletes the log and rolls back the reward progress", func() {
				So(err, ShouldBeNil)
				So(result.Success, ShouldBeTrue)
				So(result.RewardReverted, ShouldBeTrue)
				So(*result.RewardName, ShouldEqual, "sticker")
				So(*result.PiecesEarned, ShouldEqual, 0)

				_, err := uow.logs.GetLatestLog(context.Background(), u.UserID(), h.HabitID())
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When there is nothing left to revert", func() {
			_, err := revertHandler.Handle(context.Background(), command.RevertLatest{TelegramID: 42, HabitName: "read"})
			So(err, ShouldBeNil)
			_, err = revertHandler.Handle(context.Background(), command.RevertLatest{TelegramID: 42, HabitName: "read"})

			Convey("Then it returns NothingToRevert", func() {
				appErr := apperror.GetAppError(err)
				So(appErr, ShouldNotBeNil)
				So(appErr.Code, ShouldEqual, apperror.ErrCodeNothingToRevert)
			})
		})

		Convey("When an unknown habit name is reverted", func() {
			_, err := revertHandler.Handle(context.Background(), command.RevertLatest{TelegramID: 42, HabitName: "missing"})

			Convey("Then it returns HabitNotFound", func() {
				appErr := apperror.GetAppError(err)
				So(appErr, ShouldNotBeNil)
				So(appErr.Code, ShouldEqual, apperror.ErrCodeHabitNotFound)
			})
		})
	})
}

func TestRevertByLogIdHandle(t *testing.T) {
	t.Parallel()

	Convey("Given a completed habit log owned by user 1", t, func() {
		uow, u, _ := setupCompletionFixture(t)
		users := &fakeUserReader{byTelegramID: map[int64]*user.User{42: u}}
		calc := streak.NewCalculator(uow.HabitLogs(), uow.Habits())
		selector := reward.NewSelector(uow.Rewards())
		completionHandler := command.NewProcessCompletionHandler(users, uow, calc, selector, noopLogger{}, noopMetrics{})
		_, err := completionHandler.Handle(context.Background(), command.ProcessCompletion{TelegramID: 42, HabitName: "read"})
		So(err, ShouldBeNil)

		logged, err := uow.logs.GetLatestLog(context.Background(), u.UserID(), 100)
		So(err, ShouldBeNil)

		revertHandler := command.NewRevertByLogIdHandler(uow, noopLogger{}, noopMetrics{})

		Convey("When the owner reverts by log id", func() {
			result, err := revertHandler.Handle(context.Background(), command.RevertByLogId{UserID: 1, LogID: logged.LogID()})

			Convey("Then it succeeds", func() {
				So(err, ShouldBeNil)
				So(result.Success, ShouldBeTrue)
			})
		})

		Convey("When a different user attempts to revert it", func() {
			_, err := revertHandler.Handle(context.Background(), command.RevertByLogId{UserID: 999, LogID: logged.LogID()})

			Convey("Then it returns NotOwner", func() {
				appErr := apperror.GetAppError(err)
				So(appErr, ShouldNotBeNil)
				So(appErr.Code, ShouldEqual, apperror.ErrCodeNotOwner)
			})
		})

		Convey("When the log id does not exist", func() {
			_, err := revertHandler.Handle(context.Background(), command.RevertByLogId{UserID: 1, LogID: 99999})

			Convey("Then it returns LogNotFound", func() {
				appErr := apperror.GetAppError(err)
				So(appErr, ShouldNotBeNil)
				So(appErr.Code, ShouldEqual, apperror.ErrCodeLogNotFound)
			})
		})
	})
}
