package command_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/habits/app/command"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/reward"
)

func TestClaimRewardHandle(t *testing.T) {
	t.Parallel()

	Convey("Given a reward owned by user 1 requiring 1 piece", t, func() {
		uow := newFakeUow()
		prize, err := reward.New(1, "sticker", 5, 1, nil, 0)
		So(err, ShouldBeNil)
		uow.rewards.byID[1] = prize

		h := command.NewClaimRewardHandler(uow, noopLogger{}, noopMetrics{})

		Convey("When it hasn't been earned yet", func() {
			_, err := h.Handle(context.Background(), command.ClaimReward{UserID: 1, RewardID: 1})

			Convey("Then it returns NotAchieved as a 422", func() {
				appErr := apperror.GetAppError(err)
				So(appErr, ShouldNotBeNil)
				So(appErr.Code, ShouldEqual, apperror.ErrCodeNotAchieved)
				So(appErr.StatusCode, ShouldEqual, 422)
			})
		})

		Convey("When it has been earned but not yet claimed", func() {
			_, err := uow.progress.IncrementPieces(context.Background(), 1, 1, 1)
			So(err, ShouldBeNil)

			result, err := h.Handle(context.Background(), command.ClaimReward{UserID: 1, RewardID: 1})

			Convey("Then it claims successfully", func() {
				So(err, ShouldBeNil)
				So(result.RewardName, ShouldEqual, "sticker")
				So(result.PiecesEarned, ShouldEqual, 1)
				So(result.PiecesRequired, ShouldEqual, 1)
			})
		})

		Convey("When it has already been claimed", func() {
			_, err := uow.progress.IncrementPieces(context.Background(), 1, 1, 1)
			So(err, ShouldBeNil)
			_, err = h.Handle(context.Background(), command.ClaimReward{UserID: 1, RewardID: 1})
			So(err, ShouldBeNil)

			_, err = h.Handle(context.Background(), command.ClaimReward{UserID: 1, RewardID: 1})

			Convey("Then it returns AlreadyClaimed as a 409", func() {
				appErr := apperror.GetAppError(err)
				So(appErr, ShouldNotBeNil)
				So(appErr.Code, ShouldEqual, apperror.ErrCodeAlreadyClaimed)
				So(appErr.StatusCode, ShouldEqual, 409)
			})
		})
	})
}
