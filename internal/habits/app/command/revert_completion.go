package command

import (
	"context"
	"errors"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/user"
	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/adapters"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/auditlog"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habitlog"
)

// RevertLatest is C7's telegram-facing operation: delete the most
// recent log for (user, habit).
type RevertLatest struct {
	TelegramID int64
	HabitName  string
}

// RevertByLogId is C7's REST-facing operation: delete a specific log
// after an ownership check.
type RevertByLogId struct {
	UserID int64
	LogID  int64
}

// RevertResult is the shared response shape for both revert operations.
type RevertResult struct {
	Success        bool
	HabitName      string
	RewardReverted bool
	RewardName     *string
	PiecesEarned   *int
	PiecesRequired *int
}

type RevertLatestHandler decorator.CommandHandlerWithResult[RevertLatest, RevertResult]
type RevertByLogIdHandler decorator.CommandHandlerWithResult[RevertByLogId, RevertResult]

type revertHandler struct {
	users user.Reader
	uow   adapters.HabitsUnitOfWork
}

func NewRevertLatestHandler(users user.Reader, uow adapters.HabitsUnitOfWork, log logger.Logger, metricsClient decorator.MetricsClient) RevertLatestHandler {
	return decorator.ApplyCommandResultDecorators[RevertLatest, RevertResult](
		revertLatestHandler{revertHandler{users: users, uow: uow}}, log, metricsClient,
	)
}

func NewRevertByLogIdHandler(uow adapters.HabitsUnitOfWork, log logger.Logger, metricsClient decorator.MetricsClient) RevertByLogIdHandler {
	return decorator.ApplyCommandResultDecorators[RevertByLogId, RevertResult](
		revertByLogIdHandler{revertHandler{uow: uow}}, log, metricsClient,
	)
}

type revertLatestHandler struct{ revertHandler }
type revertByLogIdHandler struct{ revertHandler }

func (h revertLatestHandler) Handle(ctx context.Context, cmd RevertLatest) (RevertResult, error) {
	u, err := h.users.FindByTelegramID(ctx, cmd.TelegramID)
	if err != nil || !u.IsActive() {
		return RevertResult{}, apperror.UserInactive()
	}

	hb, err := h.uow.Habits().GetHabitByName(ctx, u.UserID(), cmd.HabitName)
	if err != nil {
		return RevertResult{}, apperror.HabitNotFound(cmd.HabitName)
	}

	l, err := h.uow.HabitLogs().GetLatestLog(ctx, u.UserID(), hb.HabitID())
	if err != nil {
		if errors.Is(err, habitlog.ErrNotFound) {
			return RevertResult{}, apperror.NothingToRevert()
		}
		return RevertResult{}, err
	}

	return revert(ctx, h.uow, u.UserID(), hb.Name(), l)
}

func (h revertByLogIdHandler) Handle(ctx context.Context, cmd RevertByLogId) (RevertResult, error) {
	found, err := h.uow.HabitLogs().GetLogByID(ctx, cmd.LogID)
	if err != nil {
		return RevertResult{}, apperror.LogNotFound()
	}
	if err := found.CanBeModifiedBy(cmd.UserID); err != nil {
		return RevertResult{}, apperror.NotOwner()
	}

	hb, err := h.uow.Habits().GetHabit(ctx, found.HabitID())
	if err != nil {
		return RevertResult{}, apperror.HabitNotFound("")
	}

	return revert(ctx, h.uow, cmd.UserID, hb.Name(), found)
}

func revert(ctx context.Context, uow adapters.HabitsUnitOfWork, userID int64, habitName string, l *habitlog.HabitLog) (RevertResult, error) {
	var (
		rewardReverted bool
		rewardName     *string
		piecesEarned   *int
		piecesRequired *int
	)

	err := uow.WithTransaction(ctx, func(tx adapters.HabitsUnitOfWork) error {
		if err := tx.HabitLogs().DeleteLog(ctx, l.LogID(), userID); err != nil {
			return err
		}

		habitID, logID := l.HabitID(), l.LogID()
		var rewardID *int64

		if l.GotReward() && l.RewardID() != nil {
			rewardReverted = true
			rw, err := tx.Rewards().GetReward(ctx, *l.RewardID())
			if err == nil {
				name := rw.Name()
				rewardName = &name
			}
			rewardID = l.RewardID()

			p, err := tx.Progress().DecrementPieces(ctx, userID, *l.RewardID())
			if err != nil {
				return err
			}
			if p != nil {
				pe, pr := p.PiecesEarned(), p.PiecesRequired()
				piecesEarned, piecesRequired = &pe, &pr
			}
		}

		entry := auditlog.New(userID, auditlog.KindHabitCompletedReverted, &habitID, rewardID, &logID, map[string]any{
			"habit_name":      habitName,
			"reward_name":     rewardName,
			"pieces_earned":   piecesEarned,
			"pieces_required": piecesRequired,
		}, nil)
		return tx.AuditLogs().Log(ctx, entry)
	})
	if err != nil {
		return RevertResult{}, err
	}

	return RevertResult{
		Success:        true,
		HabitName:      habitName,
		RewardReverted: rewardReverted,
		RewardName:     rewardName,
		PiecesEarned:   piecesEarned,
		PiecesRequired: piecesRequired,
	}, nil
}
