package command

import (
	"context"
	"errors"

	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/adapters"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/auditlog"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/progress"
)

// ClaimReward marks an achieved reward as claimed, once its pieces
// quota has been fully earned.
type ClaimReward struct {
	UserID   int64
	RewardID int64
}

// ClaimRewardResult reports the claimed reward's final state.
type ClaimRewardResult struct {
	RewardName     string
	PiecesEarned   int
	PiecesRequired int
}

type ClaimRewardHandler decorator.CommandHandlerWithResult[ClaimReward, ClaimRewardResult]

type claimRewardHandler struct {
	uow adapters.HabitsUnitOfWork
}

func NewClaimRewardHandler(uow adapters.HabitsUnitOfWork, log logger.Logger, metricsClient decorator.MetricsClient) ClaimRewardHandler {
	if uow == nil {
		panic("nil habits unit of work")
	}
	return decorator.ApplyCommandResultDecorators[ClaimReward, ClaimRewardResult](
		claimRewardHandler{uow: uow}, log, metricsClient,
	)
}

func (h claimRewardHandler) Handle(ctx context.Context, cmd ClaimReward) (ClaimRewardResult, error) {
	rw, err := h.uow.Rewards().GetReward(ctx, cmd.RewardID)
	if err != nil {
		return ClaimRewardResult{}, err
	}
	if err := rw.CanBeModifiedBy(cmd.UserID); err != nil {
		return ClaimRewardResult{}, err
	}

	var result ClaimRewardResult

	err = h.uow.WithTransaction(ctx, func(tx adapters.HabitsUnitOfWork) error {
		p, err := tx.Progress().MarkClaimed(ctx, cmd.UserID, cmd.RewardID)
		if err != nil {
			if errors.Is(err, progress.ErrNotAchieved) || errors.Is(err, progress.ErrNotFound) {
				return apperror.NotAchieved()
			}
			if errors.Is(err, progress.ErrAlreadyClaimed) {
				return apperror.AlreadyClaimed()
			}
			return err
		}

		result = ClaimRewardResult{
			RewardName:     rw.Name(),
			PiecesEarned:   p.PiecesEarned(),
			PiecesRequired: p.PiecesRequired(),
		}

		entry := auditlog.New(cmd.UserID, auditlog.KindRewardClaimed, nil, &cmd.RewardID, nil, map[string]any{
			"reward_name":    rw.Name(),
			"pieces_earned":  p.PiecesEarned(),
		}, nil)
		return tx.AuditLogs().Log(ctx, entry)
	})
	if err != nil {
		return ClaimRewardResult{}, err
	}

	return result, nil
}
