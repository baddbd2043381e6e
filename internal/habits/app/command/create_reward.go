package command

import (
	"context"
	"errors"

	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/reward"
)

// CreateReward is the input for defining a new prize a user can draw
// toward and accumulate pieces for.
type CreateReward struct {
	UserID         int64
	Name           string   `json:"name" validate:"required,min=1,max=100"`
	Weight         float64  `json:"weight" validate:"required,gt=0"`
	PiecesRequired int      `json:"pieces_required" validate:"required,min=1"`
	PieceValue     *float64 `json:"piece_value" validate:"omitempty,gt=0"`
	MaxDailyClaims int      `json:"max_daily_claims" validate:"min=0"`
}

type CreateRewardHandler decorator.CommandHandlerWithResult[CreateReward, int64]

type createRewardHandler struct {
	repo reward.Repository
}

func NewCreateRewardHandler(repo reward.Repository, log logger.Logger, metricsClient decorator.MetricsClient) CreateRewardHandler {
	if repo == nil {
		panic("nil reward repository")
	}
	return decorator.ApplyCommandResultDecorators[CreateReward, int64](
		createRewardHandler{repo: repo}, log, metricsClient,
	)
}

func (h createRewardHandler) Handle(ctx context.Context, cmd CreateReward) (int64, error) {
	if _, err := h.repo.GetRewardByName(ctx, cmd.UserID, cmd.Name); err == nil {
		return 0, apperror.RewardExists(cmd.Name)
	} else if !errors.Is(err, reward.ErrNotFound) {
		return 0, err
	}

	newReward, err := reward.New(cmd.UserID, cmd.Name, cmd.Weight, cmd.PiecesRequired, cmd.PieceValue, cmd.MaxDailyClaims)
	if err != nil {
		return 0, err
	}

	return h.repo.AddReward(ctx, newReward)
}

// UpdateReward is a PATCH-style partial update of a reward's
// draw-weight and claim parameters.
type UpdateReward struct {
	RewardID       int64
	UserID         int64
	Name           *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Weight         *float64 `json:"weight" validate:"omitempty,gt=0"`
	PiecesRequired *int     `json:"pieces_required" validate:"omitempty,min=1"`
	PieceValue     *float64 `json:"piece_value" validate:"omitempty,gt=0"`
	MaxDailyClaims *int     `json:"max_daily_claims" validate:"omitempty,min=0"`
}

type UpdateRewardHandler decorator.CommandHandler[UpdateReward]

type updateRewardHandler struct {
	repo reward.Repository
}

func NewUpdateRewardHandler(repo reward.Repository, log logger.Logger, metricsClient decorator.MetricsClient) UpdateRewardHandler {
	if repo == nil {
		panic("nil reward repository")
	}
	return decorator.ApplyCommandDecorators[UpdateReward](
		updateRewardHandler{repo: repo}, log, metricsClient,
	)
}

func (h updateRewardHandler) Handle(ctx context.Context, cmd UpdateReward) error {
	_, err := h.repo.UpdateReward(ctx, cmd.RewardID, cmd.UserID, func(r *reward.Reward) (*reward.Reward, error) {
		name := r.Name()
		if cmd.Name != nil {
			name = *cmd.Name
		}
		weight := r.Weight()
		if cmd.Weight != nil {
			weight = *cmd.Weight
		}
		piecesRequired := r.PiecesRequired()
		if cmd.PiecesRequired != nil {
			piecesRequired = *cmd.PiecesRequired
		}
		pieceValue := r.PieceValue()
		if cmd.PieceValue != nil {
			pieceValue = cmd.PieceValue
		}
		maxDailyClaims := r.MaxDailyClaims()
		if cmd.MaxDailyClaims != nil {
			maxDailyClaims = *cmd.MaxDailyClaims
		}

		if err := r.Update(name, weight, piecesRequired, pieceValue, maxDailyClaims); err != nil {
			return nil, err
		}
		return r, nil
	})
	return err
}

// DeactivateReward stops a reward from being drawn again; existing
// progress toward it is preserved.
type DeactivateReward struct {
	RewardID int64
	UserID   int64
}

type DeactivateRewardHandler decorator.CommandHandler[DeactivateReward]

type deactivateRewardHandler struct {
	repo reward.Repository
}

func NewDeactivateRewardHandler(repo reward.Repository, log logger.Logger, metricsClient decorator.MetricsClient) DeactivateRewardHandler {
	if repo == nil {
		panic("nil reward repository")
	}
	return decorator.ApplyCommandDecorators[DeactivateReward](
		deactivateRewardHandler{repo: repo}, log, metricsClient,
	)
}

func (h deactivateRewardHandler) Handle(ctx context.Context, cmd DeactivateReward) error {
	_, err := h.repo.UpdateReward(ctx, cmd.RewardID, cmd.UserID, func(r *reward.Reward) (*reward.Reward, error) {
		if err := r.Deactivate(); err != nil {
			return nil, err
		}
		return r, nil
	})
	return err
}
