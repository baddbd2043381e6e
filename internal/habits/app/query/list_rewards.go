package query

import (
	"context"

	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/progress"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/reward"
)

// ListRewards retrieves a user's rewards, optionally filtered to
// active ones.
type ListRewards struct {
	UserID     int64
	ActiveOnly bool
}

type ListRewardsHandler decorator.QueryHandler[ListRewards, []*reward.Reward]

type listRewardsHandler struct {
	rewards reward.Reader
}

func NewListRewardsHandler(rewards reward.Reader, log logger.Logger, metricsClient decorator.MetricsClient) ListRewardsHandler {
	if rewards == nil {
		panic("nil reward reader")
	}
	return decorator.ApplyQueryDecorators[ListRewards, []*reward.Reward](
		listRewardsHandler{rewards: rewards}, log, metricsClient,
	)
}

func (h listRewardsHandler) Handle(ctx context.Context, q ListRewards) ([]*reward.Reward, error) {
	return h.rewards.ListRewards(ctx, q.UserID, q.ActiveOnly)
}

// ListProgress retrieves every reward-progress row for a user, for the
// "my rewards with status" view.
type ListProgress struct {
	UserID int64
}

type ListProgressHandler decorator.QueryHandler[ListProgress, []*progress.Progress]

type listProgressHandler struct {
	progress progress.Repository
}

func NewListProgressHandler(p progress.Repository, log logger.Logger, metricsClient decorator.MetricsClient) ListProgressHandler {
	if p == nil {
		panic("nil progress repository")
	}
	return decorator.ApplyQueryDecorators[ListProgress, []*progress.Progress](
		listProgressHandler{progress: p}, log, metricsClient,
	)
}

func (h listProgressHandler) Handle(ctx context.Context, q ListProgress) ([]*progress.Progress, error) {
	return h.progress.ListForUser(ctx, q.UserID)
}
