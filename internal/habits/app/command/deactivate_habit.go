package command

import (
	"context"

	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habit"
)

// DeactivateHabit soft-deletes a habit: it stops appearing in active
// listings and can no longer be completed, but its history is kept.
type DeactivateHabit struct {
	HabitID int64
	UserID  int64
}

type DeactivateHabitHandler decorator.CommandHandler[DeactivateHabit]

type deactivateHabitHandler struct {
	repo habit.Repository
}

func NewDeactivateHabitHandler(repo habit.Repository, log logger.Logger, metricsClient decorator.MetricsClient) DeactivateHabitHandler {
	if repo == nil {
		panic("nil habit repository")
	}
	return decorator.ApplyCommandDecorators[DeactivateHabit](
		deactivateHabitHandler{repo: repo}, log, metricsClient,
	)
}

func (h deactivateHabitHandler) Handle(ctx context.Context, cmd DeactivateHabit) error {
	_, err := h.repo.UpdateHabit(ctx, cmd.HabitID, cmd.UserID, func(hb *habit.Habit) (*habit.Habit, error) {
		if err := hb.Deactivate(); err != nil {
			return nil, err
		}
		return hb, nil
	})
	return err
}

// ActivateHabit reactivates a previously deactivated habit.
type ActivateHabit struct {
	HabitID int64
	UserID  int64
}

type ActivateHabitHandler decorator.CommandHandler[ActivateHabit]

type activateHabitHandler struct {
	repo habit.Repository
}

func NewActivateHabitHandler(repo habit.Repository, log logger.Logger, metricsClient decorator.MetricsClient) ActivateHabitHandler {
	if repo == nil {
		panic("nil habit repository")
	}
	return decorator.ApplyCommandDecorators[ActivateHabit](
		activateHabitHandler{repo: repo}, log, metricsClient,
	)
}

func (h activateHabitHandler) Handle(ctx context.Context, cmd ActivateHabit) error {
	_, err := h.repo.UpdateHabit(ctx, cmd.HabitID, cmd.UserID, func(hb *habit.Habit) (*habit.Habit, error) {
		if err := hb.Activate(); err != nil {
			return nil, err
		}
		return hb, nil
	})
	return err
}
