package command

import (
	"context"
	"errors"

	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habit"
)

// CreateHabit is the input for creating a new trackable habit.
type CreateHabit struct {
	UserID          int64
	Name            string  `json:"name" validate:"required,min=1,max=100"`
	Category        *string `json:"category" validate:"omitempty,max=50"`
	Weight          int     `json:"weight" validate:"required,min=1,max=100"`
	AllowedSkipDays int     `json:"allowed_skip_days" validate:"min=0,max=7"`
	ExemptWeekdays  []int   `json:"exempt_weekdays" validate:"omitempty,weekdayset"`
}

type CreateHabitHandler decorator.CommandHandlerWithResult[CreateHabit, int64]

type createHabitHandler struct {
	repo habit.Repository
}

func NewCreateHabitHandler(repo habit.Repository, log logger.Logger, metricsClient decorator.MetricsClient) CreateHabitHandler {
	if repo == nil {
		panic("nil habit repository")
	}
	return decorator.ApplyCommandResultDecorators[CreateHabit, int64](
		createHabitHandler{repo: repo}, log, metricsClient,
	)
}

func (h createHabitHandler) Handle(ctx context.Context, cmd CreateHabit) (int64, error) {
	if _, err := h.repo.GetHabitByName(ctx, cmd.UserID, cmd.Name); err == nil {
		return 0, apperror.HabitExists(cmd.Name)
	} else if !errors.Is(err, habit.ErrNotFound) {
		return 0, err
	}

	newHabit, err := habit.NewHabit(cmd.UserID, cmd.Name, cmd.Category, cmd.Weight, cmd.AllowedSkipDays, cmd.ExemptWeekdays)
	if err != nil {
		return 0, err
	}

	return h.repo.AddHabit(ctx, newHabit)
}
