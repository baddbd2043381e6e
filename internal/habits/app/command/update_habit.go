package command

import (
	"context"

	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habit"
)

// UpdateHabit is a PATCH-style partial update: nil fields keep their
// current value, explicit fields (including an explicit empty slice
// for ExemptWeekdays) replace it.
type UpdateHabit struct {
	HabitID         int64
	UserID          int64
	Name            *string `json:"name" validate:"omitempty,min=1,max=100"`
	Category        *string `json:"category" validate:"omitempty,max=50"`
	Weight          *int    `json:"weight" validate:"omitempty,min=1,max=100"`
	AllowedSkipDays *int    `json:"allowed_skip_days" validate:"omitempty,min=0,max=7"`
	ExemptWeekdays  []int   `json:"exempt_weekdays" validate:"omitempty,weekdayset"`
}

type UpdateHabitHandler decorator.CommandHandler[UpdateHabit]

type updateHabitHandler struct {
	repo habit.Repository
}

func NewUpdateHabitHandler(repo habit.Repository, log logger.Logger, metricsClient decorator.MetricsClient) UpdateHabitHandler {
	if repo == nil {
		panic("nil habit repository")
	}
	return decorator.ApplyCommandDecorators[UpdateHabit](
		updateHabitHandler{repo: repo}, log, metricsClient,
	)
}

func (h updateHabitHandler) Handle(ctx context.Context, cmd UpdateHabit) error {
	_, err := h.repo.UpdateHabit(ctx, cmd.HabitID, cmd.UserID, func(hb *habit.Habit) (*habit.Habit, error) {
		name := hb.Name()
		if cmd.Name != nil {
			name = *cmd.Name
		}
		category := hb.Category()
		if cmd.Category != nil {
			category = cmd.Category
		}
		weight := hb.Weight()
		if cmd.Weight != nil {
			weight = *cmd.Weight
		}
		allowedSkipDays := hb.AllowedSkipDays()
		if cmd.AllowedSkipDays != nil {
			allowedSkipDays = *cmd.AllowedSkipDays
		}
		exemptWeekdays := hb.ExemptWeekdays()
		if cmd.ExemptWeekdays != nil {
			exemptWeekdays = cmd.ExemptWeekdays
		}

		if err := hb.Update(name, category, weight, allowedSkipDays, exemptWeekdays); err != nil {
			return nil, err
		}
		return hb, nil
	})
	return err
}
