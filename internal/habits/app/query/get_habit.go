package query

import (
	"context"

	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habit"
)

// GetHabit retrieves a single habit owned by the caller.
type GetHabit struct {
	HabitID int64
	UserID  int64
}

type GetHabitHandler decorator.QueryHandler[GetHabit, *habit.Habit]

type getHabitHandler struct {
	habits habit.Reader
}

func NewGetHabitHandler(habits habit.Reader, log logger.Logger, metricsClient decorator.MetricsClient) GetHabitHandler {
	if habits == nil {
		panic("nil habit reader")
	}
	return decorator.ApplyQueryDecorators[GetHabit, *habit.Habit](
		getHabitHandler{habits: habits}, log, metricsClient,
	)
}

func (h getHabitHandler) Handle(ctx context.Context, q GetHabit) (*habit.Habit, error) {
	hb, err := h.habits.GetHabit(ctx, q.HabitID)
	if err != nil {
		return nil, err
	}
	if err := hb.CanBeViewedBy(q.UserID); err != nil {
		return nil, apperror.NotOwner()
	}
	return hb, nil
}
