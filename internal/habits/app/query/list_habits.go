package query

import (
	"context"

	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habit"
)

// ListHabits retrieves a user's habits, optionally filtered to active
// ones and/or a single category.
type ListHabits struct {
	UserID     int64
	ActiveOnly bool
	Category   *string
}

type ListHabitsHandler decorator.QueryHandler[ListHabits, []*habit.Habit]

type listHabitsHandler struct {
	habits habit.Reader
}

func NewListHabitsHandler(habits habit.Reader, log logger.Logger, metricsClient decorator.MetricsClient) ListHabitsHandler {
	if habits == nil {
		panic("nil habit reader")
	}
	return decorator.ApplyQueryDecorators[ListHabits, []*habit.Habit](
		listHabitsHandler{habits: habits}, log, metricsClient,
	)
}

func (h listHabitsHandler) Handle(ctx context.Context, q ListHabits) ([]*habit.Habit, error) {
	return h.habits.ListHabits(ctx, q.UserID, q.ActiveOnly, q.Category)
}
