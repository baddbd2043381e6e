package query

import (
	"context"

	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habit"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/streak"
)

// HabitStreak pairs a habit with its currently recorded streak.
type HabitStreak struct {
	HabitID int64
	Name    string
	Streak  int
}

// GetStreaks returns the current streak for every active habit a user
// owns, for the "GET /v1/streaks" overview.
type GetStreaks struct {
	UserID int64
}

type GetStreaksHandler decorator.QueryHandler[GetStreaks, []HabitStreak]

type getStreaksHandler struct {
	habits     habit.Reader
	calculator *streak.Calculator
}

func NewGetStreaksHandler(habits habit.Reader, calculator *streak.Calculator, log logger.Logger, metricsClient decorator.MetricsClient) GetStreaksHandler {
	if habits == nil || calculator == nil {
		panic("nil habit reader or streak calculator")
	}
	return decorator.ApplyQueryDecorators[GetStreaks, []HabitStreak](
		getStreaksHandler{habits: habits, calculator: calculator}, log, metricsClient,
	)
}

func (h getStreaksHandler) Handle(ctx context.Context, q GetStreaks) ([]HabitStreak, error) {
	habits, err := h.habits.ListHabits(ctx, q.UserID, true, nil)
	if err != nil {
		return nil, err
	}

	streaks := make([]HabitStreak, 0, len(habits))
	for _, hb := range habits {
		s, err := h.calculator.CurrentStreak(ctx, q.UserID, hb.HabitID())
		if err != nil {
			return nil, err
		}
		streaks = append(streaks, HabitStreak{HabitID: hb.HabitID(), Name: hb.Name(), Streak: s})
	}
	return streaks, nil
}

// GetHabitStreak returns the current streak for one habit.
type GetHabitStreak struct {
	UserID  int64
	HabitID int64
}

type GetHabitStreakHandler decorator.QueryHandler[GetHabitStreak, HabitStreak]

type getHabitStreakHandler struct {
	habits     habit.Reader
	calculator *streak.Calculator
}

func NewGetHabitStreakHandler(habits habit.Reader, calculator *streak.Calculator, log logger.Logger, metricsClient decorator.MetricsClient) GetHabitStreakHandler {
	if habits == nil || calculator == nil {
		panic("nil habit reader or streak calculator")
	}
	return decorator.ApplyQueryDecorators[GetHabitStreak, HabitStreak](
		getHabitStreakHandler{habits: habits, calculator: calculator}, log, metricsClient,
	)
}

func (h getHabitStreakHandler) Handle(ctx context.Context, q GetHabitStreak) (HabitStreak, error) {
	hb, err := h.habits.GetHabit(ctx, q.HabitID)
	if err != nil {
		return HabitStreak{}, err
	}
	if err := hb.CanBeViewedBy(q.UserID); err != nil {
		return HabitStreak{}, apperror.NotOwner()
	}

	s, err := h.calculator.CurrentStreak(ctx, q.UserID, hb.HabitID())
	if err != nil {
		return HabitStreak{}, err
	}
	return HabitStreak{HabitID: hb.HabitID(), Name: hb.Name(), Streak: s}, nil
}
