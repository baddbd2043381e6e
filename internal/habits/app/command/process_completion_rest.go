package command

import (
	"context"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/user"
	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/clock"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/adapters"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/reward"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/streak"
)

// ProcessCompletionByID is the REST-facing twin of ProcessCompletion:
// the caller is already authenticated, so the habit is addressed by id
// and ownership is checked explicitly instead of resolving a telegram
// identity first.
type ProcessCompletionByID struct {
	UserID     int64
	HabitID    int64
	TargetDate *clock.Date
}

type ProcessCompletionByIDHandler decorator.CommandHandlerWithResult[ProcessCompletionByID, CompletionResult]

type processCompletionByIDHandler struct {
	users      user.Reader
	uow        adapters.HabitsUnitOfWork
	calculator *streak.Calculator
	selector   *reward.Selector
}

func NewProcessCompletionByIDHandler(
	users user.Reader,
	uow adapters.HabitsUnitOfWork,
	calculator *streak.Calculator,
	selector *reward.Selector,
	log logger.Logger,
	metricsClient decorator.MetricsClient,
) ProcessCompletionByIDHandler {
	if uow == nil {
		panic("nil habits unit of work")
	}
	return decorator.ApplyCommandResultDecorators[ProcessCompletionByID, CompletionResult](
		processCompletionByIDHandler{users: users, uow: uow, calculator: calculator, selector: selector},
		log,
		metricsClient,
	)
}

func (h processCompletionByIDHandler) Handle(ctx context.Context, cmd ProcessCompletionByID) (CompletionResult, error) {
	hb, err := h.uow.Habits().GetHabit(ctx, cmd.HabitID)
	if err != nil || !hb.IsActive() {
		return CompletionResult{}, apperror.HabitNotFound("")
	}
	if err := hb.CanBeModifiedBy(cmd.UserID); err != nil {
		return CompletionResult{}, apperror.NotOwner()
	}

	u, err := h.users.FindByID(ctx, cmd.UserID)
	if err != nil {
		return CompletionResult{}, apperror.UserNotFound("")
	}

	return completeHabit(ctx, h.uow, h.calculator, h.selector, cmd.UserID, hb, u.Timezone(), cmd.TargetDate)
}
