package command

import (
	"context"
	"errors"
	"strconv"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/user"
	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/clock"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/adapters"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/auditlog"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habit"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habitlog"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/reward"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/streak"
)

// ProcessCompletion is the C6 input: complete a habit for a telegram
// user, optionally backdated.
type ProcessCompletion struct {
	TelegramID int64
	HabitName  string
	TargetDate *clock.Date
	Timezone   string
}

// CompletionResult is returned to both the REST surface and the chat
// webhook.
type CompletionResult struct {
	HabitConfirmed     bool
	HabitName          string
	RewardName         *string
	GotReward          bool
	Streak             int
	TotalWeight        float64
	PiecesEarned       *int
	PiecesRequired     *int
	Claimed            *bool
}

type ProcessCompletionHandler decorator.CommandHandlerWithResult[ProcessCompletion, CompletionResult]

type processCompletionHandler struct {
	users      user.Reader
	uow        adapters.HabitsUnitOfWork
	calculator *streak.Calculator
	selector   *reward.Selector
}

func NewProcessCompletionHandler(
	users user.Reader,
	uow adapters.HabitsUnitOfWork,
	calculator *streak.Calculator,
	selector *reward.Selector,
	log logger.Logger,
	metricsClient decorator.MetricsClient,
) ProcessCompletionHandler {
	if uow == nil {
		panic("nil habits unit of work")
	}
	return decorator.ApplyCommandResultDecorators[ProcessCompletion, CompletionResult](
		processCompletionHandler{users: users, uow: uow, calculator: calculator, selector: selector},
		log,
		metricsClient,
	)
}

func (h processCompletionHandler) Handle(ctx context.Context, cmd ProcessCompletion) (CompletionResult, error) {
	u, err := h.users.FindByTelegramID(ctx, cmd.TelegramID)
	if err != nil {
		return CompletionResult{}, apperror.UserNotFound(formatTelegramID(cmd.TelegramID))
	}
	if !u.IsActive() {
		return CompletionResult{}, apperror.UserInactive()
	}

	hb, err := h.uow.Habits().GetHabitByName(ctx, u.UserID(), cmd.HabitName)
	if err != nil || !hb.IsActive() {
		return CompletionResult{}, apperror.HabitNotFound(cmd.HabitName)
	}

	return completeHabit(ctx, h.uow, h.calculator, h.selector, u.UserID(), hb, cmd.Timezone, cmd.TargetDate)
}

func completeHabit(ctx context.Context, uow adapters.HabitsUnitOfWork, calculator *streak.Calculator, selector *reward.Selector, userID int64, hb *habit.Habit, timezone string, targetDatePtr *clock.Date) (CompletionResult, error) {
	today := clock.UserToday(timezone)
	targetDate := today
	if targetDatePtr != nil {
		targetDate = *targetDatePtr
	}

	earliest := today.AddDays(-7)
	switch {
	case targetDate.After(today):
		return CompletionResult{}, apperror.FutureDate()
	case targetDate.Before(earliest):
		return CompletionResult{}, apperror.TooOld()
	case targetDate.Before(hb.CreatedDate()):
		return CompletionResult{}, apperror.BeforeHabitCreation()
	}

	if _, err := uow.HabitLogs().GetLogByDate(ctx, userID, hb.HabitID(), targetDate); err == nil {
		return CompletionResult{}, apperror.AlreadyCompleted()
	} else if !errors.Is(err, habitlog.ErrNotFound) {
		return CompletionResult{}, err
	}

	streakCount, err := calculator.StreakFor(ctx, userID, hb.HabitID(), targetDate)
	if err != nil {
		return CompletionResult{}, err
	}

	selected, err := selector.SelectReward(ctx, userID, hb.Weight(), streakCount, targetDate.String())
	if err != nil {
		return CompletionResult{}, err
	}
	gotReward := !selected.IsSentinel()
	totalWeight := float64(hb.Weight()) * (1 + float64(streakCount)*0.1)

	var rewardID *int64
	if gotReward {
		id := selected.RewardID()
		rewardID = &id
	}

	var (
		piecesEarned, piecesRequired *int
		claimed                      *bool
	)

	err = uow.WithTransaction(ctx, func(tx adapters.HabitsUnitOfWork) error {
		if gotReward {
			p, err := tx.Progress().IncrementPieces(ctx, userID, selected.RewardID(), selected.PiecesRequired())
			if err != nil {
				return err
			}
			pe, pr, cl := p.PiecesEarned(), p.PiecesRequired(), p.Claimed()
			piecesEarned, piecesRequired, claimed = &pe, &pr, &cl
		}

		newLog, err := habitlog.New(userID, hb.HabitID(), rewardID, gotReward, streakCount, hb.Weight(), totalWeight, targetDate)
		if err != nil {
			return err
		}
		if _, err := tx.HabitLogs().AddLog(ctx, newLog); err != nil {
			return err
		}

		snapshot := map[string]any{
			"habit_name":   hb.Name(),
			"streak":       streakCount,
			"total_weight": totalWeight,
		}
		if gotReward {
			snapshot["selected_reward_name"] = selected.Name()
			snapshot["reward_progress"] = map[string]any{
				"pieces_earned":   *piecesEarned,
				"pieces_required": *piecesRequired,
				"claimed":         *claimed,
			}
		}
		habitID := hb.HabitID()
		entry := auditlog.New(userID, auditlog.KindHabitCompleted, &habitID, rewardID, nil, snapshot, nil)
		return tx.AuditLogs().Log(ctx, entry)
	})
	if err != nil {
		return CompletionResult{}, err
	}

	if targetDate.Before(today) {
		_ = recomputeSuffix(ctx, uow, calculator, userID, hb, targetDate, today)
	}

	var rewardName *string
	if gotReward {
		name := selected.Name()
		rewardName = &name
	}

	return CompletionResult{
		HabitConfirmed: true,
		HabitName:      hb.Name(),
		RewardName:     rewardName,
		GotReward:      gotReward,
		Streak:         streakCount,
		TotalWeight:    totalWeight,
		PiecesEarned:   piecesEarned,
		PiecesRequired: piecesRequired,
		Claimed:        claimed,
	}, nil
}

// recomputeSuffix re-derives streak_count for every log between
// targetDate and today (inclusive), walking ascending, per spec §4.5's
// suffix-recomputation rule.
func recomputeSuffix(ctx context.Context, uow adapters.HabitsUnitOfWork, calc *streak.Calculator, userID int64, hb *habit.Habit, targetDate, today clock.Date) error {
	logs, err := uow.HabitLogs().ListLogsAfter(ctx, userID, hb.HabitID(), targetDate.AddDays(-1))
	if err != nil {
		return err
	}
	for _, l := range logs {
		if l.LastCompletedDate().After(today) {
			continue
		}
		recomputed, err := calc.StreakFor(ctx, userID, hb.HabitID(), l.LastCompletedDate())
		if err != nil {
			continue
		}
		if recomputed != l.StreakCount() {
			_ = uow.HabitLogs().UpdateStreakCount(ctx, l.LogID(), recomputed)
		}
	}
	return nil
}

func formatTelegramID(id int64) string {
	return strconv.FormatInt(id, 10)
}
