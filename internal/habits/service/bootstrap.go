package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/user"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/adapters"
	"github.com/erzhan12/habit-reward-go/internal/habits/app"
	"github.com/erzhan12/habit-reward-go/internal/habits/app/command"
	"github.com/erzhan12/habit-reward-go/internal/habits/app/query"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/reward"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/streak"
)

// NewApplication creates and wires all dependencies for the habits
// module: the habit/reward/habit-log/progress/audit-log repositories
// behind a shared unit of work, and the streak calculator and reward
// selector the completion engine (C6) and revert engine (C7) depend
// on. users is the auth module's user reader, since completions and
// reverts resolve a caller's identity and timezone across module
// boundaries.
func NewApplication(
	_ context.Context,
	db *sqlx.DB,
	users user.Reader,
	log logger.Logger,
	metricsClient decorator.MetricsClient,
) app.Application {
	uow := adapters.NewHabitsUnitOfWork(db)
	habitRepo := adapters.NewHabitPostgresRepository(db)
	habitLogRepo := adapters.NewHabitLogPostgresRepository(db)
	rewardRepo := adapters.NewRewardPostgresRepository(db)
	progressRepo := adapters.NewProgressPostgresRepository(db)

	calculator := streak.NewCalculator(habitLogRepo, habitRepo)
	selector := reward.NewSelector(rewardRepo)

	return app.Application{
		Commands: app.Commands{
			CreateHabit:           command.NewCreateHabitHandler(habitRepo, log, metricsClient),
			UpdateHabit:           command.NewUpdateHabitHandler(habitRepo, log, metricsClient),
			ActivateHabit:         command.NewActivateHabitHandler(habitRepo, log, metricsClient),
			DeactivateHabit:       command.NewDeactivateHabitHandler(habitRepo, log, metricsClient),
			CreateReward:          command.NewCreateRewardHandler(rewardRepo, log, metricsClient),
			UpdateReward:          command.NewUpdateRewardHandler(rewardRepo, log, metricsClient),
			DeactivateReward:      command.NewDeactivateRewardHandler(rewardRepo, log, metricsClient),
			ClaimReward:           command.NewClaimRewardHandler(uow, log, metricsClient),
			ProcessCompletion:     command.NewProcessCompletionHandler(users, uow, calculator, selector, log, metricsClient),
			ProcessCompletionByID: command.NewProcessCompletionByIDHandler(users, uow, calculator, selector, log, metricsClient),
			RevertLatest:          command.NewRevertLatestHandler(users, uow, log, metricsClient),
			RevertByLogId:         command.NewRevertByLogIdHandler(uow, log, metricsClient),
		},
		Queries: app.Queries{
			GetHabit:       query.NewGetHabitHandler(habitRepo, log, metricsClient),
			ListHabits:     query.NewListHabitsHandler(habitRepo, log, metricsClient),
			GetHabitLogs:   query.NewGetHabitLogsHandler(habitLogRepo, log, metricsClient),
			ListRewards:    query.NewListRewardsHandler(rewardRepo, log, metricsClient),
			ListProgress:   query.NewListProgressHandler(progressRepo, log, metricsClient),
			GetStreaks:     query.NewGetStreaksHandler(habitRepo, calculator, log, metricsClient),
			GetHabitStreak: query.NewGetHabitStreakHandler(habitRepo, calculator, log, metricsClient),
		},
	}
}
