package app

import (
	"github.com/erzhan12/habit-reward-go/internal/habits/app/command"
	"github.com/erzhan12/habit-reward-go/internal/habits/app/query"
)

// Application is the main application service facade for the habits module
type Application struct {
	Commands Commands
	Queries  Queries
}

// Commands groups all command handlers (write operations)
type Commands struct {
	CreateHabit      command.CreateHabitHandler
	UpdateHabit      command.UpdateHabitHandler
	ActivateHabit    command.ActivateHabitHandler
	DeactivateHabit  command.DeactivateHabitHandler
	CreateReward     command.CreateRewardHandler
	UpdateReward     command.UpdateRewardHandler
	DeactivateReward command.DeactivateRewardHandler
	ClaimReward      command.ClaimRewardHandler
	ProcessCompletion command.ProcessCompletionHandler
	ProcessCompletionByID command.ProcessCompletionByIDHandler
	RevertLatest     command.RevertLatestHandler
	RevertByLogId    command.RevertByLogIdHandler
}

// Queries groups all query handlers (read operations)
type Queries struct {
	GetHabit       query.GetHabitHandler
	ListHabits     query.ListHabitsHandler
	GetHabitLogs   query.GetHabitLogsHandler
	ListRewards    query.ListRewardsHandler
	ListProgress   query.ListProgressHandler
	GetStreaks     query.GetStreaksHandler
	GetHabitStreak query.GetHabitStreakHandler
}
