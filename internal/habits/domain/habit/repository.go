package habit

import "context"

// Reader is the narrow read-side contract for habits.
type Reader interface {
	GetHabit(ctx context.Context, habitID int64) (*Habit, error)
	GetHabitByName(ctx context.Context, userID int64, name string) (*Habit, error)
	ListHabits(ctx context.Context, userID int64, activeOnly bool, category *string) ([]*Habit, error)
}

// Writer is the narrow write-side contract for habits.
type Writer interface {
	AddHabit(ctx context.Context, h *Habit) (int64, error)
	UpdateHabit(ctx context.Context, habitID, userID int64, updateFn func(h *Habit) (*Habit, error)) (*Habit, error)
}

// Repository is the full contract a storage implementation must satisfy.
type Repository interface {
	Reader
	Writer
}
