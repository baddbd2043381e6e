package habit

import "errors"

// Domain errors - pure domain errors without infrastructure dependencies
// These errors are translated to apperror.AppError at the adapter/port layer
var (
	// Business logic errors
	ErrAlreadyActive   = errors.New("habit is already active")
	ErrAlreadyInactive = errors.New("habit is already inactive")

	// Validation errors
	ErrEmptyName       = errors.New("habit name cannot be empty")
	ErrInvalidWeight   = errors.New("habit weight must be between 1 and 100")
	ErrInvalidWeekdays = errors.New("exempt weekdays must be ISO weekdays 1-7, no duplicates")
	ErrInvalidSkipDays = errors.New("allowed skip days must be between 0 and 7")
	ErrEmptyHabitID    = errors.New("empty habit id")
	ErrEmptyUserID     = errors.New("empty user id")

	// Access errors
	ErrNotFound     = errors.New("habit not found")
	ErrUnauthorized = errors.New("user cannot access this habit")
)
