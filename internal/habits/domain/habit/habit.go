package habit

import (
	"sort"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/common/clock"
)

// Habit is a daily trackable behavior owned by one user.
type Habit struct {
	habitID         int64
	userID          int64
	name            string
	category        *string
	weight          int
	allowedSkipDays int
	exemptWeekdays  []int
	isActive        bool
	createdAt       time.Time
	updatedAt       time.Time
}

func NewHabit(
	userID int64,
	name string,
	category *string,
	weight int,
	allowedSkipDays int,
	exemptWeekdays []int,
) (*Habit, error) {
	if userID == 0 {
		return nil, ErrEmptyUserID
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if weight < 1 || weight > 100 {
		return nil, ErrInvalidWeight
	}
	if allowedSkipDays < 0 || allowedSkipDays > 7 {
		return nil, ErrInvalidSkipDays
	}
	if err := validateWeekdays(exemptWeekdays); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Habit{
		userID:          userID,
		name:            name,
		category:        category,
		weight:          weight,
		allowedSkipDays: allowedSkipDays,
		exemptWeekdays:  normalizeWeekdays(exemptWeekdays),
		isActive:        true,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func UnmarshalHabitFromDatabase(
	habitID, userID int64,
	name string,
	category *string,
	weight, allowedSkipDays int,
	exemptWeekdays []int,
	isActive bool,
	createdAt, updatedAt time.Time,
) *Habit {
	return &Habit{
		habitID:         habitID,
		userID:          userID,
		name:            name,
		category:        category,
		weight:          weight,
		allowedSkipDays: allowedSkipDays,
		exemptWeekdays:  normalizeWeekdays(exemptWeekdays),
		isActive:        isActive,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func validateWeekdays(days []int) error {
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d < 1 || d > 7 || seen[d] {
			return ErrInvalidWeekdays
		}
		seen[d] = true
	}
	return nil
}

func normalizeWeekdays(days []int) []int {
	out := append([]int(nil), days...)
	sort.Ints(out)
	return out
}

func (h *Habit) HabitID() int64            { return h.habitID }
func (h *Habit) UserID() int64             { return h.userID }
func (h *Habit) Name() string              { return h.name }
func (h *Habit) Category() *string         { return h.category }
func (h *Habit) Weight() int               { return h.weight }
func (h *Habit) AllowedSkipDays() int      { return h.allowedSkipDays }
func (h *Habit) ExemptWeekdays() []int     { return append([]int(nil), h.exemptWeekdays...) }
func (h *Habit) IsActive() bool            { return h.isActive }
func (h *Habit) CreatedAt() time.Time      { return h.createdAt }
func (h *Habit) UpdatedAt() time.Time      { return h.updatedAt }
func (h *Habit) CreatedDate() clock.Date   { return clock.DateOf(h.createdAt) }

// IsExemptWeekday reports whether the given ISO weekday (1=Mon..7=Sun) is
// exempt from streak-breaking for this habit.
func (h *Habit) IsExemptWeekday(isoWeekday int) bool {
	for _, d := range h.exemptWeekdays {
		if d == isoWeekday {
			return true
		}
	}
	return false
}

func (h *Habit) CanBeViewedBy(userID int64) error {
	if h.userID != userID {
		return ErrUnauthorized
	}
	return nil
}

func (h *Habit) CanBeModifiedBy(userID int64) error {
	return h.CanBeViewedBy(userID)
}
