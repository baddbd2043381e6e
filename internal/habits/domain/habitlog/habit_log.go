package habitlog

import (
	"errors"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/common/clock"
)

// HabitLog is an immutable completion record. Inserted by the completion
// engine; deleted only by the revert engine — it is never updated except
// for streak_count during suffix recomputation.
type HabitLog struct {
	logID              int64
	userID             int64
	habitID            int64
	rewardID           *int64
	gotReward          bool
	streakCount        int
	habitWeightSnap    int
	totalWeight        float64
	lastCompletedDate  clock.Date
	createdAt          time.Time
}

// Domain errors — pure, infrastructure-free sentinels.
var (
	ErrEmptyHabitID = errors.New("empty habit id")
	ErrEmptyUserID  = errors.New("empty user id")
	ErrInvalidDate  = errors.New("invalid log date")
	ErrNotFound     = errors.New("habit log not found")
	ErrUnauthorized = errors.New("user cannot access this log")
)

// New constructs a HabitLog as the completion engine does at insert time.
func New(
	userID, habitID int64,
	rewardID *int64,
	gotReward bool,
	streakCount, habitWeightSnap int,
	totalWeight float64,
	lastCompletedDate clock.Date,
) (*HabitLog, error) {
	if userID == 0 {
		return nil, ErrEmptyUserID
	}
	if habitID == 0 {
		return nil, ErrEmptyHabitID
	}
	return &HabitLog{
		userID:            userID,
		habitID:           habitID,
		rewardID:          rewardID,
		gotReward:         gotReward,
		streakCount:       streakCount,
		habitWeightSnap:   habitWeightSnap,
		totalWeight:       totalWeight,
		lastCompletedDate: lastCompletedDate,
		createdAt:         time.Now(),
	}, nil
}

// UnmarshalFromDatabase reconstructs a HabitLog from stored fields.
func UnmarshalFromDatabase(
	logID, userID, habitID int64,
	rewardID *int64,
	gotReward bool,
	streakCount, habitWeightSnap int,
	totalWeight float64,
	lastCompletedDate clock.Date,
	createdAt time.Time,
) *HabitLog {
	return &HabitLog{
		logID:             logID,
		userID:            userID,
		habitID:           habitID,
		rewardID:          rewardID,
		gotReward:         gotReward,
		streakCount:       streakCount,
		habitWeightSnap:   habitWeightSnap,
		totalWeight:       totalWeight,
		lastCompletedDate: lastCompletedDate,
		createdAt:         createdAt,
	}
}

func (l *HabitLog) LogID() int64                   { return l.logID }
func (l *HabitLog) UserID() int64                  { return l.userID }
func (l *HabitLog) HabitID() int64                 { return l.habitID }
func (l *HabitLog) RewardID() *int64               { return l.rewardID }
func (l *HabitLog) GotReward() bool                { return l.gotReward }
func (l *HabitLog) StreakCount() int                { return l.streakCount }
func (l *HabitLog) HabitWeightSnapshot() int        { return l.habitWeightSnap }
func (l *HabitLog) TotalWeight() float64            { return l.totalWeight }
func (l *HabitLog) LastCompletedDate() clock.Date   { return l.lastCompletedDate }
func (l *HabitLog) CreatedAt() time.Time            { return l.createdAt }

// SetStreakCount is used only by suffix recomputation (C6 step 13).
func (l *HabitLog) SetStreakCount(n int) { l.streakCount = n }

func (l *HabitLog) CanBeViewedBy(userID int64) error {
	if l.userID != userID {
		return ErrUnauthorized
	}
	return nil
}

func (l *HabitLog) CanBeModifiedBy(userID int64) error {
	return l.CanBeViewedBy(userID)
}
