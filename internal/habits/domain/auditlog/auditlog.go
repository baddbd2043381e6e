// Package auditlog is the append-only trail of state-changing events:
// habit completions, reverts, reward claims, button clicks, and errors.
package auditlog

import "time"

type Kind string

const (
	KindCommand               Kind = "command"
	KindHabitCompleted        Kind = "habit_completed"
	KindHabitCompletedReverted Kind = "habit_completed_reverted"
	KindRewardClaimed         Kind = "reward_claimed"
	KindRewardReverted        Kind = "reward_reverted"
	KindButtonClick           Kind = "button_click"
	KindError                 Kind = "error"
)

// Entry is one append-only audit row.
type Entry struct {
	entryID   int64
	userID    int64
	kind      Kind
	habitID   *int64
	rewardID  *int64
	logID     *int64
	snapshot  map[string]any
	errMsg    *string
	createdAt time.Time
}

func New(userID int64, kind Kind, habitID, rewardID, logID *int64, snapshot map[string]any, errMsg *string) *Entry {
	return &Entry{
		userID:    userID,
		kind:      kind,
		habitID:   habitID,
		rewardID:  rewardID,
		logID:     logID,
		snapshot:  snapshot,
		errMsg:    errMsg,
		createdAt: time.Now(),
	}
}

func UnmarshalFromDatabase(entryID, userID int64, kind Kind, habitID, rewardID, logID *int64, snapshot map[string]any, errMsg *string, createdAt time.Time) *Entry {
	return &Entry{
		entryID:   entryID,
		userID:    userID,
		kind:      kind,
		habitID:   habitID,
		rewardID:  rewardID,
		logID:     logID,
		snapshot:  snapshot,
		errMsg:    errMsg,
		createdAt: createdAt,
	}
}

func (e *Entry) EntryID() int64          { return e.entryID }
func (e *Entry) UserID() int64           { return e.userID }
func (e *Entry) Kind() Kind              { return e.kind }
func (e *Entry) HabitID() *int64         { return e.habitID }
func (e *Entry) RewardID() *int64        { return e.rewardID }
func (e *Entry) LogID() *int64           { return e.logID }
func (e *Entry) Snapshot() map[string]any { return e.snapshot }
func (e *Entry) ErrMsg() *string         { return e.errMsg }
func (e *Entry) CreatedAt() time.Time    { return e.createdAt }
