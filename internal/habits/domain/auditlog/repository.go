package auditlog

import (
	"context"
	"time"
)

// Repository is the append-only audit trail contract.
type Repository interface {
	// Log appends a new audit entry.
	Log(ctx context.Context, e *Entry) error

	// Timeline returns a user's events from the last hoursBack hours,
	// most recent first.
	Timeline(ctx context.Context, userID int64, hoursBack int) ([]*Entry, error)

	// TraceReward returns ordered events touching a specific reward.
	TraceReward(ctx context.Context, userID, rewardID int64) ([]*Entry, error)

	// Cleanup deletes rows older than olderThan, returning the count removed.
	Cleanup(ctx context.Context, olderThan time.Time) (int, error)
}
