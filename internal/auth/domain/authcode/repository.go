package authcode

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("auth code not found")

// Repository is the storage contract for auth codes.
type Repository interface {
	// Add inserts a new code row.
	Add(ctx context.Context, c *AuthCode) (int64, error)

	// InvalidateAllUnused marks every un-used code for userID as used.
	// Issuance does not call it: IssueCode performs the same
	// invalidation together with the insert in one transaction.
	InvalidateAllUnused(ctx context.Context, userID int64) error

	// IssueCode invalidates every unused code for userID and inserts c,
	// in one transaction, so a concurrent ConsumeValidCode never
	// observes a window with zero valid codes.
	IssueCode(ctx context.Context, userID int64, c *AuthCode) (int64, error)

	// CountIssuedSince counts codes created for userID at or after
	// since, for the rolling-hour rate limit.
	CountIssuedSince(ctx context.Context, userID int64, since time.Time) (int, error)

	// ConsumeValidCode atomically finds a row matching
	// (userID, code, used=false, not expired, not locked) and flips
	// used=true in one conditional update. Returns ErrNotFound if no
	// row matched (already consumed, wrong code, expired, or locked).
	ConsumeValidCode(ctx context.Context, userID int64, code string, now time.Time) (*AuthCode, error)

	// LatestActiveCode returns the user's most recent non-used,
	// non-expired code, for attributing a failed verification attempt.
	LatestActiveCode(ctx context.Context, userID int64, now time.Time) (*AuthCode, error)

	// RegisterFailedAttempt persists the incremented failure counter
	// and, if it crossed the threshold, the lock expiry.
	RegisterFailedAttempt(ctx context.Context, codeID int64, failedAttempts int, lockedUntil *time.Time) error

	// DeleteExpired removes every row with expires_at < now, returning
	// the count removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
