package apikey

import (
	"context"
	"time"
)

// Repository is the storage contract for API keys.
type Repository interface {
	// Add inserts a new key row, rejecting a duplicate (userID, name).
	Add(ctx context.Context, k *ApiKey) (int64, error)

	// FindByHash looks up a key by its SHA-256 hash for verification,
	// whether or not it is active; the caller checks IsActive.
	FindByHash(ctx context.Context, keyHash string) (*ApiKey, error)

	// FindByID looks up a key by id for ownership-checked operations.
	FindByID(ctx context.Context, keyID int64) (*ApiKey, error)

	// ExistsByName reports whether userID already has a key named name.
	ExistsByName(ctx context.Context, userID int64, name string) (bool, error)

	// ListForUser returns every key belonging to userID, newest first.
	ListForUser(ctx context.Context, userID int64) ([]*ApiKey, error)

	// Touch updates last_used_at for keyID.
	Touch(ctx context.Context, keyID int64, at time.Time) error

	// Revoke sets is_active=false for keyID.
	Revoke(ctx context.Context, keyID int64) error
}
