package user

import "context"

// Reader is the narrow read-side contract for users. The habits core
// and the chat surface both resolve identity exclusively through the
// telegram ID; the stable integer id is used for everything internal.
type Reader interface {
	FindByID(ctx context.Context, userID int64) (*User, error)
	FindByTelegramID(ctx context.Context, telegramID int64) (*User, error)
}
