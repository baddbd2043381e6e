package user

import "context"

// Repository defines user persistence operations.
type Repository interface {
	Reader

	Create(ctx context.Context, u *User) (int64, error)
	Update(ctx context.Context, userID int64, updateFn func(u *User) (*User, error)) (*User, error)
}
