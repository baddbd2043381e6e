package authctx

import (
	"context"
	"errors"
)

type ctxKey int

const (
	userContextKey ctxKey = iota
)

// User is the authenticated identity attached to a request context by
// the auth middleware, regardless of whether it was resolved via a
// bearer JWT or an API key.
type User struct {
	UserID     int64
	TelegramID int64
}

func UserFromCtx(ctx context.Context) (User, error) {
	u, ok := ctx.Value(userContextKey).(User)
	if !ok {
		return User{}, errors.New("user not found in context")
	}
	return u, nil
}

func ContextWithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
