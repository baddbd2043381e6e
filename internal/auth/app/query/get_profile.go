package query

import (
	"context"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/user"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
)

// GetProfile fetches the authenticated user's own profile.
type GetProfile struct {
	UserID int64
}

type GetProfileHandler decorator.QueryHandler[GetProfile, *user.User]

type getProfileHandler struct {
	users user.Reader
}

func NewGetProfileHandler(users user.Reader, log logger.Logger, metricsClient decorator.MetricsClient) GetProfileHandler {
	if users == nil {
		panic("nil user reader")
	}
	return decorator.ApplyQueryDecorators[GetProfile, *user.User](
		getProfileHandler{users: users}, log, metricsClient,
	)
}

func (h getProfileHandler) Handle(ctx context.Context, q GetProfile) (*user.User, error) {
	return h.users.FindByID(ctx, q.UserID)
}
