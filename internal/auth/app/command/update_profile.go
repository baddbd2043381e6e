package command

import (
	"context"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/user"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
)

// UpdateProfile is a PATCH-style partial update of display name,
// language, and timezone.
type UpdateProfile struct {
	UserID   int64
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Language *string `json:"language" validate:"omitempty,langcode"`
	Timezone *string `json:"timezone" validate:"omitempty,min=1,max=64"`
}

type UpdateProfileHandler decorator.CommandHandler[UpdateProfile]

type updateProfileHandler struct {
	users user.Repository
}

func NewUpdateProfileHandler(users user.Repository, log logger.Logger, metricsClient decorator.MetricsClient) UpdateProfileHandler {
	if users == nil {
		panic("nil user repository")
	}
	return decorator.ApplyCommandDecorators[UpdateProfile](
		updateProfileHandler{users: users}, log, metricsClient,
	)
}

func (h updateProfileHandler) Handle(ctx context.Context, cmd UpdateProfile) error {
	_, err := h.users.Update(ctx, cmd.UserID, func(u *user.User) (*user.User, error) {
		if cmd.Name != nil {
			u.SetName(*cmd.Name)
		}
		if cmd.Language != nil {
			u.SetLanguage(*cmd.Language)
		}
		if cmd.Timezone != nil {
			u.SetTimezone(*cmd.Timezone)
		}
		return u, nil
	})
	return err
}
