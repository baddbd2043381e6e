package command

import (
	"context"
	"errors"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/authcode"
	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
)

// IssueAuthCode requests a fresh login code be sent out-of-band (via
// the telegram bot) to the given telegram id.
type IssueAuthCode struct {
	TelegramID int64  `json:"telegram_id" validate:"required"`
	DeviceInfo *string `json:"device_info"`
}

// IssueAuthCodeHandler always succeeds from the caller's point of view:
// the silent-ok anti-enumeration behavior lives in authcode.Service.
type IssueAuthCodeHandler decorator.CommandHandler[IssueAuthCode]

type issueAuthCodeHandler struct {
	codes *authcode.Service
}

func NewIssueAuthCodeHandler(codes *authcode.Service, log logger.Logger, metricsClient decorator.MetricsClient) IssueAuthCodeHandler {
	if codes == nil {
		panic("nil authcode service")
	}
	return decorator.ApplyCommandDecorators[IssueAuthCode](
		issueAuthCodeHandler{codes: codes}, log, metricsClient,
	)
}

func (h issueAuthCodeHandler) Handle(ctx context.Context, cmd IssueAuthCode) error {
	_, err := h.codes.IssueCode(ctx, cmd.TelegramID, cmd.DeviceInfo, time.Now())
	if errors.Is(err, authcode.ErrRateLimited) {
		return apperror.RateLimited()
	}
	return err
}
