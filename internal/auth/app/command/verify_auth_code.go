package command

import (
	"context"
	"errors"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/authcode"
	"github.com/erzhan12/habit-reward-go/internal/auth/domain/service"
	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
)

// VerifyAuthCode exchanges a telegram login code for a token pair.
type VerifyAuthCode struct {
	TelegramID int64  `json:"telegram_id" validate:"required"`
	Code       string `json:"code" validate:"required,len=6,numeric"`
}

// TokenPair is the access/refresh token response shape shared by login
// and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	UserID       int64
}

type VerifyAuthCodeHandler decorator.CommandHandlerWithResult[VerifyAuthCode, TokenPair]

type verifyAuthCodeHandler struct {
	codes       *authcode.Service
	tokenIssuer service.TokenIssuer
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

func NewVerifyAuthCodeHandler(codes *authcode.Service, tokenIssuer service.TokenIssuer, accessTTL, refreshTTL time.Duration, log logger.Logger, metricsClient decorator.MetricsClient) VerifyAuthCodeHandler {
	if codes == nil || tokenIssuer == nil {
		panic("nil authcode service or token issuer")
	}
	return decorator.ApplyCommandResultDecorators[VerifyAuthCode, TokenPair](
		verifyAuthCodeHandler{codes: codes, tokenIssuer: tokenIssuer, accessTTL: accessTTL, refreshTTL: refreshTTL}, log, metricsClient,
	)
}

func (h verifyAuthCodeHandler) Handle(ctx context.Context, cmd VerifyAuthCode) (TokenPair, error) {
	now := time.Now()
	u, err := h.codes.VerifyCode(ctx, cmd.TelegramID, cmd.Code, now)
	if err != nil {
		if errors.Is(err, authcode.ErrInvalid) {
			return TokenPair{}, apperror.InvalidCode()
		}
		return TokenPair{}, err
	}

	access, err := h.tokenIssuer.IssueAccessToken(ctx, u.UserID(), u.TelegramID(), now.Add(h.accessTTL))
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := h.tokenIssuer.IssueRefreshToken(ctx, u.UserID(), u.TelegramID(), now.Add(h.refreshTTL))
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh, UserID: u.UserID()}, nil
}
