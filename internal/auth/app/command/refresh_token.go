package command

import (
	"context"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/service"
	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
)

// RefreshToken exchanges a valid refresh token for a new token pair.
// Tokens are stateless; there is no server-side revocation list, so
// rotation simply mints a fresh pair tied to the same user.
type RefreshToken struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenHandler decorator.CommandHandlerWithResult[RefreshToken, TokenPair]

type refreshTokenHandler struct {
	verifier   service.TokenVerifier
	issuer     service.TokenIssuer
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewRefreshTokenHandler(verifier service.TokenVerifier, issuer service.TokenIssuer, accessTTL, refreshTTL time.Duration, log logger.Logger, metricsClient decorator.MetricsClient) RefreshTokenHandler {
	if verifier == nil || issuer == nil {
		panic("nil token verifier or issuer")
	}
	return decorator.ApplyCommandResultDecorators[RefreshToken, TokenPair](
		refreshTokenHandler{verifier: verifier, issuer: issuer, accessTTL: accessTTL, refreshTTL: refreshTTL}, log, metricsClient,
	)
}

func (h refreshTokenHandler) Handle(ctx context.Context, cmd RefreshToken) (TokenPair, error) {
	claims, err := h.verifier.Verify(ctx, cmd.RefreshToken, service.TokenTypeRefresh)
	if err != nil {
		return TokenPair{}, apperror.Unauthorized("invalid or expired refresh token")
	}

	now := time.Now()
	access, err := h.issuer.IssueAccessToken(ctx, claims.UserID, claims.TelegramID, now.Add(h.accessTTL))
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := h.issuer.IssueRefreshToken(ctx, claims.UserID, claims.TelegramID, now.Add(h.refreshTTL))
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh, UserID: claims.UserID}, nil
}
