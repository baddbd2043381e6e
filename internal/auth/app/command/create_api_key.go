package command

import (
	"context"
	"errors"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/apikey"
	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
)

// CreateApiKey mints a new long-lived API key for REST access. The raw
// key is returned once and never persisted.
type CreateApiKey struct {
	UserID    int64
	Name      string     `json:"name" validate:"required,min=1,max=100"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// CreateApiKeyResult carries the raw key, shown exactly once.
type CreateApiKeyResult struct {
	KeyID  int64
	Name   string
	RawKey string
}

type CreateApiKeyHandler decorator.CommandHandlerWithResult[CreateApiKey, CreateApiKeyResult]

type createApiKeyHandler struct {
	keys *apikey.Service
}

func NewCreateApiKeyHandler(keys *apikey.Service, log logger.Logger, metricsClient decorator.MetricsClient) CreateApiKeyHandler {
	if keys == nil {
		panic("nil apikey service")
	}
	return decorator.ApplyCommandResultDecorators[CreateApiKey, CreateApiKeyResult](
		createApiKeyHandler{keys: keys}, log, metricsClient,
	)
}

func (h createApiKeyHandler) Handle(ctx context.Context, cmd CreateApiKey) (CreateApiKeyResult, error) {
	k, raw, err := h.keys.Create(ctx, cmd.UserID, cmd.Name, cmd.ExpiresAt, time.Now())
	if err != nil {
		if errors.Is(err, apikey.ErrDuplicateName) {
			return CreateApiKeyResult{}, apperror.ApiKeyExists(cmd.Name)
		}
		return CreateApiKeyResult{}, err
	}
	return CreateApiKeyResult{KeyID: k.KeyID(), Name: k.Name(), RawKey: raw}, nil
}

// RevokeApiKey deactivates an API key its owner no longer wants to use.
type RevokeApiKey struct {
	UserID int64
	KeyID  int64
}

type RevokeApiKeyHandler decorator.CommandHandler[RevokeApiKey]

type revokeApiKeyHandler struct {
	keys *apikey.Service
}

func NewRevokeApiKeyHandler(keys *apikey.Service, log logger.Logger, metricsClient decorator.MetricsClient) RevokeApiKeyHandler {
	if keys == nil {
		panic("nil apikey service")
	}
	return decorator.ApplyCommandDecorators[RevokeApiKey](
		revokeApiKeyHandler{keys: keys}, log, metricsClient,
	)
}

func (h revokeApiKeyHandler) Handle(ctx context.Context, cmd RevokeApiKey) error {
	err := h.keys.Revoke(ctx, cmd.UserID, cmd.KeyID)
	if errors.Is(err, apikey.ErrUnauthorized) {
		return apperror.NotOwner()
	}
	return err
}
