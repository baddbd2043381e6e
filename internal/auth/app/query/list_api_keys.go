package query

import (
	"context"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/apikey"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
)

// ListApiKeys lists the authenticated user's API keys, including
// revoked and expired ones so the client can show history.
type ListApiKeys struct {
	UserID int64
}

type ListApiKeysHandler decorator.QueryHandler[ListApiKeys, []*apikey.ApiKey]

type listApiKeysHandler struct {
	keys *apikey.Service
}

func NewListApiKeysHandler(keys *apikey.Service, log logger.Logger, metricsClient decorator.MetricsClient) ListApiKeysHandler {
	if keys == nil {
		panic("nil apikey service")
	}
	return decorator.ApplyQueryDecorators[ListApiKeys, []*apikey.ApiKey](
		listApiKeysHandler{keys: keys}, log, metricsClient,
	)
}

func (h listApiKeysHandler) Handle(ctx context.Context, q ListApiKeys) ([]*apikey.ApiKey, error) {
	return h.keys.List(ctx, q.UserID)
}
