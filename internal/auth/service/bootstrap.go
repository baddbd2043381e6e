package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/erzhan12/habit-reward-go/config"
	"github.com/erzhan12/habit-reward-go/internal/auth/adapters"
	"github.com/erzhan12/habit-reward-go/internal/auth/app"
	"github.com/erzhan12/habit-reward-go/internal/auth/app/command"
	"github.com/erzhan12/habit-reward-go/internal/auth/app/query"
	"github.com/erzhan12/habit-reward-go/internal/auth/domain/apikey"
	"github.com/erzhan12/habit-reward-go/internal/auth/domain/authcode"
	"github.com/erzhan12/habit-reward-go/internal/auth/ports"
	"github.com/erzhan12/habit-reward-go/internal/common/decorator"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
)

// NewApplication creates and wires all dependencies for the auth module.
func NewApplication(
	_ context.Context,
	cfg *config.Config,
	db *sqlx.DB,
	log logger.Logger,
	metricsClient decorator.MetricsClient,
) app.Application {
	userRepo := adapters.NewUserPostgresRepository(db)
	authCodeRepo := adapters.NewAuthCodePostgresRepository(db)
	apiKeyRepo := adapters.NewApiKeyPostgresRepository(db)
	tokenIssuer := adapters.NewJWTTokenIssuer(cfg)

	authCodes := authcode.NewService(authCodeRepo, userRepo)
	apiKeys := apikey.NewService(apiKeyRepo, userRepo)

	return app.Application{
		AuthMiddleware: ports.AuthMiddleware(tokenIssuer, userRepo, apiKeys),
		Commands: app.Commands{
			IssueAuthCode: command.NewIssueAuthCodeHandler(
				authCodes, log, metricsClient,
			),
			VerifyAuthCode: command.NewVerifyAuthCodeHandler(
				authCodes, tokenIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, log, metricsClient,
			),
			RefreshToken: command.NewRefreshTokenHandler(
				tokenIssuer, tokenIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, log, metricsClient,
			),
			UpdateProfile: command.NewUpdateProfileHandler(
				userRepo, log, metricsClient,
			),
			CreateApiKey: command.NewCreateApiKeyHandler(
				apiKeys, log, metricsClient,
			),
			RevokeApiKey: command.NewRevokeApiKeyHandler(
				apiKeys, log, metricsClient,
			),
		},
		Queries: app.Queries{
			GetProfile: query.NewGetProfileHandler(
				userRepo, log, metricsClient,
			),
			ListApiKeys: query.NewListApiKeysHandler(
				apiKeys, log, metricsClient,
			),
		},
	}
}
