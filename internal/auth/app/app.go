package app

import (
	"net/http"

	"github.com/erzhan12/habit-reward-go/internal/auth/app/command"
	"github.com/erzhan12/habit-reward-go/internal/auth/app/query"
)

// Application is the main application service facade for the auth module
type Application struct {
	Commands       Commands
	Queries        Queries
	AuthMiddleware func(http.Handler) http.Handler
}

// Commands groups all command handlers (write operations)
type Commands struct {
	IssueAuthCode  command.IssueAuthCodeHandler
	VerifyAuthCode command.VerifyAuthCodeHandler
	RefreshToken   command.RefreshTokenHandler
	UpdateProfile  command.UpdateProfileHandler
	CreateApiKey   command.CreateApiKeyHandler
	RevokeApiKey   command.RevokeApiKeyHandler
}

// Queries groups all query handlers (read operations)
type Queries struct {
	GetProfile   query.GetProfileHandler
	ListApiKeys  query.ListApiKeysHandler
}
