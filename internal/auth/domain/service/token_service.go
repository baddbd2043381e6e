package service

import (
	"context"
	"errors"
	"time"
)

// TokenType distinguishes short-lived access tokens from long-lived
// refresh tokens; verification rejects a token presented as the wrong type.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidTokenType = errors.New("invalid token type")
)

// TokenIssuer creates stateless signed tokens carrying the user's
// stable id and telegram id.
type TokenIssuer interface {
	IssueAccessToken(ctx context.Context, userID, telegramID int64, expiresAt time.Time) (string, error)
	IssueRefreshToken(ctx context.Context, userID, telegramID int64, expiresAt time.Time) (string, error)
}

// TokenClaims is the validated information extracted from a token.
type TokenClaims struct {
	UserID     int64
	TelegramID int64
	Type       TokenType
	IssuedAt   int64
	ExpiresAt  int64
}

// TokenVerifier validates tokens and extracts their claims, enforcing
// the expected type.
type TokenVerifier interface {
	Verify(ctx context.Context, token string, expectedType TokenType) (*TokenClaims, error)
}
