package adapters

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/erzhan12/habit-reward-go/config"
	"github.com/erzhan12/habit-reward-go/internal/auth/domain/service"
)

// JWTTokenIssuer issues and verifies HMAC-SHA-256 signed JWTs carrying
// {sub=userId, telegram_id, exp, type}.
type JWTTokenIssuer struct {
	secretKey []byte
	issuer    string
}

func NewJWTTokenIssuer(cfg *config.Config) *JWTTokenIssuer {
	secret := cfg.APISecretKey
	if secret == "" {
		secret = cfg.AuthSecretKey
	}
	return &JWTTokenIssuer{
		secretKey: []byte(secret),
		issuer:    cfg.AppName,
	}
}

type claims struct {
	jwt.RegisteredClaims
	TelegramID int64             `json:"telegram_id"`
	Type       service.TokenType `json:"type"`
}

func (j *JWTTokenIssuer) issue(userID, telegramID int64, expiresAt time.Time, typ service.TokenType) (string, error) {
	now := time.Now()
	c := &claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TelegramID: telegramID,
		Type:       typ,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString(j.secretKey)
}

func (j *JWTTokenIssuer) IssueAccessToken(ctx context.Context, userID, telegramID int64, expiresAt time.Time) (string, error) {
	return j.issue(userID, telegramID, expiresAt, service.TokenTypeAccess)
}

func (j *JWTTokenIssuer) IssueRefreshToken(ctx context.Context, userID, telegramID int64, expiresAt time.Time) (string, error) {
	return j.issue(userID, telegramID, expiresAt, service.TokenTypeRefresh)
}

// Verify parses and validates a token, rejecting mismatched type,
// expiry, or bad signature.
func (j *JWTTokenIssuer) Verify(ctx context.Context, tokenString string, expectedType service.TokenType) (*service.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, service.ErrTokenExpired
		}
		return nil, service.ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, service.ErrInvalidToken
	}
	if c.Type != expectedType {
		return nil, service.ErrInvalidTokenType
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, service.ErrInvalidToken
	}

	return &service.TokenClaims{
		UserID:     userID,
		TelegramID: c.TelegramID,
		Type:       c.Type,
		IssuedAt:   c.IssuedAt.Time.Unix(),
		ExpiresAt:  c.ExpiresAt.Time.Unix(),
	}, nil
}
