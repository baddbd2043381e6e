package ports

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/apikey"
	"github.com/erzhan12/habit-reward-go/internal/auth/domain/service"
	"github.com/erzhan12/habit-reward-go/internal/auth/domain/user"
	authctx "github.com/erzhan12/habit-reward-go/internal/auth/infrastructure/context"
	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/httputil"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
)

// AuthMiddleware accepts either a bearer JWT access token in the
// Authorization header or a raw API key in X-API-Key, resolves it to
// an active user, and attaches that identity to the request context.
// A bearer token takes priority when both are present. Downstream
// handlers trust the request is authenticated once this middleware
// has run.
func AuthMiddleware(tokenVerifier service.TokenVerifier, users user.Reader, apiKeys *apikey.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer := bearerToken(r)
			apiKey := strings.TrimSpace(r.Header.Get("X-API-Key"))
			if bearer == "" && apiKey == "" {
				httputil.Error(w, r, apperror.MissingToken())
				return
			}

			var u *user.User
			var err error

			if bearer != "" {
				var claims *service.TokenClaims
				claims, err = tokenVerifier.Verify(r.Context(), bearer, service.TokenTypeAccess)
				if err != nil {
					httputil.Error(w, r, apperror.Unauthorized("invalid or expired token"))
					return
				}
				u, err = users.FindByID(r.Context(), claims.UserID)
				if err != nil || !u.IsActive() {
					httputil.Error(w, r, apperror.UserInactive())
					return
				}
			} else {
				u, err = apiKeys.Verify(r.Context(), apiKey, time.Now())
				if err != nil {
					httputil.Error(w, r, apperror.InvalidApiKey())
					return
				}
			}

			ctx := authctx.ContextWithUser(r.Context(), authctx.User{UserID: u.UserID(), TelegramID: u.TelegramID()})
			logger.AddUserContext(ctx, strconv.FormatInt(u.UserID(), 10), strconv.FormatInt(u.TelegramID(), 10))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetUserFromContext extracts the authenticated identity from the
// request context. Only valid in handlers downstream of AuthMiddleware.
func GetUserFromContext(ctx context.Context) (authctx.User, bool) {
	u, err := authctx.UserFromCtx(ctx)
	if err != nil {
		return authctx.User{}, false
	}
	return u, true
}
