package ports

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/erzhan12/habit-reward-go/internal/auth/app"
	"github.com/erzhan12/habit-reward-go/internal/auth/app/command"
	"github.com/erzhan12/habit-reward-go/internal/auth/app/query"
	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
	"github.com/erzhan12/habit-reward-go/internal/common/httputil"
	"github.com/erzhan12/habit-reward-go/internal/common/validator"
)

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// Handlers exposes the auth module's REST surface: telegram-code
// login, token refresh, the authenticated user's own profile, and
// their API keys.
type Handlers struct {
	app      app.Application
	validate *validator.Validator
}

func NewHandlers(a app.Application, validate *validator.Validator) *Handlers {
	return &Handlers{app: a, validate: validate}
}

// Mount wires the /v1/auth, /v1/users/me, and /v1/api-keys routes onto
// r. Routes requiring authentication are registered on the protected
// sub-router the caller has already wrapped with AuthMiddleware.
func (h *Handlers) Mount(public, protected chi.Router) {
	public.Post("/auth/request-code", h.requestCode)
	public.Post("/auth/verify-code", h.verifyCode)
	public.Post("/auth/refresh", h.refresh)
	public.Post("/auth/logout", h.logout)
	public.Post("/auth/login", h.deprecatedLogin)

	protected.Get("/users/me", h.getMe)
	protected.Patch("/users/me", h.updateMe)

	protected.Post("/api-keys", h.createApiKey)
	protected.Get("/api-keys", h.listApiKeys)
	protected.Delete("/api-keys/{id}", h.revokeApiKey)
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httputil.Error(w, r, apperror.ValidationFailed("invalid request body"))
		return false
	}
	if err := h.validate.Validate(dst); err != nil {
		httputil.Error(w, r, apperror.ValidationFailed(err.Error()))
		return false
	}
	return true
}

func (h *Handlers) requestCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TelegramID int64   `json:"telegram_id" validate:"required"`
		DeviceInfo *string `json:"device_info"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.app.Commands.IssueAuthCode.Handle(r.Context(), command.IssueAuthCode{
		TelegramID: req.TelegramID,
		DeviceInfo: req.DeviceInfo,
	}); err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Success(w, r, nil, "a login code has been sent if this telegram id is registered")
}

func (h *Handlers) verifyCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TelegramID int64  `json:"telegram_id" validate:"required"`
		Code       string `json:"code" validate:"required,len=6,numeric"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.app.Commands.VerifyAuthCode.Handle(r.Context(), command.VerifyAuthCode{
		TelegramID: req.TelegramID,
		Code:       req.Code,
	})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Success(w, r, tokenPairResponse(result), "logged in")
}

func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.app.Commands.RefreshToken.Handle(r.Context(), command.RefreshToken{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Success(w, r, map[string]string{
		"access_token": result.AccessToken,
		"token_type":   "bearer",
	}, "token refreshed")
}

// logout is a no-op beyond a 200: tokens are stateless JWTs with no
// server-side revocation list, so there is nothing to invalidate.
func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	httputil.Success(w, r, nil, "logged out")
}

func (h *Handlers) deprecatedLogin(w http.ResponseWriter, r *http.Request) {
	httputil.Error(w, r, apperror.DeprecatedLogin())
}

func (h *Handlers) getMe(w http.ResponseWriter, r *http.Request) {
	u, ok := GetUserFromContext(r.Context())
	if !ok {
		httputil.Error(w, r, apperror.AuthRequired())
		return
	}

	result, err := h.app.Queries.GetProfile.Handle(r.Context(), query.GetProfile{UserID: u.UserID})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Success(w, r, userResponse{
		UserID:     result.UserID(),
		TelegramID: result.TelegramID(),
		Name:       result.Name(),
		Language:   result.Language(),
		Timezone:   result.Timezone(),
		IsActive:   result.IsActive(),
		CreatedAt:  result.CreatedAt(),
	}, "profile retrieved")
}

func (h *Handlers) updateMe(w http.ResponseWriter, r *http.Request) {
	u, ok := GetUserFromContext(r.Context())
	if !ok {
		httputil.Error(w, r, apperror.AuthRequired())
		return
	}

	var req struct {
		Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
		Language *string `json:"language" validate:"omitempty,langcode"`
		Timezone *string `json:"timezone" validate:"omitempty,min=1,max=64"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.app.Commands.UpdateProfile.Handle(r.Context(), command.UpdateProfile{
		UserID:   u.UserID,
		Name:     req.Name,
		Language: req.Language,
		Timezone: req.Timezone,
	}); err != nil {
		httputil.Error(w, r, err)
		return
	}

	result, err := h.app.Queries.GetProfile.Handle(r.Context(), query.GetProfile{UserID: u.UserID})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Success(w, r, userResponse{
		UserID:     result.UserID(),
		TelegramID: result.TelegramID(),
		Name:       result.Name(),
		Language:   result.Language(),
		Timezone:   result.Timezone(),
		IsActive:   result.IsActive(),
		CreatedAt:  result.CreatedAt(),
	}, "profile updated")
}

func (h *Handlers) createApiKey(w http.ResponseWriter, r *http.Request) {
	u, ok := GetUserFromContext(r.Context())
	if !ok {
		httputil.Error(w, r, apperror.AuthRequired())
		return
	}

	var req struct {
		Name      string     `json:"name" validate:"required,min=1,max=100"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.app.Commands.CreateApiKey.Handle(r.Context(), command.CreateApiKey{
		UserID:    u.UserID,
		Name:      req.Name,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Created(w, r, map[string]any{
		"id":      result.KeyID,
		"name":    result.Name,
		"api_key": result.RawKey,
	}, "api key created; this is the only time the raw key is shown")
}

func (h *Handlers) listApiKeys(w http.ResponseWriter, r *http.Request) {
	u, ok := GetUserFromContext(r.Context())
	if !ok {
		httputil.Error(w, r, apperror.AuthRequired())
		return
	}

	keys, err := h.app.Queries.ListApiKeys.Handle(r.Context(), query.ListApiKeys{UserID: u.UserID})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	resp := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		resp = append(resp, map[string]any{
			"id":           k.KeyID(),
			"name":         k.Name(),
			"created_at":   k.CreatedAt(),
			"last_used_at": k.LastUsedAt(),
			"expires_at":   k.ExpiresAt(),
			"is_active":    k.IsActive(),
		})
	}

	httputil.Success(w, r, resp, "api keys retrieved")
}

func (h *Handlers) revokeApiKey(w http.ResponseWriter, r *http.Request) {
	u, ok := GetUserFromContext(r.Context())
	if !ok {
		httputil.Error(w, r, apperror.AuthRequired())
		return
	}

	keyID, err := parseIDParam(r, "id")
	if err != nil {
		httputil.Error(w, r, apperror.ValidationFailed("invalid api key id"))
		return
	}

	if err := h.app.Commands.RevokeApiKey.Handle(r.Context(), command.RevokeApiKey{
		UserID: u.UserID,
		KeyID:  keyID,
	}); err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Success(w, r, nil, "api key revoked")
}

type userResponse struct {
	UserID     int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Name       string    `json:"name"`
	Language   string    `json:"language"`
	Timezone   string    `json:"timezone"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func tokenPairResponse(p command.TokenPair) map[string]any {
	return map[string]any{
		"access_token":  p.AccessToken,
		"refresh_token": p.RefreshToken,
		"token_type":    "bearer",
	}
}
