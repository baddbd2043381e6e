package apperror

import (
	"fmt"
	"net/http"
)

// Error codes for the habit-completion domain. These extend the common
// set in apperror.go with every kind spec §7 names.
const (
	ErrCodeUserNotFound   = "HABIT_USER_NOT_FOUND"
	ErrCodeHabitNotFound  = "HABIT_NOT_FOUND"
	ErrCodeRewardNotFound = "HABIT_REWARD_NOT_FOUND"
	ErrCodeLogNotFound    = "HABIT_LOG_NOT_FOUND"

	ErrCodeNotOwner         = "HABIT_NOT_OWNER"
	ErrCodeUserInactive     = "HABIT_USER_INACTIVE"
	ErrCodeMissingToken     = "AUTH_MISSING_TOKEN"
	ErrCodeInvalidTokenType = "AUTH_INVALID_TOKEN_TYPE"
	ErrCodeInvalidApiKey    = "AUTH_INVALID_API_KEY"
	ErrCodeAuthRequired     = "AUTH_REQUIRED"

	ErrCodeAlreadyCompleted  = "HABIT_ALREADY_COMPLETED"
	ErrCodeHabitExists       = "HABIT_EXISTS"
	ErrCodeRewardExists      = "HABIT_REWARD_EXISTS"
	ErrCodeHasProgress       = "HABIT_REWARD_HAS_PROGRESS"
	ErrCodeNothingToRevert   = "HABIT_NOTHING_TO_REVERT"
	ErrCodeAlreadyClaimed    = "HABIT_REWARD_ALREADY_CLAIMED"

	ErrCodeInvalidWeekdays     = "HABIT_INVALID_WEEKDAYS"
	ErrCodeInvalidStatus       = "HABIT_INVALID_STATUS"
	ErrCodeFutureDate          = "HABIT_FUTURE_DATE"
	ErrCodeTooOld              = "HABIT_TOO_OLD"
	ErrCodeBeforeHabitCreation = "HABIT_BEFORE_CREATION"
	ErrCodeNotAchieved         = "HABIT_REWARD_NOT_ACHIEVED"

	ErrCodeRateLimited     = "AUTH_RATE_LIMITED"
	ErrCodeInvalidCode     = "AUTH_INVALID_CODE"
	ErrCodeDeprecatedLogin = "AUTH_DEPRECATED_LOGIN"
	ErrCodeApiKeyExists    = "AUTH_API_KEY_EXISTS"
)

func UserNotFound(telegramID string) *AppError {
	return New(ErrCodeUserNotFound, "user not found", http.StatusNotFound, nil).
		WithDetails("telegram_id", telegramID)
}

func HabitNotFound(name string) *AppError {
	return New(ErrCodeHabitNotFound, fmt.Sprintf("habit %q not found", name), http.StatusNotFound, nil)
}

func RewardNotFound(name string) *AppError {
	return New(ErrCodeRewardNotFound, fmt.Sprintf("reward %q not found", name), http.StatusNotFound, nil)
}

func LogNotFound() *AppError {
	return New(ErrCodeLogNotFound, "habit log not found", http.StatusNotFound, nil)
}

func NotOwner() *AppError {
	return New(ErrCodeNotOwner, "you do not own this resource", http.StatusForbidden, nil)
}

func UserInactive() *AppError {
	return New(ErrCodeUserInactive, "user account is inactive", http.StatusForbidden, nil)
}

func MissingToken() *AppError {
	return New(ErrCodeMissingToken, "missing credentials", http.StatusUnauthorized, nil)
}

func InvalidTokenType() *AppError {
	return New(ErrCodeInvalidTokenType, "token is not valid for this operation", http.StatusUnauthorized, nil)
}

func InvalidApiKey() *AppError {
	return New(ErrCodeInvalidApiKey, "invalid API key", http.StatusUnauthorized, nil)
}

func AuthRequired() *AppError {
	return New(ErrCodeAuthRequired, "authentication required", http.StatusUnauthorized, nil)
}

func AlreadyCompleted() *AppError {
	return New(ErrCodeAlreadyCompleted, "habit already completed for this date", http.StatusConflict, nil)
}

func HabitExists(name string) *AppError {
	return New(ErrCodeHabitExists, fmt.Sprintf("habit %q already exists", name), http.StatusConflict, nil)
}

func RewardExists(name string) *AppError {
	return New(ErrCodeRewardExists, fmt.Sprintf("reward %q already exists", name), http.StatusConflict, nil)
}

func ApiKeyExists(name string) *AppError {
	return New(ErrCodeApiKeyExists, fmt.Sprintf("an api key named %q already exists", name), http.StatusConflict, nil)
}

func HasProgress() *AppError {
	return New(ErrCodeHasProgress, "reward has existing progress", http.StatusConflict, nil)
}

func NothingToRevert() *AppError {
	return New(ErrCodeNothingToRevert, "nothing to revert", http.StatusConflict, nil)
}

func AlreadyClaimed() *AppError {
	return New(ErrCodeAlreadyClaimed, "reward already claimed", http.StatusConflict, nil)
}

func InvalidWeekdays() *AppError {
	return New(ErrCodeInvalidWeekdays, "exempt_weekdays must be ISO weekdays 1-7", http.StatusUnprocessableEntity, nil)
}

func InvalidStatus(status string) *AppError {
	return New(ErrCodeInvalidStatus, fmt.Sprintf("invalid status %q", status), http.StatusUnprocessableEntity, nil)
}

func FutureDate() *AppError {
	return New(ErrCodeFutureDate, "target date is in the future", http.StatusUnprocessableEntity, nil)
}

func TooOld() *AppError {
	return New(ErrCodeTooOld, "target date is more than 7 days in the past", http.StatusUnprocessableEntity, nil)
}

func BeforeHabitCreation() *AppError {
	return New(ErrCodeBeforeHabitCreation, "target date is before the habit was created", http.StatusUnprocessableEntity, nil)
}

func NotAchieved() *AppError {
	return New(ErrCodeNotAchieved, "reward has not been achieved yet", http.StatusUnprocessableEntity, nil)
}

func RateLimited() *AppError {
	return New(ErrCodeRateLimited, "too many requests, please try again later", http.StatusTooManyRequests, nil)
}

func InvalidCode() *AppError {
	return New(ErrCodeInvalidCode, "invalid or expired code", http.StatusUnauthorized, nil)
}

func DeprecatedLogin() *AppError {
	return New(ErrCodeDeprecatedLogin, "this login method has been removed, use /v1/auth/request-code", http.StatusGone, nil)
}
