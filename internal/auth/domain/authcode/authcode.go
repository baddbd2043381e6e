// Package authcode implements the single-use six-digit login code: a
// rate-limited, brute-force-locked credential delivered out of band by
// the chat transport.
package authcode

import (
	"errors"
	"time"
)

const (
	CodeLength          = 6
	Lifetime            = 5 * time.Minute
	IssuanceRateLimit   = 3 // per user per rolling hour
	FailedAttemptsLimit = 5
	LockDuration        = 15 * time.Minute
)

// AuthCode is a single-use login code, stored plain because it is
// short-lived and never leaves the trust boundary of the database.
type AuthCode struct {
	codeID         int64
	userID         int64
	code           string
	createdAt      time.Time
	expiresAt      time.Time
	used           bool
	failedAttempts int
	lockedUntil    *time.Time
	deviceInfo     *string
}

var ErrEmptyCode = errors.New("code cannot be empty")

func New(userID int64, code string, deviceInfo *string, now time.Time) (*AuthCode, error) {
	if len(code) != CodeLength {
		return nil, ErrEmptyCode
	}
	return &AuthCode{
		userID:     userID,
		code:       code,
		createdAt:  now,
		expiresAt:  now.Add(Lifetime),
		deviceInfo: deviceInfo,
	}, nil
}

func UnmarshalFromDatabase(
	codeID, userID int64,
	code string,
	createdAt, expiresAt time.Time,
	used bool,
	failedAttempts int,
	lockedUntil *time.Time,
	deviceInfo *string,
) *AuthCode {
	return &AuthCode{
		codeID:         codeID,
		userID:         userID,
		code:           code,
		createdAt:      createdAt,
		expiresAt:      expiresAt,
		used:           used,
		failedAttempts: failedAttempts,
		lockedUntil:    lockedUntil,
		deviceInfo:     deviceInfo,
	}
}

func (a *AuthCode) CodeID() int64           { return a.codeID }
func (a *AuthCode) UserID() int64           { return a.userID }
func (a *AuthCode) Code() string            { return a.code }
func (a *AuthCode) CreatedAt() time.Time    { return a.createdAt }
func (a *AuthCode) ExpiresAt() time.Time    { return a.expiresAt }
func (a *AuthCode) Used() bool              { return a.used }
func (a *AuthCode) FailedAttempts() int     { return a.failedAttempts }
func (a *AuthCode) LockedUntil() *time.Time { return a.lockedUntil }
func (a *AuthCode) DeviceInfo() *string     { return a.deviceInfo }

func (a *AuthCode) IsExpired(now time.Time) bool {
	return now.After(a.expiresAt)
}

func (a *AuthCode) IsLocked(now time.Time) bool {
	return a.lockedUntil != nil && now.Before(*a.lockedUntil)
}

// RegisterFailedAttempt increments the counter and locks the code once
// the threshold is reached.
func (a *AuthCode) RegisterFailedAttempt(now time.Time) {
	a.failedAttempts++
	if a.failedAttempts >= FailedAttemptsLimit {
		until := now.Add(LockDuration)
		a.lockedUntil = &until
	}
}
