package authcode

import (
	"context"
	"errors"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/user"
	"github.com/erzhan12/habit-reward-go/internal/common/random"
)

const codeLength = 6

var ErrRateLimited = errors.New("too many codes issued, try again later")

// Outcome distinguishes the two silent-ok cases — no such user, or an
// inactive user — from a real issuance, without leaking which case
// occurred (anti-enumeration).
type Outcome struct {
	Code      string
	ExpiresAt time.Time
	Issued    bool
}

// Service implements issuance, verification, and cleanup of auth codes.
type Service struct {
	codes Repository
	users user.Reader
}

func NewService(codes Repository, users user.Reader) *Service {
	return &Service{codes: codes, users: users}
}

// IssueCode looks up the user by telegram id and, if active, issues a
// fresh code. A missing or inactive user returns Outcome{Issued:false}
// with no error — the caller must not distinguish this from success in
// its response to avoid leaking which telegram IDs are registered.
func (s *Service) IssueCode(ctx context.Context, telegramID int64, deviceInfo *string, now time.Time) (Outcome, error) {
	u, err := s.users.FindByTelegramID(ctx, telegramID)
	if err != nil || !u.IsActive() {
		return Outcome{}, nil
	}

	count, err := s.codes.CountIssuedSince(ctx, u.UserID(), now.Add(-time.Hour))
	if err != nil {
		return Outcome{}, err
	}
	if count >= IssuanceRateLimit {
		return Outcome{}, ErrRateLimited
	}

	code, err := generateCode()
	if err != nil {
		return Outcome{}, err
	}

	ac, err := New(u.UserID(), code, deviceInfo, now)
	if err != nil {
		return Outcome{}, err
	}
	if _, err := s.codes.IssueCode(ctx, u.UserID(), ac); err != nil {
		return Outcome{}, err
	}

	return Outcome{Code: code, ExpiresAt: ac.ExpiresAt(), Issued: true}, nil
}

var ErrInvalid = errors.New("invalid or expired code")

// VerifyCode consumes a code for the given telegram id and returns the
// resolved user on success.
func (s *Service) VerifyCode(ctx context.Context, telegramID int64, code string, now time.Time) (*user.User, error) {
	u, err := s.users.FindByTelegramID(ctx, telegramID)
	if err != nil || !u.IsActive() {
		return nil, ErrInvalid
	}

	if _, err := s.codes.ConsumeValidCode(ctx, u.UserID(), code, now); err == nil {
		return u, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	latest, latestErr := s.codes.LatestActiveCode(ctx, u.UserID(), now)
	if latestErr == nil {
		latest.RegisterFailedAttempt(now)
		_ = s.codes.RegisterFailedAttempt(ctx, latest.CodeID(), latest.FailedAttempts(), latest.LockedUntil())
	}
	return nil, ErrInvalid
}

// CleanupExpired deletes expired codes and returns the count removed.
func (s *Service) CleanupExpired(ctx context.Context, now time.Time) (int, error) {
	return s.codes.DeleteExpired(ctx, now)
}

func generateCode() (string, error) {
	return random.GenerateNumericOTP(codeLength)
}
