package apikey

import (
	"context"
	"errors"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/user"
)

var ErrInvalidKey = errors.New("invalid api key")

// Service implements creation, verification, listing, and revocation of
// API keys.
type Service struct {
	keys  Repository
	users user.Reader
}

func NewService(keys Repository, users user.Reader) *Service {
	return &Service{keys: keys, users: users}
}

func (s *Service) Create(ctx context.Context, userID int64, name string, expiresAt *time.Time, now time.Time) (*ApiKey, string, error) {
	exists, err := s.keys.ExistsByName(ctx, userID, name)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrDuplicateName
	}

	raw, err := GenerateRawKey()
	if err != nil {
		return nil, "", err
	}

	k, err := New(userID, name, raw, expiresAt, now)
	if err != nil {
		return nil, "", err
	}

	id, err := s.keys.Add(ctx, k)
	if err != nil {
		return nil, "", err
	}
	return UnmarshalFromDatabase(id, userID, name, k.KeyHash(), now, nil, expiresAt, true), raw, nil
}

// Verify resolves rawKey to its owning, still-active user, touching
// last_used_at on success.
func (s *Service) Verify(ctx context.Context, rawKey string, now time.Time) (*user.User, error) {
	if !HasValidPrefix(rawKey) {
		return nil, ErrInvalidKey
	}

	k, err := s.keys.FindByHash(ctx, HashKey(rawKey))
	if err != nil {
		return nil, ErrInvalidKey
	}
	if !k.IsActive() || k.IsExpired(now) {
		return nil, ErrInvalidKey
	}

	u, err := s.users.FindByID(ctx, k.UserID())
	if err != nil || !u.IsActive() {
		return nil, ErrInvalidKey
	}

	_ = s.keys.Touch(ctx, k.KeyID(), now)
	return u, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]*ApiKey, error) {
	return s.keys.ListForUser(ctx, userID)
}

func (s *Service) Revoke(ctx context.Context, userID, keyID int64) error {
	k, err := s.keys.FindByID(ctx, keyID)
	if err != nil {
		return err
	}
	if err := k.CanBeModifiedBy(userID); err != nil {
		return err
	}
	return s.keys.Revoke(ctx, keyID)
}
