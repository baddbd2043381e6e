// Package apikey implements long-lived bearer credentials: prefixed,
// randomly generated, shown once, stored only as a SHA-256 hash.
package apikey

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

const Prefix = "hrk_"

var (
	ErrEmptyName     = errors.New("api key name cannot be empty")
	ErrEmptyUserID   = errors.New("user id cannot be empty")
	ErrNotFound      = errors.New("api key not found")
	ErrUnauthorized  = errors.New("api key does not belong to this user")
	ErrDuplicateName = errors.New("api key name already in use")
)

// ApiKey is the persisted record; it never carries the raw key after
// creation, only its SHA-256 hex digest.
type ApiKey struct {
	keyID      int64
	userID     int64
	name       string
	keyHash    string
	createdAt  time.Time
	lastUsedAt *time.Time
	expiresAt  *time.Time
	isActive   bool
}

func New(userID int64, name string, rawKey string, expiresAt *time.Time, now time.Time) (*ApiKey, error) {
	if userID == 0 {
		return nil, ErrEmptyUserID
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	return &ApiKey{
		userID:    userID,
		name:      name,
		keyHash:   HashKey(rawKey),
		createdAt: now,
		expiresAt: expiresAt,
		isActive:  true,
	}, nil
}

func UnmarshalFromDatabase(
	keyID, userID int64,
	name, keyHash string,
	createdAt time.Time,
	lastUsedAt, expiresAt *time.Time,
	isActive bool,
) *ApiKey {
	return &ApiKey{
		keyID:      keyID,
		userID:     userID,
		name:       name,
		keyHash:    keyHash,
		createdAt:  createdAt,
		lastUsedAt: lastUsedAt,
		expiresAt:  expiresAt,
		isActive:   isActive,
	}
}

func (k *ApiKey) KeyID() int64             { return k.keyID }
func (k *ApiKey) UserID() int64            { return k.userID }
func (k *ApiKey) Name() string             { return k.name }
func (k *ApiKey) KeyHash() string          { return k.keyHash }
func (k *ApiKey) CreatedAt() time.Time     { return k.createdAt }
func (k *ApiKey) LastUsedAt() *time.Time   { return k.lastUsedAt }
func (k *ApiKey) ExpiresAt() *time.Time    { return k.expiresAt }
func (k *ApiKey) IsActive() bool           { return k.isActive }

func (k *ApiKey) IsExpired(now time.Time) bool {
	return k.expiresAt != nil && now.After(*k.expiresAt)
}

func (k *ApiKey) Touch(now time.Time) {
	k.lastUsedAt = &now
}

func (k *ApiKey) Revoke() {
	k.isActive = false
}

func (k *ApiKey) CanBeModifiedBy(userID int64) error {
	if k.userID != userID {
		return ErrUnauthorized
	}
	return nil
}

// GenerateRawKey produces a hrk_-prefixed key: the prefix followed by
// 32 bytes of URL-safe base64 random.
func GenerateRawKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return Prefix + base64.RawURLEncoding.EncodeToString(b), nil
}

func HashKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

func HasValidPrefix(rawKey string) bool {
	return strings.HasPrefix(rawKey, Prefix)
}
