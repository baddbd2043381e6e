package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/apikey"
	"github.com/erzhan12/habit-reward-go/internal/common/database"
)

type apiKeyModel struct {
	KeyID      int64        `db:"key_id"`
	UserID     int64        `db:"user_id"`
	Name       string       `db:"name"`
	KeyHash    string       `db:"key_hash"`
	CreatedAt  time.Time    `db:"created_at"`
	LastUsedAt sql.NullTime `db:"last_used_at"`
	ExpiresAt  sql.NullTime `db:"expires_at"`
	IsActive   bool         `db:"is_active"`
}

func unmarshalApiKey(m apiKeyModel) *apikey.ApiKey {
	return apikey.UnmarshalFromDatabase(
		m.KeyID, m.UserID, m.Name, m.KeyHash, m.CreatedAt,
		nullTimeToPtr(m.LastUsedAt), nullTimeToPtr(m.ExpiresAt), m.IsActive,
	)
}

// ApiKeyPostgresRepository is the sqlx/lib-pq backed implementation of
// apikey.Repository.
type ApiKeyPostgresRepository struct {
	db database.DBTX
}

func NewApiKeyPostgresRepository(db database.DBTX) *ApiKeyPostgresRepository {
	return &ApiKeyPostgresRepository{db: db}
}

func (r *ApiKeyPostgresRepository) Add(ctx context.Context, k *apikey.ApiKey) (int64, error) {
	const q = `
		INSERT INTO api_keys (user_id, name, key_hash, created_at, last_used_at, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING key_id
	`
	var id int64
	err := r.db.QueryRowxContext(ctx, q,
		k.UserID(), k.Name(), k.KeyHash(), k.CreatedAt(), timePtrToNull(k.LastUsedAt()), timePtrToNull(k.ExpiresAt()), k.IsActive(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add api key: %w", err)
	}
	return id, nil
}

func (r *ApiKeyPostgresRepository) FindByHash(ctx context.Context, keyHash string) (*apikey.ApiKey, error) {
	var m apiKeyModel
	const q = `SELECT * FROM api_keys WHERE key_hash = $1`
	err := r.db.GetContext(ctx, &m, q, keyHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apikey.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find api key by hash: %w", err)
	}
	return unmarshalApiKey(m), nil
}

func (r *ApiKeyPostgresRepository) FindByID(ctx context.Context, keyID int64) (*apikey.ApiKey, error) {
	var m apiKeyModel
	const q = `SELECT * FROM api_keys WHERE key_id = $1`
	err := r.db.GetContext(ctx, &m, q, keyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apikey.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find api key by id: %w", err)
	}
	return unmarshalApiKey(m), nil
}

func (r *ApiKeyPostgresRepository) ExistsByName(ctx context.Context, userID int64, name string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM api_keys WHERE user_id = $1 AND name = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, q, userID, name); err != nil {
		return false, fmt.Errorf("check api key name exists: %w", err)
	}
	return exists, nil
}

func (r *ApiKeyPostgresRepository) ListForUser(ctx context.Context, userID int64) ([]*apikey.ApiKey, error) {
	var ms []apiKeyModel
	const q = `SELECT * FROM api_keys WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &ms, q, userID); err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	out := make([]*apikey.ApiKey, 0, len(ms))
	for _, m := range ms {
		out = append(out, unmarshalApiKey(m))
	}
	return out, nil
}

func (r *ApiKeyPostgresRepository) Touch(ctx context.Context, keyID int64, at time.Time) error {
	const q = `UPDATE api_keys SET last_used_at = $1 WHERE key_id = $2`
	_, err := r.db.ExecContext(ctx, q, at, keyID)
	if err != nil {
		return fmt.Errorf("touch api key: %w", err)
	}
	return nil
}

func (r *ApiKeyPostgresRepository) Revoke(ctx context.Context, keyID int64) error {
	const q = `UPDATE api_keys SET is_active = false WHERE key_id = $1`
	_, err := r.db.ExecContext(ctx, q, keyID)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	return nil
}
