package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/authcode"
	"github.com/erzhan12/habit-reward-go/internal/common/database"
)

type authCodeModel struct {
	CodeID         int64        `db:"code_id"`
	UserID         int64        `db:"user_id"`
	Code           string       `db:"code"`
	CreatedAt      time.Time    `db:"created_at"`
	ExpiresAt      time.Time    `db:"expires_at"`
	Used           bool         `db:"used"`
	FailedAttempts int          `db:"failed_attempts"`
	LockedUntil    sql.NullTime `db:"locked_until"`
	DeviceInfo     sql.NullString `db:"device_info"`
}

func unmarshalAuthCode(m authCodeModel) *authcode.AuthCode {
	return authcode.UnmarshalFromDatabase(
		m.CodeID, m.UserID, m.Code, m.CreatedAt, m.ExpiresAt, m.Used, m.FailedAttempts,
		nullTimeToPtr(m.LockedUntil), nullStringToPtrAuthCode(m.DeviceInfo),
	)
}

func nullTimeToPtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

func nullStringToPtrAuthCode(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}

func timePtrToNull(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func stringPtrToNullAuthCode(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// AuthCodePostgresRepository is the sqlx/lib-pq backed implementation of
// authcode.Repository.
type AuthCodePostgresRepository struct {
	db database.DBTX
}

func NewAuthCodePostgresRepository(db database.DBTX) *AuthCodePostgresRepository {
	return &AuthCodePostgresRepository{db: db}
}

func (r *AuthCodePostgresRepository) Add(ctx context.Context, c *authcode.AuthCode) (int64, error) {
	const q = `
		INSERT INTO auth_codes (user_id, code, created_at, expires_at, used, failed_attempts, locked_until, device_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING code_id
	`
	var id int64
	err := r.db.QueryRowxContext(ctx, q,
		c.UserID(), c.Code(), c.CreatedAt(), c.ExpiresAt(), c.Used(), c.FailedAttempts(),
		timePtrToNull(c.LockedUntil()), stringPtrToNullAuthCode(c.DeviceInfo()),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add auth code: %w", err)
	}
	return id, nil
}

func (r *AuthCodePostgresRepository) InvalidateAllUnused(ctx context.Context, userID int64) error {
	const q = `UPDATE auth_codes SET used = true WHERE user_id = $1 AND used = false`
	_, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return fmt.Errorf("invalidate auth codes: %w", err)
	}
	return nil
}

// IssueCode runs InvalidateAllUnused and the insert inside a single
// transaction per spec §5's ordering guarantee for IssueCode.
func (r *AuthCodePostgresRepository) IssueCode(ctx context.Context, userID int64, c *authcode.AuthCode) (int64, error) {
	var id int64
	err := database.RunInTx(ctx, r.db, func(tx database.DBTX) error {
		if _, err := tx.ExecContext(ctx, `UPDATE auth_codes SET used = true WHERE user_id = $1 AND used = false`, userID); err != nil {
			return fmt.Errorf("invalidate auth codes: %w", err)
		}
		const q = `
			INSERT INTO auth_codes (user_id, code, created_at, expires_at, used, failed_attempts, locked_until, device_info)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING code_id
		`
		return tx.QueryRowxContext(ctx, q,
			c.UserID(), c.Code(), c.CreatedAt(), c.ExpiresAt(), c.Used(), c.FailedAttempts(),
			timePtrToNull(c.LockedUntil()), stringPtrToNullAuthCode(c.DeviceInfo()),
		).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("issue auth code: %w", err)
	}
	return id, nil
}

func (r *AuthCodePostgresRepository) CountIssuedSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM auth_codes WHERE user_id = $1 AND created_at >= $2`
	var count int
	if err := r.db.GetContext(ctx, &count, q, userID, since); err != nil {
		return 0, fmt.Errorf("count issued auth codes: %w", err)
	}
	return count, nil
}

// ConsumeValidCode flips used=true in one conditional UPDATE so that
// concurrent verification attempts can never both succeed.
func (r *AuthCodePostgresRepository) ConsumeValidCode(ctx context.Context, userID int64, code string, now time.Time) (*authcode.AuthCode, error) {
	const q = `
		UPDATE auth_codes
		SET used = true
		WHERE user_id = $1 AND code = $2 AND used = false
		  AND expires_at > $3
		  AND (locked_until IS NULL OR locked_until <= $3)
		RETURNING code_id, user_id, code, created_at, expires_at, used, failed_attempts, locked_until, device_info
	`
	var m authCodeModel
	err := r.db.QueryRowxContext(ctx, q, userID, code, now).Scan(
		&m.CodeID, &m.UserID, &m.Code, &m.CreatedAt, &m.ExpiresAt, &m.Used, &m.FailedAttempts, &m.LockedUntil, &m.DeviceInfo,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, authcode.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("consume auth code: %w", err)
	}
	return unmarshalAuthCode(m), nil
}

func (r *AuthCodePostgresRepository) LatestActiveCode(ctx context.Context, userID int64, now time.Time) (*authcode.AuthCode, error) {
	const q = `
		SELECT * FROM auth_codes
		WHERE user_id = $1 AND used = false AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	var m authCodeModel
	err := r.db.GetContext(ctx, &m, q, userID, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, authcode.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest active auth code: %w", err)
	}
	return unmarshalAuthCode(m), nil
}

func (r *AuthCodePostgresRepository) RegisterFailedAttempt(ctx context.Context, codeID int64, failedAttempts int, lockedUntil *time.Time) error {
	const q = `UPDATE auth_codes SET failed_attempts = $1, locked_until = $2 WHERE code_id = $3`
	_, err := r.db.ExecContext(ctx, q, failedAttempts, timePtrToNull(lockedUntil), codeID)
	if err != nil {
		return fmt.Errorf("register failed attempt: %w", err)
	}
	return nil
}

func (r *AuthCodePostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	const q = `DELETE FROM auth_codes WHERE expires_at < $1`
	res, err := r.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired auth codes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
