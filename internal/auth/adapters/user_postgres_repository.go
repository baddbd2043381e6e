package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/user"
	"github.com/erzhan12/habit-reward-go/internal/common/database"
)

type userModel struct {
	UserID     int64     `db:"user_id"`
	TelegramID int64     `db:"telegram_id"`
	Name       string    `db:"name"`
	Language   string    `db:"language"`
	Timezone   string    `db:"timezone"`
	IsActive   bool      `db:"is_active"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func unmarshalUser(m userModel) *user.User {
	return user.UnmarshalUserFromDatabase(m.UserID, m.TelegramID, m.Name, m.Language, m.Timezone, m.IsActive, m.CreatedAt, m.UpdatedAt)
}

// UserPostgresRepository is the sqlx/lib-pq backed implementation of
// user.Repository.
type UserPostgresRepository struct {
	db database.DBTX
}

func NewUserPostgresRepository(db database.DBTX) *UserPostgresRepository {
	return &UserPostgresRepository{db: db}
}

func (r *UserPostgresRepository) Create(ctx context.Context, u *user.User) (int64, error) {
	const q = `
		INSERT INTO users (telegram_id, name, language, timezone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING user_id
	`
	var id int64
	err := r.db.QueryRowxContext(ctx, q, u.TelegramID(), u.Name(), u.Language(), u.Timezone(), u.IsActive(), u.CreatedAt(), u.UpdatedAt()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (r *UserPostgresRepository) FindByID(ctx context.Context, userID int64) (*user.User, error) {
	var m userModel
	const q = `SELECT * FROM users WHERE user_id = $1`
	err := r.db.GetContext(ctx, &m, q, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return unmarshalUser(m), nil
}

func (r *UserPostgresRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	var m userModel
	const q = `SELECT * FROM users WHERE telegram_id = $1`
	err := r.db.GetContext(ctx, &m, q, telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by telegram id: %w", err)
	}
	return unmarshalUser(m), nil
}

func (r *UserPostgresRepository) Update(ctx context.Context, userID int64, updateFn func(u *user.User) (*user.User, error)) (*user.User, error) {
	var result *user.User
	err := database.RunInTx(ctx, r.db, func(tx database.DBTX) error {
		var m userModel
		const q = `SELECT * FROM users WHERE user_id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &m, q, userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return user.ErrNotFound
			}
			return err
		}

		updated, err := updateFn(unmarshalUser(m))
		if err != nil {
			return err
		}

		const update = `
			UPDATE users SET name = $1, language = $2, timezone = $3, is_active = $4, updated_at = $5
			WHERE user_id = $6
		`
		_, err = tx.ExecContext(ctx, update, updated.Name(), updated.Language(), updated.Timezone(), updated.IsActive(), updated.UpdatedAt(), userID)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	return result, err
}
