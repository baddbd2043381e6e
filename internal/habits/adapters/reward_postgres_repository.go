package adapters

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/common/database"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/reward"
)

type rewardModel struct {
	RewardID       int64           `db:"reward_id"`
	UserID         int64           `db:"user_id"`
	Name           string          `db:"name"`
	Weight         float64         `db:"weight"`
	PiecesRequired int             `db:"pieces_required"`
	PieceValue     sql.NullFloat64 `db:"piece_value"`
	MaxDailyClaims int             `db:"max_daily_claims"`
	IsActive       bool            `db:"is_active"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// RewardPostgresRepository is the sqlx/lib-pq backed implementation of
// reward.Repository.
type RewardPostgresRepository struct {
	db database.DBTX
}

func NewRewardPostgresRepository(db database.DBTX) *RewardPostgresRepository {
	return &RewardPostgresRepository{db: db}
}

func (r *RewardPostgresRepository) AddReward(ctx context.Context, rw *reward.Reward) (int64, error) {
	const q = `
		INSERT INTO rewards (user_id, name, weight, pieces_required, piece_value, max_daily_claims, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING reward_id
	`
	var id int64
	err := r.db.QueryRowxContext(ctx, q,
		rw.UserID(), rw.Name(), rw.Weight(), rw.PiecesRequired(),
		pieceValueToNull(rw.PieceValue()), rw.MaxDailyClaims(), rw.IsActive(), rw.CreatedAt(), rw.UpdatedAt(),
	).Scan(&id)
	return id, err
}

func (r *RewardPostgresRepository) GetReward(ctx context.Context, rewardID int64) (*reward.Reward, error) {
	var m rewardModel
	const q = `SELECT * FROM rewards WHERE reward_id = $1`
	err := r.db.GetContext(ctx, &m, q, rewardID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, reward.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalReward(m), nil
}

func (r *RewardPostgresRepository) GetRewardByName(ctx context.Context, userID int64, name string) (*reward.Reward, error) {
	var m rewardModel
	const q = `SELECT * FROM rewards WHERE user_id = $1 AND name = $2`
	err := r.db.GetContext(ctx, &m, q, userID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, reward.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalReward(m), nil
}

func (r *RewardPostgresRepository) ListRewards(ctx context.Context, userID int64, activeOnly bool) ([]*reward.Reward, error) {
	q := `SELECT * FROM rewards WHERE user_id = $1`
	if activeOnly {
		q += ` AND is_active = true`
	}
	q += ` ORDER BY created_at DESC`
	var models []rewardModel
	if err := r.db.SelectContext(ctx, &models, q, userID); err != nil {
		return nil, err
	}
	out := make([]*reward.Reward, len(models))
	for i, m := range models {
		out[i] = unmarshalReward(m)
	}
	return out, nil
}

func (r *RewardPostgresRepository) ClaimedTodayCount(ctx context.Context, userID, rewardID int64, todayKey string) (int, error) {
	const q = `
		SELECT COUNT(*) FROM habit_logs
		WHERE user_id = $1 AND reward_id = $2 AND got_reward = true AND last_completed_date = $3
	`
	var count int
	err := r.db.GetContext(ctx, &count, q, userID, rewardID, todayKey)
	return count, err
}

func (r *RewardPostgresRepository) UpdateReward(
	ctx context.Context,
	rewardID, userID int64,
	updateFn func(r *reward.Reward) (*reward.Reward, error),
) (*reward.Reward, error) {
	var result *reward.Reward
	err := database.RunInTx(ctx, r.db, func(tx database.DBTX) error {
		var m rewardModel
		const q = `SELECT * FROM rewards WHERE reward_id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &m, q, rewardID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return reward.ErrNotFound
			}
			return err
		}
		rw := unmarshalReward(m)
		if err := rw.CanBeModifiedBy(userID); err != nil {
			return err
		}
		updated, err := updateFn(rw)
		if err != nil {
			return err
		}
		const update = `
			UPDATE rewards
			SET name = $1, weight = $2, pieces_required = $3, piece_value = $4,
			    max_daily_claims = $5, is_active = $6, updated_at = $7
			WHERE reward_id = $8
		`
		_, err = tx.ExecContext(ctx, update,
			updated.Name(), updated.Weight(), updated.PiecesRequired(),
			pieceValueToNull(updated.PieceValue()), updated.MaxDailyClaims(),
			updated.IsActive(), updated.UpdatedAt(), rewardID,
		)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	return result, err
}

func unmarshalReward(m rewardModel) *reward.Reward {
	var pieceValue *float64
	if m.PieceValue.Valid {
		pieceValue = &m.PieceValue.Float64
	}
	return reward.UnmarshalFromDatabase(
		m.RewardID, m.UserID, m.Name, m.Weight, m.PiecesRequired,
		pieceValue, m.MaxDailyClaims, m.IsActive, m.CreatedAt, m.UpdatedAt,
	)
}

func pieceValueToNull(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
