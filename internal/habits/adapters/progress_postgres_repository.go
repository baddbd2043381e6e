package adapters

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/common/database"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/progress"
)

type progressModel struct {
	ProgressID     int64     `db:"progress_id"`
	UserID         int64     `db:"user_id"`
	RewardID       int64     `db:"reward_id"`
	PiecesEarned   int       `db:"pieces_earned"`
	PiecesRequired int       `db:"pieces_required"`
	Claimed        bool      `db:"claimed"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// ProgressPostgresRepository implements progress.Repository against the
// reward_progress table, joined with rewards for the cached
// pieces_required snapshot.
type ProgressPostgresRepository struct {
	db database.DBTX
}

func NewProgressPostgresRepository(db database.DBTX) *ProgressPostgresRepository {
	return &ProgressPostgresRepository{db: db}
}

const progressSelect = `
	SELECT p.progress_id, p.user_id, p.reward_id, p.pieces_earned, p.claimed,
	       p.created_at, p.updated_at, r.pieces_required
	FROM reward_progress p
	JOIN rewards r ON r.reward_id = p.reward_id
`

func (r *ProgressPostgresRepository) GetProgress(ctx context.Context, userID, rewardID int64) (*progress.Progress, error) {
	var m progressModel
	q := progressSelect + ` WHERE p.user_id = $1 AND p.reward_id = $2`
	err := r.db.GetContext(ctx, &m, q, userID, rewardID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, progress.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return unmarshalProgress(m), nil
}

func (r *ProgressPostgresRepository) IncrementPieces(ctx context.Context, userID, rewardID int64, piecesRequired int) (*progress.Progress, error) {
	var result *progress.Progress
	err := database.RunInTx(ctx, r.db, func(tx database.DBTX) error {
		const upsert = `
			INSERT INTO reward_progress (user_id, reward_id, pieces_earned, claimed, created_at, updated_at)
			VALUES ($1, $2, 0, false, now(), now())
			ON CONFLICT (user_id, reward_id) DO NOTHING
		`
		if _, err := tx.ExecContext(ctx, upsert, userID, rewardID); err != nil {
			return err
		}

		const lock = `SELECT pieces_earned FROM reward_progress WHERE user_id = $1 AND reward_id = $2 FOR UPDATE`
		var piecesEarned int
		if err := tx.GetContext(ctx, &piecesEarned, lock, userID, rewardID); err != nil {
			return err
		}

		piecesEarned++
		const update = `UPDATE reward_progress SET pieces_earned = $1, updated_at = now() WHERE user_id = $2 AND reward_id = $3`
		if _, err := tx.ExecContext(ctx, update, piecesEarned, userID, rewardID); err != nil {
			return err
		}

		var m progressModel
		if err := tx.GetContext(ctx, &m, progressSelect+` WHERE p.user_id = $1 AND p.reward_id = $2`, userID, rewardID); err != nil {
			return err
		}
		result = unmarshalProgress(m)
		return nil
	})
	return result, err
}

func (r *ProgressPostgresRepository) DecrementPieces(ctx context.Context, userID, rewardID int64) (*progress.Progress, error) {
	var result *progress.Progress
	err := database.RunInTx(ctx, r.db, func(tx database.DBTX) error {
		var m progressModel
		q := progressSelect + ` WHERE p.user_id = $1 AND p.reward_id = $2 FOR UPDATE OF p`
		if err := tx.GetContext(ctx, &m, q, userID, rewardID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}
		p := unmarshalProgress(m)
		p.Decrement()

		const update = `UPDATE reward_progress SET pieces_earned = $1, claimed = $2, updated_at = now() WHERE user_id = $3 AND reward_id = $4`
		if _, err := tx.ExecContext(ctx, update, p.PiecesEarned(), p.Claimed(), userID, rewardID); err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

func (r *ProgressPostgresRepository) MarkClaimed(ctx context.Context, userID, rewardID int64) (*progress.Progress, error) {
	var result *progress.Progress
	err := database.RunInTx(ctx, r.db, func(tx database.DBTX) error {
		var m progressModel
		q := progressSelect + ` WHERE p.user_id = $1 AND p.reward_id = $2 FOR UPDATE OF p`
		if err := tx.GetContext(ctx, &m, q, userID, rewardID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return progress.ErrNotFound
			}
			return err
		}
		p := unmarshalProgress(m)
		if err := p.MarkClaimed(); err != nil {
			return err
		}
		const update = `UPDATE reward_progress SET claimed = true, updated_at = now() WHERE user_id = $1 AND reward_id = $2`
		if _, err := tx.ExecContext(ctx, update, userID, rewardID); err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

func (r *ProgressPostgresRepository) ListForUser(ctx context.Context, userID int64) ([]*progress.Progress, error) {
	var models []progressModel
	q := progressSelect + ` WHERE p.user_id = $1 ORDER BY p.updated_at DESC`
	if err := r.db.SelectContext(ctx, &models, q, userID); err != nil {
		return nil, err
	}
	out := make([]*progress.Progress, len(models))
	for i, m := range models {
		out[i] = unmarshalProgress(m)
	}
	return out, nil
}

func unmarshalProgress(m progressModel) *progress.Progress {
	return progress.UnmarshalFromDatabase(m.ProgressID, m.UserID, m.RewardID, m.PiecesEarned, m.PiecesRequired, m.Claimed, m.CreatedAt, m.UpdatedAt)
}
