package adapters

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/common/database"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/auditlog"
)

type auditLogModel struct {
	EntryID   int64          `db:"entry_id"`
	UserID    int64          `db:"user_id"`
	Kind      string         `db:"kind"`
	HabitID   sql.NullInt64  `db:"habit_id"`
	RewardID  sql.NullInt64  `db:"reward_id"`
	LogID     sql.NullInt64  `db:"log_id"`
	Snapshot  []byte         `db:"snapshot"`
	ErrMsg    sql.NullString `db:"error_message"`
	CreatedAt time.Time      `db:"created_at"`
}

// AuditLogPostgresRepository is the sqlx/lib-pq backed implementation of
// auditlog.Repository. Snapshots are stored as jsonb.
type AuditLogPostgresRepository struct {
	db database.DBTX
}

func NewAuditLogPostgresRepository(db database.DBTX) *AuditLogPostgresRepository {
	return &AuditLogPostgresRepository{db: db}
}

func (r *AuditLogPostgresRepository) Log(ctx context.Context, e *auditlog.Entry) error {
	snapshot, err := json.Marshal(e.Snapshot())
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO bot_audit_logs (user_id, kind, habit_id, reward_id, log_id, snapshot, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.ExecContext(ctx, q,
		e.UserID(), string(e.Kind()),
		int64PtrToNull(e.HabitID()), int64PtrToNull(e.RewardID()), int64PtrToNull(e.LogID()),
		snapshot, stringPtrToNull(e.ErrMsg()), e.CreatedAt(),
	)
	return err
}

func (r *AuditLogPostgresRepository) Timeline(ctx context.Context, userID int64, hoursBack int) ([]*auditlog.Entry, error) {
	const q = `
		SELECT * FROM bot_audit_logs
		WHERE user_id = $1 AND created_at > now() - ($2 || ' hours')::interval
		ORDER BY created_at DESC
	`
	var models []auditLogModel
	if err := r.db.SelectContext(ctx, &models, q, userID, hoursBack); err != nil {
		return nil, err
	}
	return unmarshalEntries(models)
}

func (r *AuditLogPostgresRepository) TraceReward(ctx context.Context, userID, rewardID int64) ([]*auditlog.Entry, error) {
	const q = `
		SELECT * FROM bot_audit_logs
		WHERE user_id = $1 AND reward_id = $2
		ORDER BY created_at ASC
	`
	var models []auditLogModel
	if err := r.db.SelectContext(ctx, &models, q, userID, rewardID); err != nil {
		return nil, err
	}
	return unmarshalEntries(models)
}

func (r *AuditLogPostgresRepository) Cleanup(ctx context.Context, olderThan time.Time) (int, error) {
	const q = `DELETE FROM bot_audit_logs WHERE created_at < $1`
	res, err := r.db.ExecContext(ctx, q, olderThan)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func unmarshalEntries(models []auditLogModel) ([]*auditlog.Entry, error) {
	out := make([]*auditlog.Entry, len(models))
	for i, m := range models {
		var snapshot map[string]any
		if len(m.Snapshot) > 0 {
			if err := json.Unmarshal(m.Snapshot, &snapshot); err != nil {
				return nil, err
			}
		}
		out[i] = auditlog.UnmarshalFromDatabase(
			m.EntryID, m.UserID, auditlog.Kind(m.Kind),
			nullToInt64Ptr(m.HabitID), nullToInt64Ptr(m.RewardID), nullToInt64Ptr(m.LogID),
			snapshot, nullStringPtr(m.ErrMsg), m.CreatedAt,
		)
	}
	return out, nil
}

func int64PtrToNull(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullToInt64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func stringPtrToNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
