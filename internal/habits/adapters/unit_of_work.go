package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erzhan12/habit-reward-go/internal/common/database"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/auditlog"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habit"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habitlog"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/progress"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/reward"
)

// HabitsUnitOfWork coordinates transactions across the five
// habit-domain repositories that the completion and revert engines
// touch together.
//
// Usage without transaction (direct repository access):
//
//	h, err := uow.Habits().GetHabit(ctx, habitID)
//
// Usage with transaction:
//
//	err := uow.WithTransaction(ctx, func(txUow HabitsUnitOfWork) error {
//	    if _, err := txUow.HabitLogs().AddLog(ctx, log); err != nil {
//	        return err
//	    }
//	    return txUow.AuditLogs().Log(ctx, entry)
//	})
type HabitsUnitOfWork interface {
	Habits() habit.Repository
	HabitLogs() habitlog.Repository
	Rewards() reward.Repository
	Progress() progress.Repository
	AuditLogs() auditlog.Repository

	// WithTransaction executes fn within a transaction, committing on
	// success and rolling back on error or panic.
	WithTransaction(ctx context.Context, fn func(HabitsUnitOfWork) error) error
}

type habitsUnitOfWork struct {
	db            database.DBTX
	habitRepo     habit.Repository
	logRepo       habitlog.Repository
	rewardRepo    reward.Repository
	progressRepo  progress.Repository
	auditRepo     auditlog.Repository
	inTransaction bool
}

func NewHabitsUnitOfWork(db database.DBTX) HabitsUnitOfWork {
	return newUnitOfWork(db, false)
}

func newUnitOfWork(db database.DBTX, inTx bool) *habitsUnitOfWork {
	return &habitsUnitOfWork{
		db:            db,
		habitRepo:     NewHabitPostgresRepository(db),
		logRepo:       NewHabitLogPostgresRepository(db),
		rewardRepo:    NewRewardPostgresRepository(db),
		progressRepo:  NewProgressPostgresRepository(db),
		auditRepo:     NewAuditLogPostgresRepository(db),
		inTransaction: inTx,
	}
}

func (uow *habitsUnitOfWork) Habits() habit.Repository       { return uow.habitRepo }
func (uow *habitsUnitOfWork) HabitLogs() habitlog.Repository { return uow.logRepo }
func (uow *habitsUnitOfWork) Rewards() reward.Repository     { return uow.rewardRepo }
func (uow *habitsUnitOfWork) Progress() progress.Repository  { return uow.progressRepo }
func (uow *habitsUnitOfWork) AuditLogs() auditlog.Repository { return uow.auditRepo }

func (uow *habitsUnitOfWork) WithTransaction(ctx context.Context, fn func(HabitsUnitOfWork) error) (err error) {
	if uow.inTransaction {
		return fn(uow)
	}

	db := uow.db
	if traced, ok := db.(*database.TracedDBTX); ok {
		db = traced.Unwrap()
	}

	if tx, ok := db.(*sqlx.Tx); ok {
		return fn(newUnitOfWork(tx, true))
	}

	conn, ok := db.(*sqlx.DB)
	if !ok {
		return errors.New("WithTransaction: db must be *sqlx.DB or *sqlx.Tx")
	}

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	err = fn(newUnitOfWork(tx, true))
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
