package command_test

import (
	"context"
	"time"

	"github.com/erzhan12/habit-reward-go/internal/auth/domain/user"
	"github.com/erzhan12/habit-reward-go/internal/common/clock"
	"github.com/erzhan12/habit-reward-go/internal/common/logger"
	"github.com/erzhan12/habit-reward-go/internal/habits/adapters"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/auditlog"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habit"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/habitlog"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/progress"
	"github.com/erzhan12/habit-reward-go/internal/habits/domain/reward"
)

// --- user.Reader ---

type fakeUserReader struct {
	byTelegramID map[int64]*user.User
	byID         map[int64]*user.User
}

func (f *fakeUserReader) FindByID(ctx context.Context, userID int64) (*user.User, error) {
	u, ok := f.byID[userID]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserReader) FindByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	u, ok := f.byTelegramID[telegramID]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

// --- habit.Repository ---

type fakeHabitRepo struct {
	byID map[int64]*habit.Habit
}

func newFakeHabitRepo() *fakeHabitRepo { return &fakeHabitRepo{byID: map[int64]*habit.Habit{}} }

func (f *fakeHabitRepo) GetHabit(ctx context.Context, habitID int64) (*habit.Habit, error) {
	h, ok := f.byID[habitID]
	if !ok {
		return nil, habit.ErrNotFound
	}
	return h, nil
}

func (f *fakeHabitRepo) GetHabitByName(ctx context.Context, userID int64, name string) (*habit.Habit, error) {
	for _, h := range f.byID {
		if h.UserID() == userID && h.Name() == name {
			return h, nil
		}
	}
	return nil, habit.ErrNotFound
}

func (f *fakeHabitRepo) ListHabits(ctx context.Context, userID int64, activeOnly bool, category *string) ([]*habit.Habit, error) {
	var out []*habit.Habit
	for _, h := range f.byID {
		if h.UserID() == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHabitRepo) AddHabit(ctx context.Context, h *habit.Habit) (int64, error) {
	return 0, nil
}

func (f *fakeHabitRepo) UpdateHabit(ctx context.Context, habitID, userID int64, updateFn func(h *habit.Habit) (*habit.Habit, error)) (*habit.Habit, error) {
	return nil, nil
}

// --- habitlog.Repository ---

type fakeLogRepo struct {
	nextID  int64
	byID    map[int64]*habitlog.HabitLog
	byDate  map[string]*habitlog.HabitLog // "date#habitID"
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{byID: map[int64]*habitlog.HabitLog{}, byDate: map[string]*habitlog.HabitLog{}}
}

func (f *fakeLogRepo) key(habitID int64, date clock.Date) string {
	return date.String() + "#" + itoa(habitID)
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (f *fakeLogRepo) GetLatestLog(ctx context.Context, userID, habitID int64) (*habitlog.HabitLog, error) {
	var latest *habitlog.HabitLog
	for _, l := range f.byID {
		if l.UserID() != userID || l.HabitID() != habitID {
			continue
		}
		if latest == nil || l.LastCompletedDate().After(latest.LastCompletedDate()) {
			latest = l
		}
	}
	if latest == nil {
		return nil, habitlog.ErrNotFound
	}
	return latest, nil
}

func (f *fakeLogRepo) GetLatestLogBefore(ctx context.Context, userID, habitID int64, before clock.Date) (*habitlog.HabitLog, error) {
	var latest *habitlog.HabitLog
	for _, l := range f.byID {
		if l.UserID() != userID || l.HabitID() != habitID {
			continue
		}
		if !l.LastCompletedDate().Before(before) {
			continue
		}
		if latest == nil || l.LastCompletedDate().After(latest.LastCompletedDate()) {
			latest = l
		}
	}
	if latest == nil {
		return nil, habitlog.ErrNotFound
	}
	return latest, nil
}

func (f *fakeLogRepo) GetLogByDate(ctx context.Context, userID, habitID int64, date clock.Date) (*habitlog.HabitLog, error) {
	l, ok := f.byDate[f.key(habitID, date)]
	if !ok {
		return nil, habitlog.ErrNotFound
	}
	return l, nil
}

func (f *fakeLogRepo) GetLogByID(ctx context.Context, logID int64) (*habitlog.HabitLog, error) {
	l, ok := f.byID[logID]
	if !ok {
		return nil, habitlog.ErrNotFound
	}
	return l, nil
}

func (f *fakeLogRepo) ListLogsAfter(ctx context.Context, userID, habitID int64, after clock.Date) ([]*habitlog.HabitLog, error) {
	var out []*habitlog.HabitLog
	for _, l := range f.byID {
		if l.UserID() == userID && l.HabitID() == habitID && l.LastCompletedDate().After(after) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLogRepo) ListLogs(ctx context.Context, userID int64, filter habitlog.ListLogsFilter) ([]*habitlog.HabitLog, error) {
	return nil, nil
}

func (f *fakeLogRepo) AddLog(ctx context.Context, l *habitlog.HabitLog) (int64, error) {
	f.nextID++
	stored := habitlog.UnmarshalFromDatabase(f.nextID, l.UserID(), l.HabitID(), l.RewardID(), l.GotReward(), l.StreakCount(), l.HabitWeightSnapshot(), l.TotalWeight(), l.LastCompletedDate(), l.CreatedAt())
	f.byID[f.nextID] = stored
	f.byDate[f.key(l.HabitID(), l.LastCompletedDate())] = stored
	return f.nextID, nil
}

func (f *fakeLogRepo) DeleteLog(ctx context.Context, logID, userID int64) error {
	l, ok := f.byID[logID]
	if !ok {
		return habitlog.ErrNotFound
	}
	delete(f.byID, logID)
	delete(f.byDate, f.key(l.HabitID(), l.LastCompletedDate()))
	return nil
}

func (f *fakeLogRepo) UpdateStreakCount(ctx context.Context, logID int64, streakCount int) error {
	l, ok := f.byID[logID]
	if !ok {
		return habitlog.ErrNotFound
	}
	l.SetStreakCount(streakCount)
	return nil
}

// --- reward.Repository ---

type fakeRewardRepo struct {
	byID map[int64]*reward.Reward
}

func newFakeRewardRepo() *fakeRewardRepo { return &fakeRewardRepo{byID: map[int64]*reward.Reward{}} }

func (f *fakeRewardRepo) GetReward(ctx context.Context, rewardID int64) (*reward.Reward, error) {
	r, ok := f.byID[rewardID]
	if !ok {
		return nil, reward.ErrNotFound
	}
	return r, nil
}

func (f *fakeRewardRepo) GetRewardByName(ctx context.Context, userID int64, name string) (*reward.Reward, error) {
	for _, r := range f.byID {
		if r.UserID() == userID && r.Name() == name {
			return r, nil
		}
	}
	return nil, reward.ErrNotFound
}

func (f *fakeRewardRepo) ListRewards(ctx context.Context, userID int64, activeOnly bool) ([]*reward.Reward, error) {
	var out []*reward.Reward
	for _, r := range f.byID {
		if r.UserID() == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRewardRepo) ClaimedTodayCount(ctx context.Context, userID, rewardID int64, todayKey string) (int, error) {
	return 0, nil
}

func (f *fakeRewardRepo) AddReward(ctx context.Context, r *reward.Reward) (int64, error) {
	return 0, nil
}

func (f *fakeRewardRepo) UpdateReward(ctx context.Context, rewardID, userID int64, updateFn func(r *reward.Reward) (*reward.Reward, error)) (*reward.Reward, error) {
	return nil, nil
}

// --- progress.Repository ---

type fakeProgressRepo struct {
	byKey map[string]*progress.Progress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{byKey: map[string]*progress.Progress{}}
}

func progressKey(userID, rewardID int64) string {
	return itoa(userID) + "#" + itoa(rewardID)
}

func (f *fakeProgressRepo) GetProgress(ctx context.Context, userID, rewardID int64) (*progress.Progress, error) {
	p, ok := f.byKey[progressKey(userID, rewardID)]
	if !ok {
		return nil, progress.ErrNotFound
	}
	return p, nil
}

func (f *fakeProgressRepo) IncrementPieces(ctx context.Context, userID, rewardID int64, piecesRequired int) (*progress.Progress, error) {
	key := progressKey(userID, rewardID)
	p, ok := f.byKey[key]
	if !ok {
		p = progress.New(userID, rewardID, piecesRequired)
		f.byKey[key] = p
	}
	p.Increment()
	return p, nil
}

func (f *fakeProgressRepo) DecrementPieces(ctx context.Context, userID, rewardID int64) (*progress.Progress, error) {
	p, ok := f.byKey[progressKey(userID, rewardID)]
	if !ok {
		return nil, nil
	}
	p.Decrement()
	return p, nil
}

func (f *fakeProgressRepo) MarkClaimed(ctx context.Context, userID, rewardID int64) (*progress.Progress, error) {
	p, ok := f.byKey[progressKey(userID, rewardID)]
	if !ok {
		return nil, progress.ErrNotFound
	}
	if err := p.MarkClaimed(); err != nil {
		return nil, err
	}
	return p, nil
}

func (f *fakeProgressRepo) ListForUser(ctx context.Context, userID int64) ([]*progress.Progress, error) {
	var out []*progress.Progress
	for _, p := range f.byKey {
		if p.UserID() == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- auditlog.Repository ---

type fakeAuditRepo struct {
	entries []*auditlog.Entry
}

func (f *fakeAuditRepo) Log(ctx context.Context, e *auditlog.Entry) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAuditRepo) Timeline(ctx context.Context, userID int64, hoursBack int) ([]*auditlog.Entry, error) {
	return f.entries, nil
}

func (f *fakeAuditRepo) TraceReward(ctx context.Context, userID, rewardID int64) ([]*auditlog.Entry, error) {
	return f.entries, nil
}

func (f *fakeAuditRepo) Cleanup(ctx context.Context, olderThan time.Time) (int, error) {
	return 0, nil
}

// --- adapters.HabitsUnitOfWork ---

type fakeUow struct {
	habits    *fakeHabitRepo
	logs      *fakeLogRepo
	rewards   *fakeRewardRepo
	progress  *fakeProgressRepo
	auditLogs *fakeAuditRepo
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		habits:    newFakeHabitRepo(),
		logs:      newFakeLogRepo(),
		rewards:   newFakeRewardRepo(),
		progress:  newFakeProgressRepo(),
		auditLogs: &fakeAuditRepo{},
	}
}

func (u *fakeUow) Habits() habit.Repository       { return u.habits }
func (u *fakeUow) HabitLogs() habitlog.Repository { return u.logs }
func (u *fakeUow) Rewards() reward.Repository     { return u.rewards }
func (u *fakeUow) Progress() progress.Repository  { return u.progress }
func (u *fakeUow) AuditLogs() auditlog.Repository { return u.auditLogs }

func (u *fakeUow) WithTransaction(ctx context.Context, fn func(adapters.HabitsUnitOfWork) error) error {
	return fn(u)
}

// --- logger.Logger / decorator.MetricsClient no-ops ---

type noopLogger struct{}

func (noopLogger) Debug(ctx context.Context, msg string, fields ...logger.Field)            {}
func (noopLogger) Info(ctx context.Context, msg string, fields ...logger.Field)             {}
func (noopLogger) Warn(ctx context.Context, msg string, fields ...logger.Field)             {}
func (noopLogger) Error(ctx context.Context, err error, msg string, fields ...logger.Field) {}
func (n noopLogger) With(fields ...logger.Field) logger.Logger                              { return n }

type noopMetrics struct{}

func (noopMetrics) Inc(key string, value int) {}
