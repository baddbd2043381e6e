package reward

import "context"

// Reader is the narrow read-side contract for rewards.
type Reader interface {
	GetReward(ctx context.Context, rewardID int64) (*Reward, error)
	GetRewardByName(ctx context.Context, userID int64, name string) (*Reward, error)
	ListRewards(ctx context.Context, userID int64, activeOnly bool) ([]*Reward, error)

	// ClaimedTodayCount returns how many logs for (user, reward) were
	// credited to today's date, for per-day-claim quota enforcement.
	ClaimedTodayCount(ctx context.Context, userID, rewardID int64, todayKey string) (int, error)
}

// Writer is the narrow write-side contract for rewards.
type Writer interface {
	AddReward(ctx context.Context, r *Reward) (int64, error)
	UpdateReward(ctx context.Context, rewardID, userID int64, updateFn func(r *Reward) (*Reward, error)) (*Reward, error)
}

// Repository is the full contract a storage implementation must satisfy.
type Repository interface {
	Reader
	Writer
}
