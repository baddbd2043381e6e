package reward_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/erzhan12/habit-reward-go/internal/habits/domain/reward"
)

type fakeRewardReader struct {
	rewards      []*reward.Reward
	claimedToday map[int64]int
}

func (f *fakeRewardReader) GetReward(ctx context.Context, rewardID int64) (*reward.Reward, error) {
	for _, r := range f.rewards {
		if r.RewardID() == rewardID {
			return r, nil
		}
	}
	return nil, reward.ErrNotFound
}

func (f *fakeRewardReader) GetRewardByName(ctx context.Context, userID int64, name string) (*reward.Reward, error) {
	for _, r := range f.rewards {
		if r.UserID() == userID && r.Name() == name {
			return r, nil
		}
	}
	return nil, reward.ErrNotFound
}

func (f *fakeRewardReader) ListRewards(ctx context.Context, userID int64, activeOnly bool) ([]*reward.Reward, error) {
	var out []*reward.Reward
	for _, r := range f.rewards {
		if r.UserID() != userID {
			continue
		}
		if activeOnly && !r.IsActive() {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRewardReader) ClaimedTodayCount(ctx context.Context, userID, rewardID int64, todayKey string) (int, error) {
	return f.claimedToday[rewardID], nil
}

func mustReward(t *testing.T, userID int64, name string, weight float64, maxDailyClaims int) *reward.Reward {
	t.Helper()
	r, err := reward.New(userID, name, weight, 1, nil, maxDailyClaims)
	if err != nil {
		t.Fatalf("reward.New: %v", err)
	}
	return r
}

func TestSelectorSelectReward(t *testing.T) {
	t.Parallel()

	Convey("Given a selector over a fixed reward pool", t, func() {
		gold := mustReward(t, 1, "gold", 3, 0)
		silver := mustReward(t, 1, "silver", 1, 0)

		reader := &fakeRewardReader{
			rewards:      []*reward.Reward{gold, silver},
			claimedToday: map[int64]int{},
		}
		selector := reward.NewSelector(reader)

		Convey("When the draw lands in the first candidate's slice", func() {
			selector = selector.WithRand(func() float64 { return 0.0 })
			got, err := selector.SelectReward(context.Background(), 1, 5, 0, "2026-07-31")

			Convey("Then it returns gold", func() {
				So(err, ShouldBeNil)
				So(got.Name(), ShouldEqual, "gold")
			})
		})

		Convey("When the draw lands just under the total weight", func() {
			selector = selector.WithRand(func() float64 { return 0.999999 })
			got, err := selector.SelectReward(context.Background(), 1, 5, 0, "2026-07-31")

			Convey("Then it returns the last candidate", func() {
				So(err, ShouldBeNil)
				So(got.Name(), ShouldEqual, "silver")
			})
		})

		Convey("When no reward has an active candidate for the user", func() {
			got, err := selector.SelectReward(context.Background(), 999, 5, 0, "2026-07-31")

			Convey("Then it returns the sentinel", func() {
				So(err, ShouldBeNil)
				So(got.IsSentinel(), ShouldBeTrue)
			})
		})

		Convey("When a reward's daily quota is exhausted", func() {
			limited := mustReward(t, 2, "daily-limited", 1, 1)
			reader2 := &fakeRewardReader{
				rewards:      []*reward.Reward{limited},
				claimedToday: map[int64]int{limited.RewardID(): 1},
			}
			sel2 := reward.NewSelector(reader2)
			got, err := sel2.SelectReward(context.Background(), 2, 5, 0, "2026-07-31")

			Convey("Then it falls back to the sentinel", func() {
				So(err, ShouldBeNil)
				So(got.IsSentinel(), ShouldBeTrue)
			})
		})

		Convey("When the streak count raises the total weight multiplier", func() {
			selector = selector.WithRand(func() float64 { return 0.5 })
			got, err := selector.SelectReward(context.Background(), 1, 5, 10, "2026-07-31")

			Convey("Then the draw still resolves to a real candidate", func() {
				So(err, ShouldBeNil)
				So(got.IsSentinel(), ShouldBeFalse)
			})
		})
	})
}
