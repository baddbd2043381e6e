package reward

import (
	"context"
	"crypto/rand"
	"math/big"
)

// Rand draws a uniform float in [0,1). Production code uses
// cryptoRandFloat64; tests inject a deterministic stub.
type Rand func() float64

// cryptoRandFloat64 draws from crypto/rand, matching the teacher's
// preference for crypto/rand over math/rand for anything touching an
// outcome a user can game.
func cryptoRandFloat64() float64 {
	const precision = 1 << 53
	n, err := rand.Int(rand.Reader, big.NewInt(precision))
	if err != nil {
		// crypto/rand failure is unrecoverable entropy starvation; a
		// fixed draw is safer than a panic mid-transaction.
		return 0
	}
	return float64(n.Int64()) / float64(precision)
}

// Selector performs the weighted random reward draw described by the
// completion engine.
type Selector struct {
	rewards Reader
	rnd     Rand
}

func NewSelector(rewards Reader) *Selector {
	return &Selector{rewards: rewards, rnd: cryptoRandFloat64}
}

// WithRand overrides the random source, for deterministic tests.
func (s *Selector) WithRand(r Rand) *Selector {
	s.rnd = r
	return s
}

// SelectReward performs the weighted draw over a user's active,
// quota-eligible rewards. Returns the sentinel reward when none qualify.
func (s *Selector) SelectReward(ctx context.Context, userID int64, habitWeight int, streakCount int, todayKey string) (*Reward, error) {
	multiplier := 1 + float64(streakCount)*0.1
	totalWeight := float64(habitWeight) * multiplier

	all, err := s.rewards.ListRewards(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	candidates := make([]*Reward, 0, len(all))
	for _, r := range all {
		if r.MaxDailyClaims() == 0 {
			candidates = append(candidates, r)
			continue
		}
		claimed, err := s.rewards.ClaimedTodayCount(ctx, userID, r.RewardID(), todayKey)
		if err != nil {
			return nil, err
		}
		if r.HasDailyQuota(claimed) {
			candidates = append(candidates, r)
		}
	}

	if len(candidates) == 0 {
		return Sentinel(), nil
	}

	adjusted := make([]float64, len(candidates))
	var sum float64
	for i, r := range candidates {
		adjusted[i] = r.Weight() * totalWeight
		sum += adjusted[i]
	}
	if sum <= 0 {
		return Sentinel(), nil
	}

	draw := s.rnd() * sum
	var cumulative float64
	for i, w := range adjusted {
		cumulative += w
		if draw < cumulative {
			return candidates[i], nil
		}
	}
	// Floating-point rounding can leave draw == sum; fall back to the
	// last candidate rather than drop the draw.
	return candidates[len(candidates)-1], nil
}
