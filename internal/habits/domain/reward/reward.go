package reward

import (
	"errors"
	"time"
)

// Reward is a prize a user can draw on habit completion and accumulate
// pieces toward.
type Reward struct {
	rewardID        int64
	userID          int64
	name            string
	weight          float64
	piecesRequired  int
	pieceValue      *float64
	maxDailyClaims  int // 0 = unlimited
	isActive        bool
	createdAt       time.Time
	updatedAt       time.Time
}

var (
	ErrEmptyUserID        = errors.New("empty user id")
	ErrEmptyName          = errors.New("reward name cannot be empty")
	ErrInvalidWeight      = errors.New("reward weight must be greater than 0")
	ErrInvalidPieces      = errors.New("pieces required must be at least 1")
	ErrInvalidDailyClaims = errors.New("max daily claims must not be negative")
	ErrAlreadyActive      = errors.New("reward is already active")
	ErrAlreadyInactive    = errors.New("reward is already inactive")
	ErrNotFound           = errors.New("reward not found")
	ErrUnauthorized       = errors.New("user cannot access this reward")
)

// NoneSentinelName names the synthetic "no reward" outcome the selector
// returns when no active reward qualifies for a draw.
const NoneSentinelName = "none"

func New(userID int64, name string, weight float64, piecesRequired int, pieceValue *float64, maxDailyClaims int) (*Reward, error) {
	if userID == 0 {
		return nil, ErrEmptyUserID
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if weight <= 0 {
		return nil, ErrInvalidWeight
	}
	if piecesRequired < 1 {
		return nil, ErrInvalidPieces
	}
	if maxDailyClaims < 0 {
		return nil, ErrInvalidDailyClaims
	}
	now := time.Now()
	return &Reward{
		userID:         userID,
		name:           name,
		weight:         weight,
		piecesRequired: piecesRequired,
		pieceValue:     pieceValue,
		maxDailyClaims: maxDailyClaims,
		isActive:       true,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func UnmarshalFromDatabase(
	rewardID, userID int64,
	name string,
	weight float64,
	piecesRequired int,
	pieceValue *float64,
	maxDailyClaims int,
	isActive bool,
	createdAt, updatedAt time.Time,
) *Reward {
	return &Reward{
		rewardID:       rewardID,
		userID:         userID,
		name:           name,
		weight:         weight,
		piecesRequired: piecesRequired,
		pieceValue:     pieceValue,
		maxDailyClaims: maxDailyClaims,
		isActive:       isActive,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Sentinel builds the synthetic "no reward" drawn when the candidate set
// is empty; it is never persisted.
func Sentinel() *Reward {
	return &Reward{name: NoneSentinelName, weight: 1.0, piecesRequired: 1}
}

func (r *Reward) IsSentinel() bool { return r.rewardID == 0 && r.name == NoneSentinelName }

func (r *Reward) RewardID() int64          { return r.rewardID }
func (r *Reward) UserID() int64            { return r.userID }
func (r *Reward) Name() string             { return r.name }
func (r *Reward) Weight() float64          { return r.weight }
func (r *Reward) PiecesRequired() int      { return r.piecesRequired }
func (r *Reward) PieceValue() *float64     { return r.pieceValue }
func (r *Reward) MaxDailyClaims() int      { return r.maxDailyClaims }
func (r *Reward) IsActive() bool           { return r.isActive }
func (r *Reward) CreatedAt() time.Time     { return r.createdAt }
func (r *Reward) UpdatedAt() time.Time     { return r.updatedAt }

// HasDailyQuota reports whether the reward still has room for another
// claim today given the count already claimed.
func (r *Reward) HasDailyQuota(claimedToday int) bool {
	if r.maxDailyClaims == 0 {
		return true
	}
	return claimedToday < r.maxDailyClaims
}

// Update replaces the mutable fields of the reward. Callers are
// responsible for merging partial (PATCH) input against the current
// values before calling this.
func (r *Reward) Update(name string, weight float64, piecesRequired int, pieceValue *float64, maxDailyClaims int) error {
	if name == "" {
		return ErrEmptyName
	}
	if weight <= 0 {
		return ErrInvalidWeight
	}
	if piecesRequired < 1 {
		return ErrInvalidPieces
	}
	if maxDailyClaims < 0 {
		return ErrInvalidDailyClaims
	}

	r.name = name
	r.weight = weight
	r.piecesRequired = piecesRequired
	r.pieceValue = pieceValue
	r.maxDailyClaims = maxDailyClaims
	r.updatedAt = time.Now()

	return nil
}

func (r *Reward) Activate() error {
	if r.isActive {
		return ErrAlreadyActive
	}
	r.isActive = true
	r.updatedAt = time.Now()
	return nil
}

func (r *Reward) Deactivate() error {
	if !r.isActive {
		return ErrAlreadyInactive
	}
	r.isActive = false
	r.updatedAt = time.Now()
	return nil
}

func (r *Reward) CanBeViewedBy(userID int64) error {
	if r.userID != userID {
		return ErrUnauthorized
	}
	return nil
}

func (r *Reward) CanBeModifiedBy(userID int64) error {
	return r.CanBeViewedBy(userID)
}
