package progress

import (
	"errors"
	"time"
)

// Status is the derived lifecycle stage of a RewardProgress row.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAchieved Status = "ACHIEVED"
	StatusClaimed  Status = "CLAIMED"
)

// Progress is the per-user-per-reward cumulative-pieces accumulator.
type Progress struct {
	progressID     int64
	userID         int64
	rewardID       int64
	piecesEarned   int
	piecesRequired int // cached from the reward at load time
	claimed        bool
	createdAt      time.Time
	updatedAt      time.Time
}

var (
	ErrNotFound      = errors.New("reward progress not found")
	ErrNotAchieved   = errors.New("reward has not been earned yet")
	ErrAlreadyClaimed = errors.New("reward already claimed")
)

func New(userID, rewardID int64, piecesRequired int) *Progress {
	now := time.Now()
	return &Progress{
		userID:         userID,
		rewardID:       rewardID,
		piecesRequired: piecesRequired,
		createdAt:      now,
		updatedAt:      now,
	}
}

func UnmarshalFromDatabase(progressID, userID, rewardID int64, piecesEarned, piecesRequired int, claimed bool, createdAt, updatedAt time.Time) *Progress {
	return &Progress{
		progressID:     progressID,
		userID:         userID,
		rewardID:       rewardID,
		piecesEarned:   piecesEarned,
		piecesRequired: piecesRequired,
		claimed:        claimed,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (p *Progress) ProgressID() int64     { return p.progressID }
func (p *Progress) UserID() int64         { return p.userID }
func (p *Progress) RewardID() int64       { return p.rewardID }
func (p *Progress) PiecesEarned() int     { return p.piecesEarned }
func (p *Progress) PiecesRequired() int   { return p.piecesRequired }
func (p *Progress) Claimed() bool         { return p.claimed }
func (p *Progress) CreatedAt() time.Time  { return p.createdAt }
func (p *Progress) UpdatedAt() time.Time  { return p.updatedAt }

// Status derives the progress lifecycle stage without any extra fetch;
// piecesRequired must already be populated on the row.
func (p *Progress) Status() Status {
	switch {
	case p.claimed:
		return StatusClaimed
	case p.piecesEarned >= p.piecesRequired:
		return StatusAchieved
	default:
		return StatusPending
	}
}

// Increment applies one pieces_earned credit. Called by repository
// implementations inside the row-locked transaction.
func (p *Progress) Increment() {
	p.piecesEarned++
	p.updatedAt = time.Now()
}

// Decrement removes one pieces_earned credit (floored at 0) and clears
// claimed if it was set.
func (p *Progress) Decrement() {
	if p.piecesEarned > 0 {
		p.piecesEarned--
	}
	if p.claimed {
		p.claimed = false
	}
	p.updatedAt = time.Now()
}

// MarkClaimed transitions the row to claimed, enforcing that it is
// currently ACHIEVED and not already claimed.
func (p *Progress) MarkClaimed() error {
	if p.claimed {
		return ErrAlreadyClaimed
	}
	if p.Status() != StatusAchieved {
		return ErrNotAchieved
	}
	p.claimed = true
	p.updatedAt = time.Now()
	return nil
}
