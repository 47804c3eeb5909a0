package challenge

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCompleted Status = "completed"
)

// Wager bounds. Create clamps into range rather than rejecting.
const (
	MinWager = 0
	MaxWager = 50
)

// Challenge is a proposed wager between two players. Once a qualifying match
// is linked and the challenge completes, the wager adjusts singles ratings
// on top of the match's own delta, at most once.
type Challenge struct {
	ID           string
	ChallengerID string
	ChallengedID string
	Wager        int
	Message      string
	Status       Status
	MatchID      string
	CreatedAt    time.Time
	RespondedAt  *time.Time
	CompletedAt  *time.Time
}

func (c Challenge) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("challenge id is required")
	}
	if c.ChallengerID == "" || c.ChallengedID == "" {
		return fmt.Errorf("both challenge participants are required")
	}
	if c.ChallengerID == c.ChallengedID {
		return fmt.Errorf("a player cannot challenge themselves")
	}
	if c.Wager < MinWager || c.Wager > MaxWager {
		return fmt.Errorf("wager must be between %d and %d", MinWager, MaxWager)
	}

	return nil
}

// ClampWager forces a proposed wager into the allowed range.
func ClampWager(wager int) int {
	if wager < MinWager {
		return MinWager
	}
	if wager > MaxWager {
		return MaxWager
	}
	return wager
}
