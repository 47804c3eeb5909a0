package season

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Standing is one player's final line in an ended season. Captured once at
// season end and never mutated afterwards.
type Standing struct {
	Rank          int
	PlayerID      string
	DisplayName   string
	SinglesRating int
	DoublesRating int
	Wins          int
	Losses        int
}

// Season is a bounded competitive epoch. At most one season is active at a
// time; ending a season is a one-way transition.
type Season struct {
	ID         string
	Name       string
	Number     int
	Status     Status
	StartedAt  time.Time
	EndedAt    *time.Time
	Standings  []Standing
	ChampionID string
	MatchCount int
}

func (s Season) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("season id is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("season name is required")
	}
	if s.Number < 1 {
		return fmt.Errorf("season number must be >= 1")
	}

	return nil
}
