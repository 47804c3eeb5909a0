package tournament

import (
	"fmt"
	"strings"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/player"
)

type Format string

const (
	FormatSingleElimination Format = "single_elimination"
	FormatRoundRobin        Format = "round_robin"
)

func ParseFormat(v string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(v))) {
	case FormatSingleElimination:
		return FormatSingleElimination, nil
	case FormatRoundRobin:
		return FormatRoundRobin, nil
	default:
		return "", fmt.Errorf("invalid tournament format %q", v)
	}
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Matchup is one scheduled pairing. An empty slot is a bye (bracket padding)
// or a not-yet-propagated winner from an earlier round.
type Matchup struct {
	ID        string
	Player1ID string
	Player2ID string
	WinnerID  string
	Score1    int
	Score2    int
}

// Decided reports whether a winner has been recorded.
func (m Matchup) Decided() bool {
	return m.WinnerID != ""
}

// Playable reports whether both slots hold real participants.
func (m Matchup) Playable() bool {
	return m.Player1ID != "" && m.Player2ID != ""
}

type Round struct {
	Number   int
	Matchups []Matchup
}

// Tournament is a bracket or round-robin schedule. Results recorded here are
// independent of the match ledger: they never move ratings by themselves.
type Tournament struct {
	ID             string
	Name           string
	Format         Format
	Mode           player.Mode
	ParticipantIDs []string
	Rounds         []Round
	Status         Status
	WinnerID       string
	CreatedAt      time.Time
}

func (t Tournament) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tournament id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("tournament name is required")
	}
	if _, err := ParseFormat(string(t.Format)); err != nil {
		return err
	}
	if _, err := player.ParseMode(string(t.Mode)); err != nil {
		return err
	}
	if len(t.ParticipantIDs) < 2 {
		return fmt.Errorf("a tournament needs at least 2 participants")
	}

	return nil
}

// FindMatchup locates a matchup by id, returning its round and position.
func (t Tournament) FindMatchup(matchupID string) (roundIdx, matchupIdx int, ok bool) {
	for ri, round := range t.Rounds {
		for mi, m := range round.Matchups {
			if m.ID == matchupID {
				return ri, mi, true
			}
		}
	}
	return 0, 0, false
}
