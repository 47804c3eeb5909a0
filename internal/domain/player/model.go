package player

import (
	"fmt"
	"strings"
	"time"
)

// Mode is a competition track. Singles and doubles ratings and counters are
// fully independent: an outcome in one mode never touches the other.
type Mode string

const (
	ModeSingles Mode = "singles"
	ModeDoubles Mode = "doubles"
)

func ParseMode(v string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(v))) {
	case ModeSingles:
		return ModeSingles, nil
	case ModeDoubles:
		return ModeDoubles, nil
	default:
		return "", fmt.Errorf("invalid mode %q", v)
	}
}

// TeamSize is the required side size for matches in this mode.
func (m Mode) TeamSize() int {
	if m == ModeDoubles {
		return 2
	}
	return 1
}

// Stats is one mode's statistics track. Streak is signed: positive for a
// winning run, negative for a losing run.
type Stats struct {
	Rating int
	Wins   int
	Losses int
	Streak int
}

// Player is a club member on the ladder. AccountID links the player to a
// verified identity and may be empty for unlinked (guest) players; deleting
// a player detaches this link while historical matches keep the player id.
type Player struct {
	ID          string
	AccountID   string
	DisplayName string
	Email       string
	Singles     Stats
	Doubles     Stats
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		return fmt.Errorf("player display name is required")
	}

	return nil
}

// IsLinked reports whether the player has a verified identity attached.
func (p Player) IsLinked() bool {
	return strings.TrimSpace(p.AccountID) != ""
}

// StatsFor returns the statistics track for the given mode.
func (p Player) StatsFor(mode Mode) Stats {
	if mode == ModeDoubles {
		return p.Doubles
	}
	return p.Singles
}

// SetStats replaces the statistics track for the given mode.
func (p *Player) SetStats(mode Mode, s Stats) {
	if mode == ModeDoubles {
		p.Doubles = s
		return
	}
	p.Singles = s
}
