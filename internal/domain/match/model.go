package match

import (
	"fmt"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/player"
)

// Match is an authoritative, settled outcome. Once in the ledger it only
// changes through an explicit edit or delete, both of which exactly reverse
// the rating effect recorded in Delta.
type Match struct {
	ID          string
	Mode        player.Mode
	WinnerIDs   []string
	LoserIDs    []string
	ScoreWinner int
	ScoreLoser  int
	// Delta is the rating change applied to each winner (and negated for
	// each loser) at resolution time. Zero for friendly matches.
	Delta      int
	Friendly   bool
	ReporterID string
	ResolvedAt time.Time
	CreatedAt  time.Time
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if _, err := player.ParseMode(string(m.Mode)); err != nil {
		return err
	}
	size := m.Mode.TeamSize()
	if len(m.WinnerIDs) != size || len(m.LoserIDs) != size {
		return fmt.Errorf("%s matches need %d player(s) per side", m.Mode, size)
	}
	if m.ScoreLoser < 0 || m.ScoreWinner <= m.ScoreLoser {
		return fmt.Errorf("winning score must exceed a non-negative losing score")
	}
	seen := make(map[string]struct{}, 2*size)
	for _, id := range m.Participants() {
		if id == "" {
			return fmt.Errorf("participant id cannot be empty")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("participant %s appears twice", id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// Participants returns both sides in winner-first order.
func (m Match) Participants() []string {
	out := make([]string, 0, len(m.WinnerIDs)+len(m.LoserIDs))
	out = append(out, m.WinnerIDs...)
	out = append(out, m.LoserIDs...)
	return out
}

// HasWinner reports whether playerID is on the winning side.
func (m Match) HasWinner(playerID string) bool {
	for _, id := range m.WinnerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// HasLoser reports whether playerID is on the losing side.
func (m Match) HasLoser(playerID string) bool {
	for _, id := range m.LoserIDs {
		if id == playerID {
			return true
		}
	}
	return false
}
