package report

import (
	"fmt"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/player"
)

type Status string

const (
	// StatusUnconfirmed is the entry state: reported but not yet
	// authoritative.
	StatusUnconfirmed Status = "unconfirmed"
	// StatusDisputed suspends automatic promotion until an administrator
	// force-resolves or rejects the report.
	StatusDisputed Status = "disputed"
)

// Report is a submitted outcome pending acknowledgement or timeout. It
// mirrors a match's participant/score shape; promotion turns it into a
// ledger match and removes it from the unconfirmed set.
type Report struct {
	ID          string
	Mode        player.Mode
	WinnerIDs   []string
	LoserIDs    []string
	ScoreWinner int
	ScoreLoser  int
	Friendly    bool
	ReporterID  string
	Status      Status
	// Acknowledged holds the player ids that have confirmed the outcome.
	// The reporter is a member from creation.
	Acknowledged []string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

func (r Report) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("report id is required")
	}
	if _, err := player.ParseMode(string(r.Mode)); err != nil {
		return err
	}
	size := r.Mode.TeamSize()
	if len(r.WinnerIDs) != size || len(r.LoserIDs) != size {
		return fmt.Errorf("%s reports need %d player(s) per side", r.Mode, size)
	}
	if r.ScoreLoser < 0 || r.ScoreWinner <= r.ScoreLoser {
		return fmt.Errorf("winning score must exceed a non-negative losing score")
	}
	seen := make(map[string]struct{}, 2*size)
	for _, id := range r.Participants() {
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
func (r Report) Participants() []string {
	out := make([]string, 0, len(r.WinnerIDs)+len(r.LoserIDs))
	out = append(out, r.WinnerIDs...)
	out = append(out, r.LoserIDs...)
	return out
}

// HasParticipant reports whether playerID is on either side.
func (r Report) HasParticipant(playerID string) bool {
	for _, id := range r.Participants() {
		if id == playerID {
			return true
		}
	}
	return false
}

// HasAcknowledged reports whether playerID is already in the ack set.
func (r Report) HasAcknowledged(playerID string) bool {
	for _, id := range r.Acknowledged {
		if id == playerID {
			return true
		}
	}
	return false
}

// Expired reports whether the automatic-promotion deadline has passed.
func (r Report) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// AllRequiredAcknowledged is the promotion predicate: every participant with
// a linked identity has acknowledged, or at most one participant is linked
// at all (the solo/self-reported case).
func AllRequiredAcknowledged(r Report, players map[string]player.Player) bool {
	linked := 0
	missing := 0
	for _, id := range r.Participants() {
		p, ok := players[id]
		if !ok || !p.IsLinked() {
			continue
		}
		linked++
		if !r.HasAcknowledged(id) {
			missing++
		}
	}

	return missing == 0 || linked <= 1
}
