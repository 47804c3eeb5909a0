package ratinghistory

import (
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/player"
)

// Entry is one player's resulting rating after one resolved match. Entries
// form the per-player rating time series and are deleted in lockstep with
// match reversal.
type Entry struct {
	ID        string
	PlayerID  string
	MatchID   string
	Mode      player.Mode
	Rating    int
	CreatedAt time.Time
}
