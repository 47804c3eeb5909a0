package postgres

import (
	"database/sql"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/player"
)

type playerTableModel struct {
	ID            string         `db:"id"`
	AccountID     sql.NullString `db:"account_id"`
	DisplayName   string         `db:"display_name"`
	Email         string         `db:"email"`
	SinglesRating int            `db:"singles_rating"`
	SinglesWins   int            `db:"singles_wins"`
	SinglesLosses int            `db:"singles_losses"`
	SinglesStreak int            `db:"singles_streak"`
	DoublesRating int            `db:"doubles_rating"`
	DoublesWins   int            `db:"doubles_wins"`
	DoublesLosses int            `db:"doubles_losses"`
	DoublesStreak int            `db:"doubles_streak"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (m playerTableModel) toDomain() player.Player {
	accountID := ""
	if m.AccountID.Valid {
		accountID = m.AccountID.String
	}

	return player.Player{
		ID:          m.ID,
		AccountID:   accountID,
		DisplayName: m.DisplayName,
		Email:       m.Email,
		Singles: player.Stats{
			Rating: m.SinglesRating,
			Wins:   m.SinglesWins,
			Losses: m.SinglesLosses,
			Streak: m.SinglesStreak,
		},
		Doubles: player.Stats{
			Rating: m.DoublesRating,
			Wins:   m.DoublesWins,
			Losses: m.DoublesLosses,
			Streak: m.DoublesStreak,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
