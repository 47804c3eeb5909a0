package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	Seq         int64          `db:"seq"`
	ID          string         `db:"id"`
	Mode        string         `db:"mode"`
	ScoreWinner int            `db:"score_winner"`
	ScoreLoser  int            `db:"score_loser"`
	Delta       int            `db:"delta"`
	Friendly    bool           `db:"friendly"`
	ReporterID  sql.NullString `db:"reporter_id"`
	ResolvedAt  time.Time      `db:"resolved_at"`
	CreatedAt   time.Time      `db:"created_at"`
}

type matchSideRow struct {
	MatchID  string `db:"match_id"`
	PlayerID string `db:"player_id"`
	Slot     int    `db:"slot"`
}
