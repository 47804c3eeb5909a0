package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ovalbyte/club-ladder/internal/domain/player"
	"github.com/ovalbyte/club-ladder/internal/domain/ratinghistory"
	qb "github.com/ovalbyte/club-ladder/internal/platform/querybuilder"
)

type ratingHistoryTableModel struct {
	Seq       int64     `db:"seq"`
	ID        string    `db:"id"`
	PlayerID  string    `db:"player_id"`
	MatchID   string    `db:"match_id"`
	Mode      string    `db:"mode"`
	Rating    int       `db:"rating"`
	CreatedAt time.Time `db:"created_at"`
}

type RatingHistoryRepository struct {
	db *sqlx.DB
}

func NewRatingHistoryRepository(db *sqlx.DB) *RatingHistoryRepository {
	return &RatingHistoryRepository{db: db}
}

func (r *RatingHistoryRepository) ListByPlayer(ctx context.Context, playerID string) ([]ratinghistory.Entry, error) {
	query, args, err := qb.Select("*").From("rating_history").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("seq").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select rating history query: %w", err)
	}

	return r.selectEntries(ctx, query, args...)
}

func (r *RatingHistoryRepository) ListRecent(ctx context.Context, limit int) ([]ratinghistory.Entry, error) {
	builder := qb.Select("*").From("rating_history").OrderBy("seq DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select recent rating history query: %w", err)
	}

	return r.selectEntries(ctx, query, args...)
}

func (r *RatingHistoryRepository) Create(ctx context.Context, e ratinghistory.Entry) error {
	query, args, err := qb.InsertInto("rating_history").
		Columns("id", "player_id", "match_id", "mode", "rating", "created_at").
		Values(e.ID, e.PlayerID, e.MatchID, string(e.Mode), e.Rating, e.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert rating history query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert rating history entry: %w", err)
	}

	return nil
}

func (r *RatingHistoryRepository) DeleteByMatch(ctx context.Context, matchID string) error {
	query, args, err := qb.DeleteFrom("rating_history").Where(qb.Eq("match_id", matchID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete rating history query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete rating history for match: %w", err)
	}

	return nil
}

func (r *RatingHistoryRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM rating_history"); err != nil {
		return fmt.Errorf("clear rating history: %w", err)
	}

	return nil
}

func (r *RatingHistoryRepository) selectEntries(ctx context.Context, query string, args ...any) ([]ratinghistory.Entry, error) {
	var rows []ratingHistoryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rating history: %w", err)
	}

	out := make([]ratinghistory.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, ratinghistory.Entry{
			ID:        row.ID,
			PlayerID:  row.PlayerID,
			MatchID:   row.MatchID,
			Mode:      player.Mode(row.Mode),
			Rating:    row.Rating,
			CreatedAt: row.CreatedAt,
		})
	}

	return out, nil
}
