package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ovalbyte/club-ladder/internal/domain/match"
	"github.com/ovalbyte/club-ladder/internal/domain/player"
	qb "github.com/ovalbyte/club-ladder/internal/platform/querybuilder"
)

// MatchRepository stores the ledger across three tables: the match row plus
// one junction row per participant on each side, ordered by slot.
type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").OrderBy("seq").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}

	return r.selectMatches(ctx, query, args...)
}

func (r *MatchRepository) ListRecent(ctx context.Context, limit int) ([]match.Match, error) {
	builder := qb.Select("*").From("matches").OrderBy("seq DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select recent matches query: %w", err)
	}

	return r.selectMatches(ctx, query, args...)
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").Where(qb.Eq("id", matchID)).ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	winners, losers, err := r.loadSides(ctx, []string{matchID})
	if err != nil {
		return match.Match{}, false, err
	}

	return toDomainMatch(row, winners[matchID], losers[matchID]), true, nil
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for match insert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertInto("matches").
		Columns("id", "mode", "score_winner", "score_loser", "delta", "friendly", "reporter_id", "resolved_at", "created_at").
		Values(m.ID, string(m.Mode), m.ScoreWinner, m.ScoreLoser, m.Delta, m.Friendly, nullString(m.ReporterID), m.ResolvedAt, m.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	if err := insertSides(ctx, tx, m); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match insert: %w", err)
	}
	return nil
}

func (r *MatchRepository) Update(ctx context.Context, m match.Match) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for match update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Update("matches").
		Set("mode", string(m.Mode)).
		Set("score_winner", m.ScoreWinner).
		Set("score_loser", m.ScoreLoser).
		Set("delta", m.Delta).
		Set("friendly", m.Friendly).
		Set("reporter_id", nullString(m.ReporterID)).
		Set("resolved_at", m.ResolvedAt).
		Where(qb.Eq("id", m.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("match %s not found", m.ID)
	}

	// Sides are replaced wholesale: an edit may swap participants.
	for _, table := range []string{"match_winners", "match_losers"} {
		delQuery, delArgs, err := qb.DeleteFrom(table).Where(qb.Eq("match_id", m.ID)).ToSQL()
		if err != nil {
			return fmt.Errorf("build delete %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, delQuery, delArgs...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	if err := insertSides(ctx, tx, m); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match update: %w", err)
	}
	return nil
}

func (r *MatchRepository) Delete(ctx context.Context, matchID string) error {
	// Junction rows cascade with the match row.
	query, args, err := qb.DeleteFrom("matches").Where(qb.Eq("id", matchID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("match %s not found", matchID)
	}

	return nil
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM matches"); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}

	return count, nil
}

func (r *MatchRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM matches"); err != nil {
		return fmt.Errorf("clear matches: %w", err)
	}

	return nil
}

func (r *MatchRepository) selectMatches(ctx context.Context, query string, args ...any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}
	if len(rows) == 0 {
		return []match.Match{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	winners, losers, err := r.loadSides(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainMatch(row, winners[row.ID], losers[row.ID]))
	}

	return out, nil
}

func (r *MatchRepository) loadSides(ctx context.Context, matchIDs []string) (map[string][]string, map[string][]string, error) {
	ids := make([]any, 0, len(matchIDs))
	for _, id := range matchIDs {
		ids = append(ids, id)
	}

	load := func(table string) (map[string][]string, error) {
		query, args, err := qb.Select("match_id", "player_id", "slot").
			From(table).
			Where(qb.In("match_id", ids)).
			OrderBy("match_id", "slot").
			ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build select %s query: %w", table, err)
		}

		var rows []matchSideRow
		if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
			return nil, fmt.Errorf("select %s: %w", table, err)
		}

		out := make(map[string][]string, len(matchIDs))
		for _, row := range rows {
			out[row.MatchID] = append(out[row.MatchID], row.PlayerID)
		}
		return out, nil
	}

	winners, err := load("match_winners")
	if err != nil {
		return nil, nil, err
	}
	losers, err := load("match_losers")
	if err != nil {
		return nil, nil, err
	}

	return winners, losers, nil
}

func insertSides(ctx context.Context, tx *sqlx.Tx, m match.Match) error {
	insert := func(table string, playerIDs []string) error {
		builder := qb.InsertInto(table).Columns("match_id", "player_id", "slot")
		for slot, playerID := range playerIDs {
			builder = builder.Values(m.ID, playerID, slot)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
		return nil
	}

	if err := insert("match_winners", m.WinnerIDs); err != nil {
		return err
	}
	return insert("match_losers", m.LoserIDs)
}

func toDomainMatch(row matchTableModel, winnerIDs, loserIDs []string) match.Match {
	reporterID := ""
	if row.ReporterID.Valid {
		reporterID = row.ReporterID.String
	}

	return match.Match{
		ID:          row.ID,
		Mode:        player.Mode(row.Mode),
		WinnerIDs:   winnerIDs,
		LoserIDs:    loserIDs,
		ScoreWinner: row.ScoreWinner,
		ScoreLoser:  row.ScoreLoser,
		Delta:       row.Delta,
		Friendly:    row.Friendly,
		ReporterID:  reporterID,
		ResolvedAt:  row.ResolvedAt,
		CreatedAt:   row.CreatedAt,
	}
}
