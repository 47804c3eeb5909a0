package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ovalbyte/club-ladder/internal/domain/player"
	qb "github.com/ovalbyte/club-ladder/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	return r.getBy(ctx, qb.Eq("id", playerID))
}

func (r *PlayerRepository) GetByAccountID(ctx context.Context, accountID string) (player.Player, bool, error) {
	if accountID == "" {
		return player.Player{}, false, nil
	}
	return r.getBy(ctx, qb.Eq("account_id", accountID))
}

func (r *PlayerRepository) getBy(ctx context.Context, cond qb.Condition) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").Where(cond).ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	query, args, err := qb.InsertInto("players").
		Columns(
			"id", "account_id", "display_name", "email",
			"singles_rating", "singles_wins", "singles_losses", "singles_streak",
			"doubles_rating", "doubles_wins", "doubles_losses", "doubles_streak",
			"created_at", "updated_at",
		).
		Values(
			p.ID, nullString(p.AccountID), p.DisplayName, p.Email,
			p.Singles.Rating, p.Singles.Wins, p.Singles.Losses, p.Singles.Streak,
			p.Doubles.Rating, p.Doubles.Wins, p.Doubles.Losses, p.Doubles.Streak,
			p.CreatedAt, p.UpdatedAt,
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert player: %w", err)
	}

	return nil
}

func (r *PlayerRepository) Update(ctx context.Context, p player.Player) error {
	query, args, err := qb.Update("players").
		Set("account_id", nullString(p.AccountID)).
		Set("display_name", p.DisplayName).
		Set("email", p.Email).
		Set("singles_rating", p.Singles.Rating).
		Set("singles_wins", p.Singles.Wins).
		Set("singles_losses", p.Singles.Losses).
		Set("singles_streak", p.Singles.Streak).
		Set("doubles_rating", p.Doubles.Rating).
		Set("doubles_wins", p.Doubles.Wins).
		Set("doubles_losses", p.Doubles.Losses).
		Set("doubles_streak", p.Doubles.Streak).
		Set("updated_at", p.UpdatedAt).
		Where(qb.Eq("id", p.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("player %s not found", p.ID)
	}

	return nil
}

func (r *PlayerRepository) Delete(ctx context.Context, playerID string) error {
	query, args, err := qb.DeleteFrom("players").Where(qb.Eq("id", playerID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete player query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("player %s not found", playerID)
	}

	return nil
}

func (r *PlayerRepository) ResetAllStats(ctx context.Context, baseline int) error {
	const query = `
UPDATE players SET
  singles_rating = $1, singles_wins = 0, singles_losses = 0, singles_streak = 0,
  doubles_rating = $1, doubles_wins = 0, doubles_losses = 0, doubles_streak = 0,
  updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, baseline); err != nil {
		return fmt.Errorf("reset player stats: %w", err)
	}

	return nil
}
