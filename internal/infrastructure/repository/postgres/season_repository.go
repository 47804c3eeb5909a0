package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/ovalbyte/club-ladder/internal/domain/season"
	qb "github.com/ovalbyte/club-ladder/internal/platform/querybuilder"
)

type seasonTableModel struct {
	Seq        int64          `db:"seq"`
	ID         string         `db:"id"`
	Name       string         `db:"name"`
	Number     int            `db:"number"`
	Status     string         `db:"status"`
	StartedAt  time.Time      `db:"started_at"`
	EndedAt    *time.Time     `db:"ended_at"`
	Standings  string         `db:"standings"`
	ChampionID sql.NullString `db:"champion_id"`
	MatchCount int            `db:"match_count"`
}

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	query, args, err := qb.Select("*").From("seasons").OrderBy("number").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		s, err := toDomainSeason(row)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, nil
}

func (r *SeasonRepository) GetActive(ctx context.Context) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.Eq("status", string(season.StatusActive))).
		OrderBy("number DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build get active season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("get active season: %w", err)
	}

	s, err := toDomainSeason(row)
	if err != nil {
		return season.Season{}, false, err
	}

	return s, true, nil
}

func (r *SeasonRepository) NextNumber(ctx context.Context) (int, error) {
	var next int
	if err := r.db.GetContext(ctx, &next, "SELECT COALESCE(MAX(number), 0) + 1 FROM seasons"); err != nil {
		return 0, fmt.Errorf("next season number: %w", err)
	}

	return next, nil
}

func (r *SeasonRepository) Create(ctx context.Context, s season.Season) error {
	standings, err := encodeStandings(s.Standings)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertInto("seasons").
		Columns("id", "name", "number", "status", "started_at", "ended_at", "standings", "champion_id", "match_count").
		Values(s.ID, s.Name, s.Number, string(s.Status), s.StartedAt, s.EndedAt, standings, nullString(s.ChampionID), s.MatchCount).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert season query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert season: %w", err)
	}

	return nil
}

func (r *SeasonRepository) Update(ctx context.Context, s season.Season) error {
	standings, err := encodeStandings(s.Standings)
	if err != nil {
		return err
	}

	query, args, err := qb.Update("seasons").
		Set("status", string(s.Status)).
		Set("ended_at", s.EndedAt).
		Set("standings", standings).
		Set("champion_id", nullString(s.ChampionID)).
		Set("match_count", s.MatchCount).
		Where(qb.Eq("id", s.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update season query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update season: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("season %s not found", s.ID)
	}

	return nil
}

func encodeStandings(standings []season.Standing) (string, error) {
	if standings == nil {
		standings = []season.Standing{}
	}
	encoded, err := sonic.Marshal(standings)
	if err != nil {
		return "", fmt.Errorf("encode season standings: %w", err)
	}
	return string(encoded), nil
}

func toDomainSeason(row seasonTableModel) (season.Season, error) {
	var standings []season.Standing
	if err := sonic.Unmarshal([]byte(row.Standings), &standings); err != nil {
		return season.Season{}, fmt.Errorf("decode season standings: %w", err)
	}

	championID := ""
	if row.ChampionID.Valid {
		championID = row.ChampionID.String
	}

	return season.Season{
		ID:         row.ID,
		Name:       row.Name,
		Number:     row.Number,
		Status:     season.Status(row.Status),
		StartedAt:  row.StartedAt,
		EndedAt:    row.EndedAt,
		Standings:  standings,
		ChampionID: championID,
		MatchCount: row.MatchCount,
	}, nil
}
