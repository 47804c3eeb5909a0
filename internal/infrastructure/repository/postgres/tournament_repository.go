package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/ovalbyte/club-ladder/internal/domain/player"
	"github.com/ovalbyte/club-ladder/internal/domain/tournament"
	qb "github.com/ovalbyte/club-ladder/internal/platform/querybuilder"
)

type tournamentTableModel struct {
	Seq            int64          `db:"seq"`
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	Format         string         `db:"format"`
	Mode           string         `db:"mode"`
	Status         string         `db:"status"`
	WinnerID       sql.NullString `db:"winner_id"`
	ParticipantIDs pq.StringArray `db:"participant_ids"`
	Rounds         string         `db:"rounds"`
	CreatedAt      time.Time      `db:"created_at"`
}

// roundDoc is the jsonb shape of one scheduled round.
type roundDoc struct {
	Number   int          `json:"number"`
	Matchups []matchupDoc `json:"matchups"`
}

type matchupDoc struct {
	ID        string `json:"id"`
	Player1ID string `json:"player1_id,omitempty"`
	Player2ID string `json:"player2_id,omitempty"`
	WinnerID  string `json:"winner_id,omitempty"`
	Score1    int    `json:"score1"`
	Score2    int    `json:"score2"`
}

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	query, args, err := qb.Select("*").From("tournaments").OrderBy("seq").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tournaments: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		t, err := toDomainTournament(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	query, args, err := qb.Select("*").From("tournaments").Where(qb.Eq("id", tournamentID)).ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build get tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get tournament: %w", err)
	}

	t, err := toDomainTournament(row)
	if err != nil {
		return tournament.Tournament{}, false, err
	}

	return t, true, nil
}

func (r *TournamentRepository) Create(ctx context.Context, t tournament.Tournament) error {
	rounds, err := encodeRounds(t.Rounds)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertInto("tournaments").
		Columns("id", "name", "format", "mode", "status", "winner_id", "participant_ids", "rounds", "created_at").
		Values(t.ID, t.Name, string(t.Format), string(t.Mode), string(t.Status), nullString(t.WinnerID), pq.StringArray(t.ParticipantIDs), rounds, t.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert tournament query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert tournament: %w", err)
	}

	return nil
}

func (r *TournamentRepository) Update(ctx context.Context, t tournament.Tournament) error {
	rounds, err := encodeRounds(t.Rounds)
	if err != nil {
		return err
	}

	query, args, err := qb.Update("tournaments").
		Set("status", string(t.Status)).
		Set("winner_id", nullString(t.WinnerID)).
		Set("rounds", rounds).
		Where(qb.Eq("id", t.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update tournament query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update tournament: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("tournament %s not found", t.ID)
	}

	return nil
}

func (r *TournamentRepository) Delete(ctx context.Context, tournamentID string) error {
	query, args, err := qb.DeleteFrom("tournaments").Where(qb.Eq("id", tournamentID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete tournament query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete tournament: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("tournament %s not found", tournamentID)
	}

	return nil
}

func encodeRounds(rounds []tournament.Round) (string, error) {
	docs := make([]roundDoc, 0, len(rounds))
	for _, round := range rounds {
		doc := roundDoc{Number: round.Number, Matchups: make([]matchupDoc, 0, len(round.Matchups))}
		for _, m := range round.Matchups {
			doc.Matchups = append(doc.Matchups, matchupDoc{
				ID:        m.ID,
				Player1ID: m.Player1ID,
				Player2ID: m.Player2ID,
				WinnerID:  m.WinnerID,
				Score1:    m.Score1,
				Score2:    m.Score2,
			})
		}
		docs = append(docs, doc)
	}

	encoded, err := sonic.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("encode tournament rounds: %w", err)
	}
	return string(encoded), nil
}

func decodeRounds(raw string) ([]tournament.Round, error) {
	var docs []roundDoc
	if err := sonic.Unmarshal([]byte(raw), &docs); err != nil {
		return nil, fmt.Errorf("decode tournament rounds: %w", err)
	}

	rounds := make([]tournament.Round, 0, len(docs))
	for _, doc := range docs {
		round := tournament.Round{Number: doc.Number, Matchups: make([]tournament.Matchup, 0, len(doc.Matchups))}
		for _, m := range doc.Matchups {
			round.Matchups = append(round.Matchups, tournament.Matchup{
				ID:        m.ID,
				Player1ID: m.Player1ID,
				Player2ID: m.Player2ID,
				WinnerID:  m.WinnerID,
				Score1:    m.Score1,
				Score2:    m.Score2,
			})
		}
		rounds = append(rounds, round)
	}

	return rounds, nil
}

func toDomainTournament(row tournamentTableModel) (tournament.Tournament, error) {
	rounds, err := decodeRounds(row.Rounds)
	if err != nil {
		return tournament.Tournament{}, err
	}

	winnerID := ""
	if row.WinnerID.Valid {
		winnerID = row.WinnerID.String
	}

	return tournament.Tournament{
		ID:             row.ID,
		Name:           row.Name,
		Format:         tournament.Format(row.Format),
		Mode:           player.Mode(row.Mode),
		ParticipantIDs: []string(row.ParticipantIDs),
		Rounds:         rounds,
		Status:         tournament.Status(row.Status),
		WinnerID:       winnerID,
		CreatedAt:      row.CreatedAt,
	}, nil
}
