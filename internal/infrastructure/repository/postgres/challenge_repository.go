package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ovalbyte/club-ladder/internal/domain/challenge"
	qb "github.com/ovalbyte/club-ladder/internal/platform/querybuilder"
)

type challengeTableModel struct {
	Seq          int64          `db:"seq"`
	ID           string         `db:"id"`
	ChallengerID string         `db:"challenger_id"`
	ChallengedID string         `db:"challenged_id"`
	Wager        int            `db:"wager"`
	Message      string         `db:"message"`
	Status       string         `db:"status"`
	MatchID      sql.NullString `db:"match_id"`
	CreatedAt    time.Time      `db:"created_at"`
	RespondedAt  *time.Time     `db:"responded_at"`
	CompletedAt  *time.Time     `db:"completed_at"`
}

func (m challengeTableModel) toDomain() challenge.Challenge {
	matchID := ""
	if m.MatchID.Valid {
		matchID = m.MatchID.String
	}

	return challenge.Challenge{
		ID:           m.ID,
		ChallengerID: m.ChallengerID,
		ChallengedID: m.ChallengedID,
		Wager:        m.Wager,
		Message:      m.Message,
		Status:       challenge.Status(m.Status),
		MatchID:      matchID,
		CreatedAt:    m.CreatedAt,
		RespondedAt:  m.RespondedAt,
		CompletedAt:  m.CompletedAt,
	}
}

type ChallengeRepository struct {
	db *sqlx.DB
}

func NewChallengeRepository(db *sqlx.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func (r *ChallengeRepository) List(ctx context.Context) ([]challenge.Challenge, error) {
	query, args, err := qb.Select("*").From("challenges").OrderBy("seq").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select challenges query: %w", err)
	}

	var rows []challengeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select challenges: %w", err)
	}

	out := make([]challenge.Challenge, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *ChallengeRepository) GetByID(ctx context.Context, challengeID string) (challenge.Challenge, bool, error) {
	query, args, err := qb.Select("*").From("challenges").Where(qb.Eq("id", challengeID)).ToSQL()
	if err != nil {
		return challenge.Challenge{}, false, fmt.Errorf("build get challenge query: %w", err)
	}

	var row challengeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return challenge.Challenge{}, false, nil
		}
		return challenge.Challenge{}, false, fmt.Errorf("get challenge: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ChallengeRepository) Create(ctx context.Context, c challenge.Challenge) error {
	query, args, err := qb.InsertInto("challenges").
		Columns("id", "challenger_id", "challenged_id", "wager", "message", "status", "match_id", "created_at", "responded_at", "completed_at").
		Values(c.ID, c.ChallengerID, c.ChallengedID, c.Wager, c.Message, string(c.Status), nullString(c.MatchID), c.CreatedAt, c.RespondedAt, c.CompletedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert challenge query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert challenge: %w", err)
	}

	return nil
}

func (r *ChallengeRepository) Update(ctx context.Context, c challenge.Challenge) error {
	query, args, err := qb.Update("challenges").
		Set("status", string(c.Status)).
		Set("match_id", nullString(c.MatchID)).
		Set("responded_at", c.RespondedAt).
		Set("completed_at", c.CompletedAt).
		Where(qb.Eq("id", c.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update challenge query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update challenge: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("challenge %s not found", c.ID)
	}

	return nil
}
