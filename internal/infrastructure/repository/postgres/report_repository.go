package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/ovalbyte/club-ladder/internal/domain/player"
	"github.com/ovalbyte/club-ladder/internal/domain/report"
	qb "github.com/ovalbyte/club-ladder/internal/platform/querybuilder"
)

type reportTableModel struct {
	Seq          int64          `db:"seq"`
	ID           string         `db:"id"`
	Mode         string         `db:"mode"`
	WinnerIDs    pq.StringArray `db:"winner_ids"`
	LoserIDs     pq.StringArray `db:"loser_ids"`
	ScoreWinner  int            `db:"score_winner"`
	ScoreLoser   int            `db:"score_loser"`
	Friendly     bool           `db:"friendly"`
	ReporterID   sql.NullString `db:"reporter_id"`
	Status       string         `db:"status"`
	Acknowledged pq.StringArray `db:"acknowledged"`
	CreatedAt    time.Time      `db:"created_at"`
	ExpiresAt    time.Time      `db:"expires_at"`
}

func (m reportTableModel) toDomain() report.Report {
	reporterID := ""
	if m.ReporterID.Valid {
		reporterID = m.ReporterID.String
	}

	return report.Report{
		ID:           m.ID,
		Mode:         player.Mode(m.Mode),
		WinnerIDs:    []string(m.WinnerIDs),
		LoserIDs:     []string(m.LoserIDs),
		ScoreWinner:  m.ScoreWinner,
		ScoreLoser:   m.ScoreLoser,
		Friendly:     m.Friendly,
		ReporterID:   reporterID,
		Status:       report.Status(m.Status),
		Acknowledged: []string(m.Acknowledged),
		CreatedAt:    m.CreatedAt,
		ExpiresAt:    m.ExpiresAt,
	}
}

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) List(ctx context.Context) ([]report.Report, error) {
	query, args, err := qb.Select("*").From("reports").OrderBy("seq").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select reports query: %w", err)
	}

	var rows []reportTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select reports: %w", err)
	}

	out := make([]report.Report, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *ReportRepository) GetByID(ctx context.Context, reportID string) (report.Report, bool, error) {
	query, args, err := qb.Select("*").From("reports").Where(qb.Eq("id", reportID)).ToSQL()
	if err != nil {
		return report.Report{}, false, fmt.Errorf("build get report query: %w", err)
	}

	var row reportTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return report.Report{}, false, nil
		}
		return report.Report{}, false, fmt.Errorf("get report: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ReportRepository) Create(ctx context.Context, rep report.Report) error {
	query, args, err := qb.InsertInto("reports").
		Columns("id", "mode", "winner_ids", "loser_ids", "score_winner", "score_loser", "friendly", "reporter_id", "status", "acknowledged", "created_at", "expires_at").
		Values(
			rep.ID, string(rep.Mode), pq.StringArray(rep.WinnerIDs), pq.StringArray(rep.LoserIDs),
			rep.ScoreWinner, rep.ScoreLoser, rep.Friendly, nullString(rep.ReporterID),
			string(rep.Status), pq.StringArray(rep.Acknowledged), rep.CreatedAt, rep.ExpiresAt,
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert report query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	return nil
}

func (r *ReportRepository) Update(ctx context.Context, rep report.Report) error {
	query, args, err := qb.Update("reports").
		Set("status", string(rep.Status)).
		Set("acknowledged", pq.StringArray(rep.Acknowledged)).
		Where(qb.Eq("id", rep.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update report query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("report %s not found", rep.ID)
	}

	return nil
}

// Delete backs the promotion claim: the row count tells racing promoters
// apart, since only one delete can remove the row.
func (r *ReportRepository) Delete(ctx context.Context, reportID string) (bool, error) {
	query, args, err := qb.DeleteFrom("reports").Where(qb.Eq("id", reportID)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete report query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete report rows affected: %w", err)
	}

	return n > 0, nil
}
