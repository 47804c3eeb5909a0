package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/match"
	"github.com/ovalbyte/club-ladder/internal/domain/player"
	"github.com/ovalbyte/club-ladder/internal/domain/report"
	"github.com/ovalbyte/club-ladder/internal/domain/role"
	"github.com/ovalbyte/club-ladder/internal/domain/user"
	idgen "github.com/ovalbyte/club-ladder/internal/platform/id"
	"github.com/ovalbyte/club-ladder/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

const sweepWorkerCount = 4

type CreateReportInput struct {
	Actor       user.Principal
	Mode        string
	WinnerIDs   []string
	LoserIDs    []string
	ScoreWinner int
	ScoreLoser  int
	Friendly    bool
}

// ReportService runs the confirmation workflow that gates promotion of a
// reported outcome into the ledger.
type ReportService struct {
	playerRepo player.Repository
	reportRepo report.Repository
	matches    *MatchService
	roles      role.Store
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
	confirmTTL time.Duration
}

func NewReportService(
	playerRepo player.Repository,
	reportRepo report.Repository,
	matches *MatchService,
	roles role.Store,
	idGen idgen.Generator,
	logger *logging.Logger,
	confirmTTL time.Duration,
) *ReportService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &ReportService{
		playerRepo: playerRepo,
		reportRepo: reportRepo,
		matches:    matches,
		roles:      roles,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
		confirmTTL: confirmTTL,
	}
}

func (s *ReportService) List(ctx context.Context) ([]report.Report, error) {
	items, err := s.reportRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	return items, nil
}

// Create validates a reported outcome and parks it as unconfirmed. The
// reporter must be an administrator or one of the listed participants, and
// counts as already acknowledged.
func (s *ReportService) Create(ctx context.Context, input CreateReportInput) (report.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.Create")
	defer span.End()

	mode, err := player.ParseMode(input.Mode)
	if err != nil {
		return report.Report{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	reportID, err := s.idGen.NewID()
	if err != nil {
		return report.Report{}, fmt.Errorf("generate report id: %w", err)
	}

	now := s.now().UTC()
	r := report.Report{
		ID:          reportID,
		Mode:        mode,
		WinnerIDs:   input.WinnerIDs,
		LoserIDs:    input.LoserIDs,
		ScoreWinner: input.ScoreWinner,
		ScoreLoser:  input.ScoreLoser,
		Friendly:    input.Friendly,
		Status:      report.StatusUnconfirmed,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.confirmTTL),
	}
	if err := r.Validate(); err != nil {
		return report.Report{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, _, err := s.loadParticipants(ctx, r); err != nil {
		return report.Report{}, err
	}

	actorPlayer, hasPlayer, err := resolveActorPlayer(ctx, s.playerRepo, input.Actor)
	if err != nil {
		return report.Report{}, err
	}

	isParticipant := hasPlayer && r.HasParticipant(actorPlayer.ID)
	if !isParticipant {
		if err := requireAdmin(ctx, s.roles, input.Actor); err != nil {
			return report.Report{}, fmt.Errorf("%w: only a participant or an administrator may report a match", ErrUnauthorized)
		}
	}

	if isParticipant {
		r.ReporterID = actorPlayer.ID
		r.Acknowledged = []string{actorPlayer.ID}
	}

	if err := s.reportRepo.Create(ctx, r); err != nil {
		return report.Report{}, fmt.Errorf("create report: %w", err)
	}

	s.logger.InfoContext(ctx, "report created",
		"report_id", r.ID,
		"mode", string(r.Mode),
		"expires_at", r.ExpiresAt,
	)

	// A report whose reporter is the only linked participant needs no
	// further consent; promote it right away.
	promoted, m, err := s.promoteIfReady(ctx, r)
	if err != nil {
		return report.Report{}, err
	}
	if promoted {
		s.logger.InfoContext(ctx, "report self-promoted", "report_id", r.ID, "match_id", m.ID)
	}

	return r, nil
}

// Acknowledge appends the actor's consent. When every linked participant
// has acknowledged the report is promoted into the ledger.
func (s *ReportService) Acknowledge(ctx context.Context, actor user.Principal, reportID string) (report.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.Acknowledge")
	defer span.End()

	r, ok, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return report.Report{}, fmt.Errorf("get report: %w", err)
	}
	if !ok {
		return report.Report{}, fmt.Errorf("%w: report=%s", ErrNotFound, reportID)
	}
	if r.Status != report.StatusUnconfirmed {
		return report.Report{}, fmt.Errorf("%w: report is %s", ErrStateConflict, r.Status)
	}

	actorPlayer, hasPlayer, err := resolveActorPlayer(ctx, s.playerRepo, actor)
	if err != nil {
		return report.Report{}, err
	}
	if !hasPlayer || !r.HasParticipant(actorPlayer.ID) {
		return report.Report{}, fmt.Errorf("%w: only a participant may acknowledge", ErrUnauthorized)
	}

	if !r.HasAcknowledged(actorPlayer.ID) {
		r.Acknowledged = append(r.Acknowledged, actorPlayer.ID)
		if err := s.reportRepo.Update(ctx, r); err != nil {
			return report.Report{}, fmt.Errorf("update report: %w", err)
		}
	}

	if _, _, err := s.promoteIfReady(ctx, r); err != nil {
		return report.Report{}, err
	}

	return r, nil
}

// Dispute suspends automatic promotion. Any participant may dispute an
// unconfirmed report.
func (s *ReportService) Dispute(ctx context.Context, actor user.Principal, reportID string) (report.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.Dispute")
	defer span.End()

	r, ok, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return report.Report{}, fmt.Errorf("get report: %w", err)
	}
	if !ok {
		return report.Report{}, fmt.Errorf("%w: report=%s", ErrNotFound, reportID)
	}
	if r.Status != report.StatusUnconfirmed {
		return report.Report{}, fmt.Errorf("%w: report is %s", ErrStateConflict, r.Status)
	}

	actorPlayer, hasPlayer, err := resolveActorPlayer(ctx, s.playerRepo, actor)
	if err != nil {
		return report.Report{}, err
	}
	if !hasPlayer || !r.HasParticipant(actorPlayer.ID) {
		return report.Report{}, fmt.Errorf("%w: only a participant may dispute", ErrUnauthorized)
	}

	r.Status = report.StatusDisputed
	if err := s.reportRepo.Update(ctx, r); err != nil {
		return report.Report{}, fmt.Errorf("update report: %w", err)
	}

	s.logger.InfoContext(ctx, "report disputed", "report_id", r.ID, "by", actorPlayer.ID)
	return r, nil
}

// ForceResolve promotes regardless of acknowledgement state or dispute
// status. Administrator only.
func (s *ReportService) ForceResolve(ctx context.Context, actor user.Principal, reportID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.ForceResolve")
	defer span.End()

	if err := requireAdmin(ctx, s.roles, actor); err != nil {
		return match.Match{}, err
	}

	r, ok, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get report: %w", err)
	}
	if !ok {
		return match.Match{}, fmt.Errorf("%w: report=%s", ErrNotFound, reportID)
	}

	promoted, m, err := s.promote(ctx, r)
	if err != nil {
		return match.Match{}, err
	}
	if !promoted {
		return match.Match{}, fmt.Errorf("%w: report=%s", ErrNotFound, reportID)
	}

	return m, nil
}

// Reject discards a report without ever computing a rating delta.
// Administrator only.
func (s *ReportService) Reject(ctx context.Context, actor user.Principal, reportID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.Reject")
	defer span.End()

	if err := requireAdmin(ctx, s.roles, actor); err != nil {
		return err
	}

	deleted, err := s.reportRepo.Delete(ctx, reportID)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: report=%s", ErrNotFound, reportID)
	}

	s.logger.InfoContext(ctx, "report rejected", "report_id", reportID)
	return nil
}

// SweepExpired promotes every unconfirmed report whose deadline has passed,
// exactly as if all participants had acknowledged. Disputed reports are
// never swept. Independent reports promote on a bounded worker pool.
func (s *ReportService) SweepExpired(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.SweepExpired")
	defer span.End()

	items, err := s.reportRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list reports: %w", err)
	}

	now := s.now().UTC()
	due := make([]report.Report, 0, len(items))
	for _, r := range items {
		if r.Status == report.StatusUnconfirmed && r.Expired(now) {
			due = append(due, r)
		}
	}
	if len(due) == 0 {
		return 0, nil
	}

	pool, err := ants.NewPool(sweepWorkerCount)
	if err != nil {
		return 0, fmt.Errorf("create sweep worker pool: %w", err)
	}
	defer pool.Release()

	var (
		workers  sync.WaitGroup
		mu       sync.Mutex
		promoted int
		firstErr error
	)
	for _, r := range due {
		r := r
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			ok, _, promoteErr := s.promote(ctx, r)
			mu.Lock()
			defer mu.Unlock()
			if promoteErr != nil && firstErr == nil {
				firstErr = promoteErr
			}
			if ok {
				promoted++
			}
		}); err != nil {
			workers.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit sweep task: %w", err)
			}
			mu.Unlock()
		}
	}
	workers.Wait()

	if promoted > 0 {
		s.logger.InfoContext(ctx, "expired reports promoted", "count", promoted)
	}

	return promoted, firstErr
}

// promoteIfReady promotes when the acknowledgement predicate is satisfied.
func (s *ReportService) promoteIfReady(ctx context.Context, r report.Report) (bool, match.Match, error) {
	if r.Status != report.StatusUnconfirmed {
		return false, match.Match{}, nil
	}

	participants, _, err := s.loadParticipants(ctx, r)
	if err != nil {
		return false, match.Match{}, err
	}
	if !report.AllRequiredAcknowledged(r, participants) {
		return false, match.Match{}, nil
	}

	return s.promote(ctx, r)
}

// promote claims the report by deleting it first: of two racing promoters
// (an acknowledgement and the expiry sweep, say) exactly one delete
// succeeds and applies the ledger effect; the loser is a no-op. The match
// keeps the report's creation time as its resolution time so history stays
// in chronological order.
func (s *ReportService) promote(ctx context.Context, r report.Report) (bool, match.Match, error) {
	deleted, err := s.reportRepo.Delete(ctx, r.ID)
	if err != nil {
		return false, match.Match{}, fmt.Errorf("claim report: %w", err)
	}
	if !deleted {
		return false, match.Match{}, nil
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return false, match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	m := match.Match{
		ID:          matchID,
		Mode:        r.Mode,
		WinnerIDs:   r.WinnerIDs,
		LoserIDs:    r.LoserIDs,
		ScoreWinner: r.ScoreWinner,
		ScoreLoser:  r.ScoreLoser,
		Friendly:    r.Friendly,
		ReporterID:  r.ReporterID,
		ResolvedAt:  r.CreatedAt,
		CreatedAt:   s.now().UTC(),
	}

	recorded, err := s.matches.RecordResolved(ctx, m)
	if err != nil {
		return false, match.Match{}, fmt.Errorf("promote report %s: %w", r.ID, err)
	}

	s.logger.InfoContext(ctx, "report promoted", "report_id", r.ID, "match_id", recorded.ID)
	return true, recorded, nil
}

func (s *ReportService) loadParticipants(ctx context.Context, r report.Report) (map[string]player.Player, []player.Player, error) {
	byID := make(map[string]player.Player, len(r.Participants()))
	ordered := make([]player.Player, 0, len(r.Participants()))
	for _, pid := range r.Participants() {
		p, ok, err := s.playerRepo.GetByID(ctx, pid)
		if err != nil {
			return nil, nil, fmt.Errorf("get player %s: %w", pid, err)
		}
		if !ok {
			return nil, nil, fmt.Errorf("%w: player=%s", ErrNotFound, pid)
		}
		byID[p.ID] = p
		ordered = append(ordered, p)
	}

	return byID, ordered, nil
}
