package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/match"
	"github.com/ovalbyte/club-ladder/internal/domain/player"
	"github.com/ovalbyte/club-ladder/internal/domain/rating"
	"github.com/ovalbyte/club-ladder/internal/domain/ratinghistory"
	"github.com/ovalbyte/club-ladder/internal/domain/role"
	"github.com/ovalbyte/club-ladder/internal/domain/user"
	idgen "github.com/ovalbyte/club-ladder/internal/platform/id"
	"github.com/ovalbyte/club-ladder/internal/platform/logging"
)

// RecordMatchInput is a direct administrative ledger entry. Regular play
// goes through the report lifecycle instead.
type RecordMatchInput struct {
	Actor       user.Principal
	Mode        string
	WinnerIDs   []string
	LoserIDs    []string
	ScoreWinner int
	ScoreLoser  int
	Friendly    bool
}

type EditMatchInput struct {
	Actor       user.Principal
	MatchID     string
	WinnerIDs   []string
	LoserIDs    []string
	ScoreWinner int
	ScoreLoser  int
}

// MatchService owns the ledger: every rating-affecting write to player
// statistics funnels through it so edits and deletes can exactly reverse
// what a record applied.
type MatchService struct {
	playerRepo  player.Repository
	matchRepo   match.Repository
	historyRepo ratinghistory.Repository
	roles       role.Store
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
	// editGrace is how long the original reporter may edit or delete a
	// match after resolution without the administrator role.
	editGrace time.Duration
}

func NewMatchService(
	playerRepo player.Repository,
	matchRepo match.Repository,
	historyRepo ratinghistory.Repository,
	roles role.Store,
	idGen idgen.Generator,
	logger *logging.Logger,
	editGrace time.Duration,
) *MatchService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &MatchService{
		playerRepo:  playerRepo,
		matchRepo:   matchRepo,
		historyRepo: historyRepo,
		roles:       roles,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
		editGrace:   editGrace,
	}
}

func (s *MatchService) List(ctx context.Context) ([]match.Match, error) {
	items, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	return items, nil
}

// Record validates and writes an administrator-entered match.
func (s *MatchService) Record(ctx context.Context, input RecordMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Record")
	defer span.End()

	if err := requireAdmin(ctx, s.roles, input.Actor); err != nil {
		return match.Match{}, err
	}

	mode, err := player.ParseMode(input.Mode)
	if err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	reporterID := ""
	if actorPlayer, ok, err := resolveActorPlayer(ctx, s.playerRepo, input.Actor); err != nil {
		return match.Match{}, err
	} else if ok {
		reporterID = actorPlayer.ID
	}

	now := s.now().UTC()
	m := match.Match{
		ID:          matchID,
		Mode:        mode,
		WinnerIDs:   input.WinnerIDs,
		LoserIDs:    input.LoserIDs,
		ScoreWinner: input.ScoreWinner,
		ScoreLoser:  input.ScoreLoser,
		Friendly:    input.Friendly,
		ReporterID:  reporterID,
		ResolvedAt:  now,
		CreatedAt:   now,
	}

	return s.RecordResolved(ctx, m)
}

// RecordResolved applies a fully validated, already-authorized outcome to
// the ledger: it computes the delta from the participants' current ratings,
// updates all statistics tracks, and appends the match plus one
// rating-history row per participant. The report lifecycle calls this on
// promotion with the report's creation time as ResolvedAt.
func (s *MatchService) RecordResolved(ctx context.Context, m match.Match) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RecordResolved")
	defer span.End()

	if err := m.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	winners, losers, err := s.loadSides(ctx, m)
	if err != nil {
		return match.Match{}, err
	}

	m.Delta = 0
	if !m.Friendly {
		m.Delta = rating.Delta(sideRating(winners, m.Mode), sideRating(losers, m.Mode))
	}

	for i := range winners {
		stats := winners[i].StatsFor(m.Mode)
		stats.Rating += m.Delta
		stats.Wins++
		if stats.Streak > 0 {
			stats.Streak++
		} else {
			stats.Streak = 1
		}
		winners[i].SetStats(m.Mode, stats)
	}
	for i := range losers {
		stats := losers[i].StatsFor(m.Mode)
		stats.Rating -= m.Delta
		stats.Losses++
		if stats.Streak < 0 {
			stats.Streak--
		} else {
			stats.Streak = -1
		}
		losers[i].SetStats(m.Mode, stats)
	}

	if err := s.updatePlayers(ctx, append(winners, losers...)); err != nil {
		return match.Match{}, err
	}

	if err := s.matchRepo.Create(ctx, m); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	if !m.Friendly {
		if err := s.appendHistory(ctx, m, append(winners, losers...)); err != nil {
			return match.Match{}, err
		}
	}

	s.logger.InfoContext(ctx, "match recorded",
		"match_id", m.ID,
		"mode", string(m.Mode),
		"delta", m.Delta,
		"friendly", m.Friendly,
	)

	return m, nil
}

// Edit fully undoes the stored match's effect and re-applies the outcome
// with the new participants and score under the same match identity.
func (s *MatchService) Edit(ctx context.Context, input EditMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Edit")
	defer span.End()

	current, ok, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !ok {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
	}

	if err := s.authorizeMutation(ctx, input.Actor, current); err != nil {
		return match.Match{}, err
	}

	edited := current
	edited.WinnerIDs = input.WinnerIDs
	edited.LoserIDs = input.LoserIDs
	edited.ScoreWinner = input.ScoreWinner
	edited.ScoreLoser = input.ScoreLoser
	if err := edited.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.undoResolved(ctx, current); err != nil {
		return match.Match{}, err
	}

	winners, losers, err := s.loadSides(ctx, edited)
	if err != nil {
		return match.Match{}, err
	}

	edited.Delta = 0
	if !edited.Friendly {
		edited.Delta = rating.Delta(sideRating(winners, edited.Mode), sideRating(losers, edited.Mode))
	}

	for i := range winners {
		stats := winners[i].StatsFor(edited.Mode)
		stats.Rating += edited.Delta
		stats.Wins++
		if stats.Streak > 0 {
			stats.Streak++
		} else {
			stats.Streak = 1
		}
		winners[i].SetStats(edited.Mode, stats)
	}
	for i := range losers {
		stats := losers[i].StatsFor(edited.Mode)
		stats.Rating -= edited.Delta
		stats.Losses++
		if stats.Streak < 0 {
			stats.Streak--
		} else {
			stats.Streak = -1
		}
		losers[i].SetStats(edited.Mode, stats)
	}

	if err := s.updatePlayers(ctx, append(winners, losers...)); err != nil {
		return match.Match{}, err
	}

	if err := s.matchRepo.Update(ctx, edited); err != nil {
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}

	if !edited.Friendly {
		if err := s.appendHistory(ctx, edited, append(winners, losers...)); err != nil {
			return match.Match{}, err
		}
	}

	s.logger.InfoContext(ctx, "match edited",
		"match_id", edited.ID,
		"delta", edited.Delta,
	)

	return edited, nil
}

// Delete reverses the match's rating effect and removes it from the ledger.
func (s *MatchService) Delete(ctx context.Context, actor user.Principal, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete")
	defer span.End()

	current, ok, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("get match: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	if err := s.authorizeMutation(ctx, actor, current); err != nil {
		return err
	}

	if err := s.undoResolved(ctx, current); err != nil {
		return err
	}

	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}

	s.logger.InfoContext(ctx, "match deleted", "match_id", matchID)
	return nil
}

// undoResolved subtracts the stored delta from the winners, returns it to
// the losers, decrements win/loss counts and removes the match's history
// rows. Streaks are reset to zero for everyone involved: exact streak
// reconstruction would require a full history replay, so the reset is the
// documented approximation.
func (s *MatchService) undoResolved(ctx context.Context, m match.Match) error {
	winners, losers, err := s.loadSides(ctx, m)
	if err != nil {
		return err
	}

	for i := range winners {
		stats := winners[i].StatsFor(m.Mode)
		stats.Rating -= m.Delta
		stats.Wins--
		stats.Streak = 0
		winners[i].SetStats(m.Mode, stats)
	}
	for i := range losers {
		stats := losers[i].StatsFor(m.Mode)
		stats.Rating += m.Delta
		stats.Losses--
		stats.Streak = 0
		losers[i].SetStats(m.Mode, stats)
	}

	if err := s.updatePlayers(ctx, append(winners, losers...)); err != nil {
		return err
	}

	if err := s.historyRepo.DeleteByMatch(ctx, m.ID); err != nil {
		return fmt.Errorf("delete rating history for match: %w", err)
	}

	return nil
}

// authorizeMutation allows administrators always, and the original reporter
// within the grace window after resolution.
func (s *MatchService) authorizeMutation(ctx context.Context, actor user.Principal, m match.Match) error {
	admin, err := isAdmin(ctx, s.roles, actor)
	if err != nil {
		return err
	}
	if admin {
		return nil
	}

	actorPlayer, ok, err := resolveActorPlayer(ctx, s.playerRepo, actor)
	if err != nil {
		return err
	}
	if !ok || m.ReporterID == "" || actorPlayer.ID != m.ReporterID {
		return fmt.Errorf("%w: only an administrator or the original reporter may change a match", ErrUnauthorized)
	}
	if s.now().UTC().After(m.ResolvedAt.Add(s.editGrace)) {
		return fmt.Errorf("%w: reporter edit window has closed", ErrStateConflict)
	}

	return nil
}

// loadSides fetches both sides in one pass so the reversal arithmetic works
// from a single consistent read of the participants.
func (s *MatchService) loadSides(ctx context.Context, m match.Match) ([]player.Player, []player.Player, error) {
	winners := make([]player.Player, 0, len(m.WinnerIDs))
	for _, id := range m.WinnerIDs {
		p, ok, err := s.playerRepo.GetByID(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("get player %s: %w", id, err)
		}
		if !ok {
			return nil, nil, fmt.Errorf("%w: player=%s", ErrNotFound, id)
		}
		winners = append(winners, p)
	}

	losers := make([]player.Player, 0, len(m.LoserIDs))
	for _, id := range m.LoserIDs {
		p, ok, err := s.playerRepo.GetByID(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("get player %s: %w", id, err)
		}
		if !ok {
			return nil, nil, fmt.Errorf("%w: player=%s", ErrNotFound, id)
		}
		losers = append(losers, p)
	}

	return winners, losers, nil
}

func (s *MatchService) updatePlayers(ctx context.Context, players []player.Player) error {
	now := s.now().UTC()
	for _, p := range players {
		p.UpdatedAt = now
		if err := s.playerRepo.Update(ctx, p); err != nil {
			return fmt.Errorf("update player %s: %w", p.ID, err)
		}
	}

	return nil
}

func (s *MatchService) appendHistory(ctx context.Context, m match.Match, players []player.Player) error {
	for _, p := range players {
		entryID, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate history id: %w", err)
		}
		entry := ratinghistory.Entry{
			ID:        entryID,
			PlayerID:  p.ID,
			MatchID:   m.ID,
			Mode:      m.Mode,
			Rating:    p.StatsFor(m.Mode).Rating,
			CreatedAt: m.ResolvedAt,
		}
		if err := s.historyRepo.Create(ctx, entry); err != nil {
			return fmt.Errorf("create rating history entry: %w", err)
		}
	}

	return nil
}

func sideRating(side []player.Player, mode player.Mode) int {
	ratings := make([]int, 0, len(side))
	for _, p := range side {
		ratings = append(ratings, p.StatsFor(mode).Rating)
	}

	return rating.TeamRating(ratings)
}
