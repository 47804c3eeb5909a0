package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/player"
	"github.com/ovalbyte/club-ladder/internal/domain/role"
	"github.com/ovalbyte/club-ladder/internal/domain/tournament"
	"github.com/ovalbyte/club-ladder/internal/domain/user"
	idgen "github.com/ovalbyte/club-ladder/internal/platform/id"
	"github.com/ovalbyte/club-ladder/internal/platform/logging"
)

type CreateTournamentInput struct {
	Actor          user.Principal
	Name           string
	Format         string
	Mode           string
	ParticipantIDs []string
}

type SubmitResultInput struct {
	Actor        user.Principal
	TournamentID string
	MatchupID    string
	WinnerID     string
	Score1       int
	Score2       int
}

// TournamentService builds and advances brackets. Tournament results are
// organizational only and never touch ratings or the ledger.
type TournamentService struct {
	playerRepo     player.Repository
	tournamentRepo tournament.Repository
	roles          role.Store
	idGen          idgen.Generator
	logger         *logging.Logger
	now            func() time.Time
}

func NewTournamentService(
	playerRepo player.Repository,
	tournamentRepo tournament.Repository,
	roles role.Store,
	idGen idgen.Generator,
	logger *logging.Logger,
) *TournamentService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &TournamentService{
		playerRepo:     playerRepo,
		tournamentRepo: tournamentRepo,
		roles:          roles,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *TournamentService) List(ctx context.Context) ([]tournament.Tournament, error) {
	items, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	return items, nil
}

func (s *TournamentService) Get(ctx context.Context, tournamentID string) (tournament.Tournament, error) {
	t, ok, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	if !ok {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	return t, nil
}

// Create seeds the field by current rating in the tournament's mode,
// strongest first, and generates the full schedule up front. Administrator
// only.
func (s *TournamentService) Create(ctx context.Context, input CreateTournamentInput) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Create")
	defer span.End()

	if err := requireAdmin(ctx, s.roles, input.Actor); err != nil {
		return tournament.Tournament{}, err
	}

	format, err := tournament.ParseFormat(input.Format)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	mode, err := player.ParseMode(input.Mode)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(input.ParticipantIDs) < 2 {
		return tournament.Tournament{}, fmt.Errorf("%w: a tournament needs at least 2 participants", ErrInvalidInput)
	}
	if dup := firstDuplicate(input.ParticipantIDs); dup != "" {
		return tournament.Tournament{}, fmt.Errorf("%w: duplicate participant %s", ErrInvalidInput, dup)
	}

	seeded, err := s.seedByRating(ctx, input.ParticipantIDs, mode)
	if err != nil {
		return tournament.Tournament{}, err
	}

	tournamentID, err := s.idGen.NewID()
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("generate tournament id: %w", err)
	}

	var rounds []tournament.Round
	switch format {
	case tournament.FormatSingleElimination:
		rounds = tournament.BuildSingleElimination(seeded)
	case tournament.FormatRoundRobin:
		rounds = tournament.BuildRoundRobin(seeded)
	}

	t := tournament.Tournament{
		ID:             tournamentID,
		Name:           input.Name,
		Format:         format,
		Mode:           mode,
		Status:         tournament.StatusActive,
		ParticipantIDs: seeded,
		Rounds:         rounds,
		CreatedAt:      s.now().UTC(),
	}
	if err := t.Validate(); err != nil {
		return tournament.Tournament{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return tournament.Tournament{}, fmt.Errorf("create tournament: %w", err)
	}

	s.logger.InfoContext(ctx, "tournament created",
		"tournament_id", t.ID,
		"format", string(t.Format),
		"players", len(seeded),
	)

	return t, nil
}

// SubmitResult records a matchup outcome and advances the bracket. Allowed
// for administrators and for the two players in the matchup.
func (s *TournamentService) SubmitResult(ctx context.Context, input SubmitResultInput) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.SubmitResult")
	defer span.End()

	t, ok, err := s.tournamentRepo.GetByID(ctx, input.TournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	if !ok {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, input.TournamentID)
	}
	if t.Status == tournament.StatusCompleted {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament is completed", ErrStateConflict)
	}

	if err := s.authorizeResult(ctx, input.Actor, t, input.MatchupID); err != nil {
		return tournament.Tournament{}, err
	}

	if err := t.ApplyResult(input.MatchupID, input.WinnerID, input.Score1, input.Score2); err != nil {
		return tournament.Tournament{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.tournamentRepo.Update(ctx, t); err != nil {
		return tournament.Tournament{}, fmt.Errorf("update tournament: %w", err)
	}

	if t.Status == tournament.StatusCompleted {
		s.logger.InfoContext(ctx, "tournament completed",
			"tournament_id", t.ID,
			"winner_id", t.WinnerID,
		)
	}

	return t, nil
}

func (s *TournamentService) Delete(ctx context.Context, actor user.Principal, tournamentID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Delete")
	defer span.End()

	if err := requireAdmin(ctx, s.roles, actor); err != nil {
		return err
	}

	if err := s.tournamentRepo.Delete(ctx, tournamentID); err != nil {
		return fmt.Errorf("delete tournament: %w", err)
	}

	return nil
}

func (s *TournamentService) authorizeResult(ctx context.Context, actor user.Principal, t tournament.Tournament, matchupID string) error {
	admin, err := isAdmin(ctx, s.roles, actor)
	if err != nil {
		return err
	}
	if admin {
		return nil
	}

	actorPlayer, hasPlayer, err := resolveActorPlayer(ctx, s.playerRepo, actor)
	if err != nil {
		return err
	}
	if hasPlayer {
		if ri, mi, ok := t.FindMatchup(matchupID); ok {
			m := t.Rounds[ri].Matchups[mi]
			if m.Player1ID == actorPlayer.ID || m.Player2ID == actorPlayer.ID {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: only an administrator or a matchup player may submit a result", ErrUnauthorized)
}

// seedByRating orders the field strongest first by rating in the
// tournament's mode. Equal ratings fall back to submission order.
func (s *TournamentService) seedByRating(ctx context.Context, playerIDs []string, mode player.Mode) ([]string, error) {
	type seed struct {
		id     string
		rating int
		pos    int
	}

	seeds := make([]seed, 0, len(playerIDs))
	for i, pid := range playerIDs {
		p, ok, err := s.playerRepo.GetByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("get player %s: %w", pid, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: player=%s", ErrNotFound, pid)
		}
		seeds = append(seeds, seed{id: p.ID, rating: p.StatsFor(mode).Rating, pos: i})
	}

	sort.SliceStable(seeds, func(i, j int) bool {
		if seeds[i].rating != seeds[j].rating {
			return seeds[i].rating > seeds[j].rating
		}
		return seeds[i].pos < seeds[j].pos
	})

	ordered := make([]string, len(seeds))
	for i, sd := range seeds {
		ordered[i] = sd.id
	}

	return ordered, nil
}

func firstDuplicate(ids []string) string {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id
		}
		seen[id] = struct{}{}
	}

	return ""
}
