package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/match"
	"github.com/ovalbyte/club-ladder/internal/domain/player"
	"github.com/ovalbyte/club-ladder/internal/domain/rating"
	"github.com/ovalbyte/club-ladder/internal/domain/ratinghistory"
	"github.com/ovalbyte/club-ladder/internal/domain/role"
	"github.com/ovalbyte/club-ladder/internal/domain/season"
	"github.com/ovalbyte/club-ladder/internal/domain/user"
	idgen "github.com/ovalbyte/club-ladder/internal/platform/id"
	"github.com/ovalbyte/club-ladder/internal/platform/logging"
)

// SeasonService bounds the competitive calendar. Starting a season wipes the
// ledger and resets every player to the baseline; ending one freezes the
// standings forever.
type SeasonService struct {
	playerRepo  player.Repository
	matchRepo   match.Repository
	historyRepo ratinghistory.Repository
	seasonRepo  season.Repository
	roles       role.Store
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewSeasonService(
	playerRepo player.Repository,
	matchRepo match.Repository,
	historyRepo ratinghistory.Repository,
	seasonRepo season.Repository,
	roles role.Store,
	idGen idgen.Generator,
	logger *logging.Logger,
) *SeasonService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &SeasonService{
		playerRepo:  playerRepo,
		matchRepo:   matchRepo,
		historyRepo: historyRepo,
		seasonRepo:  seasonRepo,
		roles:       roles,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *SeasonService) List(ctx context.Context) ([]season.Season, error) {
	items, err := s.seasonRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	return items, nil
}

func (s *SeasonService) Active(ctx context.Context) (season.Season, error) {
	active, ok, err := s.seasonRepo.GetActive(ctx)
	if err != nil {
		return season.Season{}, fmt.Errorf("get active season: %w", err)
	}
	if !ok {
		return season.Season{}, fmt.Errorf("%w: no active season", ErrNotFound)
	}

	return active, nil
}

// Start opens a new season: every player returns to the baseline rating
// with zeroed counters, and the match ledger and rating history are
// cleared. Reports, tournaments and challenges in flight are untouched.
// Administrator only, and rejected while another season is active.
func (s *SeasonService) Start(ctx context.Context, actor user.Principal, name string) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Start")
	defer span.End()

	if err := requireAdmin(ctx, s.roles, actor); err != nil {
		return season.Season{}, err
	}

	if _, active, err := s.seasonRepo.GetActive(ctx); err != nil {
		return season.Season{}, fmt.Errorf("get active season: %w", err)
	} else if active {
		return season.Season{}, fmt.Errorf("%w: a season is already active", ErrStateConflict)
	}

	number, err := s.seasonRepo.NextNumber(ctx)
	if err != nil {
		return season.Season{}, fmt.Errorf("next season number: %w", err)
	}

	seasonID, err := s.idGen.NewID()
	if err != nil {
		return season.Season{}, fmt.Errorf("generate season id: %w", err)
	}

	next := season.Season{
		ID:        seasonID,
		Name:      name,
		Number:    number,
		Status:    season.StatusActive,
		StartedAt: s.now().UTC(),
	}
	if err := next.Validate(); err != nil {
		return season.Season{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.playerRepo.ResetAllStats(ctx, rating.Initial); err != nil {
		return season.Season{}, fmt.Errorf("reset player stats: %w", err)
	}
	if err := s.matchRepo.Clear(ctx); err != nil {
		return season.Season{}, fmt.Errorf("clear match ledger: %w", err)
	}
	if err := s.historyRepo.Clear(ctx); err != nil {
		return season.Season{}, fmt.Errorf("clear rating history: %w", err)
	}

	if err := s.seasonRepo.Create(ctx, next); err != nil {
		return season.Season{}, fmt.Errorf("create season: %w", err)
	}

	s.logger.InfoContext(ctx, "season started",
		"season_id", next.ID,
		"number", next.Number,
	)

	return next, nil
}

// End closes the active season, snapshotting final standings ordered by
// singles rating and crowning the top-ranked player champion.
func (s *SeasonService) End(ctx context.Context, actor user.Principal) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.End")
	defer span.End()

	if err := requireAdmin(ctx, s.roles, actor); err != nil {
		return season.Season{}, err
	}

	active, ok, err := s.seasonRepo.GetActive(ctx)
	if err != nil {
		return season.Season{}, fmt.Errorf("get active season: %w", err)
	}
	if !ok {
		return season.Season{}, fmt.Errorf("%w: no active season", ErrStateConflict)
	}

	standings, err := s.buildStandings(ctx)
	if err != nil {
		return season.Season{}, err
	}

	matchCount, err := s.matchRepo.Count(ctx)
	if err != nil {
		return season.Season{}, fmt.Errorf("count matches: %w", err)
	}

	endedAt := s.now().UTC()
	active.Status = season.StatusCompleted
	active.EndedAt = &endedAt
	active.Standings = standings
	active.MatchCount = matchCount
	if len(standings) > 0 {
		active.ChampionID = standings[0].PlayerID
	}

	if err := s.seasonRepo.Update(ctx, active); err != nil {
		return season.Season{}, fmt.Errorf("update season: %w", err)
	}

	s.logger.InfoContext(ctx, "season ended",
		"season_id", active.ID,
		"champion_id", active.ChampionID,
		"match_count", active.MatchCount,
	)

	return active, nil
}

// buildStandings ranks by singles rating, breaking ties by total wins and
// then player id so the order is stable across backends.
func (s *SeasonService) buildStandings(ctx context.Context) ([]season.Standing, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	sort.Slice(players, func(i, j int) bool {
		a, b := players[i], players[j]
		if a.Singles.Rating != b.Singles.Rating {
			return a.Singles.Rating > b.Singles.Rating
		}
		aw := a.Singles.Wins + a.Doubles.Wins
		bw := b.Singles.Wins + b.Doubles.Wins
		if aw != bw {
			return aw > bw
		}
		return a.ID < b.ID
	})

	standings := make([]season.Standing, 0, len(players))
	for i, p := range players {
		standings = append(standings, season.Standing{
			Rank:          i + 1,
			PlayerID:      p.ID,
			DisplayName:   p.DisplayName,
			SinglesRating: p.Singles.Rating,
			DoublesRating: p.Doubles.Rating,
			Wins:          p.Singles.Wins + p.Doubles.Wins,
			Losses:        p.Singles.Losses + p.Doubles.Losses,
		})
	}

	return standings, nil
}
