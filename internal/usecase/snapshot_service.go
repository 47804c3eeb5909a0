package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/challenge"
	"github.com/ovalbyte/club-ladder/internal/domain/match"
	"github.com/ovalbyte/club-ladder/internal/domain/player"
	"github.com/ovalbyte/club-ladder/internal/domain/ratinghistory"
	"github.com/ovalbyte/club-ladder/internal/domain/report"
	"github.com/ovalbyte/club-ladder/internal/domain/season"
	"github.com/ovalbyte/club-ladder/internal/domain/tournament"
	"github.com/ovalbyte/club-ladder/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

// recentWindow caps the match and history slices in a snapshot.
const recentWindow = 50

// Snapshot is a point-in-time view of the whole ladder, shaped for a club
// dashboard: current standings plus the most recent activity.
type Snapshot struct {
	Players         []player.Player
	RecentMatches   []match.Match
	RecentHistory   []ratinghistory.Entry
	OpenReports     []report.Report
	OpenChallenges  []challenge.Challenge
	OpenTournaments []tournament.Tournament
	ActiveSeason    *season.Season
	GeneratedAt     time.Time
}

// SnapshotService assembles dashboard snapshots. Reads across repositories
// are independent and run concurrently.
type SnapshotService struct {
	playerRepo     player.Repository
	matchRepo      match.Repository
	historyRepo    ratinghistory.Repository
	reportRepo     report.Repository
	challengeRepo  challenge.Repository
	tournamentRepo tournament.Repository
	seasonRepo     season.Repository
	reports        *ReportService
	logger         *logging.Logger
	now            func() time.Time
}

func NewSnapshotService(
	playerRepo player.Repository,
	matchRepo match.Repository,
	historyRepo ratinghistory.Repository,
	reportRepo report.Repository,
	challengeRepo challenge.Repository,
	tournamentRepo tournament.Repository,
	seasonRepo season.Repository,
	reports *ReportService,
	logger *logging.Logger,
) *SnapshotService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &SnapshotService{
		playerRepo:     playerRepo,
		matchRepo:      matchRepo,
		historyRepo:    historyRepo,
		reportRepo:     reportRepo,
		challengeRepo:  challengeRepo,
		tournamentRepo: tournamentRepo,
		seasonRepo:     seasonRepo,
		reports:        reports,
		logger:         logger,
		now:            time.Now,
	}
}

// Build sweeps overdue reports first so the snapshot never shows a report
// that should already be a match, then fans out the reads.
func (s *SnapshotService) Build(ctx context.Context) (Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.Build")
	defer span.End()

	if _, err := s.reports.SweepExpired(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("sweep expired reports: %w", err)
	}

	snap := Snapshot{GeneratedAt: s.now().UTC()}

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		players, err := s.playerRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list players: %w", err)
		}
		sort.SliceStable(players, func(i, j int) bool {
			return players[i].Singles.Rating > players[j].Singles.Rating
		})
		snap.Players = players
		return nil
	})
	p.Go(func(ctx context.Context) error {
		matches, err := s.matchRepo.ListRecent(ctx, recentWindow)
		if err != nil {
			return fmt.Errorf("list recent matches: %w", err)
		}
		snap.RecentMatches = matches
		return nil
	})
	p.Go(func(ctx context.Context) error {
		entries, err := s.historyRepo.ListRecent(ctx, recentWindow)
		if err != nil {
			return fmt.Errorf("list recent history: %w", err)
		}
		snap.RecentHistory = entries
		return nil
	})
	p.Go(func(ctx context.Context) error {
		reports, err := s.reportRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list reports: %w", err)
		}
		snap.OpenReports = reports
		return nil
	})
	p.Go(func(ctx context.Context) error {
		challenges, err := s.challengeRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list challenges: %w", err)
		}
		open := challenges[:0]
		for _, c := range challenges {
			if c.Status == challenge.StatusPending || c.Status == challenge.StatusAccepted {
				open = append(open, c)
			}
		}
		snap.OpenChallenges = open
		return nil
	})
	p.Go(func(ctx context.Context) error {
		tournaments, err := s.tournamentRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list tournaments: %w", err)
		}
		open := tournaments[:0]
		for _, t := range tournaments {
			if t.Status == tournament.StatusActive {
				open = append(open, t)
			}
		}
		snap.OpenTournaments = open
		return nil
	})
	p.Go(func(ctx context.Context) error {
		active, ok, err := s.seasonRepo.GetActive(ctx)
		if err != nil {
			return fmt.Errorf("get active season: %w", err)
		}
		if ok {
			snap.ActiveSeason = &active
		}
		return nil
	})

	if err := p.Wait(); err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}
