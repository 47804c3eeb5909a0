package usecase

import (
	"testing"
	"time"

	"github.com/ovalbyte/club-ladder/internal/infrastructure/repository/memory"
)

func TestSnapshotService_Build(t *testing.T) {
	playerRepo := memory.NewPlayerRepository()
	matchRepo := memory.NewMatchRepository()
	historyRepo := memory.NewRatingHistoryRepository()
	reportRepo := memory.NewReportRepository()
	challengeRepo := memory.NewChallengeRepository()
	tournamentRepo := memory.NewTournamentRepository()
	seasonRepo := memory.NewSeasonRepository()
	roles := memory.NewRoleStore([]string{"acct-admin"})
	idGen := &seqIDGen{prefix: "id"}

	matches := NewMatchService(playerRepo, matchRepo, historyRepo, roles, idGen, nil, time.Hour)
	matches.now = func() time.Time { return testTime }
	reports := NewReportService(playerRepo, reportRepo, matches, roles, idGen, nil, 24*time.Hour)
	reports.now = func() time.Time { return testTime }

	svc := NewSnapshotService(playerRepo, matchRepo, historyRepo, reportRepo, challengeRepo, tournamentRepo, seasonRepo, reports, nil)
	svc.now = func() time.Time { return testTime }

	alice := seedPlayer(t, playerRepo, "alice")
	seedPlayer(t, playerRepo, "bob")

	if _, err := matches.Record(t.Context(), RecordMatchInput{
		Actor:       adminPrincipal(),
		Mode:        "singles",
		WinnerIDs:   []string{"alice"},
		LoserIDs:    []string{"bob"},
		ScoreWinner: 21,
		ScoreLoser:  15,
	}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	// An expired report must be promoted during the build, not shown.
	if _, err := reports.Create(t.Context(), CreateReportInput{
		Actor:       principalFor(alice),
		Mode:        "singles",
		WinnerIDs:   []string{"alice"},
		LoserIDs:    []string{"bob"},
		ScoreWinner: 21,
		ScoreLoser:  12,
	}); err != nil {
		t.Fatalf("create report failed: %v", err)
	}
	reports.now = func() time.Time { return testTime.Add(25 * time.Hour) }

	snap, err := svc.Build(t.Context())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if len(snap.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(snap.Players))
	}
	if snap.Players[0].ID != "alice" {
		t.Fatalf("standings must lead with the highest rating, got %s", snap.Players[0].ID)
	}
	if len(snap.RecentMatches) != 2 {
		t.Fatalf("expected 2 matches after sweep, got %d", len(snap.RecentMatches))
	}
	if len(snap.OpenReports) != 0 {
		t.Fatalf("expired report must be swept before the snapshot, got %d", len(snap.OpenReports))
	}
	if snap.ActiveSeason != nil {
		t.Fatal("no active season expected")
	}
	if len(snap.OpenTournaments) != 0 {
		t.Fatalf("no open tournaments expected, got %d", len(snap.OpenTournaments))
	}
	if len(snap.RecentHistory) == 0 {
		t.Fatal("expected rating history entries")
	}
}
