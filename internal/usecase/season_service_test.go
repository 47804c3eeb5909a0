package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/rating"
	"github.com/ovalbyte/club-ladder/internal/infrastructure/repository/memory"
)

type seasonFixture struct {
	svc         *SeasonService
	matches     *MatchService
	playerRepo  *memory.PlayerRepository
	matchRepo   *memory.MatchRepository
	historyRepo *memory.RatingHistoryRepository
	seasonRepo  *memory.SeasonRepository
}

func newSeasonFixture(t *testing.T) *seasonFixture {
	t.Helper()

	playerRepo := memory.NewPlayerRepository()
	matchRepo := memory.NewMatchRepository()
	historyRepo := memory.NewRatingHistoryRepository()
	seasonRepo := memory.NewSeasonRepository()
	roles := memory.NewRoleStore([]string{"acct-admin"})
	idGen := &seqIDGen{prefix: "id"}

	matches := NewMatchService(playerRepo, matchRepo, historyRepo, roles, idGen, nil, time.Hour)
	matches.now = func() time.Time { return testTime }

	svc := NewSeasonService(playerRepo, matchRepo, historyRepo, seasonRepo, roles, idGen, nil)
	svc.now = func() time.Time { return testTime }

	return &seasonFixture{
		svc:         svc,
		matches:     matches,
		playerRepo:  playerRepo,
		matchRepo:   matchRepo,
		historyRepo: historyRepo,
		seasonRepo:  seasonRepo,
	}
}

func TestSeasonService_Start_ResetsLadder(t *testing.T) {
	fx := newSeasonFixture(t)
	seedPlayer(t, fx.playerRepo, "alice")
	seedPlayer(t, fx.playerRepo, "bob")

	if _, err := fx.matches.Record(t.Context(), RecordMatchInput{
		Actor:       adminPrincipal(),
		Mode:        "singles",
		WinnerIDs:   []string{"alice"},
		LoserIDs:    []string{"bob"},
		ScoreWinner: 21,
		ScoreLoser:  15,
	}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	s, err := fx.svc.Start(t.Context(), adminPrincipal(), "Spring 2026")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if s.Number != 1 {
		t.Fatalf("expected season number 1, got %d", s.Number)
	}

	alice := mustGetPlayer(t, fx.playerRepo, "alice")
	if alice.Singles.Rating != rating.Initial || alice.Singles.Wins != 0 || alice.Singles.Streak != 0 {
		t.Fatalf("player stats not reset: %+v", alice.Singles)
	}
	if n, _ := fx.matchRepo.Count(t.Context()); n != 0 {
		t.Fatalf("ledger not cleared, %d matches remain", n)
	}
	entries, _ := fx.historyRepo.ListRecent(t.Context(), 10)
	if len(entries) != 0 {
		t.Fatalf("history not cleared, %d entries remain", len(entries))
	}
}

func TestSeasonService_Start_RejectsSecondActive(t *testing.T) {
	fx := newSeasonFixture(t)

	if _, err := fx.svc.Start(t.Context(), adminPrincipal(), "Spring 2026"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := fx.svc.Start(t.Context(), adminPrincipal(), "Summer 2026"); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}
}

func TestSeasonService_Start_RejectsNonAdmin(t *testing.T) {
	fx := newSeasonFixture(t)
	alice := seedPlayer(t, fx.playerRepo, "alice")

	if _, err := fx.svc.Start(t.Context(), principalFor(alice), "Spring 2026"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSeasonService_End_SnapshotsStandings(t *testing.T) {
	fx := newSeasonFixture(t)
	seedPlayer(t, fx.playerRepo, "alice")
	seedPlayer(t, fx.playerRepo, "bob")
	seedPlayer(t, fx.playerRepo, "carol")

	if _, err := fx.svc.Start(t.Context(), adminPrincipal(), "Spring 2026"); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if _, err := fx.matches.Record(t.Context(), RecordMatchInput{
		Actor:       adminPrincipal(),
		Mode:        "singles",
		WinnerIDs:   []string{"bob"},
		LoserIDs:    []string{"alice"},
		ScoreWinner: 21,
		ScoreLoser:  15,
	}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	ended, err := fx.svc.End(t.Context(), adminPrincipal())
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}

	if ended.ChampionID != "bob" {
		t.Fatalf("expected bob as champion, got %s", ended.ChampionID)
	}
	if ended.MatchCount != 1 {
		t.Fatalf("expected match count 1, got %d", ended.MatchCount)
	}
	if ended.EndedAt == nil {
		t.Fatal("ended season must carry an end time")
	}
	if len(ended.Standings) != 3 {
		t.Fatalf("expected 3 standings, got %d", len(ended.Standings))
	}
	if ended.Standings[0].PlayerID != "bob" || ended.Standings[0].Rank != 1 {
		t.Fatalf("unexpected top standing: %+v", ended.Standings[0])
	}
	if ended.Standings[0].SinglesRating != 1216 {
		t.Fatalf("unexpected champion rating: %d", ended.Standings[0].SinglesRating)
	}

	// No active season remains.
	if _, err := fx.svc.End(t.Context(), adminPrincipal()); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}
}

func TestSeasonService_NumbersIncrement(t *testing.T) {
	fx := newSeasonFixture(t)

	if _, err := fx.svc.Start(t.Context(), adminPrincipal(), "Spring 2026"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := fx.svc.End(t.Context(), adminPrincipal()); err != nil {
		t.Fatalf("end failed: %v", err)
	}

	s, err := fx.svc.Start(t.Context(), adminPrincipal(), "Summer 2026")
	if err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	if s.Number != 2 {
		t.Fatalf("expected season number 2, got %d", s.Number)
	}
}
