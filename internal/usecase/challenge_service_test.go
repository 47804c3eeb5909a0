package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/challenge"
	"github.com/ovalbyte/club-ladder/internal/infrastructure/repository/memory"
)

type challengeFixture struct {
	svc           *ChallengeService
	matches       *MatchService
	playerRepo    *memory.PlayerRepository
	challengeRepo *memory.ChallengeRepository
}

func newChallengeFixture(t *testing.T) *challengeFixture {
	t.Helper()

	playerRepo := memory.NewPlayerRepository()
	matchRepo := memory.NewMatchRepository()
	historyRepo := memory.NewRatingHistoryRepository()
	challengeRepo := memory.NewChallengeRepository()
	roles := memory.NewRoleStore([]string{"acct-admin"})
	idGen := &seqIDGen{prefix: "id"}

	matches := NewMatchService(playerRepo, matchRepo, historyRepo, roles, idGen, nil, time.Hour)
	matches.now = func() time.Time { return testTime }

	svc := NewChallengeService(playerRepo, matchRepo, challengeRepo, roles, idGen, nil)
	svc.now = func() time.Time { return testTime }

	return &challengeFixture{
		svc:           svc,
		matches:       matches,
		playerRepo:    playerRepo,
		challengeRepo: challengeRepo,
	}
}

func TestChallengeService_Create_ClampsWager(t *testing.T) {
	fx := newChallengeFixture(t)
	alice := seedPlayer(t, fx.playerRepo, "alice")
	seedPlayer(t, fx.playerRepo, "bob")

	c, err := fx.svc.Create(t.Context(), CreateChallengeInput{
		Actor:        principalFor(alice),
		ChallengedID: "bob",
		Wager:        200,
		Message:      "best of three",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if c.Wager != challenge.MaxWager {
		t.Fatalf("expected wager clamped to %d, got %d", challenge.MaxWager, c.Wager)
	}
	if c.Status != challenge.StatusPending {
		t.Fatalf("expected pending, got %s", c.Status)
	}

	under, err := fx.svc.Create(t.Context(), CreateChallengeInput{
		Actor:        principalFor(alice),
		ChallengedID: "bob",
		Wager:        -5,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if under.Wager != challenge.MinWager {
		t.Fatalf("expected wager clamped to %d, got %d", challenge.MinWager, under.Wager)
	}
}

func TestChallengeService_Create_RejectsSelfChallenge(t *testing.T) {
	fx := newChallengeFixture(t)
	alice := seedPlayer(t, fx.playerRepo, "alice")

	_, err := fx.svc.Create(t.Context(), CreateChallengeInput{
		Actor:        principalFor(alice),
		ChallengedID: "alice",
		Wager:        10,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestChallengeService_Respond_OnlyChallenged(t *testing.T) {
	fx := newChallengeFixture(t)
	alice := seedPlayer(t, fx.playerRepo, "alice")
	bob := seedPlayer(t, fx.playerRepo, "bob")

	c, err := fx.svc.Create(t.Context(), CreateChallengeInput{
		Actor:        principalFor(alice),
		ChallengedID: "bob",
		Wager:        10,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := fx.svc.Respond(t.Context(), principalFor(alice), c.ID, true); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("challenger must not respond, got %v", err)
	}

	accepted, err := fx.svc.Respond(t.Context(), principalFor(bob), c.ID, true)
	if err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if accepted.Status != challenge.StatusAccepted {
		t.Fatalf("expected accepted, got %s", accepted.Status)
	}
	if accepted.RespondedAt == nil {
		t.Fatal("respond must stamp the response time")
	}

	// A settled challenge cannot be answered again.
	if _, err := fx.svc.Respond(t.Context(), principalFor(bob), c.ID, false); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}
}

func TestChallengeService_Respond_Decline(t *testing.T) {
	fx := newChallengeFixture(t)
	alice := seedPlayer(t, fx.playerRepo, "alice")
	bob := seedPlayer(t, fx.playerRepo, "bob")

	c, err := fx.svc.Create(t.Context(), CreateChallengeInput{
		Actor:        principalFor(alice),
		ChallengedID: "bob",
		Wager:        10,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	declined, err := fx.svc.Respond(t.Context(), principalFor(bob), c.ID, false)
	if err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if declined.Status != challenge.StatusDeclined {
		t.Fatalf("expected declined, got %s", declined.Status)
	}
}

func TestChallengeService_Complete_AppliesWagerOnce(t *testing.T) {
	fx := newChallengeFixture(t)
	alice := seedPlayer(t, fx.playerRepo, "alice")
	bob := seedPlayer(t, fx.playerRepo, "bob")

	c, err := fx.svc.Create(t.Context(), CreateChallengeInput{
		Actor:        principalFor(alice),
		ChallengedID: "bob",
		Wager:        20,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := fx.svc.Respond(t.Context(), principalFor(bob), c.ID, true); err != nil {
		t.Fatalf("respond failed: %v", err)
	}

	m, err := fx.matches.Record(t.Context(), RecordMatchInput{
		Actor:       adminPrincipal(),
		Mode:        "singles",
		WinnerIDs:   []string{"alice"},
		LoserIDs:    []string{"bob"},
		ScoreWinner: 21,
		ScoreLoser:  17,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	done, err := fx.svc.Complete(t.Context(), CompleteChallengeInput{
		Actor:       principalFor(alice),
		ChallengeID: c.ID,
		MatchID:     m.ID,
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if done.Status != challenge.StatusCompleted || done.MatchID != m.ID {
		t.Fatalf("unexpected completed challenge: %+v", done)
	}

	// Match delta 16 plus the 20-point wager.
	gotAlice := mustGetPlayer(t, fx.playerRepo, "alice")
	gotBob := mustGetPlayer(t, fx.playerRepo, "bob")
	if gotAlice.Singles.Rating != 1236 {
		t.Fatalf("unexpected winner rating: %d", gotAlice.Singles.Rating)
	}
	if gotBob.Singles.Rating != 1164 {
		t.Fatalf("unexpected loser rating: %d", gotBob.Singles.Rating)
	}

	// Completing twice must not pay out twice.
	if _, err := fx.svc.Complete(t.Context(), CompleteChallengeInput{
		Actor:       principalFor(alice),
		ChallengeID: c.ID,
		MatchID:     m.ID,
	}); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}
	if again := mustGetPlayer(t, fx.playerRepo, "alice"); again.Singles.Rating != 1236 {
		t.Fatalf("wager applied twice: %d", again.Singles.Rating)
	}
}

func TestChallengeService_Complete_DoublesMatchSettlesOnSingles(t *testing.T) {
	fx := newChallengeFixture(t)
	alice := seedPlayer(t, fx.playerRepo, "alice")
	bob := seedPlayer(t, fx.playerRepo, "bob")
	seedPlayer(t, fx.playerRepo, "carol")
	seedPlayer(t, fx.playerRepo, "dave")

	c, err := fx.svc.Create(t.Context(), CreateChallengeInput{
		Actor:        principalFor(alice),
		ChallengedID: "bob",
		Wager:        20,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := fx.svc.Respond(t.Context(), principalFor(bob), c.ID, true); err != nil {
		t.Fatalf("respond failed: %v", err)
	}

	m, err := fx.matches.Record(t.Context(), RecordMatchInput{
		Actor:       adminPrincipal(),
		Mode:        "doubles",
		WinnerIDs:   []string{"alice", "carol"},
		LoserIDs:    []string{"bob", "dave"},
		ScoreWinner: 21,
		ScoreLoser:  17,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if _, err := fx.svc.Complete(t.Context(), CompleteChallengeInput{
		Actor:       principalFor(alice),
		ChallengeID: c.ID,
		MatchID:     m.ID,
	}); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	// The wager is a bet between the two people and lands on the singles
	// track; the doubles track carries only the match delta.
	gotAlice := mustGetPlayer(t, fx.playerRepo, "alice")
	gotBob := mustGetPlayer(t, fx.playerRepo, "bob")
	if gotAlice.Singles.Rating != 1220 {
		t.Fatalf("unexpected winner singles rating: %d", gotAlice.Singles.Rating)
	}
	if gotAlice.Doubles.Rating != 1216 {
		t.Fatalf("wager must not touch the doubles track: %d", gotAlice.Doubles.Rating)
	}
	if gotBob.Singles.Rating != 1180 {
		t.Fatalf("unexpected loser singles rating: %d", gotBob.Singles.Rating)
	}
	if gotBob.Doubles.Rating != 1184 {
		t.Fatalf("wager must not touch the doubles track: %d", gotBob.Doubles.Rating)
	}
}

func TestChallengeService_Complete_FloorsLoserAtZero(t *testing.T) {
	fx := newChallengeFixture(t)
	alice := seedPlayer(t, fx.playerRepo, "alice")
	bob := seedPlayer(t, fx.playerRepo, "bob")
	bob.Singles.Rating = 10
	if err := fx.playerRepo.Update(t.Context(), bob); err != nil {
		t.Fatalf("update player: %v", err)
	}

	c, err := fx.svc.Create(t.Context(), CreateChallengeInput{
		Actor:        principalFor(alice),
		ChallengedID: "bob",
		Wager:        50,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := fx.svc.Respond(t.Context(), principalFor(bob), c.ID, true); err != nil {
		t.Fatalf("respond failed: %v", err)
	}

	m, err := fx.matches.Record(t.Context(), RecordMatchInput{
		Actor:       adminPrincipal(),
		Mode:        "singles",
		WinnerIDs:   []string{"alice"},
		LoserIDs:    []string{"bob"},
		ScoreWinner: 21,
		ScoreLoser:  3,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if _, err := fx.svc.Complete(t.Context(), CompleteChallengeInput{
		Actor:       principalFor(alice),
		ChallengeID: c.ID,
		MatchID:     m.ID,
	}); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	gotBob := mustGetPlayer(t, fx.playerRepo, "bob")
	if gotBob.Singles.Rating != 0 {
		t.Fatalf("loser rating must floor at zero, got %d", gotBob.Singles.Rating)
	}
}

func TestChallengeService_Complete_RejectsUnrelatedMatch(t *testing.T) {
	fx := newChallengeFixture(t)
	alice := seedPlayer(t, fx.playerRepo, "alice")
	bob := seedPlayer(t, fx.playerRepo, "bob")
	seedPlayer(t, fx.playerRepo, "carol")

	c, err := fx.svc.Create(t.Context(), CreateChallengeInput{
		Actor:        principalFor(alice),
		ChallengedID: "bob",
		Wager:        10,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := fx.svc.Respond(t.Context(), principalFor(bob), c.ID, true); err != nil {
		t.Fatalf("respond failed: %v", err)
	}

	m, err := fx.matches.Record(t.Context(), RecordMatchInput{
		Actor:       adminPrincipal(),
		Mode:        "singles",
		WinnerIDs:   []string{"alice"},
		LoserIDs:    []string{"carol"},
		ScoreWinner: 21,
		ScoreLoser:  5,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if _, err := fx.svc.Complete(t.Context(), CompleteChallengeInput{
		Actor:       principalFor(alice),
		ChallengeID: c.ID,
		MatchID:     m.ID,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
