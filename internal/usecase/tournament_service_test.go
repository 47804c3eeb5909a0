package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/tournament"
	"github.com/ovalbyte/club-ladder/internal/infrastructure/repository/memory"
)

func newTournamentFixture(t *testing.T) (*TournamentService, *memory.PlayerRepository) {
	t.Helper()

	playerRepo := memory.NewPlayerRepository()
	tournamentRepo := memory.NewTournamentRepository()
	roles := memory.NewRoleStore([]string{"acct-admin"})

	svc := NewTournamentService(playerRepo, tournamentRepo, roles, &seqIDGen{prefix: "tourney"}, nil)
	svc.now = func() time.Time { return testTime }

	return svc, playerRepo
}

func TestTournamentService_Create_SeedsByRating(t *testing.T) {
	svc, playerRepo := newTournamentFixture(t)
	for id, r := range map[string]int{"alice": 1100, "bob": 1300, "carol": 1200} {
		p := seedPlayer(t, playerRepo, id)
		p.Singles.Rating = r
		if err := playerRepo.Update(t.Context(), p); err != nil {
			t.Fatalf("update player: %v", err)
		}
	}

	created, err := svc.Create(t.Context(), CreateTournamentInput{
		Actor:          adminPrincipal(),
		Name:           "Club Open",
		Format:         "single_elimination",
		Mode:           "singles",
		ParticipantIDs: []string{"alice", "bob", "carol"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	want := []string{"bob", "carol", "alice"}
	for i, id := range want {
		if created.ParticipantIDs[i] != id {
			t.Fatalf("unexpected seeding: got %v want %v", created.ParticipantIDs, want)
		}
	}
	if created.Status != tournament.StatusActive {
		t.Fatalf("expected active, got %s", created.Status)
	}
	// 3 players pad to a 4-slot bracket: 2 rounds, top seed gets the bye.
	if len(created.Rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(created.Rounds))
	}
}

func TestTournamentService_Create_RejectsNonAdmin(t *testing.T) {
	svc, playerRepo := newTournamentFixture(t)
	alice := seedPlayer(t, playerRepo, "alice")
	seedPlayer(t, playerRepo, "bob")

	_, err := svc.Create(t.Context(), CreateTournamentInput{
		Actor:          principalFor(alice),
		Name:           "Club Open",
		Format:         "round_robin",
		Mode:           "singles",
		ParticipantIDs: []string{"alice", "bob"},
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestTournamentService_Create_RejectsDuplicates(t *testing.T) {
	svc, playerRepo := newTournamentFixture(t)
	seedPlayer(t, playerRepo, "alice")
	seedPlayer(t, playerRepo, "bob")

	_, err := svc.Create(t.Context(), CreateTournamentInput{
		Actor:          adminPrincipal(),
		Name:           "Club Open",
		Format:         "round_robin",
		Mode:           "singles",
		ParticipantIDs: []string{"alice", "bob", "alice"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTournamentService_Create_RejectsTinyField(t *testing.T) {
	svc, playerRepo := newTournamentFixture(t)
	seedPlayer(t, playerRepo, "alice")

	for _, ids := range [][]string{nil, {"alice"}} {
		_, err := svc.Create(t.Context(), CreateTournamentInput{
			Actor:          adminPrincipal(),
			Name:           "Club Open",
			Format:         "single_elimination",
			Mode:           "singles",
			ParticipantIDs: ids,
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("field of %d must be rejected, got %v", len(ids), err)
		}
	}
}

func TestTournamentService_SubmitResult_ParticipantAllowed(t *testing.T) {
	svc, playerRepo := newTournamentFixture(t)
	alice := seedPlayer(t, playerRepo, "alice")
	seedPlayer(t, playerRepo, "bob")

	created, err := svc.Create(t.Context(), CreateTournamentInput{
		Actor:          adminPrincipal(),
		Name:           "Club Open",
		Format:         "round_robin",
		Mode:           "singles",
		ParticipantIDs: []string{"alice", "bob"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	matchupID := created.Rounds[0].Matchups[0].ID
	updated, err := svc.SubmitResult(t.Context(), SubmitResultInput{
		Actor:        principalFor(alice),
		TournamentID: created.ID,
		MatchupID:    matchupID,
		WinnerID:     "alice",
		Score1:       21,
		Score2:       18,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if updated.Status != tournament.StatusCompleted {
		t.Fatalf("two-player round robin must complete after one result, got %s", updated.Status)
	}
	if updated.WinnerID != "alice" {
		t.Fatalf("unexpected tournament winner: %s", updated.WinnerID)
	}

	// No further results once completed.
	if _, err := svc.SubmitResult(t.Context(), SubmitResultInput{
		Actor:        adminPrincipal(),
		TournamentID: created.ID,
		MatchupID:    matchupID,
		WinnerID:     "bob",
		Score1:       0,
		Score2:       21,
	}); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}
}

func TestTournamentService_SubmitResult_RejectsOutsider(t *testing.T) {
	svc, playerRepo := newTournamentFixture(t)
	seedPlayer(t, playerRepo, "alice")
	seedPlayer(t, playerRepo, "bob")
	carol := seedPlayer(t, playerRepo, "carol")

	created, err := svc.Create(t.Context(), CreateTournamentInput{
		Actor:          adminPrincipal(),
		Name:           "Club Open",
		Format:         "round_robin",
		Mode:           "singles",
		ParticipantIDs: []string{"alice", "bob"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.SubmitResult(t.Context(), SubmitResultInput{
		Actor:        principalFor(carol),
		TournamentID: created.ID,
		MatchupID:    created.Rounds[0].Matchups[0].ID,
		WinnerID:     "alice",
		Score1:       21,
		Score2:       18,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestTournamentService_Delete_AdminOnly(t *testing.T) {
	svc, playerRepo := newTournamentFixture(t)
	alice := seedPlayer(t, playerRepo, "alice")
	seedPlayer(t, playerRepo, "bob")

	created, err := svc.Create(t.Context(), CreateTournamentInput{
		Actor:          adminPrincipal(),
		Name:           "Club Open",
		Format:         "round_robin",
		Mode:           "singles",
		ParticipantIDs: []string{"alice", "bob"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(t.Context(), principalFor(alice), created.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := svc.Delete(t.Context(), adminPrincipal(), created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(t.Context(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
