package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/rating"
	"github.com/ovalbyte/club-ladder/internal/domain/user"
	"github.com/ovalbyte/club-ladder/internal/infrastructure/repository/memory"
)

func newPlayerFixture(t *testing.T) (*PlayerService, *memory.PlayerRepository, *memory.RatingHistoryRepository) {
	t.Helper()

	playerRepo := memory.NewPlayerRepository()
	historyRepo := memory.NewRatingHistoryRepository()
	roles := memory.NewRoleStore([]string{"acct-admin"})

	svc := NewPlayerService(playerRepo, historyRepo, roles, &seqIDGen{prefix: "player"}, nil)
	svc.now = func() time.Time { return testTime }

	return svc, playerRepo, historyRepo
}

func TestPlayerService_SetupProfile(t *testing.T) {
	svc, _, _ := newPlayerFixture(t)

	actor := user.Principal{AccountID: "acct-1", DisplayName: "Alice", Email: "alice@club.test"}
	p, err := svc.SetupProfile(t.Context(), SetupProfileInput{Actor: actor, DisplayName: "Alice A."})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if p.AccountID != "acct-1" || p.DisplayName != "Alice A." {
		t.Fatalf("unexpected player: %+v", p)
	}
	if p.Singles.Rating != rating.Initial || p.Doubles.Rating != rating.Initial {
		t.Fatalf("new player must start at the baseline: %+v", p)
	}

	// One profile per account.
	if _, err := svc.SetupProfile(t.Context(), SetupProfileInput{Actor: actor}); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}

	me, err := svc.Me(t.Context(), actor)
	if err != nil {
		t.Fatalf("me failed: %v", err)
	}
	if me.ID != p.ID {
		t.Fatalf("unexpected me: %+v", me)
	}
}

func TestPlayerService_SetupProfile_FallsBackToAccountName(t *testing.T) {
	svc, _, _ := newPlayerFixture(t)

	actor := user.Principal{AccountID: "acct-1", DisplayName: "Alice"}
	p, err := svc.SetupProfile(t.Context(), SetupProfileInput{Actor: actor})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if p.DisplayName != "Alice" {
		t.Fatalf("expected account display name, got %q", p.DisplayName)
	}
}

func TestPlayerService_Create_AdminOnly(t *testing.T) {
	svc, _, _ := newPlayerFixture(t)

	guest := user.Principal{AccountID: "acct-guest"}
	if _, err := svc.Create(t.Context(), CreatePlayerInput{Actor: guest, DisplayName: "Walk-in"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	p, err := svc.Create(t.Context(), CreatePlayerInput{Actor: adminPrincipal(), DisplayName: "Walk-in"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if p.IsLinked() {
		t.Fatal("admin-created player must start unlinked")
	}
}

func TestPlayerService_Create_RequiresDisplayName(t *testing.T) {
	svc, _, _ := newPlayerFixture(t)

	if _, err := svc.Create(t.Context(), CreatePlayerInput{Actor: adminPrincipal()}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPlayerService_Delete(t *testing.T) {
	svc, playerRepo, _ := newPlayerFixture(t)
	alice := seedPlayer(t, playerRepo, "alice")

	if err := svc.Delete(t.Context(), principalFor(alice), "alice"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if err := svc.Delete(t.Context(), adminPrincipal(), "alice"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(t.Context(), "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(t.Context(), adminPrincipal(), "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayerService_History_UnknownPlayer(t *testing.T) {
	svc, _, _ := newPlayerFixture(t)

	if _, err := svc.History(t.Context(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
