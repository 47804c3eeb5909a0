package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/player"
	"github.com/ovalbyte/club-ladder/internal/domain/rating"
	"github.com/ovalbyte/club-ladder/internal/domain/user"
	"github.com/ovalbyte/club-ladder/internal/infrastructure/repository/memory"
)

var testTime = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

// seqIDGen hands out deterministic ids for assertions.
type seqIDGen struct {
	prefix string
	n      int
}

func (g *seqIDGen) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n), nil
}

func adminPrincipal() user.Principal {
	return user.Principal{AccountID: "acct-admin", DisplayName: "Admin", Email: "admin@club.test"}
}

func principalFor(p player.Player) user.Principal {
	return user.Principal{AccountID: p.AccountID, DisplayName: p.DisplayName}
}

func seedPlayer(t *testing.T, repo *memory.PlayerRepository, id string) player.Player {
	t.Helper()

	baseline := player.Stats{Rating: rating.Initial}
	p := player.Player{
		ID:          id,
		AccountID:   "acct-" + id,
		DisplayName: "Player " + id,
		Singles:     baseline,
		Doubles:     baseline,
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("seed player %s: %v", id, err)
	}

	return p
}

func mustGetPlayer(t *testing.T, repo *memory.PlayerRepository, id string) player.Player {
	t.Helper()

	p, ok, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get player %s: %v", id, err)
	}
	if !ok {
		t.Fatalf("player %s not found", id)
	}

	return p
}
