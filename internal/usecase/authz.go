package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ovalbyte/club-ladder/internal/domain/player"
	"github.com/ovalbyte/club-ladder/internal/domain/role"
	"github.com/ovalbyte/club-ladder/internal/domain/user"
)

// isAdmin queries the role store for the acting principal. Membership is
// checked per call, never cached.
func isAdmin(ctx context.Context, roles role.Store, actor user.Principal) (bool, error) {
	if strings.TrimSpace(actor.AccountID) == "" {
		return false, nil
	}

	admin, err := roles.IsAdmin(ctx, actor.AccountID)
	if err != nil {
		return false, fmt.Errorf("check admin role: %w", err)
	}

	return admin, nil
}

func requireAdmin(ctx context.Context, roles role.Store, actor user.Principal) error {
	admin, err := isAdmin(ctx, roles, actor)
	if err != nil {
		return err
	}
	if !admin {
		return fmt.Errorf("%w: administrator role required", ErrUnauthorized)
	}

	return nil
}

// resolveActorPlayer maps the acting principal to their linked player, if
// one exists. Administrators without a player profile are a valid case.
func resolveActorPlayer(ctx context.Context, players player.Repository, actor user.Principal) (player.Player, bool, error) {
	if strings.TrimSpace(actor.AccountID) == "" {
		return player.Player{}, false, nil
	}

	p, ok, err := players.GetByAccountID(ctx, actor.AccountID)
	if err != nil {
		return player.Player{}, false, fmt.Errorf("resolve actor player: %w", err)
	}

	return p, ok, nil
}
