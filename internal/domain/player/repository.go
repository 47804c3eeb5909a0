package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Player, error)
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	GetByAccountID(ctx context.Context, accountID string) (Player, bool, error)
	Create(ctx context.Context, p Player) error
	Update(ctx context.Context, p Player) error
	Delete(ctx context.Context, playerID string) error
	// ResetAllStats returns every player to the initial rating baseline and
	// zeroes all counters in both modes. Used by season starts.
	ResetAllStats(ctx context.Context, baseline int) error
}
