package match

import "context"

// Repository describes ledger persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Match, error)
	ListRecent(ctx context.Context, limit int) ([]Match, error)
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	Create(ctx context.Context, m Match) error
	Update(ctx context.Context, m Match) error
	Delete(ctx context.Context, matchID string) error
	Count(ctx context.Context) (int, error)
	// Clear removes every match. Used by season starts together with the
	// rating-history clear.
	Clear(ctx context.Context) error
}
