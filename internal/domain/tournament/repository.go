package tournament

import "context"

// Repository describes tournament persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Tournament, error)
	GetByID(ctx context.Context, tournamentID string) (Tournament, bool, error)
	Create(ctx context.Context, t Tournament) error
	Update(ctx context.Context, t Tournament) error
	Delete(ctx context.Context, tournamentID string) error
}
