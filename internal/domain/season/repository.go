package season

import "context"

// Repository describes season persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Season, error)
	GetActive(ctx context.Context) (Season, bool, error)
	NextNumber(ctx context.Context) (int, error)
	Create(ctx context.Context, s Season) error
	Update(ctx context.Context, s Season) error
}
