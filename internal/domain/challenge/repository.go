package challenge

import "context"

// Repository describes challenge persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Challenge, error)
	GetByID(ctx context.Context, challengeID string) (Challenge, bool, error)
	Create(ctx context.Context, c Challenge) error
	Update(ctx context.Context, c Challenge) error
}
