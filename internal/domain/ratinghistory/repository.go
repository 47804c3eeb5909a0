package ratinghistory

import "context"

// Repository describes rating-history persistence needs from use cases.
type Repository interface {
	ListByPlayer(ctx context.Context, playerID string) ([]Entry, error)
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
	Create(ctx context.Context, e Entry) error
	DeleteByMatch(ctx context.Context, matchID string) error
	Clear(ctx context.Context) error
}
