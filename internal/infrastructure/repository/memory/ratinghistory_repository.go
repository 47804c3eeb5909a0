package memory

import (
	"context"
	"sync"

	"github.com/ovalbyte/club-ladder/internal/domain/ratinghistory"
)

type RatingHistoryRepository struct {
	mu      sync.RWMutex
	entries []ratinghistory.Entry
}

func NewRatingHistoryRepository() *RatingHistoryRepository {
	return &RatingHistoryRepository{}
}

func (r *RatingHistoryRepository) ListByPlayer(_ context.Context, playerID string) ([]ratinghistory.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ratinghistory.Entry, 0)
	for _, e := range r.entries {
		if e.PlayerID == playerID {
			out = append(out, e)
		}
	}

	return out, nil
}

func (r *RatingHistoryRepository) ListRecent(_ context.Context, limit int) ([]ratinghistory.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}

	out := make([]ratinghistory.Entry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}

	return out, nil
}

func (r *RatingHistoryRepository) Create(_ context.Context, e ratinghistory.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, e)
	return nil
}

func (r *RatingHistoryRepository) DeleteByMatch(_ context.Context, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.MatchID != matchID {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

func (r *RatingHistoryRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	return nil
}
