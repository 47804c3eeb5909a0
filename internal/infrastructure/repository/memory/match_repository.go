package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ovalbyte/club-ladder/internal/domain/match"
)

type MatchRepository struct {
	mu     sync.RWMutex
	items  map[string]match.Match
	orders []string
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{items: make(map[string]match.Match)}
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, cloneMatch(r.items[id]))
	}

	return out, nil
}

func (r *MatchRepository) ListRecent(_ context.Context, limit int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.orders) {
		limit = len(r.orders)
	}

	out := make([]match.Match, 0, limit)
	for i := len(r.orders) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, cloneMatch(r.items[r.orders[i]]))
	}

	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}

	return cloneMatch(m), true, nil
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[m.ID]; ok {
		return fmt.Errorf("match %s already exists", m.ID)
	}

	r.items[m.ID] = cloneMatch(m)
	r.orders = append(r.orders, m.ID)
	return nil
}

func (r *MatchRepository) Update(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[m.ID]; !ok {
		return fmt.Errorf("match %s not found", m.ID)
	}

	r.items[m.ID] = cloneMatch(m)
	return nil
}

func (r *MatchRepository) Delete(_ context.Context, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[matchID]; !ok {
		return fmt.Errorf("match %s not found", matchID)
	}

	delete(r.items, matchID)
	for i, id := range r.orders {
		if id == matchID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MatchRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items), nil
}

func (r *MatchRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[string]match.Match)
	r.orders = nil
	return nil
}

func cloneMatch(m match.Match) match.Match {
	copied := m
	copied.WinnerIDs = append([]string(nil), m.WinnerIDs...)
	copied.LoserIDs = append([]string(nil), m.LoserIDs...)
	return copied
}
