package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ovalbyte/club-ladder/internal/domain/season"
)

type SeasonRepository struct {
	mu     sync.RWMutex
	items  map[string]season.Season
	orders []string
}

func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{items: make(map[string]season.Season)}
}

func (r *SeasonRepository) List(_ context.Context) ([]season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]season.Season, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, cloneSeason(r.items[id]))
	}

	return out, nil
}

func (r *SeasonRepository) GetActive(_ context.Context) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.orders {
		if s := r.items[id]; s.Status == season.StatusActive {
			return cloneSeason(s), true, nil
		}
	}

	return season.Season{}, false, nil
}

func (r *SeasonRepository) NextNumber(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	next := 1
	for _, s := range r.items {
		if s.Number >= next {
			next = s.Number + 1
		}
	}

	return next, nil
}

func (r *SeasonRepository) Create(_ context.Context, s season.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[s.ID]; ok {
		return fmt.Errorf("season %s already exists", s.ID)
	}

	r.items[s.ID] = cloneSeason(s)
	r.orders = append(r.orders, s.ID)
	return nil
}

func (r *SeasonRepository) Update(_ context.Context, s season.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[s.ID]; !ok {
		return fmt.Errorf("season %s not found", s.ID)
	}

	r.items[s.ID] = cloneSeason(s)
	return nil
}

func cloneSeason(s season.Season) season.Season {
	copied := s
	copied.Standings = append([]season.Standing(nil), s.Standings...)
	if s.EndedAt != nil {
		endedAt := *s.EndedAt
		copied.EndedAt = &endedAt
	}
	return copied
}
