package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ovalbyte/club-ladder/internal/domain/player"
)

type PlayerRepository struct {
	mu     sync.RWMutex
	items  map[string]player.Player
	orders []string
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{items: make(map[string]player.Player)}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[playerID]
	if !ok {
		return player.Player{}, false, nil
	}

	return p, true, nil
}

func (r *PlayerRepository) GetByAccountID(_ context.Context, accountID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if accountID == "" {
		return player.Player{}, false, nil
	}
	for _, id := range r.orders {
		if p := r.items[id]; p.AccountID == accountID {
			return p, true, nil
		}
	}

	return player.Player{}, false, nil
}

func (r *PlayerRepository) Create(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[p.ID]; ok {
		return fmt.Errorf("player %s already exists", p.ID)
	}

	r.items[p.ID] = p
	r.orders = append(r.orders, p.ID)
	return nil
}

func (r *PlayerRepository) Update(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[p.ID]; !ok {
		return fmt.Errorf("player %s not found", p.ID)
	}

	r.items[p.ID] = p
	return nil
}

func (r *PlayerRepository) Delete(_ context.Context, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[playerID]; !ok {
		return fmt.Errorf("player %s not found", playerID)
	}

	delete(r.items, playerID)
	for i, id := range r.orders {
		if id == playerID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}
	return nil
}

func (r *PlayerRepository) ResetAllStats(_ context.Context, baseline int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.items {
		p.Singles = player.Stats{Rating: baseline}
		p.Doubles = player.Stats{Rating: baseline}
		r.items[id] = p
	}
	return nil
}
