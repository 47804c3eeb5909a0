package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ovalbyte/club-ladder/internal/domain/tournament"
)

type TournamentRepository struct {
	mu     sync.RWMutex
	items  map[string]tournament.Tournament
	orders []string
}

func NewTournamentRepository() *TournamentRepository {
	return &TournamentRepository{items: make(map[string]tournament.Tournament)}
}

func (r *TournamentRepository) List(_ context.Context) ([]tournament.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tournament.Tournament, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, cloneTournament(r.items[id]))
	}

	return out, nil
}

func (r *TournamentRepository) GetByID(_ context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[tournamentID]
	if !ok {
		return tournament.Tournament{}, false, nil
	}

	return cloneTournament(t), true, nil
}

func (r *TournamentRepository) Create(_ context.Context, t tournament.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[t.ID]; ok {
		return fmt.Errorf("tournament %s already exists", t.ID)
	}

	r.items[t.ID] = cloneTournament(t)
	r.orders = append(r.orders, t.ID)
	return nil
}

func (r *TournamentRepository) Update(_ context.Context, t tournament.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[t.ID]; !ok {
		return fmt.Errorf("tournament %s not found", t.ID)
	}

	r.items[t.ID] = cloneTournament(t)
	return nil
}

func (r *TournamentRepository) Delete(_ context.Context, tournamentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[tournamentID]; !ok {
		return fmt.Errorf("tournament %s not found", tournamentID)
	}

	delete(r.items, tournamentID)
	for i, id := range r.orders {
		if id == tournamentID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}
	return nil
}

func cloneTournament(t tournament.Tournament) tournament.Tournament {
	copied := t
	copied.ParticipantIDs = append([]string(nil), t.ParticipantIDs...)
	copied.Rounds = make([]tournament.Round, len(t.Rounds))
	for i, round := range t.Rounds {
		copied.Rounds[i] = tournament.Round{
			Number:   round.Number,
			Matchups: append([]tournament.Matchup(nil), round.Matchups...),
		}
	}
	return copied
}
