package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ovalbyte/club-ladder/internal/domain/challenge"
)

type ChallengeRepository struct {
	mu     sync.RWMutex
	items  map[string]challenge.Challenge
	orders []string
}

func NewChallengeRepository() *ChallengeRepository {
	return &ChallengeRepository{items: make(map[string]challenge.Challenge)}
}

func (r *ChallengeRepository) List(_ context.Context) ([]challenge.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]challenge.Challenge, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, cloneChallenge(r.items[id]))
	}

	return out, nil
}

func (r *ChallengeRepository) GetByID(_ context.Context, challengeID string) (challenge.Challenge, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[challengeID]
	if !ok {
		return challenge.Challenge{}, false, nil
	}

	return cloneChallenge(c), true, nil
}

func (r *ChallengeRepository) Create(_ context.Context, c challenge.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[c.ID]; ok {
		return fmt.Errorf("challenge %s already exists", c.ID)
	}

	r.items[c.ID] = cloneChallenge(c)
	r.orders = append(r.orders, c.ID)
	return nil
}

func (r *ChallengeRepository) Update(_ context.Context, c challenge.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[c.ID]; !ok {
		return fmt.Errorf("challenge %s not found", c.ID)
	}

	r.items[c.ID] = cloneChallenge(c)
	return nil
}

func cloneChallenge(c challenge.Challenge) challenge.Challenge {
	copied := c
	if c.RespondedAt != nil {
		respondedAt := *c.RespondedAt
		copied.RespondedAt = &respondedAt
	}
	if c.CompletedAt != nil {
		completedAt := *c.CompletedAt
		copied.CompletedAt = &completedAt
	}
	return copied
}
