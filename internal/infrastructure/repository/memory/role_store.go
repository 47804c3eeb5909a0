package memory

import (
	"context"
	"sync"
)

// RoleStore is an in-memory admin roster keyed by account id.
type RoleStore struct {
	mu     sync.RWMutex
	admins map[string]struct{}
}

func NewRoleStore(adminAccountIDs []string) *RoleStore {
	admins := make(map[string]struct{}, len(adminAccountIDs))
	for _, id := range adminAccountIDs {
		admins[id] = struct{}{}
	}

	return &RoleStore{admins: admins}
}

func (s *RoleStore) IsAdmin(_ context.Context, accountID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.admins[accountID]
	return ok, nil
}

// Grant adds an account to the admin roster.
func (s *RoleStore) Grant(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.admins[accountID] = struct{}{}
}
