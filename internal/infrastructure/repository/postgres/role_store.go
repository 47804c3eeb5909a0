package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// RoleStore answers admin checks from the admin_accounts table. Queried per
// call so a revocation takes effect immediately.
type RoleStore struct {
	db *sqlx.DB
}

func NewRoleStore(db *sqlx.DB) *RoleStore {
	return &RoleStore{db: db}
}

func (s *RoleStore) IsAdmin(ctx context.Context, accountID string) (bool, error) {
	if accountID == "" {
		return false, nil
	}

	var exists bool
	const query = "SELECT EXISTS (SELECT 1 FROM admin_accounts WHERE account_id = $1)"
	if err := s.db.GetContext(ctx, &exists, query, accountID); err != nil {
		return false, fmt.Errorf("check admin account: %w", err)
	}

	return exists, nil
}
