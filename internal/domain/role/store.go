package role

import "context"

// Store answers privileged-role membership questions. Implementations are
// queried on every privileged call and never cached in process memory, so
// revoking an administrator takes effect on the next request.
type Store interface {
	IsAdmin(ctx context.Context, accountID string) (bool, error)
}
