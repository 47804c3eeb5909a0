package report

import "context"

// Repository describes unconfirmed-report persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Report, error)
	GetByID(ctx context.Context, reportID string) (Report, bool, error)
	Create(ctx context.Context, r Report) error
	Update(ctx context.Context, r Report) error
	// Delete removes the report and reports whether this call removed it.
	// Promotion claims a report by deleting it first, so of two racing
	// promoters exactly one observes deleted=true and applies the ledger
	// effect; the other is a no-op.
	Delete(ctx context.Context, reportID string) (bool, error)
}
