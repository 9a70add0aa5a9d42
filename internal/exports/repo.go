package exports

import "context"

// Repo defines persistence operations for exports.
type Repo interface {
	Create(ctx context.Context, e Export) error
	// Get loads an export without an ownership check; used by workers.
	Get(ctx context.Context, exportID string) (Export, error)
	GetByID(ctx context.Context, userID, exportID string) (Export, error)
	Update(ctx context.Context, e Export) error
}
