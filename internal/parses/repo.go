package parses

import "context"

// Repo defines persistence operations for parses.
type Repo interface {
	Create(ctx context.Context, p Parse) error
	GetByID(ctx context.Context, userID, parseID string) (Parse, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Parse, error)
}
