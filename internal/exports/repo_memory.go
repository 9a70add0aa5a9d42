package exports

import (
	"context"
	"sync"
)

// MemoryRepo stores exports in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Export
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Export)}
}

// Create stores the export.
func (r *MemoryRepo) Create(ctx context.Context, e Export) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[e.ID] = e
	return nil
}

// Get returns an export by ID.
func (r *MemoryRepo) Get(ctx context.Context, exportID string) (Export, error) {
	if err := ctx.Err(); err != nil {
		return Export{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[exportID]
	if !ok {
		return Export{}, ErrNotFound
	}
	return e, nil
}

// GetByID returns an export by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, exportID string) (Export, error) {
	e, err := r.Get(ctx, exportID)
	if err != nil {
		return Export{}, err
	}
	if e.UserID != userID {
		return Export{}, ErrNotFound
	}
	return e, nil
}

// Update replaces a stored export.
func (r *MemoryRepo) Update(ctx context.Context, e Export) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[e.ID]; !ok {
		return ErrNotFound
	}
	r.byID[e.ID] = e
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
