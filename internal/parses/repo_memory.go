package parses

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores parses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Parse
	byUser map[string][]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Parse),
		byUser: make(map[string][]string),
	}
}

// Create stores the parse.
func (r *MemoryRepo) Create(ctx context.Context, p Parse) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = p
	r.byUser[p.UserID] = append(r.byUser[p.UserID], p.ID)
	return nil
}

// GetByID returns a parse owned by userID. Parses of other users are
// reported as not found.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, parseID string) (Parse, error) {
	if err := ctx.Err(); err != nil {
		return Parse{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[parseID]
	if !ok || p.UserID != userID {
		return Parse{}, ErrNotFound
	}
	return p, nil
}

// ListByUser returns parses for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Parse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	out := make([]Parse, 0, len(r.byUser[userID]))
	for _, id := range r.byUser[userID] {
		out = append(out, r.byID[id])
	}
	r.mu.RUnlock()

	if offset >= len(out) {
		return []Parse{}, nil
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
