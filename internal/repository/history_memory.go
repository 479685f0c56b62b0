package repository

import (
	"context"
	"sync"

	"github.com/nixosbrasil/nixpkgs-tracker/internal/domain"
)

// MemoryHistoryRepository keeps lookup history in process memory. It is
// the default store when no database is configured, and doubles as the
// swappable fake for tests.
type MemoryHistoryRepository struct {
	mu      sync.RWMutex
	byOwner map[string][]domain.HistoryEntry
}

// NewMemoryHistoryRepository creates an empty in-memory store.
func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{
		byOwner: make(map[string][]domain.HistoryEntry),
	}
}

var _ domain.HistoryRepository = &MemoryHistoryRepository{}

// List returns the owner's entries in insertion order.
func (r *MemoryHistoryRepository) List(ctx context.Context, owner string) ([]domain.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.byOwner[owner]
	out := make([]domain.HistoryEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// Get returns the entry for a PR number or nil when absent.
func (r *MemoryHistoryRepository) Get(ctx context.Context, owner string, pr int) (*domain.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.byOwner[owner] {
		if entry.PR == pr {
			e := entry
			return &e, nil
		}
	}
	return nil, nil
}

// Insert appends an entry unless the PR number is already recorded.
func (r *MemoryHistoryRepository) Insert(ctx context.Context, owner string, entry domain.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byOwner[owner] {
		if existing.PR == entry.PR {
			return nil
		}
	}
	r.byOwner[owner] = append(r.byOwner[owner], entry)
	return nil
}

// Delete removes the entry for a PR number, if present.
func (r *MemoryHistoryRepository) Delete(ctx context.Context, owner string, pr int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.byOwner[owner]
	kept := entries[:0]
	for _, entry := range entries {
		if entry.PR != pr {
			kept = append(kept, entry)
		}
	}
	r.byOwner[owner] = kept
	return nil
}
