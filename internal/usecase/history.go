package usecase

import (
	"context"

	"github.com/nixosbrasil/nixpkgs-tracker/internal/domain"
)

// HistoryUseCase implements the per-user lookup history. The owner key
// identifies the session; without one every operation degrades to a
// silent no-op instead of an error, so anonymous requests still get
// well-formed (empty) responses.
type HistoryUseCase struct {
	repo domain.HistoryRepository
}

// NewHistoryUseCase creates a new HistoryUseCase.
func NewHistoryUseCase(repo domain.HistoryRepository) domain.HistoryUseCase {
	return &HistoryUseCase{repo: repo}
}

// List returns the owner's history in insertion order.
func (uc *HistoryUseCase) List(ctx context.Context, owner string) ([]domain.HistoryEntry, error) {
	if owner == "" {
		return []domain.HistoryEntry{}, nil
	}
	return uc.repo.List(ctx, owner)
}

// Save records an entry once per PR number. Saving an already-recorded
// PR again is a no-op: the first title wins.
func (uc *HistoryUseCase) Save(ctx context.Context, owner string, entry domain.HistoryEntry) error {
	if owner == "" || entry.PR <= 0 {
		return nil
	}
	return uc.repo.Insert(ctx, owner, entry)
}

// LookupTitle returns the recorded title for a PR, or "" when the PR
// was never recorded.
func (uc *HistoryUseCase) LookupTitle(ctx context.Context, owner string, pr int) (string, error) {
	if owner == "" {
		return "", nil
	}
	entry, err := uc.repo.Get(ctx, owner, pr)
	if err != nil {
		return "", err
	}
	if entry == nil {
		return "", nil
	}
	return entry.Title, nil
}

// Delete removes a PR from the owner's history.
func (uc *HistoryUseCase) Delete(ctx context.Context, owner string, pr int) error {
	if owner == "" {
		return nil
	}
	return uc.repo.Delete(ctx, owner, pr)
}
