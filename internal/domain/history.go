package domain

import "context"

// HistoryEntry records one previously looked-up pull request.
type HistoryEntry struct {
	PR          int    `json:"pr"`
	Title       string `json:"title"`
	MergeCommit string `json:"mergeCommit"`
}

// HistoryRepository defines the contract for the per-user lookup
// history. Entries are unique by (owner, pr); Insert is a no-op when
// the entry already exists.
type HistoryRepository interface {
	List(ctx context.Context, owner string) ([]HistoryEntry, error)
	Get(ctx context.Context, owner string, pr int) (*HistoryEntry, error)
	Insert(ctx context.Context, owner string, entry HistoryEntry) error
	Delete(ctx context.Context, owner string, pr int) error
}
