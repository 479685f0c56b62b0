package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nixosbrasil/nixpkgs-tracker/internal/domain"
)

// PostgresHistoryRepository persists lookup history in PostgreSQL so it
// survives restarts and follows the user across devices.
type PostgresHistoryRepository struct {
	db *sql.DB
}

// NewPostgresHistoryRepository creates a repository over an open
// database handle.
func NewPostgresHistoryRepository(db *sql.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

var _ domain.HistoryRepository = &PostgresHistoryRepository{}

// List returns the owner's entries in insertion order.
func (r *PostgresHistoryRepository) List(ctx context.Context, owner string) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT pr, title, merge_commit FROM lookup_history WHERE owner = $1 ORDER BY id`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(&entry.PR, &entry.Title, &entry.MergeCommit); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Get returns the entry for a PR number or nil when absent.
func (r *PostgresHistoryRepository) Get(ctx context.Context, owner string, pr int) (*domain.HistoryEntry, error) {
	var entry domain.HistoryEntry
	err := r.db.QueryRowContext(ctx,
		`SELECT pr, title, merge_commit FROM lookup_history WHERE owner = $1 AND pr = $2`,
		owner, pr,
	).Scan(&entry.PR, &entry.Title, &entry.MergeCommit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}
	return &entry, nil
}

// Insert records an entry once per (owner, pr); replays are ignored so
// the first recorded title wins.
func (r *PostgresHistoryRepository) Insert(ctx context.Context, owner string, entry domain.HistoryEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lookup_history (owner, pr, title, merge_commit)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (owner, pr) DO NOTHING`,
		owner, entry.PR, entry.Title, entry.MergeCommit,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// Delete removes the entry for a PR number, if present.
func (r *PostgresHistoryRepository) Delete(ctx context.Context, owner string, pr int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM lookup_history WHERE owner = $1 AND pr = $2`,
		owner, pr,
	)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}
