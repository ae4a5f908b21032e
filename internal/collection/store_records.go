package collection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetByID fetches a record by id. It returns nil without error when absent.
func (s *Store) GetByID(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM comics WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("get record", err)
	}
	return &rec, nil
}

// GetByPath fetches a record by file path. It returns nil without error when absent.
func (s *Store) GetByPath(ctx context.Context, path string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM comics WHERE file_path = ?`, path)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("get record by path", err)
	}
	return &rec, nil
}

// All returns every record in storage order.
func (s *Store) All(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM comics ORDER BY id`)
	if err != nil {
		return nil, persistenceError("list records", err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, persistenceError("list records", err)
	}
	return records, nil
}

// ListByStatus returns records in any of the given statuses, in storage order.
func (s *Store) ListByStatus(ctx context.Context, statuses ...Status) ([]Record, error) {
	if len(statuses) == 0 {
		return s.All(ctx)
	}
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = string(status)
	}
	query := `SELECT ` + recordColumns + ` FROM comics WHERE status IN (` + makePlaceholders(len(statuses)) + `) ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceError("list records by status", err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, persistenceError("list records by status", err)
	}
	return records, nil
}

// Pending returns the records awaiting identification ordered by id. A limit
// of zero or less selects all of them.
func (s *Store) Pending(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM comics WHERE status = ? ORDER BY id`
	args := []any{string(StatusPending)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceError("select pending", err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, persistenceError("select pending", err)
	}
	return records, nil
}

// EnrichmentCandidates returns identified records with an issue id. Unless
// force is set, records that already carry a description are skipped.
func (s *Store) EnrichmentCandidates(ctx context.Context, force bool, limit int) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM comics WHERE status = ? AND comicvine_issue_id IS NOT NULL AND comicvine_issue_id > 0`
	if !force {
		query += ` AND (description IS NULL OR description = '')`
	}
	query += ` ORDER BY id`
	args := []any{string(StatusIdentified)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceError("select enrichment candidates", err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, persistenceError("select enrichment candidates", err)
	}
	return records, nil
}

// CountEnriched returns how many records carry a description.
func (s *Store) CountEnriched(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM comics WHERE description IS NOT NULL AND description != ''`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count enriched: %w", err)
	}
	return count, nil
}
