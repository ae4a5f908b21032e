package collection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Stats returns a count of records grouped by status. Every known status is
// present in the result, with zero when no record has it.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM comics GROUP BY status`)
	if err != nil {
		return nil, persistenceError("collection stats", err)
	}
	defer rows.Close()

	stats := make(map[Status]int, 4)
	for _, status := range AllStatuses() {
		stats[status] = 0
	}
	for rows.Next() {
		var status sql.NullString
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, persistenceError("collection stats", err)
		}
		key := Status(status.String)
		if key == "" {
			key = StatusPending
		}
		stats[key] += count
	}
	return stats, rows.Err()
}

// ResetFailed returns not_found and error records to pending, clearing their
// error messages. It reports how many records changed.
func (s *Store) ResetFailed(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx,
		`UPDATE comics SET status = ?, error_message = NULL, updated_at = ? WHERE status IN (?, ?)`,
		string(StatusPending),
		timestamp(),
		string(StatusNotFound),
		string(StatusError),
	)
	if err != nil {
		return 0, persistenceError("reset failed", err)
	}
	return res.RowsAffected()
}

// DeleteByIDs removes the given records in one statement.
func (s *Store) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	res, err := s.execWithRetry(ctx, `DELETE FROM comics WHERE id IN (`+makePlaceholders(len(ids))+`)`, args...)
	if err != nil {
		return 0, persistenceError("delete records", err)
	}
	return res.RowsAffected()
}

// UpdatePathByID points one record at a new file location outside any batch.
func (s *Store) UpdatePathByID(ctx context.Context, id int64, path, name string, size int64) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE comics SET file_path = ?, file_name = ?, file_size = ?, updated_at = ? WHERE id = ?`,
		path, name, size, timestamp(), id,
	)
	if err != nil {
		return persistenceError("update path", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("record %d not found", id)
	}
	return nil
}

// CheckHealth returns diagnostic information about the collection database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}
	if s.path == "" {
		return health, errors.New("collection database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat collection database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("collection database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping collection database: %w", err)
	}
	health.DatabaseReadable = true

	if err := s.db.QueryRowContext(connCtx, "SELECT version FROM schema_version LIMIT 1").Scan(&health.SchemaVersion); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("read schema version: %w", err)
	}

	rows, err := s.db.QueryContext(connCtx, "PRAGMA table_info(comics)")
	if err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("table info: %w", err)
	}
	defer rows.Close()
	present := make(map[string]struct{})
	for rows.Next() {
		var (
			cid     int
			name    string
			typeStr string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typeStr, &notNull, &dflt, &pk); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("scan table info: %w", err)
		}
		present[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("iterate table info: %w", err)
	}
	for _, col := range strings.Split(recordColumns, ", ") {
		if _, ok := present[col]; !ok {
			health.MissingColumns = append(health.MissingColumns, col)
		}
	}
	sort.Strings(health.MissingColumns)

	if err := s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM comics").Scan(&health.TotalRecords); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("count records: %w", err)
	}

	var integrity string
	if err := s.db.QueryRowContext(connCtx, "PRAGMA integrity_check").Scan(&integrity); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrity, "ok")
	return health, nil
}
