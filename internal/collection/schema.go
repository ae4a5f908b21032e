package collection

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// enrichmentColumns are added to inventories created before enrichment existed.
var enrichmentColumns = []string{
	"description",
	"cover_date",
	"store_date",
	"writers",
	"pencilers",
	"inkers",
	"colorists",
	"letterers",
	"editors",
	"cover_artists",
	"characters",
	"teams",
	"locations",
	"story_arcs",
	"cover_url",
	"site_detail_url",
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		// New database, or an inventory written before versioning.
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (restore a matching binary or rebuild the inventory with 'comicvault scan')",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	existing := make(map[string]struct{})
	rows, err := tx.QueryContext(ctx, "PRAGMA table_info(comics)")
	if err != nil {
		return fmt.Errorf("inspect comics table: %w", err)
	}
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal any
			pk         int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan table info: %w", err)
		}
		existing[strings.ToLower(name)] = struct{}{}
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("inspect comics table: %w", err)
	}

	for _, column := range enrichmentColumns {
		if _, ok := existing[column]; ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, "ALTER TABLE comics ADD COLUMN "+column+" TEXT"); err != nil {
			return fmt.Errorf("add column %s: %w", column, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
