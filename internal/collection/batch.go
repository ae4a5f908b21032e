package collection

import (
	"context"
	"database/sql"
	"fmt"
)

// Batch groups writes into transactions committed every N completed units of
// work. A transaction is opened lazily on the first write, so an idle Batch
// holds no lock. Writes run detached from caller cancellation; callers decide
// between units whether to stop and then call Commit.
type Batch struct {
	store   *Store
	every   int
	tx      *sql.Tx
	done    int
	commits int
}

// NewBatch returns a Batch that commits after every `every` calls to Done.
// Values below one commit after each unit.
func (s *Store) NewBatch(every int) *Batch {
	if every < 1 {
		every = 1
	}
	return &Batch{store: s, every: every}
}

// Commits reports how many transactions the batch has committed.
func (b *Batch) Commits() int {
	return b.commits
}

func (b *Batch) exec(ctx context.Context, operation, query string, args ...any) (sql.Result, error) {
	ctx = context.WithoutCancel(ctx)
	if b.tx == nil {
		var tx *sql.Tx
		err := retryOnBusy(ctx, func() error {
			var beginErr error
			tx, beginErr = b.store.db.BeginTx(ctx, nil)
			return beginErr
		})
		if err != nil {
			return nil, persistenceError("begin batch", err)
		}
		b.tx = tx
	}
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = b.tx.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		return nil, persistenceError(operation, err)
	}
	return res, nil
}

// Done marks one unit of work complete and commits when the cadence is reached.
func (b *Batch) Done(ctx context.Context) error {
	b.done++
	if b.done%b.every != 0 {
		return nil
	}
	return b.Commit(ctx)
}

// Commit flushes the open transaction, if any.
func (b *Batch) Commit(ctx context.Context) error {
	if b.tx == nil {
		return nil
	}
	tx := b.tx
	b.tx = nil
	err := retryOnBusy(context.WithoutCancel(ctx), tx.Commit)
	if err != nil {
		_ = tx.Rollback()
		return persistenceError("commit batch", err)
	}
	b.commits++
	return nil
}

// Rollback discards uncommitted writes.
func (b *Batch) Rollback() error {
	if b.tx == nil {
		return nil
	}
	tx := b.tx
	b.tx = nil
	return tx.Rollback()
}

// InsertPending adds a pending record unless its path is already catalogued.
// It reports whether a row was inserted.
func (b *Batch) InsertPending(ctx context.Context, rec Record) (bool, error) {
	now := timestamp()
	res, err := b.exec(ctx, "insert record",
		`INSERT OR IGNORE INTO comics (file_path, file_name, file_size, file_ext, clean_title, issue_number, year, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.FilePath,
		rec.FileName,
		rec.FileSize,
		nullableString(rec.FileExt),
		nullableString(rec.CleanTitle),
		nullableString(rec.IssueNumber),
		nullableString(rec.Year),
		string(StatusPending),
		now,
		now,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, persistenceError("insert record", err)
	}
	return affected > 0, nil
}

// MarkIdentified attaches the catalog reference and clears any error message.
func (b *Batch) MarkIdentified(ctx context.Context, id int64, ident Identification) error {
	_, err := b.exec(ctx, "mark identified",
		`UPDATE comics SET status = ?, comicvine_volume_id = ?, comicvine_issue_id = ?, volume_name = ?, publisher = ?, error_message = NULL, updated_at = ? WHERE id = ?`,
		string(StatusIdentified),
		nullableID(ident.VolumeID),
		nullableID(ident.IssueID),
		nullableString(ident.VolumeName),
		nullableString(ident.Publisher),
		timestamp(),
		id,
	)
	return err
}

// MarkNotFound records that the catalog had no volume for the record.
func (b *Batch) MarkNotFound(ctx context.Context, id int64, message string) error {
	return b.setStatus(ctx, "mark not found", id, StatusNotFound, message)
}

// MarkError records an unexpected failure against the record.
func (b *Batch) MarkError(ctx context.Context, id int64, message string) error {
	return b.setStatus(ctx, "mark error", id, StatusError, message)
}

func (b *Batch) setStatus(ctx context.Context, operation string, id int64, status Status, message string) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	_, err := b.exec(ctx, operation,
		`UPDATE comics SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		string(status),
		nullableString(message),
		timestamp(),
		id,
	)
	return err
}

// SaveDetails writes every enrichment field in one update. Status is untouched.
func (b *Batch) SaveDetails(ctx context.Context, id int64, d Details) error {
	_, err := b.exec(ctx, "save details",
		`UPDATE comics SET description = ?, cover_date = ?, store_date = ?, writers = ?, pencilers = ?, inkers = ?, colorists = ?, letterers = ?, editors = ?, cover_artists = ?, characters = ?, teams = ?, locations = ?, story_arcs = ?, cover_url = ?, site_detail_url = ?, updated_at = ? WHERE id = ?`,
		nullableString(d.Description),
		nullableString(d.CoverDate),
		nullableString(d.StoreDate),
		nullableString(d.Writers),
		nullableString(d.Pencilers),
		nullableString(d.Inkers),
		nullableString(d.Colorists),
		nullableString(d.Letterers),
		nullableString(d.Editors),
		nullableString(d.CoverArtists),
		nullableString(d.Characters),
		nullableString(d.Teams),
		nullableString(d.Locations),
		nullableString(d.StoryArcs),
		nullableString(d.CoverURL),
		nullableString(d.SiteDetailURL),
		timestamp(),
		id,
	)
	return err
}

// UpdateDerived rewrites the parsed filename fields. With resetStatus the
// record returns to pending and loses its error message.
func (b *Batch) UpdateDerived(ctx context.Context, id int64, d Derived, resetStatus bool) error {
	if resetStatus {
		_, err := b.exec(ctx, "update derived fields",
			`UPDATE comics SET clean_title = ?, issue_number = ?, year = ?, status = ?, error_message = NULL, updated_at = ? WHERE id = ?`,
			nullableString(d.CleanTitle),
			nullableString(d.IssueNumber),
			nullableString(d.Year),
			string(StatusPending),
			timestamp(),
			id,
		)
		return err
	}
	_, err := b.exec(ctx, "update derived fields",
		`UPDATE comics SET clean_title = ?, issue_number = ?, year = ?, updated_at = ? WHERE id = ?`,
		nullableString(d.CleanTitle),
		nullableString(d.IssueNumber),
		nullableString(d.Year),
		timestamp(),
		id,
	)
	return err
}

// UpdatePath points a record at a new file location.
func (b *Batch) UpdatePath(ctx context.Context, id int64, path, name string, size int64) error {
	_, err := b.exec(ctx, "update path",
		`UPDATE comics SET file_path = ?, file_name = ?, file_size = ?, updated_at = ? WHERE id = ?`,
		path,
		name,
		size,
		timestamp(),
		id,
	)
	return err
}

// Delete removes a record.
func (b *Batch) Delete(ctx context.Context, id int64) error {
	_, err := b.exec(ctx, "delete record", `DELETE FROM comics WHERE id = ?`, id)
	return err
}
