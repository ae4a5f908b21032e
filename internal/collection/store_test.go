package collection_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"comicvault/internal/collection"
	"comicvault/internal/services"
	"comicvault/internal/testsupport"
)

func TestOpenCreatesSchemaAndInsertsPending(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	batch := store.NewBatch(10)
	inserted, err := batch.InsertPending(ctx, collection.Record{
		FilePath:    "/comics/Batman 001 (2016).cbz",
		FileName:    "Batman 001 (2016).cbz",
		FileSize:    2048,
		FileExt:     ".cbz",
		CleanTitle:  "Batman",
		IssueNumber: "1",
		Year:        "2016",
	})
	if err != nil || !inserted {
		t.Fatalf("InsertPending inserted=%v err=%v", inserted, err)
	}
	again, err := batch.InsertPending(ctx, collection.Record{FilePath: "/comics/Batman 001 (2016).cbz", FileName: "dup"})
	if err != nil {
		t.Fatalf("duplicate InsertPending returned error: %v", err)
	}
	if again {
		t.Fatal("expected duplicate path to be ignored")
	}
	if err := batch.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	rec, err := store.GetByPath(ctx, "/comics/Batman 001 (2016).cbz")
	if err != nil || rec == nil {
		t.Fatalf("GetByPath rec=%v err=%v", rec, err)
	}
	if rec.Status != collection.StatusPending || rec.CleanTitle != "Batman" || rec.FileSize != 2048 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.VolumeID != 0 || rec.IssueID != 0 || rec.Description != "" {
		t.Fatalf("expected empty catalog fields, got %+v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be parsed")
	}

	missing, err := store.GetByID(ctx, 9999)
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing id, got %v err=%v", missing, err)
	}
}

func TestBatchCommitsOnCadence(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	batch := store.NewBatch(3)
	for i := 0; i < 7; i++ {
		rec := collection.Record{FilePath: filepath.Join("/comics", string(rune('a'+i))+".cbz"), FileName: "x.cbz"}
		if _, err := batch.InsertPending(ctx, rec); err != nil {
			t.Fatalf("InsertPending failed: %v", err)
		}
		if err := batch.Done(ctx); err != nil {
			t.Fatalf("Done failed: %v", err)
		}
	}
	if got := batch.Commits(); got != 2 {
		t.Fatalf("expected 2 periodic commits, got %d", got)
	}
	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("expected 6 committed records before final commit, got %d", len(all))
	}
	if err := batch.Commit(ctx); err != nil {
		t.Fatalf("final Commit failed: %v", err)
	}
	all, _ = store.All(ctx)
	if len(all) != 7 || batch.Commits() != 3 {
		t.Fatalf("expected 7 records after 3 commits, got %d after %d", len(all), batch.Commits())
	}
}

func TestBatchRollbackDiscardsUncommitted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	batch := store.NewBatch(10)
	if _, err := batch.InsertPending(ctx, collection.Record{FilePath: "/comics/lost.cbz", FileName: "lost.cbz"}); err != nil {
		t.Fatalf("InsertPending failed: %v", err)
	}
	if err := batch.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	rec, err := store.GetByPath(ctx, "/comics/lost.cbz")
	if err != nil || rec != nil {
		t.Fatalf("expected rolled back record to be absent, got %v err=%v", rec, err)
	}
}

func TestTransitionsAndQueries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	ids := testsupport.SeedRecords(t, store,
		testsupport.Seed{Path: "/c/a.cbz", Title: "A"},
		testsupport.Seed{Path: "/c/b.cbz", Title: "B", Status: collection.StatusIdentified, VolumeID: 10, IssueID: 100, VolumeName: "B"},
		testsupport.Seed{Path: "/c/c.cbz", Title: "C", Status: collection.StatusIdentified, VolumeID: 11, VolumeName: "C"},
		testsupport.Seed{Path: "/c/d.cbz", Title: "D", Status: collection.StatusIdentified, VolumeID: 12, IssueID: 120,
			Details: &collection.Details{Description: "already enriched"}},
		testsupport.Seed{Path: "/c/e.cbz", Title: "E", Status: collection.StatusNotFound, Message: collection.NotFoundMessage},
		testsupport.Seed{Path: "/c/f.cbz", Title: "F", Status: collection.StatusError, Message: "boom"},
	)

	pending, err := store.Pending(ctx, 0)
	if err != nil || len(pending) != 1 || pending[0].ID != ids[0] {
		t.Fatalf("unexpected pending %+v err=%v", pending, err)
	}

	candidates, err := store.EnrichmentCandidates(ctx, false, 0)
	if err != nil {
		t.Fatalf("EnrichmentCandidates failed: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ID != ids[1] {
		t.Fatalf("expected only the unenriched issue match, got %+v", candidates)
	}
	forced, err := store.EnrichmentCandidates(ctx, true, 0)
	if err != nil {
		t.Fatalf("forced EnrichmentCandidates failed: %v", err)
	}
	if len(forced) != 2 || forced[0].ID != ids[1] || forced[1].ID != ids[3] {
		t.Fatalf("expected forced selection to include enriched rows, got %+v", forced)
	}
	limited, _ := store.EnrichmentCandidates(ctx, true, 1)
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[collection.StatusPending] != 1 || stats[collection.StatusIdentified] != 3 ||
		stats[collection.StatusNotFound] != 1 || stats[collection.StatusError] != 1 {
		t.Fatalf("unexpected stats: %v", stats)
	}

	reset, err := store.ResetFailed(ctx)
	if err != nil || reset != 2 {
		t.Fatalf("ResetFailed reset=%d err=%v", reset, err)
	}
	rec, _ := store.GetByID(ctx, ids[5])
	if rec.Status != collection.StatusPending || rec.ErrorMessage != "" {
		t.Fatalf("expected reset record, got %+v", rec)
	}

	if err := store.UpdatePathByID(ctx, ids[0], "/moved/a.cbz", "a.cbz", 42); err != nil {
		t.Fatalf("UpdatePathByID failed: %v", err)
	}
	if err := store.UpdatePathByID(ctx, 9999, "/x", "x", 1); err == nil {
		t.Fatal("expected error for unknown id")
	}
	deleted, err := store.DeleteByIDs(ctx, []int64{ids[4], ids[5]})
	if err != nil || deleted != 2 {
		t.Fatalf("DeleteByIDs deleted=%d err=%v", deleted, err)
	}
}

func TestLegacyInventoryGainsEnrichmentColumns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "legacy.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open legacy db: %v", err)
	}
	_, err = db.Exec(`CREATE TABLE comics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_path TEXT UNIQUE NOT NULL,
		file_name TEXT NOT NULL,
		file_size INTEGER,
		file_ext TEXT,
		clean_title TEXT,
		issue_number TEXT,
		year TEXT,
		comicvine_volume_id INTEGER,
		comicvine_issue_id INTEGER,
		volume_name TEXT,
		publisher TEXT,
		status TEXT DEFAULT 'pending',
		error_message TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	INSERT INTO comics (file_path, file_name, clean_title, status) VALUES ('/old/x.cbr', 'x.cbr', 'X', 'identified');`)
	if err != nil {
		t.Fatalf("seed legacy db: %v", err)
	}
	_ = db.Close()

	store, err := collection.OpenPath(dbPath)
	if err != nil {
		t.Fatalf("OpenPath on legacy db: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	all, err := store.All(ctx)
	if err != nil || len(all) != 1 || all[0].CleanTitle != "X" {
		t.Fatalf("unexpected legacy records %+v err=%v", all, err)
	}
	health, err := store.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseExists || !health.IntegrityCheck || len(health.MissingColumns) != 0 || health.TotalRecords != 1 {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestOpenPathRejectsEmptyPath(t *testing.T) {
	_, err := collection.OpenPath(" ")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
