package testsupport

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"comicvault/internal/collection"
	"comicvault/internal/config"
)

// MustOpenStore opens a collection.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *collection.Store {
	t.Helper()

	store, err := collection.Open(cfg)
	if err != nil {
		t.Fatalf("collection.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Seed describes a record to insert for a test. Zero values leave the
// corresponding columns unset.
type Seed struct {
	Path       string
	Size       int64
	Title      string
	Issue      string
	Year       string
	Status     collection.Status
	VolumeID   int64
	IssueID    int64
	VolumeName string
	Publisher  string
	Message    string
	Details    *collection.Details
}

// SeedRecords inserts the seeds in order and returns their ids.
func SeedRecords(t testing.TB, store *collection.Store, seeds ...Seed) []int64 {
	t.Helper()

	ctx := context.Background()
	batch := store.NewBatch(len(seeds) + 1)
	paths := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		name := filepath.Base(seed.Path)
		rec := collection.Record{
			FilePath:    seed.Path,
			FileName:    name,
			FileSize:    seed.Size,
			FileExt:     strings.ToLower(filepath.Ext(name)),
			CleanTitle:  seed.Title,
			IssueNumber: seed.Issue,
			Year:        seed.Year,
		}
		if _, err := batch.InsertPending(ctx, rec); err != nil {
			t.Fatalf("insert %s: %v", seed.Path, err)
		}
		paths = append(paths, seed.Path)
	}
	if err := batch.Commit(ctx); err != nil {
		t.Fatalf("commit seeds: %v", err)
	}

	ids := make([]int64, 0, len(seeds))
	for i, seed := range seeds {
		rec, err := store.GetByPath(ctx, paths[i])
		if err != nil || rec == nil {
			t.Fatalf("lookup seeded %s: %v", paths[i], err)
		}
		ids = append(ids, rec.ID)
		switch seed.Status {
		case collection.StatusIdentified:
			err = batch.MarkIdentified(ctx, rec.ID, collection.Identification{
				VolumeID:   seed.VolumeID,
				IssueID:    seed.IssueID,
				VolumeName: seed.VolumeName,
				Publisher:  seed.Publisher,
			})
		case collection.StatusNotFound:
			err = batch.MarkNotFound(ctx, rec.ID, seed.Message)
		case collection.StatusError:
			err = batch.MarkError(ctx, rec.ID, seed.Message)
		}
		if err != nil {
			t.Fatalf("set status for %s: %v", paths[i], err)
		}
		if seed.Details != nil {
			if err := batch.SaveDetails(ctx, rec.ID, *seed.Details); err != nil {
				t.Fatalf("save details for %s: %v", paths[i], err)
			}
		}
	}
	if err := batch.Commit(ctx); err != nil {
		t.Fatalf("commit seed statuses: %v", err)
	}
	return ids
}
