package runlock_test

import (
	"errors"
	"path/filepath"
	"testing"

	"comicvault/internal/runlock"
)

func TestAcquireExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "comics.db.lock")

	first, err := runlock.Acquire(path)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if first.Path() != path {
		t.Fatalf("unexpected lock path %q", first.Path())
	}

	if _, err := runlock.Acquire(path); !errors.Is(err, runlock.ErrHeld) {
		t.Fatalf("expected ErrHeld, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("second Release returned error: %v", err)
	}

	second, err := runlock.Acquire(path)
	if err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
	_ = second.Release()
}

func TestAcquireRejectsEmptyPath(t *testing.T) {
	if _, err := runlock.Acquire(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
