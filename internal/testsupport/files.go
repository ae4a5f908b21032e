package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// WriteFile creates path with exactly size bytes of filler, creating parent
// directories as needed. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{'C'}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteTree creates every relative path in files below root with the mapped
// size and returns the absolute paths in sorted order.
func WriteTree(t testing.TB, root string, files map[string]int64) []string {
	t.Helper()

	paths := make([]string, 0, len(files))
	for rel, size := range files {
		path := filepath.Join(root, rel)
		WriteFile(t, path, size)
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
