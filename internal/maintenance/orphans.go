package maintenance

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"comicvault/internal/collection"
	"comicvault/internal/fileutil"
	"comicvault/internal/logging"
	"comicvault/internal/services"
)

// FindOrphans returns the records whose file no longer exists, in storage order.
func (m *Maintainer) FindOrphans(ctx context.Context) ([]collection.Record, error) {
	records, err := m.store.All(ctx)
	if err != nil {
		return nil, err
	}
	var orphans []collection.Record
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !fileutil.Exists(rec.FilePath) {
			orphans = append(orphans, rec)
		}
	}
	return orphans, nil
}

// Fix records one repaired orphan.
type Fix struct {
	ID      int64  `json:"id"`
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
}

// Ambiguity records an orphan with several plausible replacements.
type Ambiguity struct {
	ID         int64    `json:"id"`
	Path       string   `json:"path"`
	Candidates []string `json:"candidates"`
}

// RepairReport summarizes a repair pass.
type RepairReport struct {
	Orphans   int         `json:"orphans"`
	Fixed     []Fix       `json:"fixed"`
	Ambiguous []Ambiguity `json:"ambiguous"`
	Missing   []int64     `json:"missing"`
}

type candidate struct {
	path string
	name string
	size int64
}

// Repair searches root for files replacing orphaned records. A file is a
// candidate when it shares the orphan's extension, differs in size by less
// than tolerance bytes, and is not already catalogued. Exactly one candidate
// repoints the record; several are reported as ambiguous and left alone.
func (m *Maintainer) Repair(ctx context.Context, root string, tolerance int64) (RepairReport, error) {
	var report RepairReport
	if tolerance <= 0 {
		tolerance = DefaultSizeTolerance
	}
	orphans, err := m.FindOrphans(ctx)
	if err != nil {
		return report, err
	}
	report.Orphans = len(orphans)
	if len(orphans) == 0 {
		return report, nil
	}

	records, err := m.store.All(ctx)
	if err != nil {
		return report, err
	}
	catalogued := make(map[string]struct{}, len(records))
	for _, rec := range records {
		catalogued[rec.FilePath] = struct{}{}
	}

	exts := make([]string, 0, len(orphans))
	for _, rec := range orphans {
		exts = append(exts, extensionOf(rec))
	}
	byExt := make(map[string][]candidate)
	err = fileutil.WalkFiles(ctx, root, fileutil.ExtensionSet(exts), func(path string, info fs.FileInfo) error {
		if _, ok := catalogued[path]; ok {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		byExt[ext] = append(byExt[ext], candidate{path: path, name: info.Name(), size: info.Size()})
		return nil
	})
	if err != nil {
		return report, services.Wrap(services.ErrValidation, "maintenance", "walk repair root", root, err)
	}

	claimed := make(map[string]struct{})
	batch := m.store.NewBatch(recleanCommitEvery)
	for _, rec := range orphans {
		var matches []candidate
		for _, c := range byExt[extensionOf(rec)] {
			if _, taken := claimed[c.path]; taken {
				continue
			}
			if absDiff(c.size, rec.FileSize) < tolerance {
				matches = append(matches, c)
			}
		}
		switch len(matches) {
		case 0:
			report.Missing = append(report.Missing, rec.ID)
		case 1:
			match := matches[0]
			if err := batch.UpdatePath(ctx, rec.ID, match.path, match.name, match.size); err != nil {
				_ = batch.Rollback()
				return report, err
			}
			if err := batch.Done(ctx); err != nil {
				_ = batch.Rollback()
				return report, err
			}
			claimed[match.path] = struct{}{}
			report.Fixed = append(report.Fixed, Fix{ID: rec.ID, OldPath: rec.FilePath, NewPath: match.path})
		default:
			paths := make([]string, 0, len(matches))
			for _, c := range matches {
				paths = append(paths, c.path)
			}
			report.Ambiguous = append(report.Ambiguous, Ambiguity{ID: rec.ID, Path: rec.FilePath, Candidates: paths})
		}
	}
	if err := batch.Commit(ctx); err != nil {
		return report, err
	}
	m.logger.Info("path repair finished",
		logging.Int("orphans", report.Orphans),
		logging.Int("fixed", len(report.Fixed)),
		logging.Int("ambiguous", len(report.Ambiguous)),
		logging.Int("missing", len(report.Missing)),
	)
	return report, nil
}

// Prune deletes every orphaned record and reports how many were removed.
func (m *Maintainer) Prune(ctx context.Context) (int64, error) {
	orphans, err := m.FindOrphans(ctx)
	if err != nil {
		return 0, err
	}
	ids := make([]int64, 0, len(orphans))
	for _, rec := range orphans {
		ids = append(ids, rec.ID)
	}
	removed, err := m.store.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	logging.WarnWithContext(m.logger, "orphaned records pruned", "orphans_pruned",
		logging.Int64("removed", removed),
		logging.String(logging.FieldImpact, "records deleted from the collection"),
		logging.String(logging.FieldErrorHint, "rescan the library to catalogue moved files again"),
	)
	return removed, nil
}

// SetPath points record id at path, which must name an existing regular file.
func (m *Maintainer) SetPath(ctx context.Context, id int64, path string) (*collection.Record, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "maintenance", "set path", path, err)
	}
	size, err := fileutil.RegularFileSize(abs)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "maintenance", "set path", "file does not exist", err)
	}
	rec, err := m.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, services.Wrap(services.ErrNotFound, "maintenance", "set path", fmt.Sprintf("record %d not found", id), nil)
	}
	if err := m.store.UpdatePathByID(ctx, id, abs, filepath.Base(abs), size); err != nil {
		return nil, err
	}
	return m.store.GetByID(ctx, id)
}

func extensionOf(rec collection.Record) string {
	if rec.FileExt != "" {
		return strings.ToLower(rec.FileExt)
	}
	return strings.ToLower(filepath.Ext(rec.FileName))
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
