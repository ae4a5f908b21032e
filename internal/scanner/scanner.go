// Package scanner walks a comic library and records every comic file it finds
// as a pending collection record.
package scanner

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"comicvault/internal/collection"
	"comicvault/internal/fileutil"
	"comicvault/internal/filename"
	"comicvault/internal/logging"
	"comicvault/internal/services"
)

const stageName = "scan"

// Options configures a scan.
type Options struct {
	Extensions  []string
	CommitEvery int
	// OnFile is called after each matching file with the running summary.
	OnFile func(Summary)
}

// Summary reports the counters of one scan.
type Summary struct {
	Found       int           `json:"found"`
	Added       int           `json:"added"`
	Skipped     int           `json:"skipped"`
	Failed      int           `json:"failed"`
	Interrupted bool          `json:"interrupted"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Scanner inserts pending records for comic files.
type Scanner struct {
	store  *collection.Store
	logger *slog.Logger
}

// New creates a Scanner.
func New(store *collection.Store, logger *slog.Logger) *Scanner {
	return &Scanner{store: store, logger: logging.NewComponentLogger(logger, "scanner")}
}

// Scan walks root and inserts a pending record for every new comic file.
// Files already catalogued by path are counted as skipped. Inserts are
// committed every CommitEvery additions and once at the end, including when
// ctx is cancelled mid-walk.
func (s *Scanner) Scan(ctx context.Context, root string, opts Options) (Summary, error) {
	start := time.Now()
	summary := Summary{}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return summary, services.Wrap(services.ErrValidation, stageName, "resolve root", root, err)
	}
	logger := logging.WithContext(services.WithStage(ctx, stageName), s.logger)
	logger.Info("scan started",
		logging.String("root", absRoot),
		logging.String(logging.FieldEventType, "stage_start"),
	)

	batch := s.store.NewBatch(opts.CommitEvery)
	walkErr := fileutil.WalkFiles(ctx, absRoot, fileutil.ExtensionSet(opts.Extensions), func(path string, info fs.FileInfo) error {
		summary.Found++
		name := info.Name()
		parsed := filename.Parse(name)
		inserted, err := batch.InsertPending(ctx, collection.Record{
			FilePath:    path,
			FileName:    name,
			FileSize:    info.Size(),
			FileExt:     filename.Extension(name),
			CleanTitle:  parsed.Title,
			IssueNumber: parsed.Issue,
			Year:        parsed.Year,
		})
		if err != nil {
			return err
		}
		if inserted {
			summary.Added++
			if err := batch.Done(ctx); err != nil {
				return err
			}
		} else {
			summary.Skipped++
		}
		if opts.OnFile != nil {
			opts.OnFile(summary)
		}
		return nil
	})

	switch {
	case walkErr == nil:
	case errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded):
		summary.Interrupted = true
	case errors.Is(walkErr, services.ErrPersistence):
		_ = batch.Rollback()
		summary.Elapsed = time.Since(start)
		return summary, walkErr
	default:
		_ = batch.Rollback()
		summary.Elapsed = time.Since(start)
		return summary, services.Wrap(services.ErrValidation, stageName, "walk library", absRoot, walkErr)
	}

	if err := batch.Commit(ctx); err != nil {
		summary.Elapsed = time.Since(start)
		return summary, err
	}
	summary.Elapsed = time.Since(start)
	logger.Info("scan finished",
		logging.Int("found", summary.Found),
		logging.Int("added", summary.Added),
		logging.Int("skipped", summary.Skipped),
		logging.Bool("interrupted", summary.Interrupted),
		logging.Duration("elapsed", summary.Elapsed),
		logging.String(logging.FieldEventType, "stage_complete"),
	)
	return summary, nil
}
