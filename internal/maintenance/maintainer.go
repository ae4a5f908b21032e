package maintenance

import (
	"context"
	"log/slog"

	"comicvault/internal/collection"
	"comicvault/internal/logging"
)

const (
	// DefaultProblemTitleLength is the clean title length above which a title
	// is reported as suspicious.
	DefaultProblemTitleLength = 40
	// MaxProblemTitles caps the problem title report.
	MaxProblemTitles = 50
	// DefaultSizeTolerance is the size difference below which a file is a
	// repair candidate for an orphan.
	DefaultSizeTolerance int64 = 1024

	recleanCommitEvery = 1000
)

// Maintainer runs upkeep operations against one store.
type Maintainer struct {
	store  *collection.Store
	logger *slog.Logger
}

// New creates a Maintainer.
func New(store *collection.Store, logger *slog.Logger) *Maintainer {
	return &Maintainer{store: store, logger: logging.NewComponentLogger(logger, "maintenance")}
}

// ResetFailed returns not_found and error records to pending.
func (m *Maintainer) ResetFailed(ctx context.Context) (int64, error) {
	count, err := m.store.ResetFailed(ctx)
	if err != nil {
		return 0, err
	}
	m.logger.Info("failed records reset", logging.Int64("count", count))
	return count, nil
}
