package identification

import (
	"context"
	"log/slog"
	"time"

	"comicvault/internal/collection"
	"comicvault/internal/comicvine"
	"comicvault/internal/logging"
	"comicvault/internal/stage"
)

const stageName = "identify"

// Catalog is the subset of the Comic Vine client used for identification.
type Catalog interface {
	SearchVolumes(ctx context.Context, query string) ([]comicvine.Volume, error)
	VolumeIssues(ctx context.Context, volumeID int64) ([]comicvine.Issue, error)
}

// Identifier runs the identification stage.
type Identifier struct {
	store       *collection.Store
	catalog     Catalog
	logger      *slog.Logger
	commitEvery int
}

// Option customizes an Identifier.
type Option func(*Identifier)

// WithCommitEvery sets how many records are processed between commits.
func WithCommitEvery(n int) Option {
	return func(i *Identifier) {
		if n > 0 {
			i.commitEvery = n
		}
	}
}

// New creates an Identifier.
func New(store *collection.Store, catalog Catalog, logger *slog.Logger, opts ...Option) *Identifier {
	i := &Identifier{
		store:       store,
		catalog:     catalog,
		logger:      logging.NewComponentLogger(logger, "identifier"),
		commitEvery: 10,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Options narrows a run.
type Options struct {
	// Limit caps the number of pending records selected; zero means all.
	Limit      int
	OnProgress func(stage.Progress)
}

// Summary reports the counters of one run.
type Summary struct {
	Selected     int           `json:"selected"`
	Processed    int           `json:"processed"`
	Identified   int           `json:"identified"`
	NotFound     int           `json:"not_found"`
	Errors       int           `json:"errors"`
	IssueMatches int           `json:"issue_matches"`
	Commits      int           `json:"commits"`
	Interrupted  bool          `json:"interrupted"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Run identifies pending records in id order.
func (i *Identifier) Run(ctx context.Context, opts Options) (Summary, error) {
	records, err := i.store.Pending(ctx, opts.Limit)
	if err != nil {
		return Summary{}, err
	}
	logger := logging.WithContext(ctx, i.logger)
	logger.Info("identification started",
		logging.Int("selected", len(records)),
		logging.Int("limit", opts.Limit),
		logging.String(logging.FieldEventType, "stage_start"),
	)

	handler := &runHandler{identifier: i}
	res, err := stage.Run(ctx, i.store, records, handler, stage.RunOptions{
		Name:        stageName,
		CommitEvery: i.commitEvery,
		OnProgress:  opts.OnProgress,
		Logger:      logger,
	})
	summary := handler.summary
	summary.Selected = len(records)
	summary.Processed = res.Processed
	summary.Commits = res.Commits
	summary.Interrupted = res.Interrupted
	summary.Elapsed = res.Elapsed
	if err != nil {
		return summary, err
	}

	logger.Info("identification finished",
		logging.Int("processed", summary.Processed),
		logging.Int("identified", summary.Identified),
		logging.Int("not_found", summary.NotFound),
		logging.Int("errors", summary.Errors),
		logging.Int("issue_matches", summary.IssueMatches),
		logging.Duration("elapsed", summary.Elapsed),
		logging.String(logging.FieldEventType, "stage_complete"),
	)
	return summary, nil
}

// HealthCheck reports whether the identifier has its dependencies.
func (i *Identifier) HealthCheck(context.Context) stage.Health {
	switch {
	case i.store == nil:
		return stage.Unhealthy(stageName, "collection store unavailable")
	case i.catalog == nil:
		return stage.Unhealthy(stageName, "comic vine client unavailable")
	default:
		return stage.Healthy(stageName)
	}
}

type runHandler struct {
	identifier *Identifier
	summary    Summary
}

func (h *runHandler) Process(ctx context.Context, batch *collection.Batch, rec collection.Record) error {
	outcome := h.identifier.Resolve(ctx, rec)
	logger := logging.WithContext(ctx, h.identifier.logger)

	var err error
	switch outcome.Status {
	case collection.StatusIdentified:
		err = batch.MarkIdentified(ctx, rec.ID, outcome.Identification)
		h.summary.Identified++
		if outcome.IssueMatched() {
			h.summary.IssueMatches++
		}
		logger.Info("record identified",
			logging.String("clean_title", rec.CleanTitle),
			logging.String("volume_name", outcome.Identification.VolumeName),
			logging.Int64("volume_id", outcome.Identification.VolumeID),
			logging.Bool("issue_matched", outcome.IssueMatched()),
		)
	case collection.StatusNotFound:
		err = batch.MarkNotFound(ctx, rec.ID, outcome.Message)
		h.summary.NotFound++
		logger.Info("volume not found", logging.String("clean_title", rec.CleanTitle))
	default:
		err = batch.MarkError(ctx, rec.ID, outcome.Message)
		h.summary.Errors++
		logging.WarnWithContext(logger, "identification failed", "identify_record_failed",
			logging.String("clean_title", rec.CleanTitle),
			logging.String("error_message", outcome.Message),
			logging.String(logging.FieldImpact, "record marked error"),
			logging.String(logging.FieldErrorHint, "run 'comicvault maintain reset-failed' to retry"),
		)
	}
	return err
}

func (h *runHandler) HealthCheck(ctx context.Context) stage.Health {
	return h.identifier.HealthCheck(ctx)
}
