package enrichment

import (
	"context"
	"log/slog"
	"time"

	"comicvault/internal/collection"
	"comicvault/internal/comicvine"
	"comicvault/internal/logging"
	"comicvault/internal/stage"
)

const stageName = "enrich"

// Catalog is the subset of the Comic Vine client used for enrichment.
type Catalog interface {
	IssueDetails(ctx context.Context, issueID int64) (*comicvine.IssueDetail, error)
}

// Enricher runs the enrichment stage.
type Enricher struct {
	store       *collection.Store
	catalog     Catalog
	logger      *slog.Logger
	commitEvery int
}

// Option customizes an Enricher.
type Option func(*Enricher)

// WithCommitEvery sets how many records are processed between commits.
func WithCommitEvery(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.commitEvery = n
		}
	}
}

// New creates an Enricher.
func New(store *collection.Store, catalog Catalog, logger *slog.Logger, opts ...Option) *Enricher {
	e := &Enricher{
		store:       store,
		catalog:     catalog,
		logger:      logging.NewComponentLogger(logger, "enricher"),
		commitEvery: 10,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Options narrows a run.
type Options struct {
	Limit int
	// Force reselects records that already carry a description.
	Force      bool
	OnProgress func(stage.Progress)
}

// Summary reports the counters of one run.
type Summary struct {
	Selected    int           `json:"selected"`
	Processed   int           `json:"processed"`
	Enriched    int           `json:"enriched"`
	Errors      int           `json:"errors"`
	Commits     int           `json:"commits"`
	Interrupted bool          `json:"interrupted"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Candidates returns the records a run with opts would process.
func (e *Enricher) Candidates(ctx context.Context, opts Options) ([]collection.Record, error) {
	return e.store.EnrichmentCandidates(ctx, opts.Force, opts.Limit)
}

// Run enriches identified records in id order.
func (e *Enricher) Run(ctx context.Context, opts Options) (Summary, error) {
	records, err := e.Candidates(ctx, opts)
	if err != nil {
		return Summary{}, err
	}
	logger := logging.WithContext(ctx, e.logger)
	logger.Info("enrichment started",
		logging.Int("selected", len(records)),
		logging.Bool("force", opts.Force),
		logging.String(logging.FieldEventType, "stage_start"),
	)

	handler := &runHandler{enricher: e}
	res, err := stage.Run(ctx, e.store, records, handler, stage.RunOptions{
		Name:        stageName,
		CommitEvery: e.commitEvery,
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

	logger.Info("enrichment finished",
		logging.Int("processed", summary.Processed),
		logging.Int("enriched", summary.Enriched),
		logging.Int("errors", summary.Errors),
		logging.Duration("elapsed", summary.Elapsed),
		logging.String(logging.FieldEventType, "stage_complete"),
	)
	return summary, nil
}

// HealthCheck reports whether the enricher has its dependencies.
func (e *Enricher) HealthCheck(context.Context) stage.Health {
	switch {
	case e.store == nil:
		return stage.Unhealthy(stageName, "collection store unavailable")
	case e.catalog == nil:
		return stage.Unhealthy(stageName, "comic vine client unavailable")
	default:
		return stage.Healthy(stageName)
	}
}

type runHandler struct {
	enricher *Enricher
	summary  Summary
}

func (h *runHandler) Process(ctx context.Context, batch *collection.Batch, rec collection.Record) error {
	logger := logging.WithContext(ctx, h.enricher.logger)
	detail, err := h.enricher.catalog.IssueDetails(ctx, rec.IssueID)
	if err != nil || detail == nil {
		// The record keeps its state so the next run picks it up again.
		h.summary.Errors++
		attrs := []logging.Attr{
			logging.Int64("issue_id", rec.IssueID),
			logging.String("volume_name", rec.VolumeName),
			logging.String(logging.FieldImpact, "record left unchanged"),
			logging.String(logging.FieldErrorHint, "rerun 'comicvault enrich' later"),
		}
		if err != nil {
			attrs = append(attrs, logging.Error(err))
		}
		logging.WarnWithContext(logger, "issue details unavailable", "enrich_record_failed", attrs...)
		return nil
	}

	details := BuildDetails(*detail)
	if err := batch.SaveDetails(ctx, rec.ID, details); err != nil {
		return err
	}
	h.summary.Enriched++
	logger.Info("record enriched",
		logging.String("volume_name", rec.VolumeName),
		logging.String("issue_number", rec.IssueNumber),
		logging.Bool("has_description", details.Description != ""),
	)
	return nil
}

func (h *runHandler) HealthCheck(ctx context.Context) stage.Health {
	return h.enricher.HealthCheck(ctx)
}
