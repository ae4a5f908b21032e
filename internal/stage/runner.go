package stage

import (
	"context"
	"log/slog"
	"time"

	"comicvault/internal/collection"
	"comicvault/internal/logging"
	"comicvault/internal/services"
)

// Progress is reported after each processed record.
type Progress struct {
	Stage  string
	Done   int
	Total  int
	Record collection.Record
}

// RunOptions configures a sequential run over a record selection.
type RunOptions struct {
	Name        string
	CommitEvery int
	OnProgress  func(Progress)
	Logger      *slog.Logger
}

// RunResult summarizes the loop itself; stages add their own counters.
type RunResult struct {
	Processed   int
	Commits     int
	Interrupted bool
	Elapsed     time.Duration
}

// Run feeds records to h one at a time in order. Writes are committed every
// CommitEvery records and once more at the end, including after an
// interruption. Cancellation of ctx is observed between records only: each
// record is processed on a context detached from ctx's cancellation.
func Run(ctx context.Context, store *collection.Store, records []collection.Record, h Handler, opts RunOptions) (RunResult, error) {
	start := time.Now()
	result := RunResult{}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if health := h.HealthCheck(ctx); !health.Ready {
		return result, services.Wrap(services.ErrConfiguration, opts.Name, "health check", health.Detail, nil)
	}
	batch := store.NewBatch(opts.CommitEvery)
	stageCtx := services.WithStage(ctx, opts.Name)
	sampler := logging.NewProgressSampler(10)

	for i, rec := range records {
		if ctx.Err() != nil {
			result.Interrupted = true
			break
		}
		recCtx := services.WithRecordID(context.WithoutCancel(stageCtx), rec.ID)
		if err := h.Process(recCtx, batch, rec); err != nil {
			_ = batch.Rollback()
			result.Commits = batch.Commits()
			result.Elapsed = time.Since(start)
			attrs := []logging.Attr{
				logging.Int64(logging.FieldRecordID, rec.ID),
				logging.Int("processed", result.Processed),
				logging.Error(err),
			}
			if hint := services.Hint(err); hint != "" {
				attrs = append(attrs, logging.String(logging.FieldErrorHint, hint))
			}
			logging.ErrorWithContext(logger, "run aborted", opts.Name+"_aborted", attrs...)
			return result, err
		}
		result.Processed++
		if err := batch.Done(stageCtx); err != nil {
			_ = batch.Rollback()
			result.Commits = batch.Commits()
			result.Elapsed = time.Since(start)
			return result, err
		}
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{Stage: opts.Name, Done: i + 1, Total: len(records), Record: rec})
		}
		if percent := float64(i+1) * 100 / float64(len(records)); sampler.ShouldLog(percent, opts.Name) {
			logger.Info("run progress",
				logging.Int("done", i+1),
				logging.Int("total", len(records)),
				logging.Int("percent", int(percent)),
			)
		}
	}

	if err := batch.Commit(stageCtx); err != nil {
		result.Commits = batch.Commits()
		result.Elapsed = time.Since(start)
		return result, err
	}
	result.Commits = batch.Commits()
	result.Elapsed = time.Since(start)
	if result.Interrupted {
		logging.WarnWithContext(logger, "run interrupted", opts.Name+"_interrupted",
			logging.Int("processed", result.Processed),
			logging.Int("remaining", len(records)-result.Processed),
			logging.String(logging.FieldImpact, "remaining records stay in their current state"),
			logging.String(logging.FieldErrorHint, "rerun the command to resume"),
		)
	}
	return result, nil
}
