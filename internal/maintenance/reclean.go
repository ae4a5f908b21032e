package maintenance

import (
	"context"
	"fmt"

	"comicvault/internal/collection"
	"comicvault/internal/filename"
	"comicvault/internal/logging"
)

// Change describes one record whose clean title moved under the parser.
type Change struct {
	ID       int64             `json:"id"`
	FileName string            `json:"file_name"`
	Before   string            `json:"before"`
	After    string            `json:"after"`
	Status   collection.Status `json:"status"`
}

// RecleanReport summarizes a re-clean pass.
type RecleanReport struct {
	Examined  int      `json:"examined"`
	Changed   int      `json:"changed"`
	Unchanged int      `json:"unchanged"`
	Changes   []Change `json:"changes"`
}

// Reclean re-parses file names and rewrites the derived fields of every
// record whose clean title changed. Such records return to pending unless
// they are identified. An empty status examines every record.
func (m *Maintainer) Reclean(ctx context.Context, status collection.Status) (RecleanReport, error) {
	var report RecleanReport
	if status != "" && !status.Valid() {
		return report, fmt.Errorf("unknown status %q", status)
	}
	var (
		records []collection.Record
		err     error
	)
	if status == "" {
		records, err = m.store.All(ctx)
	} else {
		records, err = m.store.ListByStatus(ctx, status)
	}
	if err != nil {
		return report, err
	}

	batch := m.store.NewBatch(recleanCommitEvery)
	for _, rec := range records {
		if ctx.Err() != nil {
			break
		}
		report.Examined++
		parsed := filename.Parse(rec.FileName)
		if parsed.Title == rec.CleanTitle {
			report.Unchanged++
			continue
		}
		report.Changed++
		report.Changes = append(report.Changes, Change{
			ID:       rec.ID,
			FileName: rec.FileName,
			Before:   rec.CleanTitle,
			After:    parsed.Title,
			Status:   rec.Status,
		})
		derived := collection.Derived{CleanTitle: parsed.Title, IssueNumber: parsed.Issue, Year: parsed.Year}
		if err := batch.UpdateDerived(ctx, rec.ID, derived, rec.Status != collection.StatusIdentified); err != nil {
			_ = batch.Rollback()
			return report, err
		}
		if err := batch.Done(ctx); err != nil {
			_ = batch.Rollback()
			return report, err
		}
	}
	if err := batch.Commit(ctx); err != nil {
		return report, err
	}
	m.logger.Info("reclean finished",
		logging.Int("examined", report.Examined),
		logging.Int("changed", report.Changed),
		logging.Int("unchanged", report.Unchanged),
	)
	return report, nil
}
