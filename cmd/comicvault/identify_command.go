package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"comicvault/internal/identification"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Resolve pending records against Comic Vine",
		Long: `Search Comic Vine for each pending record's series and, when the record has
an issue number, the matching issue. Records end as identified, not_found,
or error. Progress is committed in batches; interrupting keeps everything
processed so far and rerunning resumes with the remaining pending records.

Examples:
  comicvault identify              # every pending record
  comicvault identify --limit 50   # the first 50 by id`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			return ctx.withWriter(func(s *session) error {
				client, err := newCatalogClient(s.cfg, s.logger)
				if err != nil {
					return err
				}
				identifier := identification.New(s.store, client, s.logger,
					identification.WithCommitEvery(s.cfg.Pipeline.CommitEvery))

				progress := newProgressReporter(cmd, "identifying", ctx.jsonOutput())
				summary, err := identifier.Run(runContext(cmd, "identify"), identification.Options{
					Limit:      limit,
					OnProgress: progress.stageProgress,
				})
				progress.finish()
				if err != nil {
					return err
				}
				if err := ctx.emit(cmd, summary, func() string { return renderIdentifySummary(summary) }); err != nil {
					return err
				}
				if summary.Interrupted {
					return context.Canceled
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of pending records to process (0 = all)")
	return cmd
}

func renderIdentifySummary(s identification.Summary) string {
	if s.Selected == 0 {
		return "No pending records."
	}
	var b strings.Builder
	if s.Interrupted {
		fmt.Fprintf(&b, "Interrupted after %s of %s records; progress is saved.\n", formatCount(s.Processed), formatCount(s.Selected))
	}
	b.WriteString(renderTable(tableSpec{
		title:   "Identification",
		headers: []string{"Result", "Records"},
		aligns:  []columnAlignment{alignLeft, alignRight},
		rows: [][]string{
			{"Identified", formatCount(s.Identified)},
			{"  with issue match", formatCount(s.IssueMatches)},
			{"Not found", formatCount(s.NotFound)},
			{"Error", formatCount(s.Errors)},
		},
		footer: []string{"Processed", formatCount(s.Processed)},
	}))
	fmt.Fprintf(&b, "\n%s commits in %s", formatCount(s.Commits), formatElapsed(s.Elapsed))
	return b.String()
}
