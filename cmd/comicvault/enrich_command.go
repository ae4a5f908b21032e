package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"comicvault/internal/enrichment"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var force bool

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Fetch credits, characters, and story arcs for identified issues",
		Long: `Download the full Comic Vine issue record for identified comics that have
an issue id and store descriptions, dates, creator credits, characters,
teams, locations, story arcs, and cover links. Records already enriched are
skipped unless --force is given.`,
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
				enricher := enrichment.New(s.store, client, s.logger,
					enrichment.WithCommitEvery(s.cfg.Pipeline.CommitEvery))

				progress := newProgressReporter(cmd, "enriching", ctx.jsonOutput())
				summary, err := enricher.Run(runContext(cmd, "enrich"), enrichment.Options{
					Limit:      limit,
					Force:      force,
					OnProgress: progress.stageProgress,
				})
				progress.finish()
				if err != nil {
					return err
				}
				if err := ctx.emit(cmd, summary, func() string { return renderEnrichSummary(summary) }); err != nil {
					return err
				}
				if summary.Interrupted {
					return context.Canceled
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of records to enrich (0 = all)")
	cmd.Flags().BoolVar(&force, "force", false, "Refresh records that already have details")
	return cmd
}

func renderEnrichSummary(s enrichment.Summary) string {
	if s.Selected == 0 {
		return "No identified issues need enrichment."
	}
	var b strings.Builder
	if s.Interrupted {
		fmt.Fprintf(&b, "Interrupted after %s of %s records; progress is saved.\n", formatCount(s.Processed), formatCount(s.Selected))
	}
	fmt.Fprintf(&b, "Enriched %s of %s issues", formatCount(s.Enriched), formatCount(s.Processed))
	if s.Errors > 0 {
		fmt.Fprintf(&b, " (%s without details, see log)", formatCount(s.Errors))
	}
	fmt.Fprintf(&b, " in %s", formatElapsed(s.Elapsed))
	return b.String()
}
