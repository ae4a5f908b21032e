package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"comicvault/internal/collection"
	"comicvault/internal/maintenance"
)

func newMaintainCommand(ctx *commandContext) *cobra.Command {
	maintainCmd := &cobra.Command{
		Use:   "maintain",
		Short: "Re-parse titles and reset failed records",
	}

	maintainCmd.AddCommand(newRecleanCommand(ctx))
	maintainCmd.AddCommand(newProblemsCommand(ctx))
	maintainCmd.AddCommand(newResetFailedCommand(ctx))

	return maintainCmd
}

func newRecleanCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string
	var showChanges bool

	cmd := &cobra.Command{
		Use:   "reclean",
		Short: "Re-run the file name parser over stored records",
		Long: `Parse every stored file name again and rewrite title, issue, and year where
the title changed. Changed records that are not identified return to pending
so the next identify run retries them with the better title.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := collection.Status(strings.TrimSpace(statusFlag))
			if status != "" && !status.Valid() {
				return fmt.Errorf("unknown status %q (want one of %s)", status, statusList())
			}
			return ctx.withWriter(func(s *session) error {
				report, err := maintenance.New(s.store, s.logger).Reclean(runContext(cmd, "reclean"), status)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, report, func() string { return renderReclean(report, showChanges) })
			})
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Only re-clean records in this status")
	cmd.Flags().BoolVar(&showChanges, "show-changes", false, "List every changed title")
	return cmd
}

func renderReclean(r maintenance.RecleanReport, showChanges bool) string {
	summary := fmt.Sprintf("Examined %s records: %s titles changed, %s unchanged",
		formatCount(r.Examined), formatCount(r.Changed), formatCount(r.Unchanged))
	if !showChanges || len(r.Changes) == 0 {
		return summary
	}
	rows := make([][]string, 0, len(r.Changes))
	for _, c := range r.Changes {
		rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.FileName, valueOrDash(c.Before), valueOrDash(c.After), statusLabel(c.Status)})
	}
	return renderTable(tableSpec{
		title:   "Changed titles",
		headers: []string{"ID", "File", "Before", "After", "Status"},
		aligns:  []columnAlignment{alignRight},
		rows:    rows,
	}) + "\n" + summary
}

func newProblemsCommand(ctx *commandContext) *cobra.Command {
	var minLength int

	cmd := &cobra.Command{
		Use:   "problems",
		Short: "List suspiciously long parsed titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *session) error {
				threshold := minLength
				if threshold <= 0 {
					threshold = s.cfg.Maintenance.ProblemTitleLength
				}
				records, err := s.store.All(cmd.Context())
				if err != nil {
					return err
				}
				problems := maintenance.ProblemTitles(records, threshold)
				return ctx.emit(cmd, problems, func() string { return renderProblems(problems, threshold) })
			})
		},
	}

	cmd.Flags().IntVar(&minLength, "min-length", 0, "Title length above which a title is reported (default from config)")
	return cmd
}

func renderProblems(records []collection.Record, threshold int) string {
	if len(records) == 0 {
		return fmt.Sprintf("No titles longer than %d characters.", threshold)
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			strconv.FormatInt(rec.ID, 10),
			strconv.Itoa(utf8.RuneCountInString(rec.CleanTitle)),
			rec.CleanTitle,
			rec.FileName,
		})
	}
	return renderTable(tableSpec{
		title:   fmt.Sprintf("Titles longer than %d characters", threshold),
		headers: []string{"ID", "Length", "Title", "File"},
		aligns:  []columnAlignment{alignRight, alignRight},
		rows:    rows,
	})
}

func newResetFailedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-failed",
		Short: "Return not_found and error records to pending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWriter(func(s *session) error {
				count, err := maintenance.New(s.store, s.logger).ResetFailed(runContext(cmd, "reset"))
				if err != nil {
					return err
				}
				payload := map[string]int64{"reset": count}
				return ctx.emit(cmd, payload, func() string {
					return fmt.Sprintf("Reset %s records to pending.", formatCount(int(count)))
				})
			})
		},
	}
}

func statusList() string {
	statuses := collection.AllStatuses()
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
