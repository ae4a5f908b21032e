package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"comicvault/internal/analysis"
	"comicvault/internal/collection"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Read-only reports over the inventory",
	}

	analyzeCmd.AddCommand(newAnalyzeStatsCommand(ctx))
	analyzeCmd.AddCommand(newAnalyzeDuplicatesCommand(ctx))
	analyzeCmd.AddCommand(newAnalyzeGapsCommand(ctx))
	analyzeCmd.AddCommand(newAnalyzeSearchCommand(ctx))
	analyzeCmd.AddCommand(newAnalyzeNotFoundCommand(ctx))

	return analyzeCmd
}

func newAnalyzeStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Status, publisher, series, year, and format breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *session) error {
				records, err := s.store.All(cmd.Context())
				if err != nil {
					return err
				}
				summary := analysis.Summarize(records)
				return ctx.emit(cmd, summary, func() string { return renderStats(summary) })
			})
		},
	}
}

func renderStats(s analysis.Summary) string {
	if s.Total == 0 {
		return "The inventory is empty."
	}
	sections := []string{
		fmt.Sprintf("%s comics, %s on disk, %s enriched", formatCount(s.Total), formatBytes(s.TotalBytes), formatCount(s.Enriched)),
	}
	statusRows := make([][]string, 0, len(s.Statuses))
	for _, sc := range s.Statuses {
		statusRows = append(statusRows, []string{statusLabel(sc.Status), formatCount(sc.Count), formatPercent(sc.Percent)})
	}
	sections = append(sections, renderTable(tableSpec{
		title:   "Status",
		headers: []string{"Status", "Count", "Share"},
		aligns:  []columnAlignment{alignLeft, alignRight, alignRight},
		rows:    statusRows,
	}))
	for _, part := range []struct {
		title  string
		label  string
		counts []analysis.Count
	}{
		{"Top publishers", "Publisher", s.Publishers},
		{"Top series", "Series", s.Series},
		{"Years", "Year", s.Years},
		{"Formats", "Format", s.Formats},
	} {
		if len(part.counts) == 0 {
			continue
		}
		sections = append(sections, renderCounts(part.title, part.label, part.counts))
	}
	return strings.Join(sections, "\n\n")
}

func renderCounts(title, label string, counts []analysis.Count) string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{valueOrDash(c.Name), formatCount(c.Count)})
	}
	return renderTable(tableSpec{
		title:   title,
		headers: []string{label, "Count"},
		aligns:  []columnAlignment{alignLeft, alignRight},
		rows:    rows,
	})
}

func newAnalyzeDuplicatesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates",
		Short: "Files that resolve to the same series and issue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *session) error {
				records, err := s.store.All(cmd.Context())
				if err != nil {
					return err
				}
				groups := analysis.Duplicates(records)
				return ctx.emit(cmd, groups, func() string { return renderDuplicates(groups) })
			})
		},
	}
}

func renderDuplicates(groups []analysis.DuplicateGroup) string {
	if len(groups) == 0 {
		return "No duplicates found."
	}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{g.Series, "#" + g.Issue, strconv.Itoa(g.Count), strings.Join(g.Files, "\n")})
	}
	return renderTable(tableSpec{
		title:   fmt.Sprintf("Duplicates (%d groups)", len(groups)),
		headers: []string{"Series", "Issue", "Copies", "Files"},
		aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
		rows:    rows,
	})
}

func newAnalyzeGapsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "gaps",
		Short: "Missing issue numbers in the largest identified series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *session) error {
				records, err := s.store.ListByStatus(cmd.Context(), collection.StatusIdentified)
				if err != nil {
					return err
				}
				series := analysis.Gaps(records)
				return ctx.emit(cmd, series, func() string { return renderGaps(series) })
			})
		},
	}
}

func renderGaps(series []analysis.SeriesGaps) string {
	if len(series) == 0 {
		return "No gaps found."
	}
	rows := make([][]string, 0, len(series))
	for _, s := range series {
		missing := 0
		spans := make([]string, 0, len(s.Gaps))
		for _, g := range s.Gaps {
			missing += g.MissingCount()
			spans = append(spans, formatGap(g))
		}
		rows = append(rows, []string{
			s.Series,
			fmt.Sprintf("#%d-#%d", s.First, s.Last),
			formatCount(s.Records),
			formatCount(missing),
			strings.Join(spans, ", "),
		})
	}
	return renderTable(tableSpec{
		title:   "Missing issues",
		headers: []string{"Series", "Range", "Owned", "Missing", "Gaps"},
		aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
		rows:    rows,
	})
}

func formatGap(g analysis.Gap) string {
	first, last := g.After+1, g.Before-1
	if first == last {
		return fmt.Sprintf("#%d", first)
	}
	return fmt.Sprintf("#%d-#%d", first, last)
}

func newAnalyzeSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find records by file name, title, or series",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return fmt.Errorf("search query must not be empty")
			}
			return ctx.withStore(func(s *session) error {
				records, err := s.store.All(cmd.Context())
				if err != nil {
					return err
				}
				matches := analysis.Search(records, query)
				return ctx.emit(cmd, matches, func() string {
					if len(matches) == 0 {
						return fmt.Sprintf("No records match %q.", query)
					}
					return renderRecords(fmt.Sprintf("Matches for %q", query), matches)
				})
			})
		},
	}
}

func newAnalyzeNotFoundCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "not-found",
		Short: "Records Comic Vine could not match, by title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *session) error {
				records, err := s.store.ListByStatus(cmd.Context(), collection.StatusNotFound)
				if err != nil {
					return err
				}
				listed := analysis.NotFound(records)
				return ctx.emit(cmd, listed, func() string {
					if len(listed) == 0 {
						return "Every searched record was found."
					}
					title := fmt.Sprintf("Not found (%s)", formatCount(len(records)))
					if len(records) > len(listed) {
						title = fmt.Sprintf("Not found (first %d of %s)", len(listed), formatCount(len(records)))
					}
					return renderRecords(title, listed)
				})
			})
		},
	}
}

func renderRecords(title string, records []collection.Record) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			strconv.FormatInt(rec.ID, 10),
			rec.FileName,
			valueOrDash(rec.CleanTitle),
			valueOrDash(rec.IssueNumber),
			valueOrDash(rec.Year),
			valueOrDash(rec.VolumeName),
			statusLabel(rec.Status),
		})
	}
	return renderTable(tableSpec{
		title:   title,
		headers: []string{"ID", "File", "Title", "Issue", "Year", "Series", "Status"},
		aligns:  []columnAlignment{alignRight},
		rows:    rows,
	})
}
