package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"comicvault/internal/scanner"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var extensions []string

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Catalog comic files under a directory as pending records",
		Long: `Walk a directory tree and add every comic archive that is not yet in the
inventory. File names are parsed into title, issue, and year on the way in.
Hidden directories are skipped; already catalogued paths are left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWriter(func(s *session) error {
				exts := s.cfg.Pipeline.Extensions
				if len(extensions) > 0 {
					exts = extensions
				}
				progress := newProgressReporter(cmd, "scanning", ctx.jsonOutput())
				summary, err := scanner.New(s.store, s.logger).Scan(runContext(cmd, "scan"), args[0], scanner.Options{
					Extensions:  exts,
					CommitEvery: s.cfg.Pipeline.ScanCommitEvery,
					OnFile:      func(scanner.Summary) { progress.tick() },
				})
				progress.finish()
				if err != nil {
					return err
				}
				if err := ctx.emit(cmd, summary, func() string { return renderScanSummary(summary) }); err != nil {
					return err
				}
				if summary.Interrupted {
					return context.Canceled
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "Override the scanned extensions (e.g. --ext .cbz,.cbr)")
	return cmd
}

func renderScanSummary(s scanner.Summary) string {
	var b strings.Builder
	if s.Interrupted {
		b.WriteString("Scan interrupted; files added so far are kept.\n")
	}
	fmt.Fprintf(&b, "Found %s comic files: %s added, %s already catalogued", formatCount(s.Found), formatCount(s.Added), formatCount(s.Skipped))
	if s.Failed > 0 {
		fmt.Fprintf(&b, ", %s failed", formatCount(s.Failed))
	}
	fmt.Fprintf(&b, " (%s)", formatElapsed(s.Elapsed))
	return b.String()
}
