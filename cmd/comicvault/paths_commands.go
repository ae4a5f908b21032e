package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"comicvault/internal/collection"
	"comicvault/internal/config"
	"comicvault/internal/maintenance"
)

func newPathsCommand(ctx *commandContext) *cobra.Command {
	pathsCmd := &cobra.Command{
		Use:   "paths",
		Short: "Find and fix records whose files moved or vanished",
	}

	pathsCmd.AddCommand(newOrphansCommand(ctx))
	pathsCmd.AddCommand(newRepairCommand(ctx))
	pathsCmd.AddCommand(newPruneCommand(ctx))
	pathsCmd.AddCommand(newSetPathCommand(ctx))

	return pathsCmd
}

func newOrphansCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "orphans",
		Short: "List records whose file no longer exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *session) error {
				orphans, err := maintenance.New(s.store, s.logger).FindOrphans(cmd.Context())
				if err != nil {
					return err
				}
				return ctx.emit(cmd, orphans, func() string {
					if len(orphans) == 0 {
						return "Every catalogued file exists."
					}
					var total int64
					for _, rec := range orphans {
						total += rec.FileSize
					}
					title := fmt.Sprintf("Orphaned records (%s, %s)", formatCount(len(orphans)), formatBytes(total))
					return renderRecords(title, orphans)
				})
			})
		},
	}
}

func newRepairCommand(ctx *commandContext) *cobra.Command {
	var tolerance int64

	cmd := &cobra.Command{
		Use:   "repair [directory]",
		Short: "Repoint orphaned records at moved files of matching size",
		Long: `Search a directory tree for files that replace orphaned records. A file
qualifies when it has the same extension, is not catalogued yet, and its size
differs by less than the tolerance. Records with exactly one candidate are
updated; records with several are listed and left alone.

The directory defaults to paths.library_dir from the configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWriter(func(s *session) error {
				root := s.cfg.Paths.LibraryDir
				if len(args) > 0 {
					root = args[0]
				}
				if strings.TrimSpace(root) == "" {
					return errors.New("no directory given and paths.library_dir is not configured")
				}
				expanded, err := config.ExpandPath(root)
				if err != nil {
					return err
				}
				tol := tolerance
				if tol <= 0 {
					tol = s.cfg.Maintenance.SizeToleranceBytes
				}
				report, err := maintenance.New(s.store, s.logger).Repair(runContext(cmd, "repair"), expanded, tol)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, report, func() string { return renderRepair(report) })
			})
		},
	}

	cmd.Flags().Int64Var(&tolerance, "tolerance", 0, "Maximum size difference in bytes (default from config)")
	return cmd
}

func renderRepair(r maintenance.RepairReport) string {
	if r.Orphans == 0 {
		return "No orphaned records."
	}
	var sections []string
	if len(r.Fixed) > 0 {
		rows := make([][]string, 0, len(r.Fixed))
		for _, fix := range r.Fixed {
			rows = append(rows, []string{strconv.FormatInt(fix.ID, 10), fix.OldPath, fix.NewPath})
		}
		sections = append(sections, renderTable(tableSpec{
			title:   "Repaired",
			headers: []string{"ID", "Old path", "New path"},
			aligns:  []columnAlignment{alignRight},
			rows:    rows,
		}))
	}
	if len(r.Ambiguous) > 0 {
		rows := make([][]string, 0, len(r.Ambiguous))
		for _, amb := range r.Ambiguous {
			rows = append(rows, []string{strconv.FormatInt(amb.ID, 10), amb.Path, strings.Join(amb.Candidates, "\n")})
		}
		sections = append(sections, renderTable(tableSpec{
			title:   "Ambiguous (use 'comicvault paths set')",
			headers: []string{"ID", "Path", "Candidates"},
			aligns:  []columnAlignment{alignRight},
			rows:    rows,
		}))
	}
	sections = append(sections, fmt.Sprintf("%s orphans: %s repaired, %s ambiguous, %s without a candidate",
		formatCount(r.Orphans), formatCount(len(r.Fixed)), formatCount(len(r.Ambiguous)), formatCount(len(r.Missing))))
	return strings.Join(sections, "\n\n")
}

func newPruneCommand(ctx *commandContext) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete records whose file no longer exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("prune deletes records permanently; rerun with --yes to confirm")
			}
			return ctx.withWriter(func(s *session) error {
				removed, err := maintenance.New(s.store, s.logger).Prune(runContext(cmd, "prune"))
				if err != nil {
					return err
				}
				payload := map[string]int64{"removed": removed}
				return ctx.emit(cmd, payload, func() string {
					return fmt.Sprintf("Removed %s orphaned records.", formatCount(int(removed)))
				})
			})
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm deletion of orphaned records")
	return cmd
}

func newSetPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <path>",
		Short: "Point one record at a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid record id %q", args[0])
			}
			path, err := config.ExpandPath(args[1])
			if err != nil {
				return err
			}
			return ctx.withWriter(func(s *session) error {
				rec, err := maintenance.New(s.store, s.logger).SetPath(runContext(cmd, "set-path"), id, path)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, rec, func() string { return renderSetPath(rec) })
			})
		},
	}
}

func renderSetPath(rec *collection.Record) string {
	return fmt.Sprintf("Record %d now points at %s (%s).", rec.ID, rec.FilePath, formatBytes(rec.FileSize))
}
