package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"comicvault/internal/config"
	"comicvault/internal/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the inventory to a CSV file",
		Long: `Write every record to CSV ordered by series then issue number. Use
--output - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *session) error {
				records, err := s.store.All(cmd.Context())
				if err != nil {
					return err
				}
				if output == "-" {
					_, err := export.Write(cmd.OutOrStdout(), records)
					return err
				}
				target, err := config.ExpandPath(output)
				if err != nil {
					return err
				}
				n, err := export.WriteFile(target, records)
				if err != nil {
					return err
				}
				payload := map[string]any{"path": target, "rows": n}
				return ctx.emit(cmd, payload, func() string {
					return fmt.Sprintf("Exported %s records to %s", formatCount(n), target)
				})
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", export.DefaultFileName, "Destination CSV file, or - for stdout")
	return cmd
}
