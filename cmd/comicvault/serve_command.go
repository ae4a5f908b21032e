package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"comicvault/internal/api"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve read-only JSON views of the inventory over HTTP",
		Long: `Start an HTTP server exposing collection stats, duplicates, gaps, search,
not-found records, and single records as JSON. The server never writes, so
it can run next to scan or identify. Stop it with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *session) error {
				address := s.cfg.API.Bind
				if strings.TrimSpace(bind) != "" {
					address = bind
				}
				srv, err := api.NewServer(address, s.store, s.logger)
				if err != nil {
					return err
				}
				addr, err := srv.Listen()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Serving inventory on http://%s\n", addr)
				return srv.Serve(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (default from config)")
	return cmd
}
