package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/food-journal/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the journal's JSON API on localhost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			level, err := a.cfg.SlogLevel()
			if err != nil {
				return err
			}
			if a.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

			srv, err := server.New(a.cfg, logger)
			if err != nil {
				return fmt.Errorf("starting server: %w", err)
			}
			// Start blocks until SIGINT/SIGTERM and closes the store on the way out.
			return srv.Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default: FOODJOURNAL_PORT or 8080)")
	return cmd
}
