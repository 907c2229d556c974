package main

import (
	"os/signal"
	"syscall"

	"wecamp-service/internal/app"

	"github.com/spf13/cobra"
)

// wecamp serve: start the HTTP server and stop on SIGINT/SIGTERM.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := boot()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return app.NewServer(cfg, logger).Run(ctx)
	},
}
