package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vidurdewan/the-digest-sub002/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled ranking and expose Prometheus metrics",
	Long: `Run recent-mode ranking on the configured cron expression until
interrupted. When metrics.listenAddr (or METRICS_ADDR) is set, /metrics is
served on that address.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	return withApplication(cmd, func(ctx context.Context, application *app.Application) error {
		return application.Serve(ctx)
	})
}
