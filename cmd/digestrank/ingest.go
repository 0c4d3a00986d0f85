package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vidurdewan/the-digest-sub002/internal/app"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file|->",
	Short: "Load articles, newsletters, and reader signals from a JSON batch",
	Long: `Store a JSON batch produced by the fetcher and summarizer. The batch may
carry articles (with their content), summarized newsletters, topic interest
levels, VIP publications, and engagement deltas per topic. The whole batch is
validated before anything is written.

Examples:
  digestrank ingest batch.json
  fetcher --json | digestrank ingest -`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open batch: %w", err)
		}
		defer f.Close()
		in = f
	}
	return withApplication(cmd, func(ctx context.Context, application *app.Application) error {
		stats, err := application.Ingest.Load(ctx, in)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), stats)
	})
}
