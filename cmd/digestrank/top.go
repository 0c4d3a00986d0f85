package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vidurdewan/the-digest-sub002/internal/app"
	"github.com/vidurdewan/the-digest-sub002/internal/usecase"
)

var topOpts usecase.TopStoriesOptions

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Select publication- and topic-diverse top stories",
	Long: `Pick the highest-scored recent stories while capping how many come from
one publication and one topic. Unset flags use the configured defaults.

Examples:
  digestrank top
  digestrank top --count=8 --max-per-publication=1`,
	Args: cobra.NoArgs,
	RunE: runTop,
}

func init() {
	topCmd.Flags().IntVar(&topOpts.Count, "count", 0, "Number of stories (default 5)")
	topCmd.Flags().IntVar(&topOpts.MaxPerPublication, "max-per-publication", 0, "Stories allowed per publication (default 2)")
	topCmd.Flags().IntVar(&topOpts.MaxPerTopic, "max-per-topic", 0, "Stories allowed per topic (default 2)")
	topCmd.Flags().IntVar(&topOpts.HoursBack, "hours", 0, "Look-back window in hours (default 24)")
	rootCmd.AddCommand(topCmd)
}

func runTop(cmd *cobra.Command, _ []string) error {
	return withApplication(cmd, func(ctx context.Context, application *app.Application) error {
		return writeJSON(cmd.OutOrStdout(), application.TopStories.Get(ctx, topOpts))
	})
}
