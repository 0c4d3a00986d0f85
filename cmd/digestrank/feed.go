package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/vidurdewan/the-digest-sub002/internal/app"
)

var (
	feedHours int
	feedLimit int
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print the personalized feed ordering",
	Long: `Order recent articles for the reader using topic interests, watch-list
matches, recency, and engagement history. Hidden topics are dropped.

Examples:
  digestrank feed
  digestrank feed --hours=72 --limit=100`,
	Args: cobra.NoArgs,
	RunE: runFeed,
}

func init() {
	feedCmd.Flags().IntVar(&feedHours, "hours", 72, "Look-back window in hours (0 for all)")
	feedCmd.Flags().IntVar(&feedLimit, "limit", 200, "Maximum articles to consider (0 for no limit)")
	rootCmd.AddCommand(feedCmd)
}

func runFeed(cmd *cobra.Command, _ []string) error {
	var since time.Time
	if feedHours > 0 {
		since = time.Now().Add(-time.Duration(feedHours) * time.Hour)
	}
	return withApplication(cmd, func(ctx context.Context, application *app.Application) error {
		return writeJSON(cmd.OutOrStdout(), application.Feed.Personalized(ctx, since, feedLimit))
	})
}
