package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vidurdewan/the-digest-sub002/internal/app"
	"github.com/vidurdewan/the-digest-sub002/internal/domain"
)

var rankAll bool

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Score articles and persist their ranking scores",
	Long: `Score the articles published in the recent window (default 24h, at most
500) as one batch and write the scores back. With --all the whole corpus is
paged through and scored as a single batch.

Examples:
  digestrank rank
  digestrank rank --all`,
	Args: cobra.NoArgs,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().BoolVar(&rankAll, "all", false, "Re-rank the entire corpus")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	return withApplication(cmd, func(ctx context.Context, application *app.Application) error {
		var stats domain.RankingStats
		if rankAll {
			stats = application.Pipeline.RankAll(ctx)
		} else {
			stats = application.Pipeline.RankRecent(ctx)
		}
		return writeJSON(cmd.OutOrStdout(), stats)
	})
}
