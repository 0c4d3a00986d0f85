package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vidurdewan/the-digest-sub002/internal/app"
)

var relatedNewsletter bool

var relatedCmd = &cobra.Command{
	Use:   "related <id>",
	Short: "List content sharing entities with an article or newsletter",
	Long: `Find up to four articles, newsletters, or primary documents that mention
the same entities, tolerating synonyms such as "AI" and "machine learning".

Examples:
  digestrank related art_123
  digestrank related --newsletter nl_456`,
	Args: cobra.ExactArgs(1),
	RunE: runRelated,
}

var highlightsCmd = &cobra.Command{
	Use:   "highlights <newsletter-id>",
	Short: "List recent article IDs a newsletter covers",
	Args:  cobra.ExactArgs(1),
	RunE:  runHighlights,
}

var coverageCmd = &cobra.Command{
	Use:   "coverage <article-id>",
	Short: "Count outlets in the same topic covering the story",
	Args:  cobra.ExactArgs(1),
	RunE:  runCoverage,
}

func init() {
	relatedCmd.Flags().BoolVar(&relatedNewsletter, "newsletter", false, "Treat the ID as a newsletter")
	rootCmd.AddCommand(relatedCmd, highlightsCmd, coverageCmd)
}

func runRelated(cmd *cobra.Command, args []string) error {
	return withApplication(cmd, func(ctx context.Context, application *app.Application) error {
		lookup := application.Related.ForArticle
		if relatedNewsletter {
			lookup = application.Related.ForNewsletter
		}
		items, err := lookup(ctx, args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), items)
	})
}

func runHighlights(cmd *cobra.Command, args []string) error {
	return withApplication(cmd, func(ctx context.Context, application *app.Application) error {
		ids, err := application.Related.Highlights(ctx, args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), ids)
	})
}

func runCoverage(cmd *cobra.Command, args []string) error {
	return withApplication(cmd, func(ctx context.Context, application *app.Application) error {
		coverage, err := application.Related.Coverage(ctx, args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), coverage)
	})
}
