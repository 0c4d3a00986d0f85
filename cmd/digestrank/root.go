package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vidurdewan/the-digest-sub002/internal/app"
	"github.com/vidurdewan/the-digest-sub002/internal/config"
	"github.com/vidurdewan/the-digest-sub002/internal/logging"
)

var logLevelFlag string

var rootCmd = &cobra.Command{
	Use:   "digestrank",
	Short: "Rank, diversify, and cross-reference the news digest",
	Long: `digestrank scores stored articles, picks diverse top stories, orders the
personalized feed, and links articles and newsletters that share entities.

Configuration is read from the YAML file named by DIGEST_CONFIG, with
DATABASE_DRIVER, DATABASE_DSN, LOG_LEVEL, and METRICS_ADDR as overrides.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: error, warn, info, debug (default: from config)")
}

// withApplication loads configuration, opens the application, and closes it
// after fn returns. The context is cancelled on SIGINT or SIGTERM.
func withApplication(cmd *cobra.Command, fn func(ctx context.Context, application *app.Application) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if logLevelFlag != "" {
		cfg.Logging.Level = logLevelFlag
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application start failed", "error", err)
		return err
	}
	defer closeApplication(application, logger)

	return fn(ctx, application)
}

func closeApplication(application *app.Application, logger *slog.Logger) {
	if err := application.Close(); err != nil {
		logger.Warn("close application", "error", err)
	}
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
