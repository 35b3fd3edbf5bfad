// Package cmd defines and implements the CLI commands for the cinefinder executable.
package cmd

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/export"
	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/scraper"
)

// newScrapeCmd creates the 'scrape' subcommand: crawl the seed pages, extract
// movie records, and write the ordered JSON export for the load step.
func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Crawls the seed pages and writes the movie record export",
		Long: `Fetches the configured seed listing pages, builds the frontier of detail
pages, extracts one record per page, and writes the records in frontier order
to the export file consumed by 'load'.`,

		RunE: runScrapeCommand,
	}
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.GetLogger()

	cfg, err := scraper.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load scraper config: %w", err)
	}

	fetcher, err := scraper.NewCollyFetcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}

	// Ctrl-C stops feeding work; the export still lands with whatever
	// finished, marked as a partial run.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	controller := scraper.NewController(cfg, fetcher, scraper.NewExponentialRetryPolicy(), logger)
	records, summary, err := controller.Run(ctx)
	if err != nil {
		return fmt.Errorf("run scrape: %w", err)
	}

	for _, failure := range summary.Failures {
		logger.Warn("page failed", zap.String("url", failure.URL), zap.String("reason", failure.Reason))
	}
	if summary.Aborted {
		logger.Warn("scrape aborted before completion; export holds a partial run",
			zap.Int("extracted", summary.Extracted),
			zap.Int("pending", summary.Pending),
		)
	}

	if len(records) == 0 && !summary.Aborted {
		return errors.New("scrape produced no records; export not written")
	}

	exportPath := viper.GetString("export.path")
	if err := export.Write(exportPath, records); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	logger.Info("export written",
		zap.String("path", exportPath),
		zap.Int("records", len(records)),
		zap.String("run_id", summary.RunID),
	)
	return nil
}
