package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/export"
	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/loader"
)

// newLoadCmd creates the 'load' subcommand: wait for the export file, then
// upsert its records into the store.
func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Loads the movie record export into the store",
		Long: `Waits for the export file written by 'scrape', verifies the store is
reachable, establishes the unique index on url, and upserts every record in
input order. Duplicate urls replace the stored document; nothing is ever
inserted twice.`,

		RunE: runLoadCommand,
	}
}

func runLoadCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.GetLogger()

	exportPath := viper.GetString("export.path")
	if err := export.WaitForFile(cmd.Context(), exportPath,
		viper.GetDuration("export.wait_poll"),
		viper.GetDuration("export.wait_timeout"),
	); err != nil {
		return fmt.Errorf("wait for export: %w", err)
	}

	records, err := export.Read(exportPath)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}

	ld := loader.New(appInstance.GetStore(), loader.Config{
		ReadyTimeout:      viper.GetDuration("loader.ready_timeout"),
		ReadyInitialDelay: viper.GetDuration("loader.ready_initial_delay"),
	}, logger)

	summary, err := ld.Load(cmd.Context(), records)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	if summary.Rejected > 0 {
		logger.Warn("load finished with rejected records", zap.Int("rejected", summary.Rejected))
		for _, rej := range summary.Rejections {
			logger.Warn("record rejected", zap.String("url", rej.URL), zap.String("reason", rej.Reason))
		}
	}
	return nil
}
