package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/app"
	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/store"
	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/pkg/config"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands use.
// This allows us to inject a mock app during tests.
type App interface {
	Close()
	GetLogger() *zap.Logger
	GetStore() store.Provider
}

// newApp is the application factory. It's a variable so we can
// replace it with a mock factory in our tests.
var newApp = func(ctx context.Context) (App, error) {
	return app.NewApp(ctx)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cinefinder",
		Short: "Scrapes, loads and serves a catalog of movie records.",
		Long: `cinefinder is a batch pipeline that discovers movie detail pages from a
set of seed listing pages, extracts structured records from them, loads the
records into a document store without duplicates, and serves filtered views
and statistics over the stored collection.`,

		// Runs after config is loaded, before the subcommand's RunE:
		// the right place to build and inject the application services.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		// Ensures services are shut down gracefully.
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cobra.OnInitialize(config.InitConfig)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cinefinder/config.yaml)")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newLoadCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
