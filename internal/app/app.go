// Package app initializes and holds long-lived application services, acting
// as a dependency injection container for the CLI commands.
package app

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/logging"
	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/metrics"
	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/store"
)

// App holds the shared services for the application: the logger and the
// store provider. It is initialized once at startup and injected into the
// commands that need it, with an explicit Close lifecycle.
type App struct {
	logger *zap.Logger
	store  store.Provider
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetStore exposes the configured store provider.
func (a *App) GetStore() store.Provider {
	return a.store
}

// NewApp creates and initializes an App from the current Viper configuration.
// It fails fast when a critical service cannot be initialized.
func NewApp(ctx context.Context) (*App, error) {
	logger, err := logging.New(viper.GetBool("log.development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	metrics.Init()

	provider, err := newStoreProvider(ctx, logger)
	if err != nil {
		return nil, err
	}

	return &App{logger: logger, store: provider}, nil
}

func newStoreProvider(ctx context.Context, logger *zap.Logger) (store.Provider, error) {
	kind := viper.GetString("store.provider")
	switch kind {
	case "mongo":
		cfg := store.MongoConfig{
			URI:            viper.GetString("store.mongo.uri"),
			Database:       viper.GetString("store.mongo.database"),
			Collection:     viper.GetString("store.mongo.collection"),
			ConnectTimeout: viper.GetDuration("store.mongo.connect_timeout"),
		}
		logger.Info("using mongo store",
			zap.String("database", cfg.Database),
			zap.String("collection", cfg.Collection),
		)
		provider, err := store.NewMongoProvider(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("init mongo store: %w", err)
		}
		return provider, nil
	case "memory":
		logger.Info("using in-memory store; data will not survive the process")
		return store.NewMemoryProvider(), nil
	default:
		return nil, fmt.Errorf("unknown store provider: %s", kind)
	}
}

// Close shuts down the application's services gracefully.
func (a *App) Close() {
	ctx := context.Background()
	if err := a.store.Close(ctx); err != nil {
		a.logger.Warn("store close failed", zap.Error(err))
	}
	_ = a.logger.Sync() // best-effort flush
}
