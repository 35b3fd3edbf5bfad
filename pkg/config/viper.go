// Package config is responsible for initializing the application's
// configuration. It uses the Viper library to read settings from a config
// file and environment variables, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// InitConfig initializes the application's configuration using Viper.
// It sets defaults, defines configuration search paths, and enables reading
// from CINEFINDER_* environment variables. Designed to be called once at
// startup via cobra.OnInitialize.
func InitConfig() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/cinefinder/")
	viper.AddConfigPath("$HOME/.cinefinder")

	// Scraper defaults mirror the source site's published top/list pages.
	viper.SetDefault("scraper.seed_urls", []string{
		"https://www.senscritique.com/films/tops/top111",
		"https://www.senscritique.com/liste/les_200_films_les_plus_notes_sur_sens_critique/1499333",
		"https://www.senscritique.com/liste/les_100_meilleurs_films_de_tous_les_temps/93309",
	})
	viper.SetDefault("scraper.base_url", "https://www.senscritique.com")
	viper.SetDefault("scraper.detail_path_prefix", "/film/")
	viper.SetDefault("scraper.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	viper.SetDefault("scraper.concurrency", 1)
	viper.SetDefault("scraper.delay", "1s")
	viper.SetDefault("scraper.request_timeout", "15s")
	viper.SetDefault("scraper.max_items", 250)

	viper.SetDefault("export.path", "data/films.json")
	viper.SetDefault("export.wait_poll", "2s")
	viper.SetDefault("export.wait_timeout", "10m")

	viper.SetDefault("store.provider", "mongo")
	viper.SetDefault("store.mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("store.mongo.database", "cinefinder")
	viper.SetDefault("store.mongo.collection", "films")
	viper.SetDefault("store.mongo.connect_timeout", "2s")

	viper.SetDefault("loader.ready_timeout", "30s")
	viper.SetDefault("loader.ready_initial_delay", "500ms")

	viper.SetDefault("server.addr", ":5000")

	viper.SetDefault("log.development", false)

	viper.SetEnvPrefix("CINEFINDER") // e.g. CINEFINDER_STORE_MONGO_URI
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config file is optional; defaults and env vars are enough to run.
	_ = viper.ReadInConfig()
}
