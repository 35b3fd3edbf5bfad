package scraper

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func validScraperConfig() Config {
	return Config{
		Seeds:            []string{seedURL},
		BaseURL:          baseURL,
		DetailPathPrefix: "/film/",
		UserAgent:        "test",
		Concurrency:      2,
		Delay:            time.Second,
		RequestTimeout:   10 * time.Second,
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validScraperConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no seeds", func(c *Config) { c.Seeds = nil }},
		{"no base url", func(c *Config) { c.BaseURL = "" }},
		{"no detail prefix", func(c *Config) { c.DetailPathPrefix = "" }},
		{"no user agent", func(c *Config) { c.UserAgent = "" }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"negative delay", func(c *Config) { c.Delay = -time.Second }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"negative max items", func(c *Config) { c.MaxItems = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validScraperConfig()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfigFromViper(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("scraper.seed_urls", []string{seedURL})
	v.Set("scraper.base_url", baseURL)
	v.Set("scraper.detail_path_prefix", "/film/")
	v.Set("scraper.user_agent", "test-agent")
	v.Set("scraper.concurrency", 3)
	v.Set("scraper.delay", "750ms")
	v.Set("scraper.request_timeout", "15s")
	v.Set("scraper.max_items", 50)

	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	require.Equal(t, []string{seedURL}, cfg.Seeds)
	require.Equal(t, 3, cfg.Concurrency)
	require.Equal(t, 750*time.Millisecond, cfg.Delay)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
	require.Equal(t, 50, cfg.MaxItems)
}

func TestLoadConfigRejectsIncomplete(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("scraper.seed_urls", []string{seedURL})

	_, err := LoadConfig(v)
	require.Error(t, err)
}
