package scraper

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob that influences a scrape run. The struct is
// decoupled from Viper so the scraper can be constructed directly in tests.
type Config struct {
	Seeds            []string
	BaseURL          string
	DetailPathPrefix string
	UserAgent        string
	Concurrency      int
	Delay            time.Duration
	RequestTimeout   time.Duration
	MaxItems         int
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Seeds:            v.GetStringSlice("scraper.seed_urls"),
		BaseURL:          v.GetString("scraper.base_url"),
		DetailPathPrefix: v.GetString("scraper.detail_path_prefix"),
		UserAgent:        v.GetString("scraper.user_agent"),
		Concurrency:      v.GetInt("scraper.concurrency"),
		Delay:            v.GetDuration("scraper.delay"),
		RequestTimeout:   v.GetDuration("scraper.request_timeout"),
		MaxItems:         v.GetInt("scraper.max_items"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if len(c.Seeds) == 0 {
		return fmt.Errorf("scraper.seed_urls must include at least one seed URL")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("scraper.base_url must be set")
	}
	if c.DetailPathPrefix == "" {
		return fmt.Errorf("scraper.detail_path_prefix must be set")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("scraper.user_agent must be set")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("scraper.concurrency must be > 0")
	}
	if c.Delay < 0 {
		return fmt.Errorf("scraper.delay must be >= 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("scraper.request_timeout must be > 0")
	}
	if c.MaxItems < 0 {
		return fmt.Errorf("scraper.max_items must be >= 0")
	}
	return nil
}
