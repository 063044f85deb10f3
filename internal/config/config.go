// Package config loads and validates checker configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mizatrix/crawlability-checker/internal/assess"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Checker  CheckerConfig  `mapstructure:"checker"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Detector DetectorConfig `mapstructure:"detector"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CheckerConfig governs batch execution.
type CheckerConfig struct {
	Concurrency        int     `mapstructure:"concurrency"`
	UserAgent          string  `mapstructure:"user_agent"`
	PerHostQPS         float64 `mapstructure:"per_host_qps"`
	SitemapPreviewURLs int     `mapstructure:"sitemap_preview_urls"`
}

// HTTPConfig configures probe request behavior.
type HTTPConfig struct {
	TimeoutSeconds float64 `mapstructure:"timeout_seconds"`
	MaxRedirects   int     `mapstructure:"max_redirects"`
}

// DetectorConfig exposes the JS-heaviness heuristic thresholds.
type DetectorConfig struct {
	HighTextRatio     float64 `mapstructure:"high_text_ratio"`
	HighScriptCount   int     `mapstructure:"high_script_count"`
	MediumTextRatio   float64 `mapstructure:"medium_text_ratio"`
	MediumScriptCount int     `mapstructure:"medium_script_count"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CRAWLCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("checker.concurrency", assess.DefaultConcurrency)
	v.SetDefault("checker.user_agent", assess.DefaultUserAgent)
	v.SetDefault("checker.per_host_qps", 0.0)
	v.SetDefault("checker.sitemap_preview_urls", assess.DefaultSitemapPreviewLimit)
	v.SetDefault("http.timeout_seconds", 10.0)
	v.SetDefault("http.max_redirects", assess.DefaultMaxRedirects)
	v.SetDefault("detector.high_text_ratio", 0.10)
	v.SetDefault("detector.high_script_count", 3)
	v.SetDefault("detector.medium_text_ratio", 0.20)
	v.SetDefault("detector.medium_script_count", 5)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Checker.Concurrency <= 0 {
		return fmt.Errorf("checker.concurrency must be > 0")
	}
	if c.Checker.UserAgent == "" {
		return fmt.Errorf("checker.user_agent must be set")
	}
	if c.Checker.PerHostQPS < 0 {
		return fmt.Errorf("checker.per_host_qps must be >= 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxRedirects < 0 {
		return fmt.Errorf("http.max_redirects must be >= 0")
	}
	return nil
}

// RequestTimeout converts the fractional-seconds timeout into a Duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds * float64(time.Second))
}

// EngineConfig maps the loaded configuration onto the engine's own config
// type, which stays decoupled from Viper.
func (c Config) EngineConfig() assess.Config {
	return assess.Config{
		Concurrency:         c.Checker.Concurrency,
		RequestTimeout:      c.RequestTimeout(),
		UserAgent:           c.Checker.UserAgent,
		MaxRedirects:        c.HTTP.MaxRedirects,
		PerHostQPS:          c.Checker.PerHostQPS,
		SitemapPreviewLimit: c.Checker.SitemapPreviewURLs,
		Thresholds: assess.RenderingThresholds{
			HighTextRatio:     c.Detector.HighTextRatio,
			HighScriptCount:   c.Detector.HighScriptCount,
			MediumTextRatio:   c.Detector.MediumTextRatio,
			MediumScriptCount: c.Detector.MediumScriptCount,
		},
	}
}
