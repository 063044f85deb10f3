package assess

import (
	"fmt"
	"time"
)

// Default knobs applied when the caller leaves a field zero.
const (
	DefaultConcurrency         = 8
	DefaultRequestTimeout      = 10 * time.Second
	DefaultMaxRedirects        = 5
	DefaultUserAgent           = "Mozilla/5.0 (compatible; crawlability-checker/1.0)"
	DefaultSitemapPreviewLimit = 5
)

// RenderingThresholds are the policy constants behind the JS-heaviness
// heuristic. They are configuration rather than literals so they can be tuned
// without touching the classifier.
type RenderingThresholds struct {
	HighTextRatio     float64
	HighScriptCount   int
	MediumTextRatio   float64
	MediumScriptCount int
}

// DefaultRenderingThresholds returns the stock classification cutoffs.
func DefaultRenderingThresholds() RenderingThresholds {
	return RenderingThresholds{
		HighTextRatio:     0.10,
		HighScriptCount:   3,
		MediumTextRatio:   0.20,
		MediumScriptCount: 5,
	}
}

// Config holds the settings for one assessment run. It is decoupled from
// Viper so the engine stays testable without a config file.
type Config struct {
	Concurrency         int
	RequestTimeout      time.Duration
	UserAgent           string
	MaxRedirects        int
	PerHostQPS          float64
	Thresholds          RenderingThresholds
	SitemapPreviewLimit int
	KnownAPIs           map[string]string
}

// withDefaults fills zero-valued fields so a partially populated Config still
// behaves sensibly.
func (c Config) withDefaults() Config {
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MaxRedirects == 0 {
		c.MaxRedirects = DefaultMaxRedirects
	}
	if c.Thresholds == (RenderingThresholds{}) {
		c.Thresholds = DefaultRenderingThresholds()
	}
	if c.SitemapPreviewLimit == 0 {
		c.SitemapPreviewLimit = DefaultSitemapPreviewLimit
	}
	if c.KnownAPIs == nil {
		c.KnownAPIs = DefaultKnownAPIs()
	}
	return c
}

// Validate checks for configuration that would make a run meaningless.
func (c Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must be >= 0")
	}
	if c.MaxRedirects < 0 {
		return fmt.Errorf("max redirects must be >= 0")
	}
	if c.PerHostQPS < 0 {
		return fmt.Errorf("per-host qps must be >= 0")
	}
	t := c.Thresholds
	if t.HighTextRatio < 0 || t.MediumTextRatio < 0 {
		return fmt.Errorf("rendering text ratios must be >= 0")
	}
	if t.HighScriptCount < 0 || t.MediumScriptCount < 0 {
		return fmt.Errorf("rendering script counts must be >= 0")
	}
	return nil
}
