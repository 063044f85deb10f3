// Package assess defines core types shared across the site-assessment engine.
package assess

import (
	"net/http"
	"time"
)

// ErrorKind classifies probe failures so callers can handle them as data
// instead of propagated errors.
type ErrorKind string

// Error kinds recorded on failed fetch outcomes.
const (
	ErrorNone     ErrorKind = ""
	ErrorNetwork  ErrorKind = "network"
	ErrorTimeout  ErrorKind = "timeout"
	ErrorProtocol ErrorKind = "protocol"
	ErrorParse    ErrorKind = "parse"
)

// FetchOutcome is the result of a single HTTP GET probe. A transport-level
// failure sets OK to false and Err to the classified kind; an HTTP error
// status still counts as OK with the status recorded.
type FetchOutcome struct {
	URL        string
	OK         bool
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
	Err        ErrorKind
	ErrDetail  string
}

// Succeeded reports whether the fetch produced a 2xx response.
func (o FetchOutcome) Succeeded() bool {
	return o.OK && o.StatusCode >= 200 && o.StatusCode < 300
}

// RobotsResult captures everything learned from a site's robots.txt.
// An absent or unreachable robots.txt yields the permissive default.
type RobotsResult struct {
	Fetched          bool
	StatusCode       int
	CrawlingAllowed  bool
	CrawlDelay       time.Duration
	AllowedPaths     []string
	DisallowedPaths  []string
	DeclaredSitemaps []string
}

// SitemapResult records the first usable sitemap discovered for a site.
type SitemapResult struct {
	Found      bool
	URL        string
	WellFormed bool
	Preview    []string
}

// FeedResult records the first RSS/Atom feed discovered at a well-known path.
type FeedResult struct {
	Found bool
	URL   string
}

// SignalStrength grades how confident the rendering heuristic is.
type SignalStrength string

// Signal strength values, weakest to strongest.
const (
	SignalLow    SignalStrength = "low"
	SignalMedium SignalStrength = "medium"
	SignalHigh   SignalStrength = "high"
)

// RenderingResult is the heuristic verdict on whether the homepage depends on
// client-side rendering. Known is false when the homepage could not be
// fetched, in which case the verdict carries no weight.
type RenderingResult struct {
	Known         bool
	LikelyJSHeavy bool
	Strength      SignalStrength
	TextRatio     float64
	ScriptCount   int
}

// Method is the crawling strategy recommended for a site.
type Method string

// Recommended crawling methods, in rough order of preference.
const (
	MethodAPI      Method = "API"
	MethodSitemap  Method = "Sitemap"
	MethodHTML     Method = "HTML"
	MethodHeadless Method = "Headless"
)

// SiteAssessment aggregates every sub-result for one input URL along with the
// derived score and recommendation. Values are immutable once constructed;
// the runner owns the per-run collection.
type SiteAssessment struct {
	URL       string
	Origin    string
	Robots    RobotsResult
	Sitemap   SitemapResult
	Feed      FeedResult
	Rendering RenderingResult
	KnownAPI  string
	Score     int
	Method    Method
	Notes     []string
}
