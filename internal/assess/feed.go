package assess

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Well-known feed locations, probed in priority order. robots.txt has no
// feed directive, so discovery is fallback-only.
var fallbackFeedPaths = []string{"/rss.xml", "/feed", "/feed.xml", "/atom.xml"}

// FeedProbe checks the well-known RSS/Atom locations for a site.
type FeedProbe struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewFeedProbe builds a probe over the given fetcher.
func NewFeedProbe(fetcher Fetcher, logger *zap.Logger) *FeedProbe {
	return &FeedProbe{fetcher: fetcher, logger: logger}
}

// Probe returns the first well-known path serving a 2xx body with an RSS or
// Atom root marker.
func (p *FeedProbe) Probe(ctx context.Context, origin string) FeedResult {
	for _, path := range fallbackFeedPaths {
		candidate := origin + path
		out := p.fetcher.Fetch(ctx, candidate)
		if !out.Succeeded() {
			continue
		}
		if looksLikeFeed(out.Body) {
			return FeedResult{Found: true, URL: candidate}
		}
	}
	return FeedResult{}
}

func looksLikeFeed(body []byte) bool {
	lower := strings.ToLower(string(body))
	return strings.Contains(lower, "<rss") || strings.Contains(lower, "<feed")
}
