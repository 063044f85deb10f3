package assess

import (
	"strings"
	"testing"
)

func newAggregator() *Aggregator {
	return NewAggregator(DefaultKnownAPIs())
}

func TestScoreWeights(t *testing.T) {
	allowed := RobotsResult{Fetched: true, CrawlingAllowed: true}
	disallowed := RobotsResult{Fetched: true, CrawlingAllowed: false}
	static := RenderingResult{Known: true, Strength: SignalLow}
	mediumJS := RenderingResult{Known: true, LikelyJSHeavy: true, Strength: SignalMedium}
	highJS := RenderingResult{Known: true, LikelyJSHeavy: true, Strength: SignalHigh}
	unknown := RenderingResult{Strength: SignalLow}

	tests := []struct {
		name      string
		robots    RobotsResult
		sitemap   SitemapResult
		feed      FeedResult
		rendering RenderingResult
		want      int
	}{
		{
			name:      "everything favorable",
			robots:    allowed,
			sitemap:   SitemapResult{Found: true, WellFormed: true},
			feed:      FeedResult{Found: true},
			rendering: static,
			want:      100,
		},
		{
			name:      "disallowed with nothing else",
			robots:    disallowed,
			rendering: highJS,
			want:      0,
		},
		{
			name:      "malformed sitemap",
			robots:    allowed,
			sitemap:   SitemapResult{Found: true},
			rendering: static,
			want:      75,
		},
		{
			name:      "medium js-heavy",
			robots:    allowed,
			rendering: mediumJS,
			want:      50,
		},
		{
			name:      "unknown rendering is neutral",
			robots:    allowed,
			rendering: unknown,
			want:      55,
		},
		{
			name:      "disallowed but rich site",
			robots:    disallowed,
			sitemap:   SitemapResult{Found: true, WellFormed: true},
			feed:      FeedResult{Found: true},
			rendering: static,
			want:      60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeScore(tt.robots, tt.sitemap, tt.feed, tt.rendering)
			if got != tt.want {
				t.Fatalf("score = %d, want %d", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Fatalf("score %d out of range", got)
			}
			// Same sub-results must always yield the same score.
			if again := computeScore(tt.robots, tt.sitemap, tt.feed, tt.rendering); again != got {
				t.Fatalf("score not deterministic: %d then %d", got, again)
			}
		})
	}
}

func TestRecommendedMethodPriority(t *testing.T) {
	agg := newAggregator()
	allowed := RobotsResult{Fetched: true, CrawlingAllowed: true}
	static := RenderingResult{Known: true, Strength: SignalLow}

	sitemapFirst := agg.Aggregate("https://example.com/", "https://example.com",
		allowed,
		SitemapResult{Found: true, WellFormed: true},
		FeedResult{},
		RenderingResult{Known: true, LikelyJSHeavy: true, Strength: SignalHigh},
	)
	if sitemapFirst.Method != MethodSitemap {
		t.Fatalf("method = %q, want Sitemap", sitemapFirst.Method)
	}

	headless := agg.Aggregate("https://example.com/", "https://example.com",
		allowed, SitemapResult{}, FeedResult{},
		RenderingResult{Known: true, LikelyJSHeavy: true, Strength: SignalMedium},
	)
	if headless.Method != MethodHeadless {
		t.Fatalf("method = %q, want Headless", headless.Method)
	}

	html := agg.Aggregate("https://example.com/", "https://example.com",
		allowed, SitemapResult{}, FeedResult{}, static,
	)
	if html.Method != MethodHTML {
		t.Fatalf("method = %q, want HTML", html.Method)
	}

	malformedSitemap := agg.Aggregate("https://example.com/", "https://example.com",
		allowed, SitemapResult{Found: true}, FeedResult{}, static,
	)
	if malformedSitemap.Method != MethodHTML {
		t.Fatalf("a malformed sitemap must not be recommended, got %q", malformedSitemap.Method)
	}
}

func TestDisallowedSiteGetsComplianceWarning(t *testing.T) {
	agg := newAggregator()
	res := agg.Aggregate("https://example.com/", "https://example.com",
		RobotsResult{Fetched: true, CrawlingAllowed: false},
		SitemapResult{}, FeedResult{},
		RenderingResult{Known: true, Strength: SignalLow},
	)
	if res.Method != MethodHeadless {
		t.Fatalf("method = %q, want conservative Headless fallback", res.Method)
	}
	found := false
	for _, note := range res.Notes {
		if strings.Contains(note, "compliance") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a compliance warning note, got %v", res.Notes)
	}
}

func TestKnownAPITakesPrecedence(t *testing.T) {
	agg := newAggregator()
	res := agg.Aggregate("https://github.com/", "https://github.com",
		RobotsResult{Fetched: true, CrawlingAllowed: true},
		SitemapResult{Found: true, WellFormed: true},
		FeedResult{},
		RenderingResult{Known: true, Strength: SignalLow},
	)
	if res.Method != MethodAPI {
		t.Fatalf("method = %q, want API", res.Method)
	}
	if res.KnownAPI != "https://api.github.com/" {
		t.Fatalf("known api = %q", res.KnownAPI)
	}
}

func TestUnknownRenderingNote(t *testing.T) {
	agg := newAggregator()
	res := agg.Aggregate("https://example.com/", "https://example.com",
		RobotsResult{Fetched: true, CrawlingAllowed: true},
		SitemapResult{}, FeedResult{},
		RenderingResult{Strength: SignalLow},
	)
	found := false
	for _, note := range res.Notes {
		if strings.Contains(note, "rendering status unknown") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an unknown-rendering note, got %v", res.Notes)
	}
}
