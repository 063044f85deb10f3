package assess

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

const wellFormedSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/a</loc></url>
  <url><loc>https://example.com/b</loc></url>
  <url><loc>https://example.com/c</loc></url>
</urlset>`

func newSitemapProbe(fetcher Fetcher) *SitemapProbe {
	return NewSitemapProbe(fetcher, DefaultSitemapPreviewLimit, zap.NewNop())
}

func TestSitemapProbeDeclaredShortCircuitsFallback(t *testing.T) {
	fetcher := &stubFetcher{outcomes: map[string]FetchOutcome{
		"https://x/s.xml": okOutcome(wellFormedSitemap),
	}}
	res := newSitemapProbe(fetcher).Probe(context.Background(), "https://example.com", []string{"https://x/s.xml"})

	if !res.Found || !res.WellFormed {
		t.Fatalf("expected declared sitemap to be found and well-formed, got %+v", res)
	}
	if res.URL != "https://x/s.xml" {
		t.Fatalf("url = %q", res.URL)
	}
	for _, visited := range fetcher.visited {
		if visited == "https://example.com/sitemap.xml" || visited == "https://example.com/sitemap_index.xml" {
			t.Fatalf("fallback path %s must not be probed when a declared sitemap succeeds", visited)
		}
	}
	if len(res.Preview) != 3 || res.Preview[0] != "https://example.com/a" {
		t.Fatalf("preview = %v", res.Preview)
	}
}

func TestSitemapProbeFallbackDiscovery(t *testing.T) {
	fetcher := &stubFetcher{outcomes: map[string]FetchOutcome{
		"https://example.com/sitemap.xml":       statusOutcome(404),
		"https://example.com/sitemap_index.xml": okOutcome(`<sitemapindex><sitemap><loc>https://example.com/s1.xml</loc></sitemap></sitemapindex>`),
	}}
	res := newSitemapProbe(fetcher).Probe(context.Background(), "https://example.com", nil)

	if !res.Found || !res.WellFormed {
		t.Fatalf("expected fallback sitemap index, got %+v", res)
	}
	if res.URL != "https://example.com/sitemap_index.xml" {
		t.Fatalf("url = %q", res.URL)
	}
}

func TestSitemapProbeMalformedBody(t *testing.T) {
	fetcher := &stubFetcher{outcomes: map[string]FetchOutcome{
		"https://example.com/sitemap.xml": okOutcome("<html>this is not a sitemap</html>"),
	}}
	res := newSitemapProbe(fetcher).Probe(context.Background(), "https://example.com", nil)

	if !res.Found {
		t.Fatal("a 2xx response is still a found sitemap")
	}
	if res.WellFormed {
		t.Fatal("an HTML body must fail the shape check")
	}
}

func TestSitemapProbeDeclaredFailureFallsBack(t *testing.T) {
	fetcher := &stubFetcher{outcomes: map[string]FetchOutcome{
		// Declared sitemap is dead; the well-known path works.
		"https://example.com/sitemap.xml": okOutcome(wellFormedSitemap),
	}}
	res := newSitemapProbe(fetcher).Probe(context.Background(), "https://example.com", []string{"https://x/dead.xml"})

	if !res.Found || !res.WellFormed {
		t.Fatalf("expected fallback discovery after declared failure, got %+v", res)
	}
	if res.URL != "https://example.com/sitemap.xml" {
		t.Fatalf("url = %q", res.URL)
	}
}

func TestSitemapProbeNothingFound(t *testing.T) {
	res := newSitemapProbe(&stubFetcher{}).Probe(context.Background(), "https://example.com", nil)
	if res.Found {
		t.Fatalf("expected not found, got %+v", res)
	}
}

func TestSitemapPreviewLimit(t *testing.T) {
	body := `<?xml version="1.0"?><urlset>`
	for i := 0; i < 10; i++ {
		body += "<url><loc>https://example.com/page</loc></url>"
	}
	body += "</urlset>"

	fetcher := &stubFetcher{outcomes: map[string]FetchOutcome{
		"https://example.com/sitemap.xml": okOutcome(body),
	}}
	res := newSitemapProbe(fetcher).Probe(context.Background(), "https://example.com", nil)
	if len(res.Preview) != DefaultSitemapPreviewLimit {
		t.Fatalf("preview length = %d, want %d", len(res.Preview), DefaultSitemapPreviewLimit)
	}
}
