package assess

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestFeedProbePriorityOrder(t *testing.T) {
	fetcher := &stubFetcher{outcomes: map[string]FetchOutcome{
		"https://example.com/feed":     okOutcome(`<feed xmlns="http://www.w3.org/2005/Atom"></feed>`),
		"https://example.com/atom.xml": okOutcome(`<feed></feed>`),
	}}
	res := NewFeedProbe(fetcher, zap.NewNop()).Probe(context.Background(), "https://example.com")

	if !res.Found {
		t.Fatalf("expected a feed, got %+v", res)
	}
	// /rss.xml fails, /feed is the first hit in priority order.
	if res.URL != "https://example.com/feed" {
		t.Fatalf("url = %q", res.URL)
	}
}

func TestFeedProbeRejectsNonFeedBody(t *testing.T) {
	fetcher := &stubFetcher{outcomes: map[string]FetchOutcome{
		"https://example.com/feed": okOutcome("<html>not a feed</html>"),
	}}
	res := NewFeedProbe(fetcher, zap.NewNop()).Probe(context.Background(), "https://example.com")
	if res.Found {
		t.Fatalf("a non-feed body must not count, got %+v", res)
	}
}

func TestFeedProbeNothingFound(t *testing.T) {
	res := NewFeedProbe(&stubFetcher{}, zap.NewNop()).Probe(context.Background(), "https://example.com")
	if res.Found {
		t.Fatalf("expected not found, got %+v", res)
	}
}

func TestFeedProbeRSSMarker(t *testing.T) {
	fetcher := &stubFetcher{outcomes: map[string]FetchOutcome{
		"https://example.com/rss.xml": okOutcome(`<?xml version="1.0"?><rss version="2.0"></rss>`),
	}}
	res := NewFeedProbe(fetcher, zap.NewNop()).Probe(context.Background(), "https://example.com")
	if !res.Found || res.URL != "https://example.com/rss.xml" {
		t.Fatalf("unexpected result %+v", res)
	}
}
