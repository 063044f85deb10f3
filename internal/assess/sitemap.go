package assess

import (
	"context"
	"strings"

	"github.com/antchfx/xmlquery"
	"go.uber.org/zap"
)

// Well-known sitemap locations probed when robots.txt declares none.
var fallbackSitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml"}

// SitemapProbe locates a site's sitemap, preferring URLs declared in
// robots.txt over the well-known fallback paths.
type SitemapProbe struct {
	fetcher      Fetcher
	previewLimit int
	logger       *zap.Logger
}

// NewSitemapProbe builds a probe that keeps at most previewLimit URLs from a
// discovered sitemap.
func NewSitemapProbe(fetcher Fetcher, previewLimit int, logger *zap.Logger) *SitemapProbe {
	return &SitemapProbe{
		fetcher:      fetcher,
		previewLimit: previewLimit,
		logger:       logger,
	}
}

// Probe checks declared sitemaps first; the fallback paths are only hit when
// no declared candidate returns a 2xx. The first well-formed 2xx wins, and a
// malformed 2xx is still reported as found.
func (p *SitemapProbe) Probe(ctx context.Context, origin string, declared []string) SitemapResult {
	if res, found := p.probeCandidates(ctx, resolveSitemapURLs(origin, declared)); found {
		return res
	}

	fallbacks := make([]string, 0, len(fallbackSitemapPaths))
	for _, path := range fallbackSitemapPaths {
		fallbacks = append(fallbacks, origin+path)
	}
	if res, found := p.probeCandidates(ctx, fallbacks); found {
		return res
	}
	return SitemapResult{}
}

func (p *SitemapProbe) probeCandidates(ctx context.Context, candidates []string) (SitemapResult, bool) {
	var malformed *SitemapResult
	for _, candidate := range candidates {
		out := p.fetcher.Fetch(ctx, candidate)
		if !out.Succeeded() {
			continue
		}
		if looksLikeSitemapXML(out.Body) {
			return SitemapResult{
				Found:      true,
				URL:        candidate,
				WellFormed: true,
				Preview:    p.preview(out.Body),
			}, true
		}
		if malformed == nil {
			malformed = &SitemapResult{Found: true, URL: candidate}
		}
	}
	if malformed != nil {
		return *malformed, true
	}
	return SitemapResult{}, false
}

// looksLikeSitemapXML applies the minimal well-formedness shape check: the
// body must open with an XML declaration or a sitemap root tag.
func looksLikeSitemapXML(body []byte) bool {
	head := strings.TrimLeft(string(body), "\uFEFF \t\r\n")
	for _, prefix := range []string{"<?xml", "<urlset", "<sitemapindex"} {
		if strings.HasPrefix(head, prefix) {
			return true
		}
	}
	return false
}

// preview extracts the leading <loc> entries so callers can show a sample of
// the URLs a sitemap covers. Extraction is best effort.
func (p *SitemapProbe) preview(body []byte) []string {
	if p.previewLimit <= 0 {
		return nil
	}
	doc, err := xmlquery.Parse(strings.NewReader(string(body)))
	if err != nil {
		p.logger.Debug("sitemap preview parse failed", zap.Error(err))
		return nil
	}
	nodes, err := xmlquery.QueryAll(doc, "//loc")
	if err != nil {
		return nil
	}
	var locs []string
	for _, node := range nodes {
		loc := strings.TrimSpace(node.InnerText())
		if loc == "" {
			continue
		}
		locs = append(locs, loc)
		if len(locs) == p.previewLimit {
			break
		}
	}
	return locs
}

// resolveSitemapURLs turns declared sitemap values into absolute URLs; bare
// paths are resolved against the origin.
func resolveSitemapURLs(origin string, declared []string) []string {
	out := make([]string, 0, len(declared))
	for _, raw := range declared {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
			out = append(out, raw)
			continue
		}
		out = append(out, origin+"/"+strings.TrimPrefix(raw, "/"))
	}
	return out
}
