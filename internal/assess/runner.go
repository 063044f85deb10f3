package assess

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mizatrix/crawlability-checker/internal/metrics"
)

// Runner fans per-site assessment pipelines out over a bounded worker pool.
// It owns the fetcher and its connection pool for the duration of a run; no
// state is shared between concurrent site assessments.
type Runner struct {
	cfg        Config
	fetcher    Fetcher
	robots     *RobotsEvaluator
	sitemap    *SitemapProbe
	feed       *FeedProbe
	classifier *RenderingClassifier
	aggregator *Aggregator
	logger     *zap.Logger
}

// NewRunner validates the configuration and wires up the assessment pipeline.
// Invalid configuration is the only fatal error in the engine; everything
// after this point degrades per site instead of failing the batch.
func NewRunner(cfg Config, logger *zap.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid runner config: %w", err)
	}
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()

	var fetcher Fetcher = NewCollyFetcher(cfg, logger)
	if cfg.PerHostQPS > 0 {
		fetcher = &rateLimitedFetcher{inner: fetcher, limiter: newHostLimiter(cfg.PerHostQPS)}
	}

	return &Runner{
		cfg:        cfg,
		fetcher:    fetcher,
		robots:     NewRobotsEvaluator(fetcher, cfg.UserAgent, logger),
		sitemap:    NewSitemapProbe(fetcher, cfg.SitemapPreviewLimit, logger),
		feed:       NewFeedProbe(fetcher, logger),
		classifier: NewRenderingClassifier(cfg.Thresholds),
		aggregator: NewAggregator(cfg.KnownAPIs),
		logger:     logger,
	}, nil
}

// Run assesses every URL with bounded parallelism. Results come back in
// input order regardless of completion order. A canceled context abandons
// in-flight pipelines and returns the partial result set with the context
// error; per-site failures never abort the batch.
func (r *Runner) Run(ctx context.Context, urls []string) ([]SiteAssessment, error) {
	results := make([]SiteAssessment, len(urls))
	if len(urls) == 0 {
		return results, nil
	}

	workers := r.cfg.Concurrency
	if workers > len(urls) {
		workers = len(urls)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metrics.IncActiveWorkers()
			defer metrics.DecActiveWorkers()
			for idx := range jobs {
				results[idx] = r.assessSite(ctx, urls[idx])
			}
		}()
	}

	for idx := range urls {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return results, fmt.Errorf("batch canceled: %w", ctx.Err())
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("batch canceled: %w", err)
	}
	return results, nil
}

// assessSite runs the full pipeline for one URL. The robots fetch resolves
// first because the sitemap probe consumes declared sitemaps; the homepage
// fetch, sitemap probe, and feed probe then run concurrently. A failed probe
// degrades to its safe default and never escapes as an error.
func (r *Runner) assessSite(ctx context.Context, rawURL string) SiteAssessment {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		r.logger.Warn("skipping unusable input URL", zap.String("url", rawURL), zap.Error(err))
		metrics.ObserveSite("invalid")
		return SiteAssessment{
			URL:    rawURL,
			Method: MethodHeadless,
			Notes:  []string{fmt.Sprintf("invalid input URL: %v", err)},
		}
	}
	origin, err := Origin(normalized)
	if err != nil {
		metrics.ObserveSite("invalid")
		return SiteAssessment{
			URL:    rawURL,
			Method: MethodHeadless,
			Notes:  []string{fmt.Sprintf("invalid input URL: %v", err)},
		}
	}

	robots := r.robots.Evaluate(ctx, origin)

	var (
		wg       sync.WaitGroup
		homepage FetchOutcome
		sitemap  SitemapResult
		feed     FeedResult
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		homepage = r.fetcher.Fetch(ctx, normalized)
	}()
	go func() {
		defer wg.Done()
		sitemap = r.sitemap.Probe(ctx, origin, robots.DeclaredSitemaps)
	}()
	go func() {
		defer wg.Done()
		feed = r.feed.Probe(ctx, origin)
	}()
	wg.Wait()

	rendering := r.classifier.Classify(homepage)
	assessment := r.aggregator.Aggregate(normalized, origin, robots, sitemap, feed, rendering)

	metrics.ObserveSite(string(assessment.Method))
	r.logger.Info("site assessed",
		zap.String("url", normalized),
		zap.Bool("crawling_allowed", robots.CrawlingAllowed),
		zap.Bool("sitemap_found", sitemap.Found),
		zap.Bool("feed_found", feed.Found),
		zap.Bool("likely_js_heavy", rendering.LikelyJSHeavy),
		zap.Int("score", assessment.Score),
		zap.String("method", string(assessment.Method)),
	)
	return assessment
}
