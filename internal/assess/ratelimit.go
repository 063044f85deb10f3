package assess

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mizatrix/crawlability-checker/internal/metrics"
)

// hostLimiter spreads probes against the same host out over time. A zero QPS
// disables limiting entirely.
type hostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	qps      rate.Limit
}

func newHostLimiter(qps float64) *hostLimiter {
	limit := rate.Limit(qps)
	if qps <= 0 {
		limit = rate.Inf
	}
	return &hostLimiter{
		limiters: make(map[string]*rate.Limiter),
		qps:      limit,
	}
}

// wait blocks until a token is available for the URL's host, respecting the
// context.
func (l *hostLimiter) wait(ctx context.Context, rawURL string) error {
	host := "unknown"
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}

	l.mu.Lock()
	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(l.qps, 1)
		l.limiters[host] = limiter
	}
	l.mu.Unlock()

	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", host, err)
	}
	metrics.ObserveRateLimitDelay(host, time.Since(start))
	return nil
}

// rateLimitedFetcher decorates a Fetcher with per-host pacing.
type rateLimitedFetcher struct {
	inner   Fetcher
	limiter *hostLimiter
}

func (f *rateLimitedFetcher) Fetch(ctx context.Context, rawURL string) FetchOutcome {
	if err := f.limiter.wait(ctx, rawURL); err != nil {
		kind, detail := classifyFetchError(err)
		return FetchOutcome{URL: rawURL, Err: kind, ErrDetail: detail}
	}
	return f.inner.Fetch(ctx, rawURL)
}
