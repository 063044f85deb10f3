package assess

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/mizatrix/crawlability-checker/internal/metrics"
)

const maxProbeBodyBytes = 10 << 20

// CollyFetcher implements Fetcher using the Colly collector. Each probe runs
// on a clone of a shared base collector so the underlying transport and its
// connection pool are reused within a run.
type CollyFetcher struct {
	baseCollector *colly.Collector
	maxRedirects  int
	logger        *zap.Logger
}

// NewCollyFetcher constructs a configured Colly-based Fetcher.
func NewCollyFetcher(cfg Config, logger *zap.Logger) *CollyFetcher {
	base := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.IgnoreRobotsTxt(),
		colly.ParseHTTPErrorResponse(),
		colly.MaxBodySize(maxProbeBodyBytes),
	)
	base.AllowURLRevisit = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.RequestTimeout)

	return &CollyFetcher{
		baseCollector: base,
		maxRedirects:  cfg.MaxRedirects,
		logger:        logger,
	}
}

// Fetch retrieves a single URL. Transport failures never surface as errors;
// they are classified into the outcome's ErrorKind.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) FetchOutcome {
	collector := f.baseCollector.Clone()
	collector.SetRedirectHandler(f.boundRedirects())

	// The collector runs on its own goroutine; a canceled context abandons
	// it mid-flight, so callback writes are serialized against the final
	// read below.
	var mu sync.Mutex
	outcome := FetchOutcome{URL: rawURL}
	start := time.Now()

	collector.OnResponse(func(r *colly.Response) {
		headers := http.Header{}
		if r.Headers != nil {
			for k, v := range *r.Headers {
				cp := make([]string, len(v))
				copy(cp, v)
				headers[k] = cp
			}
		}
		mu.Lock()
		outcome = FetchOutcome{
			URL:        rawURL,
			OK:         true,
			StatusCode: r.StatusCode,
			Headers:    headers,
			Body:       append([]byte(nil), r.Body...),
		}
		mu.Unlock()
	})

	collector.OnError(func(r *colly.Response, err error) {
		mu.Lock()
		defer mu.Unlock()
		if r != nil && r.StatusCode != 0 {
			// An HTTP-level failure still carries a usable status code.
			outcome = FetchOutcome{URL: rawURL, OK: true, StatusCode: r.StatusCode}
			return
		}
		kind, detail := classifyFetchError(err)
		outcome = FetchOutcome{URL: rawURL, Err: kind, ErrDetail: detail}
	})

	err := f.runVisit(ctx, collector, rawURL)

	mu.Lock()
	if err != nil {
		kind, detail := classifyFetchError(err)
		outcome = FetchOutcome{URL: rawURL, Err: kind, ErrDetail: detail}
	}
	outcome.Duration = time.Since(start)
	result := outcome
	mu.Unlock()

	metrics.ObserveFetch(rawURL, fetchOutcomeLabel(result), len(result.Body), result.Duration)
	f.logger.Debug("probe fetch finished",
		zap.String("url", rawURL),
		zap.Int("status", result.StatusCode),
		zap.String("error_kind", string(result.Err)),
		zap.Duration("duration", result.Duration),
	)
	return result
}

// runVisit drives the collector on its own goroutine so a canceled context
// abandons the probe instead of blocking the caller.
func (f *CollyFetcher) runVisit(ctx context.Context, collector *colly.Collector, rawURL string) error {
	done := make(chan error, 1)
	go func() {
		if err := collector.Visit(rawURL); err != nil {
			done <- err
			return
		}
		collector.Wait()
		done <- nil
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("probe canceled: %w", ctx.Err())
	case err := <-done:
		return err
	}
}

func (f *CollyFetcher) boundRedirects() func(req *http.Request, via []*http.Request) error {
	limit := f.maxRedirects
	return func(_ *http.Request, via []*http.Request) error {
		if len(via) >= limit {
			return fmt.Errorf("stopped after %d redirects", limit)
		}
		return nil
	}
}

// classifyFetchError maps transport errors onto the small probe taxonomy.
func classifyFetchError(err error) (ErrorKind, string) {
	if err == nil {
		return ErrorNetwork, "unknown fetch failure"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout, err.Error()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTimeout, err.Error()
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return ErrorTimeout, err.Error()
	case strings.Contains(msg, "redirect"):
		return ErrorProtocol, err.Error()
	case strings.Contains(msg, "malformed"), strings.Contains(msg, "unsupported protocol"):
		return ErrorProtocol, err.Error()
	default:
		return ErrorNetwork, err.Error()
	}
}

func fetchOutcomeLabel(o FetchOutcome) string {
	if o.Err != ErrorNone {
		return string(o.Err)
	}
	if o.Succeeded() {
		return "ok"
	}
	return "http_error"
}
