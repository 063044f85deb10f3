// Package metrics exposes Prometheus collectors for the assessment engine.
package metrics

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	probeFetchesTotal      *prometheus.CounterVec
	probeBytesTotal        *prometheus.CounterVec
	probeDurationSeconds   *prometheus.HistogramVec
	sitesAssessedTotal     *prometheus.CounterVec
	activeWorkers          prometheus.Gauge
	rateLimitDelaysSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus collectors. It is safe to call multiple
// times.
func Init() {
	once.Do(func() {
		probeFetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawlcheck_probe_fetches_total",
				Help: "Total probe fetches issued, labeled by site and outcome.",
			},
			[]string{"site", "outcome"},
		)

		probeBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawlcheck_probe_bytes_total",
				Help: "Total bytes fetched by probes, labeled by site.",
			},
			[]string{"site"},
		)

		probeDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crawlcheck_probe_duration_seconds",
				Help:    "Histogram of probe fetch latencies, labeled by outcome.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"outcome"},
		)

		sitesAssessedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawlcheck_sites_assessed_total",
				Help: "Total sites assessed, labeled by recommended method.",
			},
			[]string{"method"},
		)

		activeWorkers = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "crawlcheck_active_workers",
				Help: "Number of workers currently assessing a site.",
			},
		)

		rateLimitDelaysSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crawlcheck_rate_limit_delays_seconds",
				Help:    "Histogram of per-host rate limit wait durations.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"host"},
		)
	})
}

// SanitizeSite extracts a lowercase hostname for use as a metric label.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch records one probe fetch.
func ObserveFetch(site string, outcome string, bytesFetched int, duration time.Duration) {
	Init()
	sanitized := SanitizeSite(site)
	probeFetchesTotal.WithLabelValues(sanitized, outcome).Inc()
	if bytesFetched > 0 {
		probeBytesTotal.WithLabelValues(sanitized).Add(float64(bytesFetched))
	}
	probeDurationSeconds.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveSite increments the assessed-sites counter for the given method.
func ObserveSite(method string) {
	Init()
	sitesAssessedTotal.WithLabelValues(method).Inc()
}

// IncActiveWorkers increments the active workers gauge.
func IncActiveWorkers() {
	Init()
	activeWorkers.Inc()
}

// DecActiveWorkers decrements the active workers gauge.
func DecActiveWorkers() {
	Init()
	activeWorkers.Dec()
}

// ObserveRateLimitDelay records the duration of a rate limit wait.
func ObserveRateLimitDelay(host string, duration time.Duration) {
	Init()
	rateLimitDelaysSeconds.WithLabelValues(host).Observe(duration.Seconds())
}
