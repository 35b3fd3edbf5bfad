// Package metrics exposes Prometheus collectors for the CineFinder pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scraperPagesTotal     *prometheus.CounterVec
	scraperRetriesTotal   prometheus.Counter
	loaderUpsertsTotal    *prometheus.CounterVec
	httpRequestsTotal     *prometheus.CounterVec
	httpRequestDurSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scraperPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cinefinder_pages_total",
				Help: "Detail pages processed, labeled by outcome (extracted, skipped, failed).",
			},
			[]string{"outcome"},
		)

		scraperRetriesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "cinefinder_fetch_retries_total",
				Help: "Fetch attempts that were retried after a transient failure.",
			},
		)

		loaderUpsertsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cinefinder_loader_upserts_total",
				Help: "Loader upserts, labeled by kind (inserted, updated, rejected).",
			},
			[]string{"kind"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePage increments the page counter for the given outcome.
func ObservePage(outcome string) {
	Init()
	scraperPagesTotal.WithLabelValues(outcome).Inc()
}

// ObserveRetry counts one retried fetch attempt.
func ObserveRetry() {
	Init()
	scraperRetriesTotal.Inc()
}

// ObserveUpsert increments the loader counter for the given kind.
func ObserveUpsert(kind string) {
	Init()
	loaderUpsertsTotal.WithLabelValues(kind).Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
