package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Upstream places API
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "munch_upstream_requests_total",
			Help: "Total number of requests sent to the places API",
		},
		[]string{"resource", "result"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "munch_upstream_request_duration_seconds",
			Help:    "Places API request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"resource"},
	)

	// Pagination
	pagesExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "munch_paginated_lists_exhausted_total",
			Help: "Total number of paged lists fetched to the end",
		},
		[]string{"resource"},
	)

	// Place cache
	cacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "munch_place_cache_hits_total",
			Help: "Total number of place lookups served from Redis",
		},
	)

	cacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "munch_place_cache_misses_total",
			Help: "Total number of place lookups that went to the places API",
		},
	)

	// Feed sessions
	feedSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "munch_feed_sessions_active",
			Help: "Number of live search feed sessions",
		},
	)

	// HTTP
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "munch_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "status"},
	)
)

// RecordUpstreamRequest records one call to the places API
func RecordUpstreamRequest(resource string, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	upstreamRequestsTotal.WithLabelValues(resource, result).Inc()
	upstreamRequestDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

// RecordExhausted records a paged list fetched to its end
func RecordExhausted(resource string) {
	pagesExhaustedTotal.WithLabelValues(resource).Inc()
}

func RecordCacheHit() {
	cacheHitsTotal.Inc()
}

func RecordCacheMiss() {
	cacheMissesTotal.Inc()
}

func SetFeedSessionsActive(n int) {
	feedSessionsActive.Set(float64(n))
}

func RecordHTTPRequest(route string, status int) {
	httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
