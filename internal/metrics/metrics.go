package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderRequestsTotal counts upstream requests by provider and status class.
	ProviderRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marquee_provider_requests_total",
		Help: "Total number of upstream provider requests by provider and status",
	}, []string{"provider", "status"})

	// ProviderRequestDuration tracks upstream latency.
	ProviderRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marquee_provider_request_duration_seconds",
		Help:    "Upstream provider request latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"provider"})

	// BatchTotal counts fan-out batches by discipline and outcome.
	BatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marquee_batch_total",
		Help: "Fan-out batches by name and result",
	}, []string{"batch", "result"})

	// SubtitleLookupsTotal counts subtitle resolutions by outcome.
	SubtitleLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marquee_subtitle_lookups_total",
		Help: "Subtitle lookups by result and reason",
	}, []string{"result", "reason"})

	// HTTPRequestDuration tracks API latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marquee_http_request_duration_seconds",
		Help:    "HTTP request latencies in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// HTTPRequestsInFlight is the number of requests being served.
	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "marquee_http_requests_in_flight",
		Help: "Current number of HTTP requests being served",
	})
)

// ObserveProviderRequest records one upstream response. status 0 means a transport failure.
func ObserveProviderRequest(provider string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	ProviderRequestsTotal.WithLabelValues(provider, label).Inc()
	if elapsed > 0 {
		ProviderRequestDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
	}
}

// ObserveBatch records the outcome of a named fan-out batch.
func ObserveBatch(name string, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	BatchTotal.WithLabelValues(name, result).Inc()
}

// ObserveSubtitleLookup records the outcome of a subtitle resolution.
func ObserveSubtitleLookup(success bool, reason string) {
	result := "success"
	if !success {
		result = "failure"
	}
	SubtitleLookupsTotal.WithLabelValues(result, reason).Inc()
}

// ObserveHTTPRequest records one served API request. route is the router
// pattern, never the raw path.
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
