// Package metrics provides Prometheus metrics collection for the conversion
// API. It exports HTTP server metrics:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// plus upstream and dataset metrics:
//   - terminology_request_total: Counter with endpoint and status labels
//   - dataset_build_duration_seconds: Gauge with the last rebuild duration
//   - dataset_codes_total: Gauge with code counts per system
//
// All metrics are automatically registered with the Prometheus default
// registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	TerminologyRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terminology_request_total",
			Help: "Total requests to the RxNav terminology service",
		},
		[]string{"endpoint", "status"},
	)

	DatasetBuildDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_build_duration_seconds",
			Help: "Duration of the last offline dataset rebuild",
		},
	)

	DatasetCodesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataset_codes_total",
			Help: "Number of codes in the offline tables per code system",
		},
		[]string{"system"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(TerminologyRequestTotals)
	prometheus.MustRegister(DatasetBuildDuration)
	prometheus.MustRegister(DatasetCodesTotal)
}
