// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// promauto registers on the default registry, which promhttp.Handler serves.
var (
	// HTTPRequestsTotal counts requests by method, route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedapi_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures handler latency per route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedapi_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// EmbedBatchSize records how many texts each accepted batch carried.
	EmbedBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "embedapi_embed_batch_size",
			Help:    "Number of texts per embed request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// EmbedDuration is the time spent inside the model for successful batches.
	EmbedDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "embedapi_embed_duration_seconds",
			Help:    "Model encode time per successful batch",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// EmbedFailuresTotal counts batches that failed inside the model.
	EmbedFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedapi_embed_failures_total",
			Help: "Embed batches that failed with an internal error",
		},
	)

	// ModelLoadSeconds is how long the model handle took to come up.
	ModelLoadSeconds = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "embedapi_model_load_seconds",
			Help: "Time taken to load the embedding model at startup",
		},
		[]string{"model", "backend"},
	)
)
