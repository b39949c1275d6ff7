// Package metrics defines the Prometheus collectors exposed by `scentnet serve`
// at /metrics. CLI runs record into them too; nothing is exported there.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scentnet_pipeline_duration_seconds",
			Help:    "Time spent deriving a view from the ingested network",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	VisiblePerfumes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scentnet_visible_perfumes",
			Help: "Perfumes in the most recently derived view",
		},
	)

	IngestDroppedEdges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scentnet_ingest_dropped_edges_total",
			Help: "Edges dropped during ingestion",
		},
		[]string{"reason"},
	)

	IngestClampedWeights = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scentnet_ingest_clamped_weights_total",
			Help: "Edge weights clamped into [0,1] during ingestion",
		},
	)

	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scentnet_provider_requests_total",
			Help: "Requests made to the network provider",
		},
		[]string{"endpoint", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scentnet_circuit_breaker_state",
			Help: "Provider circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scentnet_http_requests_total",
			Help: "Requests served by the interactive server",
		},
		[]string{"route", "status"},
	)
)
