// Package metrics provides Prometheus metrics for the transcript pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ytsummary"

var (
	// AcquisitionsTotal counts finished Acquire calls.
	// Labels:
	//   - result: success or an error kind (invalid_url, rate_limited, ...)
	//   - origin: cache, source, none
	AcquisitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "acquisitions_total",
			Help:      "Total number of transcript acquisitions",
		},
		[]string{"result", "origin"},
	)

	// SourceAttemptsTotal counts individual fetches against a transcript source.
	SourceAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_attempts_total",
			Help:      "Total number of transcript source fetch attempts",
		},
		[]string{"source", "outcome"},
	)

	// CacheOperationsTotal tracks cache reads and writes.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of transcript cache operations",
		},
		[]string{"operation", "status"},
	)

	// ChunkSummariesTotal counts per-chunk summarization calls.
	ChunkSummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunk_summaries_total",
			Help:      "Total number of chunk summarization calls",
		},
		[]string{"status"},
	)

	// AcquisitionDuration observes wall time of Acquire, backoff included.
	AcquisitionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "acquisition_duration_seconds",
			Help:      "Transcript acquisition latency",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
	)

	// SingleflightRequestsTotal tracks request coalescing in the pipeline.
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)
)

const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

const (
	CacheOpGet = "get"
	CacheOpPut = "put"
)

const (
	OriginCache  = "cache"
	OriginSource = "source"
	OriginNone   = "none"
)

const (
	ChunkStatusSuccess     = "success"
	ChunkStatusPlaceholder = "placeholder"
)

const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)
