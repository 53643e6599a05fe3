// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Compute outcomes used as the "outcome" label.
const (
	OutcomeOK           = "ok"
	OutcomeInvalidTime  = "invalid_time"
	OutcomePhysicsError = "physics_error"
	OutcomeError        = "error"
)

// Cache results used as the "result" label.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds all Prometheus metrics for the application.
// All Record methods are no-ops on a nil *Metrics.
type Metrics struct {
	// Engine metrics
	ComputationsTotal *prometheus.CounterVec
	ComputeDuration   *prometheus.HistogramVec
	AnomaliesTotal    *prometheus.CounterVec
	BatchSize         prometheus.Histogram

	// Cache metrics
	CacheRequests *prometheus.CounterVec

	// Persistence metrics
	SnapshotsStored   prometheus.Counter
	LayerScoresStored prometheus.Counter
	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec

	// Verification metrics
	SnapshotsVerified          *prometheus.CounterVec
	LastSuccessfulVerification prometheus.Gauge

	// API metrics
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	TransitSubscribers prometheus.Gauge
	TransitFrames      prometheus.Counter
}

// NewMetrics creates a new Metrics instance registered on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "cosmic_blueprint"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		// Engine metrics
		ComputationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "computations_total",
			Help:      "Total number of computations by operation and outcome",
		}, []string{"operation", "outcome"}),
		ComputeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "compute_duration_seconds",
			Help:      "Computation duration in seconds by operation",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"operation"}),
		AnomaliesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "anomalies_total",
			Help:      "Total number of degenerate geometry anomalies by kind",
		}, []string{"kind"}),
		BatchSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "batch_size",
			Help:      "Number of inputs per batch computation",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}),

		// Cache metrics
		CacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Total number of blueprint cache lookups by result",
		}, []string{"result"}),

		// Persistence metrics
		SnapshotsStored: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "snapshots_stored_total",
			Help:      "Total number of blueprint snapshots stored",
		}),
		LayerScoresStored: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "layer_scores_stored_total",
			Help:      "Total number of layer score records stored",
		}),
		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Verification metrics
		SnapshotsVerified: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verification",
			Name:      "snapshots_total",
			Help:      "Total number of replayed snapshots by result",
		}, []string{"result"}),
		LastSuccessfulVerification: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_verification_timestamp",
			Help:      "Unix timestamp of last verification run without divergences",
		}),

		// API metrics
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		TransitSubscribers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "transits",
			Name:      "subscribers",
			Help:      "Current number of transit websocket subscribers",
		}),
		TransitFrames: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transits",
			Name:      "frames_sent_total",
			Help:      "Total number of sky snapshots pushed to subscribers",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint of the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor returns an HTTP handler exposing the metrics of g.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// RecordAnomaly increments the anomaly counter for kind.
func (m *Metrics) RecordAnomaly(kind string) {
	if m == nil {
		return
	}
	m.AnomaliesTotal.WithLabelValues(kind).Inc()
}

// RecordCompute records one computation.
func (m *Metrics) RecordCompute(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ComputationsTotal.WithLabelValues(operation, outcome).Inc()
	m.ComputeDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordBatch records the size of a batch computation.
func (m *Metrics) RecordBatch(size int) {
	if m == nil {
		return
	}
	m.BatchSize.Observe(float64(size))
}

// RecordCache records a cache lookup result.
func (m *Metrics) RecordCache(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

// RecordSnapshotStored records one stored snapshot and its layer scores.
func (m *Metrics) RecordSnapshotStored(layerScores int) {
	if m == nil {
		return
	}
	m.SnapshotsStored.Inc()
	m.LayerScoresStored.Add(float64(layerScores))
}

// RecordDBQuery records database query metrics.
func (m *Metrics) RecordDBQuery(database, operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(database, operation).Observe(d.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordVerification records the outcome of a verification run.
func (m *Metrics) RecordVerification(matched, divergent int, at time.Time) {
	if m == nil {
		return
	}
	m.SnapshotsVerified.WithLabelValues("match").Add(float64(matched))
	m.SnapshotsVerified.WithLabelValues("divergent").Add(float64(divergent))
	if divergent == 0 {
		m.LastSuccessfulVerification.Set(float64(at.Unix()))
	}
}

// RecordHTTP records one served HTTP request.
func (m *Metrics) RecordHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// TransitSubscribed adjusts the subscriber gauge by delta.
func (m *Metrics) TransitSubscribed(delta int) {
	if m == nil {
		return
	}
	m.TransitSubscribers.Add(float64(delta))
}

// RecordTransitFrame records one pushed sky snapshot.
func (m *Metrics) RecordTransitFrame() {
	if m == nil {
		return
	}
	m.TransitFrames.Inc()
}
