package observability

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)

	m.RecordAnomaly("polar_ascendant")
	m.RecordAnomaly("polar_ascendant")
	m.RecordCompute("blueprint", OutcomeOK, 2*time.Millisecond)
	m.RecordCache(CacheHit)
	m.RecordSnapshotStored(15)
	m.RecordDBQuery("postgres", "insert_snapshot", time.Millisecond, errors.New("x"))
	m.RecordHTTP("POST", "/v1/blueprints", 200, time.Millisecond)
	m.TransitSubscribed(1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AnomaliesTotal.WithLabelValues("polar_ascendant")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComputationsTotal.WithLabelValues("blueprint", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues(CacheHit)))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.LayerScoresStored))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("postgres", "insert_snapshot")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/v1/blueprints", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransitSubscribers))
}

func TestMetrics_RecordVerification(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())
	at := time.Unix(1700000000, 0)

	m.RecordVerification(3, 1, at)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.LastSuccessfulVerification))

	m.RecordVerification(4, 0, at)
	assert.Equal(t, 7.0, testutil.ToFloat64(m.SnapshotsVerified.WithLabelValues("match")))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(m.LastSuccessfulVerification))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordAnomaly("house_fallback")
		m.RecordCompute("blueprint", OutcomeOK, time.Second)
		m.RecordCache(CacheMiss)
		m.RecordHTTP("GET", "/health", 200, time.Second)
		m.TransitSubscribed(-1)
	})
}

func TestHandlerFor(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)
	m.RecordAnomaly("house_fallback")

	rec := httptest.NewRecorder()
	HandlerFor(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `test_engine_anomalies_total{kind="house_fallback"} 1`))
}
