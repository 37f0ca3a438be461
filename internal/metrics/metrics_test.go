package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordDocument("ok", 2*time.Millisecond)
	m.RecordDocument("ok", time.Millisecond)
	m.RecordDocument("malformed", time.Millisecond)
	m.RecordMember("Class")
	m.RecordDiagnostic("UnresolvedMember")
	m.RecordDiagnostic("UnresolvedMember")
	m.RecordCacheHit()
	m.RecordFile("skipped")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.documents.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documents.WithLabelValues("malformed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.members.WithLabelValues("Class")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.diagnostics.WithLabelValues("UnresolvedMember")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.indexed.WithLabelValues("skipped")))

	n, err := testutil.GatherAndCount(reg, "nudoq_reader_read_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordDocument("ok", time.Second)
		m.RecordMember("Class")
		m.RecordDiagnostic("x")
		m.RecordCacheHit()
		m.RecordFile("indexed")
	})
}

func TestNew_NilRegisterer(t *testing.T) {
	assert.NotPanics(t, func() {
		New(nil).RecordCacheHit()
		New(nil).RecordCacheHit()
	})
}
