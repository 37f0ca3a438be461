package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nudoq"

// Metrics holds the counters recorded while reading and indexing documents.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	documents   *prometheus.CounterVec
	members     *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	cacheHits   prometheus.Counter
	readSeconds prometheus.Histogram
	indexed     *prometheus.CounterVec
}

// New registers the collectors with reg. A nil reg registers nothing, which
// keeps tests free of global state.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		documents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reader",
			Name:      "documents_total",
			Help:      "Documents read, by outcome (ok, malformed)",
		}, []string{"outcome"}),
		members: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reader",
			Name:      "members_total",
			Help:      "Members produced, by variant",
		}, []string{"variant"}),
		diagnostics: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reader",
			Name:      "diagnostics_total",
			Help:      "Diagnostics reported, by code",
		}, []string{"code"}),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reader",
			Name:      "cache_hits_total",
			Help:      "Reads answered from the result cache",
		}),
		readSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reader",
			Name:      "read_duration_seconds",
			Help:      "Time to read one document",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		indexed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "files_total",
			Help:      "Files seen by the indexer, by outcome (indexed, skipped, failed)",
		}, []string{"outcome"}),
	}
}

// RecordDocument records one read with its outcome and duration
func (m *Metrics) RecordDocument(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(outcome).Inc()
	m.readSeconds.Observe(d.Seconds())
}

// RecordMember counts a produced member variant
func (m *Metrics) RecordMember(variant string) {
	if m == nil {
		return
	}
	m.members.WithLabelValues(variant).Inc()
}

// RecordDiagnostic counts a diagnostic code
func (m *Metrics) RecordDiagnostic(code string) {
	if m == nil {
		return
	}
	m.diagnostics.WithLabelValues(code).Inc()
}

// RecordCacheHit counts a cached read
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// RecordFile counts an indexer outcome
func (m *Metrics) RecordFile(outcome string) {
	if m == nil {
		return
	}
	m.indexed.WithLabelValues(outcome).Inc()
}
