// Package metric exposes Prometheus collectors for ingest activity.
//
// All recording methods are safe on a nil *Metrics, so components can take
// an optional collector set without guarding every call.
package metric

import (
	"github.com/c360studio/semstreams/message"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/semingest/translation"
)

const namespace = "semingest"

// Metrics holds the ingest collectors.
type Metrics struct {
	Translations   *prometheus.CounterVec
	Associations   *prometheus.CounterVec
	TriplesAdded   *prometheus.CounterVec
	FetchBatches   *prometheus.CounterVec
	CacheConflicts *prometheus.CounterVec
}

// NewMetrics creates the collectors without registering them.
func NewMetrics() *Metrics {
	return &Metrics{
		Translations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "translation",
				Name:      "resolutions_total",
				Help:      "Word resolutions by source and outcome",
			},
			[]string{"source", "result"},
		),

		Associations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "association",
				Name:      "emitted_total",
				Help:      "Associations written to a graph",
			},
			[]string{"source"},
		),

		TriplesAdded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "graph",
				Name:      "triples_added_total",
				Help:      "Unique triples added to a graph",
			},
			[]string{"source"},
		),

		FetchBatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "fetch",
				Name:      "batches_total",
				Help:      "Remote API batches by result (ok, skipped, error)",
			},
			[]string{"result"},
		),

		CacheConflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "conflicts_total",
				Help:      "Attempts to re-type an id already in the cache",
			},
			[]string{"source"},
		),
	}
}

// Collectors lists every collector for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Translations,
		m.Associations,
		m.TriplesAdded,
		m.FetchBatches,
		m.CacheConflicts,
	}
}

// ObserveTranslation counts one resolution. Its signature matches
// translation.Observer.
func (m *Metrics) ObserveTranslation(source string, outcome translation.Outcome) {
	if m == nil {
		return
	}
	m.Translations.WithLabelValues(source, string(outcome)).Inc()
}

// ObserveTriple counts a triple by its Source. Its signature matches
// graph.AddHook.
func (m *Metrics) ObserveTriple(t message.Triple) {
	if m == nil {
		return
	}
	m.TriplesAdded.WithLabelValues(t.Source).Inc()
}

// ObserveBatch counts a fetch batch result.
func (m *Metrics) ObserveBatch(result string) {
	if m == nil {
		return
	}
	m.FetchBatches.WithLabelValues(result).Inc()
}

// AssociationEmitted counts one association written by source.
func (m *Metrics) AssociationEmitted(source string) {
	if m == nil {
		return
	}
	m.Associations.WithLabelValues(source).Inc()
}

// CacheConflict counts one refused re-typing by source.
func (m *Metrics) CacheConflict(source string) {
	if m == nil {
		return
	}
	m.CacheConflicts.WithLabelValues(source).Inc()
}
