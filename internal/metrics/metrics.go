// Package metrics provides Prometheus metrics for itinerary synchronization.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync outcomes, used as the "outcome" label value.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Sync records itinerary sync calls.
type Sync struct {
	// Calls counts sync calls by outcome.
	Calls *prometheus.CounterVec
	// Duration tracks how long successful and failed syncs take.
	Duration prometheus.Histogram
	// Sections counts section rows touched by successful syncs, by operation
	// (created, updated, removed).
	Sections *prometheus.CounterVec
}

// NewSync registers the sync metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func NewSync(reg prometheus.Registerer) *Sync {
	f := promauto.With(reg)
	return &Sync{
		Calls: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tripplanner",
				Subsystem: "itinerary",
				Name:      "syncs_total",
				Help:      "Total number of itinerary sync calls by outcome",
			},
			[]string{"outcome"},
		),
		Duration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "tripplanner",
				Subsystem: "itinerary",
				Name:      "sync_duration_seconds",
				Help:      "Duration of itinerary sync calls in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
		Sections: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tripplanner",
				Subsystem: "itinerary",
				Name:      "sections_total",
				Help:      "Sections created, updated, or removed by itinerary syncs",
			},
			[]string{"op"},
		),
	}
}

// ObserveSync records one sync call. The section counters only move for
// successful calls because failed syncs are rolled back.
func (m *Sync) ObserveSync(outcome string, elapsed time.Duration, created, updated, removed int) {
	m.Calls.WithLabelValues(outcome).Inc()
	m.Duration.Observe(elapsed.Seconds())
	if outcome != OutcomeOK {
		return
	}
	m.Sections.WithLabelValues("created").Add(float64(created))
	m.Sections.WithLabelValues("updated").Add(float64(updated))
	m.Sections.WithLabelValues("removed").Add(float64(removed))
}
