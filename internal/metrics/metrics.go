package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all prometheus metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Imports           *prometheus.CounterVec
	FilesExtracted    *prometheus.CounterVec
	ConflictsDetected prometheus.Counter
	GuardRefusals     *prometheus.CounterVec
	CascadeSteps      *prometheus.CounterVec
	BoardDuration     prometheus.Histogram
}

// New creates metrics on a private registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Imports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weekly_imports_total",
			Help:      "Weekly schedule imports by outcome",
		}, []string{"outcome"}),
		FilesExtracted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_extracted_total",
			Help:      "Fleet files sent to extraction by outcome",
		}, []string{"outcome"}),
		ConflictsDetected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tag_conflicts_detected_total",
			Help:      "TAG conflict groups surfaced to operators",
		}),
		GuardRefusals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "card_guard_refusals_total",
			Help:      "Maintenance card creations refused by reason",
		}, []string{"reason"}),
		CascadeSteps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cascade_steps_total",
			Help:      "Cascade write steps by cascade and outcome",
		}, []string{"cascade", "outcome"}),
		BoardDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "board_reconcile_seconds",
			Help:      "Time taken to reconcile a weekly board",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ImportOutcome(outcome string) {
	if m == nil {
		return
	}
	m.Imports.WithLabelValues(outcome).Inc()
}

func (m *Metrics) FileExtracted(ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.FilesExtracted.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Conflicts(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ConflictsDetected.Add(float64(n))
}

func (m *Metrics) GuardRefused(reason string) {
	if m == nil {
		return
	}
	m.GuardRefusals.WithLabelValues(reason).Inc()
}

func (m *Metrics) CascadeStep(cascade string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.CascadeSteps.WithLabelValues(cascade, outcome).Inc()
}

func (m *Metrics) ObserveBoard(start time.Time) {
	if m == nil {
		return
	}
	m.BoardDuration.Observe(time.Since(start).Seconds())
}
