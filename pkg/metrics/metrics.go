// Package metrics exposes pipeline counters for Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dtnitsch/eventscope/models"
)

// Metrics groups the pipeline collectors. A nil *Metrics is a no-op.
type Metrics struct {
	Runs       *prometheus.CounterVec
	Duration   prometheus.Histogram
	RowsLoaded *prometheus.GaugeVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventscope",
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eventscope",
			Name:      "pipeline_run_seconds",
			Help:      "Time to load, normalize and aggregate both exports.",
			Buckets:   prometheus.DefBuckets,
		}),
		RowsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "eventscope",
			Name:      "rows_loaded",
			Help:      "Events kept per source in the last run.",
		}, []string{"source"}),
	}
	if reg != nil {
		reg.MustRegister(m.Runs, m.Duration, m.RowsLoaded)
	}
	return m
}

// ObserveRun records the outcome and duration of one run.
func (m *Metrics) ObserveRun(start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.Runs.WithLabelValues(outcome).Inc()
	m.Duration.Observe(time.Since(start).Seconds())
}

// SetRows records the per-source row counts.
func (m *Metrics) SetRows(counts map[models.Source]int) {
	if m == nil {
		return
	}
	for src, n := range counts {
		m.RowsLoaded.WithLabelValues(string(src)).Set(float64(n))
	}
}
