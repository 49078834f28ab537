// Package metrics exports Prometheus metrics for executed processes.
package metrics

import (
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gorewood/piperun/internal/proc"
)

// Recorder counts and times process runs. It implements proc.Observer.
type Recorder struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder registers the process metrics on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "piperun_process_runs_total",
				Help: "Total number of executed processes by outcome",
			},
			[]string{"program", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "piperun_process_duration_seconds",
				Help:    "Wall time of executed processes in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"program"},
		),
	}
}

// Registry returns the registry holding the process metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRun records one finished run. The program label is the base name
// of the executable to keep label cardinality bounded.
func (r *Recorder) ObserveRun(ev proc.Event) {
	program := filepath.Base(ev.Command.Program())
	r.runs.WithLabelValues(program, ev.Outcome()).Inc()
	r.duration.WithLabelValues(program).Observe(ev.Duration.Seconds())
}

var _ proc.Observer = (*Recorder)(nil)
