// Package metric holds the Prometheus collectors the blok runtime updates
// while it executes a graph.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Signal names used as label values.
const (
	SignalPushed = "pushed"
	SignalPulled = "pulled"
)

// Signal outcomes used as label values.
const (
	OutcomeExecuted = "executed"
	OutcomeIgnored  = "ignored"
	OutcomeDropped  = "dropped"
)

// Metrics contains the runtime collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Signals         *prometheus.CounterVec
	Processes       *prometheus.CounterVec
	ProcessDuration *prometheus.HistogramVec
	RegisteredNames prometheus.Gauge
}

// New creates the collectors under the given namespace. They are not
// registered anywhere until Register is called.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "blok"
	}

	return &Metrics{
		Signals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "executive",
				Name:      "signals_total",
				Help:      "Push/pull signals handled by executives, by outcome",
			},
			[]string{"blok", "signal", "outcome"},
		),

		Processes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "executive",
				Name:      "processes_total",
				Help:      "Calls into a blok's process function",
			},
			[]string{"blok", "status"},
		),

		ProcessDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "executive",
				Name:      "process_duration_seconds",
				Help:      "Time spent inside a blok's process function",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"blok"},
		),

		RegisteredNames: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "registry",
				Name:      "names",
				Help:      "Names currently held by the capability registry",
			},
		),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.Signals,
		m.Processes,
		m.ProcessDuration,
		m.RegisteredNames,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveSignal counts one executive signal.
func (m *Metrics) ObserveSignal(blok, signal, outcome string) {
	if m == nil {
		return
	}
	m.Signals.WithLabelValues(blok, signal, outcome).Inc()
}

// ObserveProcess counts one process call and records its duration.
func (m *Metrics) ObserveProcess(blok string, took time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Processes.WithLabelValues(blok, status).Inc()
	m.ProcessDuration.WithLabelValues(blok).Observe(took.Seconds())
}

// SetRegisteredNames sets the registry size gauge.
func (m *Metrics) SetRegisteredNames(n int) {
	if m == nil {
		return
	}
	m.RegisteredNames.Set(float64(n))
}
