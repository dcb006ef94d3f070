package internal

import (
	"log/slog"
	"sync/atomic"

	"github.com/AnatoleLucet/blok/metric"
)

// Runtime is the process-wide state of the blok runtime: the capability
// registry plus the logger and metrics every node reports to.
type Runtime struct {
	registry *Registry
	logger   *slog.Logger
	metrics  *metric.Metrics

	defaultExecutive string
}

type Option func(*Runtime)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithMetrics(metrics *metric.Metrics) Option {
	return func(r *Runtime) { r.metrics = metrics }
}

// WithDefaultExecutive names the executive new nodes start with.
func WithDefaultExecutive(name string) Option {
	return func(r *Runtime) {
		if name != "" {
			r.defaultExecutive = name
		}
	}
}

func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		logger:           slog.Default(),
		defaultExecutive: PushPull.ExecutiveName(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.registry = NewRegistry(r.logger, r.metrics)
	RegisterExecutives(r.registry)

	return r
}

var current atomic.Pointer[Runtime]

// GetRuntime returns the process-wide runtime, creating a default one on
// first use.
func GetRuntime() *Runtime {
	if r := current.Load(); r != nil {
		return r
	}

	current.CompareAndSwap(nil, NewRuntime())
	return current.Load()
}

// Init replaces the process-wide runtime with a fresh one built from opts.
// The registrations of the previous runtime are dropped.
func Init(opts ...Option) *Runtime {
	r := NewRuntime(opts...)
	if old := current.Swap(r); old != nil {
		old.registry.Reset()
	}
	return r
}

func (r *Runtime) Registry() *Registry {
	return r.registry
}

func (r *Runtime) Logger() *slog.Logger {
	return r.logger
}

func (r *Runtime) Metrics() *metric.Metrics {
	return r.metrics
}

func (r *Runtime) DefaultExecutive() string {
	return r.defaultExecutive
}

// Reset drops every registration, built-in executives included. Call Init
// to get them back.
func (r *Runtime) Reset() {
	r.registry.Reset()
}
