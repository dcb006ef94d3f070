package internal

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/AnatoleLucet/blok/errors"
	"github.com/AnatoleLucet/blok/metric"
)

// Factory builds a new object.
type Factory func() Object

type registration struct {
	factory Factory
	format  Format
}

// Registry maps names to factories and declared formats.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registration

	logger  *slog.Logger
	metrics *metric.Metrics
}

func NewRegistry(logger *slog.Logger, metrics *metric.Metrics) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		entries: make(map[string]registration),
		logger:  logger,
		metrics: metrics,
	}
}

// Register adds name. It never overwrites: a name already present, an
// empty name or a nil factory make it return false.
func (r *Registry) Register(name string, factory Factory, format Format) bool {
	if name == "" || factory == nil {
		r.logger.Warn("registration rejected", "name", name, "reason", "empty name or nil factory")
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		r.logger.Warn("registration rejected", "name", name, "reason", "already registered")
		return false
	}

	r.entries[name] = registration{factory: factory, format: format}
	r.metrics.SetRegisteredNames(len(r.entries))
	return true
}

// CreateUnique builds an object owned by the caller, or returns nil when
// name is unknown.
func (r *Registry) CreateUnique(name string) Object {
	r.mu.RLock()
	reg, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		r.logger.Debug("create failed", "name", name, "error", errors.ErrUnknownName)
		return nil
	}

	return reg.factory()
}

// CreateShared builds a reference counted object, or returns nil when name
// is unknown.
func (r *Registry) CreateShared(name string) *Shared {
	obj := r.CreateUnique(name)
	if obj == nil {
		return nil
	}
	return NewShared(obj)
}

// ListNames returns, sorted, every name whose declared format includes
// filter.
func (r *Registry) ListNames(filter Format) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name, reg := range r.entries {
		if reg.format.Includes(filter) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// FormatOf returns the declared format of name, or Undefined.
func (r *Registry) FormatOf(name string) Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[name]
	if !ok {
		return Undefined
	}
	return reg.format.Union(Format{})
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Reset drops every registration. It must run before the code that
// supplied the factories goes away.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.entries)
	r.metrics.SetRegisteredNames(0)
}

// Shared is a reference counted handle on an object. The last Release
// destroys the object when it implements Destroyer.
type Shared struct {
	obj  Object
	refs atomic.Int32
}

func NewShared(obj Object) *Shared {
	s := &Shared{obj: obj}
	s.refs.Store(1)
	return s
}

func (s *Shared) Object() Object {
	return s.obj
}

func (s *Shared) Refs() int {
	return int(s.refs.Load())
}

func (s *Shared) Acquire() *Shared {
	s.refs.Add(1)
	return s
}

func (s *Shared) Release() {
	switch n := s.refs.Add(-1); {
	case n == 0:
		if d, ok := s.obj.(Destroyer); ok {
			d.Destroy()
		}
	case n < 0:
		panic("blok: Shared released more times than acquired")
	}
}
