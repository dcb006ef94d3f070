// Package blok is a modular dataflow runtime. Processing nodes ("bloks")
// own typed output sockets and read the sockets of other bloks through
// their inputs. Availability travels downstream with pushes, demand travels
// upstream with pulls, and each blok negotiates which keys of a data range
// it actually has to produce.
//
// Every entity is an Object: it has an identity, a Format (its type names
// plus its property descriptors) and typed properties reachable through
// Get and Set. Objects are created by name from a process-wide registry,
// whose lifecycle is explicit: Init installs a fresh registry with the
// built-in executives, Reset drops every registration.
package blok

import (
	"log/slog"

	"github.com/AnatoleLucet/blok/internal"
	"github.com/AnatoleLucet/blok/metric"
)

type (
	// Object is anything the registry can create.
	Object = internal.Object

	// Factory builds a new Object.
	Factory = internal.Factory

	// Format is a structural capability descriptor: type names, most
	// derived first, and property descriptors.
	Format = internal.Format

	// PropertyDescriptor names a property, its exact value type and rights.
	PropertyDescriptor = internal.PropertyDescriptor

	// Rights are property access rights.
	Rights = internal.Rights

	// Key is a data coordinate.
	Key = internal.Key

	// Range is a closed coordinate interval.
	Range = internal.Range

	// Keys is an ascending set of coordinates.
	Keys = internal.Keys

	// RangeMerge combines input ranges into an output range.
	RangeMerge = internal.RangeMerge

	// KeysMerge combines several key sets into one.
	KeysMerge = internal.KeysMerge

	// Socket is the output-side data container of a blok.
	Socket = internal.Socket

	// Executive decides when a blok's process runs.
	Executive = internal.Executive

	// Policy selects which signals trigger an executive.
	Policy = internal.Policy

	// Shared is a reference counted handle created by CreateShared.
	Shared = internal.Shared

	// ProcessFunc is the transformation of a blok.
	ProcessFunc = internal.ProcessFunc
)

const (
	Read      = internal.Read
	Write     = internal.Write
	ReadWrite = internal.ReadWrite
)

const (
	Push     = internal.Push
	Pull     = internal.Pull
	PushPull = internal.PushPull
)

// Registry names of the built-in executives.
const (
	PushExecutive     = "PushExecutive"
	PullExecutive     = "PullExecutive"
	PushPullExecutive = "PushPullExecutive"
)

// Unbounded lifts the upper limit of an input or output count.
const Unbounded = internal.Unbounded

// Undefined is the format of names nothing was registered under.
var Undefined = internal.Undefined

// NewFormat returns a format made of the given type names.
func NewFormat(typeNames ...string) Format {
	return internal.NewFormat(typeNames...)
}

// NewKeys returns a sorted, de-duplicated key set.
func NewKeys(keys ...Key) Keys {
	return internal.NewKeys(keys...)
}

// UnionRange is the default range merge.
func UnionRange(ranges []Range) Range {
	return internal.UnionRange(ranges)
}

// UnionKeys is the default keys merge.
func UnionKeys(sets []Keys) Keys {
	return internal.UnionKeys(sets)
}

// Option configures Init.
type Option = internal.Option

// WithLogger sets the logger every blok derives its logger from.
func WithLogger(logger *slog.Logger) Option {
	return internal.WithLogger(logger)
}

// WithMetrics makes executives and the registry report to m.
func WithMetrics(m *metric.Metrics) Option {
	return internal.WithMetrics(m)
}

// WithDefaultExecutive names the executive new bloks start with.
func WithDefaultExecutive(name string) Option {
	return internal.WithDefaultExecutive(name)
}

// Init installs a fresh process-wide registry holding the built-in
// executives. Registrations made before are dropped.
func Init(opts ...Option) {
	internal.Init(opts...)
}

// Reset drops every registration. It must be called before code that
// supplied factories becomes unavailable.
func Reset() {
	internal.GetRuntime().Reset()
}

// Register adds a factory under name with its declared format. It returns
// false when name is already taken.
func Register(name string, factory Factory, format Format) bool {
	return internal.GetRuntime().Registry().Register(name, factory, format)
}

// CreateUnique creates the object registered under name, owned by the
// caller. It returns nil when name is unknown.
func CreateUnique(name string) Object {
	return internal.GetRuntime().Registry().CreateUnique(name)
}

// CreateShared creates the object registered under name behind a
// reference counted handle. It returns nil when name is unknown.
func CreateShared(name string) *Shared {
	return internal.GetRuntime().Registry().CreateShared(name)
}

// ListNames returns the sorted names whose declared format includes
// filter.
func ListNames(filter Format) []string {
	return internal.GetRuntime().Registry().ListNames(filter)
}

// FormatOf returns the declared format of name, or Undefined.
func FormatOf(name string) Format {
	return internal.GetRuntime().Registry().FormatOf(name)
}
