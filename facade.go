package blok

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/AnatoleLucet/blok/errors"
	"github.com/AnatoleLucet/blok/internal"
)

// PropertySet is the property map of an Object.
type PropertySet = internal.PropertySet

// NodeOption configures a blok at construction.
type NodeOption func(*internal.Node)

// WithPolicy selects the executive policy of a new blok. The default comes
// from Init and is PushPull unless configured otherwise.
func WithPolicy(p Policy) NodeOption {
	return func(n *internal.Node) { n.SetPolicy(p) }
}

// WithExecutive installs the executive registered under name.
func WithExecutive(name string) NodeOption {
	return func(n *internal.Node) { n.SetExecutive(name) }
}

func newNode(process ProcessFunc, typeName, role string, opts []NodeOption) *internal.Node {
	n := internal.NewNode(process, role)
	if typeName != "" && typeName != role {
		n.Derive(typeName)
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// core is the part of a blok every role exposes.
type core struct {
	node *internal.Node
}

func (c core) ID() uuid.UUID {
	return c.node.ID()
}

func (c core) Format() Format {
	return c.node.Format()
}

func (c core) Properties() *PropertySet {
	return c.node.Properties()
}

// TypeName returns the most derived type name of the blok.
func (c core) TypeName() string {
	return c.node.TypeName()
}

func (c core) Logger() *slog.Logger {
	return c.node.Logger()
}

func (c core) Executive() *Executive {
	return c.node.Executive()
}

// SetExecutive swaps in the executive registered under name. It returns
// false and keeps the current executive when name is not an executive.
func (c core) SetExecutive(name string) bool {
	return c.node.SetExecutive(name)
}

// Destroy disconnects the inputs, detaches the outputs from their
// followers and releases the executive.
func (c core) Destroy() {
	c.node.Destroy()
}

// inputs is the consumer side of a blok.
type inputs struct {
	node *internal.Node
}

func (in inputs) InputCount() int {
	return in.node.InputCount()
}

// SetInputCount bounds the number of inputs; max defaults to min.
func (in inputs) SetInputCount(min int, max ...int) {
	in.node.SetInputCount(min, max...)
}

// SetInputFormat declares the format a socket must include to feed input
// index.
func (in inputs) SetInputFormat(index int, f Format) error {
	return in.node.SetInputFormat(index, f)
}

func (in inputs) InputFormat(index int) Format {
	return in.node.InputFormat(index)
}

// Input returns the socket feeding input index, nil when there is none.
func (in inputs) Input(index int) *Socket {
	return in.node.Input(index)
}

// ConnectInput wires s to input index. It returns false, changing nothing,
// when s does not include the input's format or index exceeds the maximum.
func (in inputs) ConnectInput(index int, s *Socket) bool {
	return in.node.ConnectInput(index, s)
}

func (in inputs) DisconnectInput(index int) {
	in.node.DisconnectInput(index)
}

// PullInput asks the blok producing input index to bring it up to date.
func (in inputs) PullInput(index int) error {
	return in.node.PullInput(index)
}

// outputs is the producer side of a blok.
type outputs struct {
	node *internal.Node
}

func (out outputs) OutputCount() int {
	return out.node.OutputCount()
}

// SetOutputCount bounds the number of outputs; max defaults to min.
func (out outputs) SetOutputCount(min int, max ...int) {
	out.node.SetOutputCount(min, max...)
}

func (out outputs) SetOutputFormat(index int, f Format) error {
	return out.node.SetOutputFormat(index, f)
}

func (out outputs) Output(index int) *Socket {
	return out.node.Output(index)
}

// PushOutput notifies every follower of output index.
func (out outputs) PushOutput(index int) error {
	return out.node.PushOutput(index)
}

// SetRange sets the range of output index.
func (out outputs) SetRange(index int, r Range) error {
	s := out.node.Output(index)
	if s == nil {
		return errors.WrapInvalid(errors.ErrIndexOutOfRange, out.node.TypeName(), "SetRange", "output lookup")
	}
	return s.SetRange(r)
}

// SetDefinedKeys sets the explicit keys of output index. NaN and infinite
// keys are rejected.
func (out outputs) SetDefinedKeys(index int, keys Keys) error {
	s := out.node.Output(index)
	if s == nil {
		return errors.WrapInvalid(errors.ErrIndexOutOfRange, out.node.TypeName(), "SetDefinedKeys", "output lookup")
	}
	return s.SetDefinedKeys(keys)
}

// Source is a blok with outputs only.
type Source struct {
	core
	outputs
}

// NewSource creates a source blok named typeName whose process fills its
// outputs.
func NewSource(typeName string, process ProcessFunc, opts ...NodeOption) *Source {
	n := newNode(process, typeName, "Source", opts)
	return &Source{core{n}, outputs{n}}
}

// Filter is a blok with inputs and outputs.
type Filter struct {
	core
	inputs
	outputs
}

// NewFilter creates a filter blok named typeName whose process reads its
// inputs and writes its outputs.
func NewFilter(typeName string, process ProcessFunc, opts ...NodeOption) *Filter {
	n := newNode(process, typeName, "Filter", opts)
	return &Filter{core{n}, inputs{n}, outputs{n}}
}

// SetRangeMerge sets how input ranges combine into the output range.
func (f *Filter) SetRangeMerge(fn RangeMerge) {
	f.core.node.SetRangeMerge(fn)
}

// SetDefinedKeysMerge sets how input keys combine into the output keys.
func (f *Filter) SetDefinedKeysMerge(fn KeysMerge) {
	f.core.node.SetDefinedKeysMerge(fn)
}

// SetWantedKeysMerge sets how the wanted keys of the outputs combine into
// what every input asks for.
func (f *Filter) SetWantedKeysMerge(fn KeysMerge) {
	f.core.node.SetWantedKeysMerge(fn)
}

// Sink is a blok with inputs only.
type Sink struct {
	core
	inputs
}

// NewSink creates a sink blok named typeName whose process consumes its
// inputs.
func NewSink(typeName string, process ProcessFunc, opts ...NodeOption) *Sink {
	n := newNode(process, typeName, "Sink", opts)
	return &Sink{core{n}, inputs{n}}
}

// SetWantedKeys states which keys the sink wants from input index.
func (s *Sink) SetWantedKeys(index int, keys Keys) error {
	in := s.core.node.Input(index)
	if in == nil {
		return errors.WrapInvalid(errors.ErrNoSource, s.TypeName(), "SetWantedKeys", "input lookup")
	}
	in.SetWantedKeys(keys)
	return nil
}
