package internal

import (
	"fmt"
	"log/slog"
	"math"
	"weak"

	"github.com/AnatoleLucet/blok/errors"
)

// Unbounded is the maximum count of a slot array with no upper limit.
const Unbounded = math.MaxInt

// ProcessFunc is a node's transformation: read inputs, write outputs.
type ProcessFunc func() error

type inputSlot struct {
	source      weak.Pointer[Socket]
	format      Format
	wantedMerge KeysMerge
}

// resolve returns the connected socket, nil when nothing is connected, the
// socket was collected, or its producer is gone.
func (in *inputSlot) resolve() *Socket {
	s := in.source.Value()
	if s == nil || !s.HasSource() {
		return nil
	}
	return s
}

// Node (an AbstractBlok) owns its output sockets, holds weak handles on the
// sockets feeding its inputs and leaves triggering to its Executive.
type Node struct {
	*Base

	self weak.Pointer[Node]

	minInputs, maxInputs   int
	minOutputs, maxOutputs int

	inputs  []*inputSlot
	outputs []*Socket

	executive *Executive
	process   ProcessFunc

	rangeMerge   RangeMerge
	definedMerge KeysMerge
	wantedMerge  KeysMerge

	logger    *slog.Logger
	destroyed bool
}

// NewNode builds a node with no slots whose type chain is typeNames
// followed by "AbstractBlok". process may be nil.
func NewNode(process ProcessFunc, typeNames ...string) *Node {
	n := &Node{
		Base:         NewBase(append(typeNames, "AbstractBlok")...),
		process:      process,
		rangeMerge:   UnionRange,
		definedMerge: UnionKeys,
		wantedMerge:  UnionKeys,
	}
	n.self = weak.Make(n)

	rt := GetRuntime()
	n.logger = rt.Logger().With("blok", n.TypeName(), "id", n.ID().String())
	if !n.SetExecutive(rt.DefaultExecutive()) {
		n.useExecutive(NewExecutive(PushPull))
	}

	return n
}

func (n *Node) Logger() *slog.Logger {
	return n.logger
}

// Derive pushes a more derived type name and refreshes the logger.
func (n *Node) Derive(typeName string) {
	n.Base.Derive(typeName)
	n.logger = GetRuntime().Logger().With("blok", n.TypeName(), "id", n.ID().String())
}

// SetProcess replaces the process function.
func (n *Node) SetProcess(process ProcessFunc) {
	n.process = process
}

func (n *Node) runProcess() error {
	if n.process == nil {
		return nil
	}
	return n.process()
}

// Executive

func (n *Node) Executive() *Executive {
	return n.executive
}

// SetExecutive swaps in the executive registered under name. It returns
// false, keeping the current one, when name is unknown or is not an
// executive.
func (n *Node) SetExecutive(name string) bool {
	if n.destroyed {
		return false
	}

	obj := GetRuntime().Registry().CreateUnique(name)
	e, ok := obj.(*Executive)
	if !ok {
		n.logger.Warn("executive not available", "name", name)
		return false
	}

	n.useExecutive(e)
	return true
}

// SetPolicy installs the executive implementing p.
func (n *Node) SetPolicy(p Policy) {
	if !n.SetExecutive(p.ExecutiveName()) && !n.destroyed {
		n.useExecutive(NewExecutive(p))
	}
}

func (n *Node) useExecutive(e *Executive) {
	if n.executive != nil {
		n.executive.release()
	}
	e.bind(n)
	n.executive = e
}

// Slot counts

func (n *Node) InputCount() int  { return len(n.inputs) }
func (n *Node) OutputCount() int { return len(n.outputs) }

func (n *Node) InputLimits() (min, max int)  { return n.minInputs, n.maxInputs }
func (n *Node) OutputLimits() (min, max int) { return n.minOutputs, n.maxOutputs }

// SetInputCount declares the allowed number of inputs and resizes the slot
// array into [min, max]. max defaults to min.
func (n *Node) SetInputCount(min int, max ...int) {
	n.minInputs, n.maxInputs = limits(min, max)

	for len(n.inputs) < n.minInputs {
		n.inputs = append(n.inputs, n.newInputSlot())
	}
	for len(n.inputs) > n.maxInputs {
		last := len(n.inputs) - 1
		n.DisconnectInput(last)
		n.inputs = n.inputs[:last]
	}
}

// SetOutputCount declares the allowed number of outputs and resizes the
// socket array into [min, max]. New outputs get a fresh socket.
func (n *Node) SetOutputCount(min int, max ...int) {
	n.minOutputs, n.maxOutputs = limits(min, max)

	for len(n.outputs) < n.minOutputs {
		n.outputs = append(n.outputs, newSocket(n, len(n.outputs)))
	}
	for len(n.outputs) > n.maxOutputs {
		last := len(n.outputs) - 1
		n.outputs[last].orphan()
		n.outputs = n.outputs[:last]
	}
}

func limits(min int, max []int) (int, int) {
	if min < 0 {
		min = 0
	}
	hi := min
	if len(max) > 0 && max[0] > min {
		hi = max[0]
	}
	return min, hi
}

func (n *Node) newInputSlot() *inputSlot {
	return &inputSlot{
		format:      NewFormat("DataSet"),
		wantedMerge: n.wantedMerge,
	}
}

// Formats

// SetInputFormat declares the format a socket must include to be
// connected to input index. A connected source that does not include f
// makes it fail and leaves the slot unchanged.
func (n *Node) SetInputFormat(index int, f Format) error {
	if index < 0 || index >= len(n.inputs) {
		return n.outOfRange("SetInputFormat", index, len(n.inputs))
	}

	if s := n.inputs[index].resolve(); s != nil && !s.Format().Includes(f) {
		return errors.WrapInvalid(
			fmt.Errorf("%w: input %d is fed %s, not %s", errors.ErrIncompatible, index, s.Format(), f),
			n.TypeName(), "SetInputFormat", "format check")
	}

	n.inputs[index].format = f
	return nil
}

func (n *Node) InputFormat(index int) Format {
	if index < 0 || index >= len(n.inputs) {
		return Undefined
	}
	return n.inputs[index].format
}

// SetOutputFormat declares the format of output index's socket. Followers
// whose input format the new socket format no longer includes are
// disconnected.
func (n *Node) SetOutputFormat(index int, f Format) error {
	if index < 0 || index >= len(n.outputs) {
		return n.outOfRange("SetOutputFormat", index, len(n.outputs))
	}

	out := n.outputs[index]
	out.setFormat(f)

	for _, follower := range out.Followers() {
		consumer := follower.Node()
		if consumer == nil {
			continue
		}
		required := consumer.InputFormat(follower.Input())
		if !out.Format().Includes(required) {
			n.logger.Warn("follower disconnected", "output", index,
				"reason", "format mismatch", "required", required.String(), "offered", out.Format().String())
			consumer.DisconnectInput(follower.Input())
		}
	}
	return nil
}

// Merges

func (n *Node) SetRangeMerge(fn RangeMerge) {
	if fn == nil {
		fn = UnionRange
	}
	n.rangeMerge = fn
}

func (n *Node) SetDefinedKeysMerge(fn KeysMerge) {
	if fn == nil {
		fn = UnionKeys
	}
	n.definedMerge = fn
}

// SetWantedKeysMerge sets how every input combines the wanted keys of the
// outputs, for existing and future inputs.
func (n *Node) SetWantedKeysMerge(fn KeysMerge) {
	if fn == nil {
		fn = UnionKeys
	}
	n.wantedMerge = fn
	for _, in := range n.inputs {
		in.wantedMerge = fn
	}
}

// Sockets

// Input returns the socket connected to input index, nil when there is
// none or its producer is gone.
func (n *Node) Input(index int) *Socket {
	if index < 0 || index >= len(n.inputs) {
		return nil
	}
	return n.inputs[index].resolve()
}

func (n *Node) Output(index int) *Socket {
	if index < 0 || index >= len(n.outputs) {
		return nil
	}
	return n.outputs[index]
}

// Wiring

// ConnectInput wires s to input index, growing the input array up to the
// declared maximum. It returns false and changes nothing when index is out
// of bounds or s does not include the slot's format.
func (n *Node) ConnectInput(index int, s *Socket) bool {
	if n.destroyed || s == nil || index < 0 || index >= n.maxInputs {
		n.logger.Warn("connection rejected", "input", index, "reason", "no such input")
		return false
	}
	if !s.HasSource() {
		n.logger.Warn("connection rejected", "input", index, "reason", "no source")
		return false
	}

	required := NewFormat("DataSet")
	if index < len(n.inputs) {
		required = n.inputs[index].format
	}
	if !s.Format().Includes(required) {
		n.logger.Warn("connection rejected", "input", index,
			"reason", "format mismatch", "required", required.String(), "offered", s.Format().String())
		return false
	}

	for len(n.inputs) <= index {
		n.inputs = append(n.inputs, n.newInputSlot())
	}

	slot := n.inputs[index]
	if old := slot.source.Value(); old != nil {
		old.removeFollower(n, index)
	}
	slot.source = weak.Make(s)
	s.addFollower(n, index)

	n.deriveOutputs()
	n.deriveWanted()
	return true
}

// DisconnectInput unregisters input index from its source. The slot array
// keeps its size.
func (n *Node) DisconnectInput(index int) {
	if index < 0 || index >= len(n.inputs) {
		return
	}

	slot := n.inputs[index]
	if s := slot.source.Value(); s != nil {
		s.removeFollower(n, index)
	}
	slot.source = weak.Pointer[Socket]{}
}

// PullInput asks the producer of input index to refresh it.
func (n *Node) PullInput(index int) error {
	if index < 0 || index >= len(n.inputs) {
		return n.outOfRange("PullInput", index, len(n.inputs))
	}

	s := n.inputs[index].resolve()
	if s == nil {
		return errors.WrapInvalid(
			fmt.Errorf("%w: input %d", errors.ErrNoSource, index), n.TypeName(), "PullInput", "source lookup")
	}

	exec := s.Producer().Executive()
	if exec == nil {
		return errors.WrapInvalid(
			fmt.Errorf("%w: input %d", errors.ErrNoSource, index), n.TypeName(), "PullInput", "executive lookup")
	}
	return exec.OnOutputPulled(s.Index())
}

// PushOutput tells every follower of output index that it changed.
func (n *Node) PushOutput(index int) error {
	if index < 0 || index >= len(n.outputs) {
		return n.outOfRange("PushOutput", index, len(n.outputs))
	}

	var errs []error
	for _, f := range n.outputs[index].Followers() {
		follower := f.Node()
		if follower == nil || follower.executive == nil {
			continue
		}
		if err := follower.executive.OnInputPushed(f.Input()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Propagation

// deriveOutputs recomputes every output's range and keys from the
// connected inputs. Nodes without connected inputs keep what was set on
// their outputs directly.
func (n *Node) deriveOutputs() {
	var (
		ranges []Range
		keys   []Keys
	)
	for _, in := range n.inputs {
		if s := in.resolve(); s != nil {
			ranges = append(ranges, s.Range())
			keys = append(keys, s.DefinedKeys())
		}
	}
	if len(ranges) == 0 {
		return
	}

	r := n.rangeMerge(ranges)
	k := n.definedMerge(keys)
	for _, out := range n.outputs {
		out.derive(r, k)
	}
}

// deriveWanted recomputes what every input wants from what the outputs
// want. Nodes without outputs state their demand directly.
func (n *Node) deriveWanted() {
	if len(n.outputs) == 0 {
		return
	}

	wanted := make([]Keys, 0, len(n.outputs))
	for _, out := range n.outputs {
		wanted = append(wanted, out.WantedKeys())
	}

	for _, in := range n.inputs {
		if s := in.resolve(); s != nil {
			s.SetWantedKeys(in.wantedMerge(wanted))
		}
	}
}

// Teardown

// Destroy tears the node down: inputs are disconnected, outputs lose their
// source link, then the executive is released.
func (n *Node) Destroy() {
	if n.destroyed {
		return
	}
	n.destroyed = true

	for i := range n.inputs {
		n.DisconnectInput(i)
	}
	for _, out := range n.outputs {
		out.orphan()
	}
	if n.executive != nil {
		n.executive.release()
		n.executive = nil
	}

	n.logger.Debug("destroyed")
}

func (n *Node) Destroyed() bool {
	return n.destroyed
}

func (n *Node) outOfRange(method string, index, count int) error {
	return errors.WrapInvalid(
		fmt.Errorf("%w: %d of %d", errors.ErrIndexOutOfRange, index, count), n.TypeName(), method, "index check")
}
