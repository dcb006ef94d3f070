package internal

import (
	"fmt"
	"slices"
	"weak"

	"github.com/AnatoleLucet/blok/errors"
)

// Follower identifies a consumer input fed by a socket. It holds the node
// weakly so a socket never keeps its consumers alive.
type Follower struct {
	node  weak.Pointer[Node]
	input int
}

// Node resolves the follower's node, nil once it was collected.
func (f Follower) Node() *Node {
	return f.node.Value()
}

func (f Follower) Input() int {
	return f.input
}

// Socket (a DataSet) is one output of a node: the range and keys it
// covers, the keys consumers want and the items produced so far.
type Socket struct {
	*Base

	producer *Node
	index    int
	declared Format

	rng     Range
	defined Keys
	wanted  Keys
	items   map[Key]Object

	followers []Follower
}

func newSocket(producer *Node, index int) *Socket {
	s := &Socket{
		Base:     NewBase("DataSet"),
		producer: producer,
		index:    index,
	}
	s.assign(Range{}, Range{}.Endpoints())
	return s
}

// Format is the instance format: the declared output format on top of the
// socket's own type chain.
func (s *Socket) Format() Format {
	return s.declared.Union(s.Base.Format())
}

func (s *Socket) setFormat(f Format) {
	s.declared = f
}

// Producer returns the owning node, nil once that node was destroyed.
func (s *Socket) Producer() *Node {
	return s.producer
}

func (s *Socket) HasSource() bool {
	return s.producer != nil
}

// Index is the output index of the socket on its producer.
func (s *Socket) Index() int {
	return s.index
}

func (s *Socket) Range() Range {
	return s.rng
}

func (s *Socket) DefinedKeys() Keys {
	return s.defined.Clone()
}

func (s *Socket) WantedKeys() Keys {
	return s.wanted.Clone()
}

// RequestedKeys are the keys worth producing: the wanted keys that are
// defined, or every defined key when nothing is wanted.
func (s *Socket) RequestedKeys() Keys {
	if len(s.wanted) == 0 {
		return s.DefinedKeys()
	}
	return s.wanted.Intersect(s.defined)
}

// SetRange replaces the range and resets the defined keys to its
// endpoints. Followers re-derive their outputs.
func (s *Socket) SetRange(r Range) error {
	if !r.Valid() {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s", errors.ErrInvalidRange, r), "Socket", "SetRange", "range check")
	}

	s.assign(r, r.Endpoints())
	s.notifyFollowers()
	return nil
}

// SetDefinedKeys replaces the explicit keys, widening the range when a key
// falls outside it. Wanted keys and produced items are cleared. A NaN or
// infinite key fails and changes nothing.
func (s *Socket) SetDefinedKeys(keys Keys) error {
	for _, k := range keys {
		if !Finite(k) {
			return errors.WrapInvalid(
				fmt.Errorf("%w: key %g", errors.ErrInvalidRange, k), "Socket", "SetDefinedKeys", "key check")
		}
	}

	keys = NewKeys(keys...)
	s.assign(s.rng.Cover(keys), keys)
	s.notifyFollowers()
	return nil
}

// SetWantedKeys replaces the wanted keys and lets the producer re-derive
// what it wants from its own inputs.
func (s *Socket) SetWantedKeys(keys Keys) {
	s.wanted = NewKeys(keys...)

	if s.producer != nil {
		s.producer.deriveWanted()
	}
}

// Data returns the item at key, nil when it was not produced yet.
func (s *Socket) Data(key Key) (Object, error) {
	item, ok := s.items[key]
	if !ok {
		return nil, s.undefined(key, "Data")
	}
	return item, nil
}

// SetData stores item at key. key must be defined.
func (s *Socket) SetData(key Key, item Object) error {
	if _, ok := s.items[key]; !ok {
		return s.undefined(key, "SetData")
	}
	s.items[key] = item
	return nil
}

func (s *Socket) Followers() []Follower {
	return slices.Clone(s.followers)
}

// derive installs a range and key set computed by the producer from its
// inputs, then forwards the change.
// Keys a merge produced that cannot address data are dropped, and an
// invalid merged range collapses onto the remaining keys.
func (s *Socket) derive(r Range, keys Keys) {
	keys = NewKeys(keys.Finite()...)
	if !r.Valid() {
		r = Range{}
		if len(keys) > 0 {
			r = Range{Lo: keys[0], Hi: keys[0]}
		}
	}
	s.assign(r.Cover(keys), keys)
	s.notifyFollowers()
}

func (s *Socket) assign(r Range, keys Keys) {
	s.rng = r
	s.defined = keys
	s.wanted = nil
	s.items = make(map[Key]Object, len(keys))
	for _, k := range keys {
		s.items[k] = nil
	}
}

func (s *Socket) notifyFollowers() {
	for _, f := range s.Followers() {
		if n := f.Node(); n != nil {
			n.deriveOutputs()
		}
	}
}

func (s *Socket) addFollower(n *Node, input int) {
	f := Follower{node: n.self, input: input}
	if !slices.Contains(s.followers, f) {
		s.followers = append(s.followers, f)
	}
}

func (s *Socket) removeFollower(n *Node, input int) {
	f := Follower{node: n.self, input: input}
	s.followers = slices.DeleteFunc(s.followers, func(g Follower) bool { return g == f })
}

// orphan clears the source link so weak holders observe "no source".
func (s *Socket) orphan() {
	s.producer = nil
}

func (s *Socket) undefined(key Key, method string) error {
	return errors.WrapInvalid(
		fmt.Errorf("%w: %g not in %v", errors.ErrKeyNotDefined, key, s.defined), "Socket", method, "key lookup")
}
