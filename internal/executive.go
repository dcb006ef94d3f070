package internal

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/AnatoleLucet/blok/errors"
	"github.com/AnatoleLucet/blok/metric"
)

// Policy decides which signals make an executive run its node.
type Policy int

const (
	Push Policy = iota
	Pull
	PushPull
)

func (p Policy) String() string {
	switch p {
	case Push:
		return "Push"
	case Pull:
		return "Pull"
	case PushPull:
		return "PushPull"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ExecutiveName is the registry name of the executive implementing p.
func (p Policy) ExecutiveName() string {
	return p.String() + "Executive"
}

func (p Policy) onPush() bool { return p == Push || p == PushPull }
func (p Policy) onPull() bool { return p == Pull || p == PushPull }

type State int32

const (
	Idle State = iota
	Executing
)

func (s State) String() string {
	if s == Executing {
		return "Executing"
	}
	return "Idle"
}

// Executive wraps every call into its node's process in an
// Idle -> Executing -> Idle transition. A signal arriving while Executing
// on the same goroutine is dropped; from another goroutine it is an error.
type Executive struct {
	*Base

	policy Policy
	node   *Node

	state atomic.Int32
	gid   atomic.Int64
}

func NewExecutive(policy Policy) *Executive {
	e := &Executive{
		Base:   NewBase(policy.ExecutiveName(), "Executive"),
		policy: policy,
	}
	Define(e.Properties(), "policy", func() string { return e.policy.String() }, nil)
	Define(e.Properties(), "executing", func() bool { return e.State() == Executing }, nil)
	return e
}

// ExecutiveFormat is the declared format of the executive implementing p.
func ExecutiveFormat(p Policy) Format {
	return NewFormat(p.ExecutiveName(), "Executive", "Object").With(
		DescriptorOf[string]("policy", Read),
		DescriptorOf[bool]("executing", Read),
	)
}

// RegisterExecutives registers the three built-in policies.
func RegisterExecutives(reg *Registry) {
	for _, p := range []Policy{Push, Pull, PushPull} {
		reg.Register(p.ExecutiveName(), func() Object { return NewExecutive(p) }, ExecutiveFormat(p))
	}
}

func (e *Executive) Policy() Policy {
	return e.policy
}

func (e *Executive) State() State {
	return State(e.state.Load())
}

// Node returns the node this executive drives, nil once released.
func (e *Executive) Node() *Node {
	return e.node
}

func (e *Executive) bind(n *Node) {
	e.node = n
}

func (e *Executive) release() {
	e.node = nil
}

// OnInputPushed handles the availability signal for input index.
func (e *Executive) OnInputPushed(index int) error {
	return e.signal(metric.SignalPushed, e.policy.onPush())
}

// OnOutputPulled handles the demand signal for output index.
func (e *Executive) OnOutputPulled(index int) error {
	return e.signal(metric.SignalPulled, e.policy.onPull())
}

func (e *Executive) signal(signal string, triggers bool) error {
	n := e.node
	if n == nil {
		return nil
	}

	rt := GetRuntime()
	if !triggers {
		rt.Metrics().ObserveSignal(n.TypeName(), signal, metric.OutcomeIgnored)
		return nil
	}

	return e.execute(n, signal, rt.Metrics())
}

func (e *Executive) execute(n *Node, signal string, metrics *metric.Metrics) error {
	gid := currentGID()

	if !e.state.CompareAndSwap(int32(Idle), int32(Executing)) {
		if e.gid.Load() != gid {
			return errors.WrapFatal(errors.ErrConcurrentExecution, "Executive", signal, "state transition")
		}

		n.logger.Debug("dropped re-entrant signal", "signal", signal)
		metrics.ObserveSignal(n.TypeName(), signal, metric.OutcomeDropped)
		return nil
	}
	e.gid.Store(gid)

	defer func() {
		e.gid.Store(0)
		e.state.Store(int32(Idle))
	}()

	metrics.ObserveSignal(n.TypeName(), signal, metric.OutcomeExecuted)

	start := time.Now()
	err := n.runProcess()
	metrics.ObserveProcess(n.TypeName(), time.Since(start), err)

	if err != nil {
		n.logger.Error("process failed", "signal", signal, "error", err)
		return errors.Wrap(err, n.TypeName(), "Process", signal+" signal")
	}
	return nil
}
