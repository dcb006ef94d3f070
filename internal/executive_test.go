package internal

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnatoleLucet/blok/errors"
	"github.com/AnatoleLucet/blok/metric"
)

func TestExecutivePolicies(t *testing.T) {
	setup(t)

	tests := []struct {
		policy Policy
		onPush bool
		onPull bool
	}{
		{Push, true, false},
		{Pull, false, true},
		{PushPull, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			var calls int
			n := NewNode(func() error { calls++; return nil }, "Counter")
			n.SetPolicy(tt.policy)
			e := n.Executive()
			assert.Equal(t, tt.policy, e.Policy())
			assert.Equal(t, tt.policy.ExecutiveName(), e.TypeName())

			require.NoError(t, e.OnInputPushed(0))
			assert.Equal(t, tt.onPush, calls == 1)

			calls = 0
			require.NoError(t, e.OnOutputPulled(0))
			assert.Equal(t, tt.onPull, calls == 1)
		})
	}
}

func TestExecutiveState(t *testing.T) {
	setup(t)

	t.Run("executing only while processing", func(t *testing.T) {
		var seen []State
		var n *Node
		n = NewNode(func() error {
			seen = append(seen, n.Executive().State())
			executing, err := Get[bool](n.Executive(), "executing")
			assert.NoError(t, err)
			assert.True(t, executing)
			return nil
		}, "Observer")

		assert.Equal(t, Idle, n.Executive().State())
		require.NoError(t, n.Executive().OnOutputPulled(0))
		assert.Equal(t, []State{Executing}, seen)
		assert.Equal(t, Idle, n.Executive().State())
	})

	t.Run("process errors are returned and the state resets", func(t *testing.T) {
		boom := errors.New("boom")
		n := NewNode(func() error { return boom }, "Failing")

		err := n.Executive().OnInputPushed(0)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "Failing.Process")
		assert.Equal(t, Idle, n.Executive().State())
	})

	t.Run("default executive comes from the runtime", func(t *testing.T) {
		setup(t, WithDefaultExecutive(Pull.ExecutiveName()))
		n := NewNode(nil, "Lazy")
		assert.Equal(t, Pull, n.Executive().Policy())
	})

	t.Run("falls back to push-pull without registrations", func(t *testing.T) {
		setup(t).Reset()
		n := NewNode(nil, "Orphan")
		require.NotNil(t, n.Executive())
		assert.Equal(t, PushPull, n.Executive().Policy())
	})
}

func TestExecutiveSwap(t *testing.T) {
	setup(t)

	n := NewNode(nil, "Swapped")
	first := n.Executive()

	assert.True(t, n.SetExecutive("PushExecutive"))
	assert.Nil(t, first.Node())
	assert.Same(t, n, n.Executive().Node())
	assert.Equal(t, Push, n.Executive().Policy())

	policy, err := Get[string](n.Executive(), "policy")
	require.NoError(t, err)
	assert.Equal(t, "Push", policy)

	t.Run("unknown names keep the current executive", func(t *testing.T) {
		current := n.Executive()
		assert.False(t, n.SetExecutive("NoSuchExecutive"))
		assert.Same(t, current, n.Executive())
	})

	t.Run("non executives are refused", func(t *testing.T) {
		GetRuntime().Registry().Register("cell", func() Object { return NewCell(0) }, NewFormat("Cell"))
		current := n.Executive()
		assert.False(t, n.SetExecutive("cell"))
		assert.Same(t, current, n.Executive())
	})

	t.Run("swapping inside process resets the flag", func(t *testing.T) {
		var calls int
		var m *Node
		m = NewNode(func() error {
			calls++
			if calls == 1 {
				m.SetExecutive("PushPullExecutive")
				return m.Executive().OnOutputPulled(0)
			}
			return nil
		}, "SelfSwapping")

		require.NoError(t, m.Executive().OnOutputPulled(0))
		assert.Equal(t, 2, calls)
	})
}

func TestExecutiveReentrancy(t *testing.T) {
	m := metric.New("reentrancy")
	setup(t, WithMetrics(m))

	// the relay pulls its source, whose process pushes straight back into
	// the relay while it is still executing
	var srcCalls, relayCalls int
	text := "ping"
	src, mid, dst := source(t, &text, &srcCalls), relay(t, &relayCalls), sink(t)
	require.True(t, mid.ConnectInput(0, src.Output(0)))
	require.True(t, dst.ConnectInput(0, mid.Output(0)))

	require.NoError(t, dst.PullInput(0))
	assert.Equal(t, 1, srcCalls)
	assert.Equal(t, 1, relayCalls)

	item, err := dst.Input(0).Data(0)
	require.NoError(t, err)
	assert.Equal(t, "ping", item.(*Cell[string]).Get())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Signals.WithLabelValues("TestRelay", metric.SignalPushed, metric.OutcomeDropped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Signals.WithLabelValues("TestRelay", metric.SignalPulled, metric.OutcomeExecuted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Processes.WithLabelValues("TestSource", "ok")))

	t.Run("push from the source runs the chain once", func(t *testing.T) {
		srcCalls, relayCalls = 0, 0
		text = "pong"

		require.NoError(t, src.Executive().OnOutputPulled(0))
		assert.Equal(t, 1, srcCalls)
		assert.Equal(t, 1, relayCalls)

		item, err := dst.Input(0).Data(0)
		require.NoError(t, err)
		assert.Equal(t, "pong", item.(*Cell[string]).Get())
	})
}

func TestExecutiveConcurrentSignal(t *testing.T) {
	setup(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	n := NewNode(func() error {
		close(entered)
		<-release
		return nil
	}, "Slow")

	done := make(chan error)
	go func() { done <- n.Executive().OnOutputPulled(0) }()
	<-entered

	err := n.Executive().OnInputPushed(0)
	assert.ErrorIs(t, err, errors.ErrConcurrentExecution)
	assert.True(t, errors.IsFatal(err))

	close(release)
	assert.NoError(t, <-done)
}
