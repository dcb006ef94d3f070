package internal

import (
	"io"
	"log/slog"
	"testing"
)

// setup gives each test a fresh runtime with the built-in executives.
func setup(t *testing.T, opts ...Option) *Runtime {
	t.Helper()

	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	rt := Init(opts...)
	t.Cleanup(rt.Reset)
	return rt
}

var textFormat = NewFormat("Text")

// source builds a node with one output of textFormat whose process stores
// text at every requested key and pushes.
func source(t *testing.T, text *string, calls *int) *Node {
	t.Helper()

	var n *Node
	n = NewNode(func() error {
		*calls++
		out := n.Output(0)
		for _, k := range out.RequestedKeys() {
			if err := out.SetData(k, NewCell(*text)); err != nil {
				return err
			}
		}
		return n.PushOutput(0)
	}, "TestSource")
	n.SetOutputCount(1)
	if err := n.SetOutputFormat(0, textFormat); err != nil {
		t.Fatal(err)
	}
	return n
}

// relay builds a node with one text input and one text output that copies
// every requested key through.
func relay(t *testing.T, calls *int) *Node {
	t.Helper()

	var n *Node
	n = NewNode(func() error {
		*calls++
		if err := n.PullInput(0); err != nil {
			return err
		}
		in, out := n.Input(0), n.Output(0)
		for _, k := range out.RequestedKeys() {
			item, err := in.Data(k)
			if err != nil {
				return err
			}
			if err := out.SetData(k, item); err != nil {
				return err
			}
		}
		return n.PushOutput(0)
	}, "TestRelay")
	n.SetInputCount(1)
	n.SetOutputCount(1)
	if err := n.SetInputFormat(0, textFormat); err != nil {
		t.Fatal(err)
	}
	if err := n.SetOutputFormat(0, textFormat); err != nil {
		t.Fatal(err)
	}
	return n
}

func sink(t *testing.T) *Node {
	t.Helper()

	n := NewNode(nil, "TestSink")
	n.SetInputCount(1)
	if err := n.SetInputFormat(0, textFormat); err != nil {
		t.Fatal(err)
	}
	return n
}
