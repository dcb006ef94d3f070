// Package blocks provides the built-in bloks: a greeting source, a filter
// repeating text and a sink recording what reaches it.
package blocks

import (
	"strings"

	"github.com/AnatoleLucet/blok"
)

// TextFormat is the socket format of every output carrying Cell[string]
// items.
var TextFormat = blok.NewFormat("Text")

// DefaultGreeting is the text a new HelloSource emits.
const DefaultGreeting = "Hello World!!!"

// HelloSource emits its text at every requested key of its only output.
type HelloSource struct {
	*blok.Source

	text string
}

func NewHelloSource(opts ...blok.NodeOption) *HelloSource {
	h := &HelloSource{text: DefaultGreeting}
	h.Source = blok.NewSource("HelloSource", h.process, opts...)
	h.SetOutputCount(1)
	_ = h.SetOutputFormat(0, TextFormat)
	blok.DefineProperty(h, "text", h.Text, h.SetText)

	_ = h.Output(0).SetData(0, blok.NewCell(h.text))
	return h
}

// HelloSourceFormat is the declared format of HelloSource.
func HelloSourceFormat() blok.Format {
	return blok.NewFormat("HelloSource", "Source", "AbstractBlok", "Object").
		With(blok.Describe[string]("text", blok.ReadWrite))
}

func (h *HelloSource) Text() string {
	return h.text
}

func (h *HelloSource) SetText(text string) {
	h.text = text
}

func (h *HelloSource) process() error {
	out := h.Output(0)
	for _, k := range out.RequestedKeys() {
		if err := out.SetData(k, blok.NewCell(h.text)); err != nil {
			return err
		}
	}
	return h.PushOutput(0)
}

// RepeatFilter repeats its input text multiplier times, one copy per line.
type RepeatFilter struct {
	*blok.Filter

	multiplier int
}

func NewRepeatFilter(opts ...blok.NodeOption) *RepeatFilter {
	r := &RepeatFilter{multiplier: 1}
	r.Filter = blok.NewFilter("RepeatFilter", r.process, opts...)
	r.SetInputCount(1)
	r.SetOutputCount(1)
	_ = r.SetInputFormat(0, TextFormat)
	_ = r.SetOutputFormat(0, TextFormat)
	blok.DefineProperty(r, "multiplier", r.Multiplier, r.SetMultiplier)
	return r
}

// RepeatFilterFormat is the declared format of RepeatFilter.
func RepeatFilterFormat() blok.Format {
	return blok.NewFormat("RepeatFilter", "Filter", "AbstractBlok", "Object").
		With(blok.Describe[int]("multiplier", blok.ReadWrite))
}

func (r *RepeatFilter) Multiplier() int {
	return r.multiplier
}

func (r *RepeatFilter) SetMultiplier(n int) {
	r.multiplier = n
}

func (r *RepeatFilter) process() error {
	if err := r.PullInput(0); err != nil {
		return err
	}

	in, out := r.Input(0), r.Output(0)
	for _, k := range out.RequestedKeys() {
		item, err := in.Data(k)
		if err != nil {
			return err
		}
		text, err := blok.Value[string](item)
		if err != nil {
			return err
		}
		if err := out.SetData(k, blok.NewCell(Repeat(text, r.multiplier))); err != nil {
			return err
		}
	}
	return r.PushOutput(0)
}

// Repeat joins n copies of s with newlines. n below one gives "".
func Repeat(s string, n int) string {
	lines := make([]string, max(n, 0))
	for i := range lines {
		lines[i] = s
	}
	return strings.Join(lines, "\n")
}

// RecorderSink keeps the last text it read at the highest requested key of
// its input.
type RecorderSink struct {
	*blok.Sink

	last    string
	records int
}

func NewRecorderSink(opts ...blok.NodeOption) *RecorderSink {
	r := &RecorderSink{}
	r.Sink = blok.NewSink("RecorderSink", r.process, opts...)
	r.SetInputCount(1)
	_ = r.SetInputFormat(0, TextFormat)
	blok.DefineProperty(r, "last", r.Last, nil)
	blok.DefineProperty(r, "records", r.Records, nil)
	return r
}

// RecorderSinkFormat is the declared format of RecorderSink.
func RecorderSinkFormat() blok.Format {
	return blok.NewFormat("RecorderSink", "Sink", "AbstractBlok", "Object").With(
		blok.Describe[string]("last", blok.Read),
		blok.Describe[int]("records", blok.Read),
	)
}

func (r *RecorderSink) Last() string {
	return r.last
}

func (r *RecorderSink) Records() int {
	return r.records
}

func (r *RecorderSink) process() error {
	if err := r.PullInput(0); err != nil {
		return err
	}

	keys := r.Input(0).RequestedKeys()
	if len(keys) == 0 {
		return nil
	}

	item, err := r.Input(0).Data(keys[len(keys)-1])
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}

	text, err := blok.Value[string](item)
	if err != nil {
		return err
	}
	r.last = text
	r.records++
	return nil
}
