package blocks

import (
	"fmt"

	"github.com/AnatoleLucet/blok"
)

// Module registers the built-in bloks.
var Module = blok.Module{
	Name:     "builtin",
	Describe: Describe,
	Register: Register,
}

var builtins = []struct {
	name    string
	factory blok.Factory
	format  func() blok.Format
}{
	{"HelloSource", func() blok.Object { return NewHelloSource() }, HelloSourceFormat},
	{"RepeatFilter", func() blok.Object { return NewRepeatFilter() }, RepeatFilterFormat},
	{"RecorderSink", func() blok.Object { return NewRecorderSink() }, RecorderSinkFormat},
}

func Describe() string {
	return fmt.Sprintf("built-in bloks (%d): HelloSource, RepeatFilter, RecorderSink", len(builtins))
}

// Register adds every built-in blok to the registry. It reports false when
// any name was already taken.
func Register() bool {
	ok := true
	for _, b := range builtins {
		ok = blok.Register(b.name, b.factory, b.format()) && ok
	}
	return ok
}
