//go:build !wasm

package internal

import (
	"github.com/petermattis/goid"
)

// currentGID identifies the goroutine running the caller. Executives use it
// to tell a re-entrant signal from a concurrent one.
func currentGID() int64 {
	return goid.Get()
}
