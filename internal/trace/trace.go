// Package trace implements the Stack-Trace Reporter spec.md §4 calls out
// as its own component: the call stack, each frame with its function name
// and defining span, rendered as a human-readable "called by" report when a
// RuntimeError aborts Start/Resume. It is grounded on the teacher's
// RepairError/ValidationError rendering (internal/repair/errors.go): a
// struct carrying the raw facts plus an Error()-style formatter, rather
// than building the string eagerly.
package trace

import (
	"fmt"
	"strings"

	"github.com/isaacazuelos/kurt/pkg/diagnostic"
)

// Frame is one reported call-stack entry, most-recent call first.
type Frame struct {
	FunctionName string
	Span         diagnostic.Span
}

// StackTrace is a runtime error plus the call stack active when it fired.
type StackTrace struct {
	Err    *diagnostic.RuntimeError
	Frames []Frame
}

// New builds a StackTrace from a runtime error and the VM's call-stack
// snapshot (innermost frame first, as internal/vm.VM.CallStack returns
// it).
func New(err *diagnostic.RuntimeError, frames []Frame) *StackTrace {
	return &StackTrace{Err: err, Frames: frames}
}

// Error implements the error interface, rendering one line per frame.
func (t *StackTrace) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "runtime error: %s\n", t.Err.Error())
	for _, f := range t.Frames {
		name := f.FunctionName
		if name == "" {
			name = "<anonymous>"
		}
		fmt.Fprintf(&b, "  called by %s at %s\n", name, f.Span)
	}
	return b.String()
}

// Unwrap exposes the underlying RuntimeError for errors.As/errors.Is.
func (t *StackTrace) Unwrap() error { return t.Err }
