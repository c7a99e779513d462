package object

import (
	"github.com/isaacazuelos/kurt/pkg/heap"
	"github.com/isaacazuelos/kurt/pkg/value"
)

// CaptureCell is the shared storage a closure and its defining frame both
// see through spec.md §4.3's open/closed capture scheme. While open, the
// cell is an alias for a live value-stack slot (the stack owns the Value,
// and is itself part of the root set, so an open cell contributes nothing
// extra to tracing). CloseCapture copies the slot's Value out into the
// cell and marks it closed, at which point the cell owns that Value for as
// long as anything -- typically a Closure -- keeps it alive.
type CaptureCell struct {
	closed     bool
	stackIndex int // valid only while !closed
	value      value.Value
}

// NewOpenCaptureCell creates a cell aliasing stackIndex in the owning
// frame's value stack.
func NewOpenCaptureCell(stackIndex int) *CaptureCell {
	return &CaptureCell{stackIndex: stackIndex}
}

// IsClosed reports whether the cell has been detached from the stack.
func (c *CaptureCell) IsClosed() bool { return c.closed }

// StackIndex returns the aliased stack slot, valid only while the cell is
// open.
func (c *CaptureCell) StackIndex() int { return c.stackIndex }

// Close detaches the cell from the stack, copying v in as its owned value.
// It is a logic error to close an already-closed cell.
func (c *CaptureCell) Close(v value.Value) {
	c.closed = true
	c.value = v
}

// Value returns the cell's owned value. It is valid only once the cell is
// closed.
func (c *CaptureCell) Value() value.Value { return c.value }

// Set overwrites the cell's owned value. It is a logic error to call this
// on an open cell -- writes to an open cell go through its aliased stack
// slot instead, since the stack is the value's owner until closed.
func (c *CaptureCell) Set(v value.Value) { c.value = v }

func (c *CaptureCell) ClassID() heap.ClassID { return ClassCaptureCell }
func (c *CaptureCell) Size() int             { return 16 }

// EnqueueGCReferences enqueues the cell's owned value only once closed; an
// open cell's value is reachable through the value stack already.
func (c *CaptureCell) EnqueueGCReferences(w *heap.Worklist) {
	if !c.closed {
		return
	}
	if r, ok := c.value.AsObject(); ok {
		w.Enqueue(r)
	}
}
