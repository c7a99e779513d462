package object

import "github.com/isaacazuelos/kurt/pkg/heap"

// Closure pairs a Prototype with the CaptureCells it closed over at the
// moment LoadClosure materialized it. Two closures are never equal unless
// they're the same object (spec.md §4.5): identity, not structural,
// equality.
type Closure struct {
	Prototype heap.Ref
	Captures  []heap.Ref // each a CaptureCell
}

// NewClosure builds a Closure over prototype, taking ownership of captures.
func NewClosure(prototype heap.Ref, captures []heap.Ref) *Closure {
	return &Closure{Prototype: prototype, Captures: captures}
}

func (c *Closure) ClassID() heap.ClassID { return ClassClosure }
func (c *Closure) Size() int             { return len(c.Captures)*4 + 4 }

// EnqueueGCReferences marks the prototype and every capture cell.
func (c *Closure) EnqueueGCReferences(w *heap.Worklist) {
	w.Enqueue(c.Prototype)
	for _, cell := range c.Captures {
		w.Enqueue(cell)
	}
}
