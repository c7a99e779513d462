package object

import (
	"github.com/isaacazuelos/kurt/pkg/heap"
	"github.com/isaacazuelos/kurt/pkg/value"
)

// Tuple is a fixed-arity, immutable sequence of Values, optionally tagged
// with a Keyword (spec.md §4.1's Tuple opcode operand: an arity and an
// optional constant-pool tag index, materialized here at Tuple construction
// time into a Ref to a heap Keyword rather than a raw constant index).
type Tuple struct {
	tag      heap.Ref // nil if untagged
	elements []value.Value
}

// NewTuple takes ownership of elements as the new Tuple's backing storage.
// tag may be the nil Ref for an untagged tuple.
func NewTuple(tag heap.Ref, elements []value.Value) *Tuple {
	return &Tuple{tag: tag, elements: elements}
}

// Tag returns the tuple's tag Keyword ref, if any.
func (t *Tuple) Tag() (heap.Ref, bool) {
	if t.tag.IsNil() {
		return 0, false
	}
	return t.tag, true
}

// Len reports the tuple's arity.
func (t *Tuple) Len() int { return len(t.elements) }

// Get returns the element at i, if in range.
func (t *Tuple) Get(i int) (value.Value, bool) {
	if i < 0 || i >= len(t.elements) {
		return value.Value{}, false
	}
	return t.elements[i], true
}

// Elements returns the tuple's backing slice. It must not be mutated: a
// Tuple, unlike a List, is immutable once constructed.
func (t *Tuple) Elements() []value.Value { return t.elements }

func (t *Tuple) ClassID() heap.ClassID { return ClassTuple }
func (t *Tuple) Size() int             { return len(t.elements)*8 + 4 }

// EnqueueGCReferences marks the tag (if any) and every Object-tagged
// element.
func (t *Tuple) EnqueueGCReferences(w *heap.Worklist) {
	w.Enqueue(t.tag)
	for _, v := range t.elements {
		if r, ok := v.AsObject(); ok {
			w.Enqueue(r)
		}
	}
}
