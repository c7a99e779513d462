package object

import (
	"github.com/isaacazuelos/kurt/pkg/heap"
	"github.com/isaacazuelos/kurt/pkg/value"
)

// List is a mutable sequence of Values, created by the List opcode. Set
// overwrites an element in place; no opcode calls it, since an assignment
// target must be a name and there is no subscript-assignment form.
type List struct {
	elements []value.Value
}

// NewList takes ownership of elements as the new List's backing storage.
func NewList(elements []value.Value) *List {
	return &List{elements: elements}
}

// Len reports the list's current length.
func (l *List) Len() int { return len(l.elements) }

// Get returns the element at i, if in range.
func (l *List) Get(i int) (value.Value, bool) {
	if i < 0 || i >= len(l.elements) {
		return value.Value{}, false
	}
	return l.elements[i], true
}

// Set overwrites the element at i, if in range.
func (l *List) Set(i int, v value.Value) bool {
	if i < 0 || i >= len(l.elements) {
		return false
	}
	l.elements[i] = v
	return true
}

// Elements returns the list's backing slice. Callers must not retain it
// past a mutation of the list.
func (l *List) Elements() []value.Value { return l.elements }

func (l *List) ClassID() heap.ClassID { return ClassList }

// Size estimates the list's heap footprint as one word per element. It is
// not adjusted when the list is mutated in place, only when it is
// reallocated, matching the "allocation size" discipline of every other
// class here.
func (l *List) Size() int { return len(l.elements) * 8 }

// EnqueueGCReferences marks every Object-tagged element reachable.
func (l *List) EnqueueGCReferences(w *heap.Worklist) {
	for _, v := range l.elements {
		if r, ok := v.AsObject(); ok {
			w.Enqueue(r)
		}
	}
}
