package object_test

import (
	"testing"

	"github.com/isaacazuelos/kurt/pkg/diagnostic"
	"github.com/isaacazuelos/kurt/pkg/heap"
	"github.com/isaacazuelos/kurt/pkg/index"
	"github.com/isaacazuelos/kurt/pkg/object"
	"github.com/isaacazuelos/kurt/pkg/value"
	"github.com/stretchr/testify/require"
)

type rootSet struct{ roots []heap.Ref }

func (r *rootSet) EnqueueRoots(w *heap.Worklist) {
	for _, ref := range r.roots {
		w.Enqueue(ref)
	}
}

func TestStringRoundTripsText(t *testing.T) {
	s := object.NewString("hello")
	require.Equal(t, "hello", s.Text())
	require.Equal(t, byte(0), s.CString()[len(s.CString())-1])
	require.Equal(t, object.ClassString, s.ClassID())
}

func TestKeywordRoundTripsText(t *testing.T) {
	k := object.NewKeyword("ok")
	require.Equal(t, "ok", k.Text())
	require.Equal(t, object.ClassKeyword, k.ClassID())
}

func TestListKeepsReferencedStringAlive(t *testing.T) {
	h := heap.New(heap.DefaultOptions())
	strRef := h.Allocate(object.NewString("kept"), nil)

	list := object.NewList([]value.Value{value.Object(strRef), value.Nat(value.NewU48Unchecked(1))})
	listRef := h.Allocate(list, nil)

	roots := &rootSet{roots: []heap.Ref{listRef}}
	h.Collect(roots)

	require.NotPanics(t, func() { h.Get(strRef) })
	require.NotPanics(t, func() { h.Get(listRef) })
}

func TestListDropsUnreferencedStringAfterCollect(t *testing.T) {
	h := heap.New(heap.DefaultOptions())
	strRef := h.Allocate(object.NewString("orphan"), nil)

	// A list that never references strRef.
	list := object.NewList([]value.Value{value.Unit})
	listRef := h.Allocate(list, nil)

	roots := &rootSet{roots: []heap.Ref{listRef}}
	h.Collect(roots)

	require.Panics(t, func() { h.Get(strRef) }, "unreachable string must be swept")
}

func TestTupleEnqueuesTagAndElements(t *testing.T) {
	h := heap.New(heap.DefaultOptions())
	tagRef := h.Allocate(object.NewKeyword("pair"), nil)
	elemRef := h.Allocate(object.NewString("left"), nil)

	tup := object.NewTuple(tagRef, []value.Value{value.Object(elemRef)})
	tupRef := h.Allocate(tup, nil)

	roots := &rootSet{roots: []heap.Ref{tupRef}}
	h.Collect(roots)

	require.NotPanics(t, func() { h.Get(tagRef) })
	require.NotPanics(t, func() { h.Get(elemRef) })
}

func TestUntaggedTupleHasNoTag(t *testing.T) {
	tup := object.NewTuple(0, []value.Value{value.Unit})
	_, ok := tup.Tag()
	require.False(t, ok)
}

func TestOpenCaptureCellIgnoredByTracing(t *testing.T) {
	h := heap.New(heap.DefaultOptions())
	strRef := h.Allocate(object.NewString("aliased"), nil)

	cell := object.NewOpenCaptureCell(0)
	cellRef := h.Allocate(cell, nil)

	roots := &rootSet{roots: []heap.Ref{cellRef}}
	h.Collect(roots)

	// An open cell doesn't own strRef, so it isn't kept alive by the cell
	// alone.
	require.Panics(t, func() { h.Get(strRef) })
	require.NotPanics(t, func() { h.Get(cellRef) })
}

func TestClosedCaptureCellKeepsValueAlive(t *testing.T) {
	h := heap.New(heap.DefaultOptions())
	strRef := h.Allocate(object.NewString("closed-over"), nil)

	cell := object.NewOpenCaptureCell(0)
	cell.Close(value.Object(strRef))
	cellRef := h.Allocate(cell, nil)

	roots := &rootSet{roots: []heap.Ref{cellRef}}
	h.Collect(roots)

	require.True(t, cell.IsClosed())
	require.NotPanics(t, func() { h.Get(strRef) })
}

func TestClosureKeepsPrototypeAndCapturesAlive(t *testing.T) {
	h := heap.New(heap.DefaultOptions())
	moduleRef := h.Allocate(object.NewModule(diagnostic.InputID(1)), nil)
	proto := object.NewPrototype(moduleRef, "f", 0, nil, nil, diagnostic.Span{})
	protoRef := h.Allocate(proto, nil)

	cell := object.NewOpenCaptureCell(0)
	cell.Close(value.Nat(value.NewU48Unchecked(7)))
	cellRef := h.Allocate(cell, nil)

	closure := object.NewClosure(protoRef, []heap.Ref{cellRef})
	closureRef := h.Allocate(closure, nil)

	roots := &rootSet{roots: []heap.Ref{closureRef}}
	h.Collect(roots)

	require.NotPanics(t, func() { h.Get(protoRef) })
	require.NotPanics(t, func() { h.Get(cellRef) })
	require.NotPanics(t, func() { h.Get(moduleRef) }, "prototype's EnqueueGCReferences must mark its owning module")
}

func TestModuleKeepsConstantsAndPrototypesAlive(t *testing.T) {
	h := heap.New(heap.DefaultOptions())
	strRef := h.Allocate(object.NewString("const"), nil)

	module := object.NewModule(diagnostic.InputID(0))
	module.Constants = []value.Value{value.Object(strRef)}

	proto := object.NewPrototype(0, "main", 0, nil, nil, diagnostic.Span{})
	protoRef := h.Allocate(proto, nil)
	module.Prototypes = []heap.Ref{protoRef}
	module.HasMain = true
	module.MainPrototype = index.New[index.PrototypeKind](0)

	moduleRef := h.Allocate(module, nil)

	roots := &rootSet{roots: []heap.Ref{moduleRef}}
	h.Collect(roots)

	require.NotPanics(t, func() { h.Get(strRef) })
	require.NotPanics(t, func() { h.Get(protoRef) })
}
