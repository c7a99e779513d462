// Package heap implements the managed-object allocator and the tracing
// (mark-sweep) collector that backs every Value tagged Object. It adapts
// hive/alloc's page-growth and free-list discipline: where hive/alloc grows
// a hive file by whole HBINs and threads a free list of reclaimed cells,
// Heap grows its slot table by whole pages worth of slots and threads a free
// list of reclaimed slot indices.
//
// A managed object's "pointer" is a Ref: a uint32 index into the heap's slot
// table, not a raw memory address. This sidesteps the NaN-boxing pointer
// width/address-space caveats spec.md's design notes raise for real
// pointers (the 48-bit payload comfortably holds a slot index), at the cost
// of one extra indirection per object access -- a deliberate, documented
// implementation latitude (see DESIGN.md).
package heap

import (
	"golang.org/x/sys/unix"
)

// ClassID is the small tag every managed object carries, read by the
// collector and by debug printing. The concrete enum values live in
// pkg/object, which is the only package that knows what the classes are;
// heap itself is class-agnostic.
type ClassID uint8

// Ref is a handle to a managed object: an index into the heap's slot table.
// The zero Ref is reserved and never returned by Allocate.
type Ref uint32

// IsNil reports whether r is the reserved zero handle.
func (r Ref) IsNil() bool { return r == 0 }

// Header is the fixed metadata every managed object carries: its class,
// its allocation size in bytes (so DSTs like String know their length), and
// the tracing state the collector needs (a mark bit; live objects are
// chained implicitly by their slot index for sweep).
type Header struct {
	Class ClassID
	Size  int
	mark  bool
}

// Tracer is implemented by every managed class. EnqueueGCReferences must add
// every managed pointer the object owns to the worklist -- see spec.md
// §4.6 for the per-class enqueue rules.
type Tracer interface {
	ClassID() ClassID
	Size() int
	EnqueueGCReferences(w *Worklist)
}

// Worklist accumulates Refs discovered while tracing, to be marked and
// walked in turn. It is reused across a single collection to avoid
// reallocating on every push.
type Worklist struct {
	pending []Ref
}

// Enqueue adds r to the worklist if it isn't nil.
func (w *Worklist) Enqueue(r Ref) {
	if !r.IsNil() {
		w.pending = append(w.pending, r)
	}
}

func (w *Worklist) pop() (Ref, bool) {
	if len(w.pending) == 0 {
		return 0, false
	}
	n := len(w.pending) - 1
	r := w.pending[n]
	w.pending = w.pending[:n]
	return r, true
}

// RootProvider is implemented by whatever owns the VM's root set (the value
// stack, the currently-executing closures at each frame's base pointer, and
// the loaded module table). Collect calls EnqueueRoots once per collection.
type RootProvider interface {
	EnqueueRoots(w *Worklist)
}

type slot struct {
	header Header
	obj    Tracer
	inUse  bool
}

// Options tunes the heap's growth and collection behaviour. The zero value
// is usable: it is filled in with DefaultOptions' values by New.
type Options struct {
	// InitialGCThreshold is the number of live bytes that must accumulate
	// before the first collection is triggered.
	InitialGCThreshold int

	// GrowthFactor multiplies the byte threshold after each collection,
	// based on post-collection live bytes, mirroring hive/alloc's
	// size-doubling growth curve applied to a GC threshold instead of free
	// space.
	GrowthFactor float64
}

// DefaultOptions matches hive/alloc's conservative defaults: start small,
// double on every collection.
func DefaultOptions() Options {
	return Options{
		InitialGCThreshold: 1 << 16, // 64 KiB
		GrowthFactor:       2.0,
	}
}

// Heap owns every managed object reachable from a single VM instance. It is
// not safe for concurrent use -- per spec.md §5, the VM (and therefore its
// heap) is single-threaded.
type Heap struct {
	slots    []slot
	freeList []uint32

	opts Options

	bytesAllocated int
	nextGC         int

	pageSlots int // growth granularity, derived from the OS page size
}

// New creates an empty heap. A nil RootProvider may be supplied later via
// Collect; New itself never collects.
func New(opts Options) *Heap {
	if opts.InitialGCThreshold <= 0 {
		opts = DefaultOptions()
	}
	if opts.GrowthFactor <= 1.0 {
		opts.GrowthFactor = DefaultOptions().GrowthFactor
	}

	pageBytes := unix.Getpagesize()
	const assumedSlotStride = 64 // bytes; a rough header+small-payload estimate
	pageSlots := pageBytes / assumedSlotStride
	if pageSlots < 64 {
		pageSlots = 64
	}

	h := &Heap{
		opts:      opts,
		nextGC:    opts.InitialGCThreshold,
		pageSlots: pageSlots,
	}

	// Reserve slot 0 as the permanently-unused nil handle.
	h.slots = append(h.slots, slot{inUse: true, header: Header{Class: 0}})

	return h
}

// growByPages appends whole pages worth of empty slot capacity, adapting
// hive/alloc.FastAllocator.GrowByPages's page-aligned growth to a Go slice.
func (h *Heap) growByPages(pages int) {
	if pages < 1 {
		pages = 1
	}
	additional := pages * h.pageSlots
	grown := make([]slot, len(h.slots), cap(h.slots)+additional)
	copy(grown, h.slots)
	h.slots = grown
}

// Allocate reserves a slot for obj and returns its Ref. This is a safepoint:
// if the heap's live-byte count has crossed nextGC, a collection runs first
// (per spec.md §4.6, "any allocation... is a safepoint").
func (h *Heap) Allocate(obj Tracer, roots RootProvider) Ref {
	if h.bytesAllocated >= h.nextGC && roots != nil {
		h.Collect(roots)
	}

	size := obj.Size()
	header := Header{Class: obj.ClassID(), Size: size}

	if len(h.freeList) > 0 {
		idx := h.freeList[len(h.freeList)-1]
		h.freeList = h.freeList[:len(h.freeList)-1]
		h.slots[idx] = slot{header: header, obj: obj, inUse: true}
		h.bytesAllocated += size
		return Ref(idx)
	}

	if len(h.slots) == cap(h.slots) {
		h.growByPages(1)
	}

	h.slots = append(h.slots, slot{header: header, obj: obj, inUse: true})
	h.bytesAllocated += size
	return Ref(len(h.slots) - 1)
}

// Get dereferences a Ref. It panics on an out-of-range or freed Ref, since
// that indicates a VM bug (a dangling reference past a collection), not a
// user-facing error.
func (h *Heap) Get(r Ref) Tracer {
	s := &h.slots[r]
	if !s.inUse {
		panic("heap: dereferenced a freed or nil Ref")
	}
	return s.obj
}

// HeaderOf returns the header for r, for debug printing.
func (h *Heap) HeaderOf(r Ref) Header {
	return h.slots[r].header
}

// BytesAllocated reports the heap's current live-byte estimate.
func (h *Heap) BytesAllocated() int { return h.bytesAllocated }

// Collect runs one stop-the-world mark-sweep pass: mark every object
// reachable from roots, then sweep every unmarked in-use slot onto the free
// list. After sweeping, nextGC is rebased on the surviving byte count per
// opts.GrowthFactor, mirroring hive/alloc's post-compaction threshold
// recompute.
func (h *Heap) Collect(roots RootProvider) {
	var w Worklist
	roots.EnqueueRoots(&w)

	for {
		ref, ok := w.pop()
		if !ok {
			break
		}
		s := &h.slots[ref]
		if !s.inUse || s.header.mark {
			continue
		}
		s.header.mark = true
		s.obj.EnqueueGCReferences(&w)
	}

	live := 0
	for i := 1; i < len(h.slots); i++ {
		s := &h.slots[i]
		if !s.inUse {
			continue
		}
		if s.header.mark {
			s.header.mark = false
			live += s.header.Size
			continue
		}
		s.obj = nil
		s.inUse = false
		h.freeList = append(h.freeList, uint32(i))
	}

	h.bytesAllocated = live
	h.nextGC = int(float64(live)*h.opts.GrowthFactor) + h.opts.InitialGCThreshold
}
