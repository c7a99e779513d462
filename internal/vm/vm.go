// Package vm implements the fetch-decode-execute loop over internal/opcode
// streams: spec.md §4.4 (call/return/frames), §4.3 (closures and the
// close-over-stack capture discipline), and §5 (single-threaded,
// synchronous, no scheduling). It materializes internal/compiler's
// CompiledModule onto a pkg/heap.Heap as pkg/object values and drives
// execution through internal/primitives for every arithmetic/comparison
// opcode.
package vm

import (
	"math"

	"github.com/isaacazuelos/kurt/internal/compiler"
	"github.com/isaacazuelos/kurt/internal/constant"
	"github.com/isaacazuelos/kurt/internal/opcode"
	"github.com/isaacazuelos/kurt/internal/primitives"
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
	"github.com/isaacazuelos/kurt/pkg/heap"
	"github.com/isaacazuelos/kurt/pkg/index"
	"github.com/isaacazuelos/kurt/pkg/object"
	"github.com/isaacazuelos/kurt/pkg/value"
)

// ExitStatus classifies how a run of the fetch-execute loop ended.
type ExitStatus uint8

const (
	// ExitHalt means the call stack was fully unwound (or a literal Halt
	// opcode fired); the result is final.
	ExitHalt ExitStatus = iota
	// ExitYield is never produced by this implementation: Yield is
	// reserved (spec.md §9) and always a runtime error if fetched. The
	// status exists so callers can pattern-match exhaustively against a
	// hypothetical future coroutine extension.
	ExitYield
)

// Address locates one instruction: which module, which of its prototypes,
// and which op within that prototype's code.
type Address struct {
	Module      index.Module
	Function    index.Prototype
	Instruction index.Op
}

// callFrame is (pc, bp) per spec.md §4.4, plus enough module/prototype
// bookkeeping to fetch the next instruction and resolve LoadConstant/
// LoadClosure against the right tables.
type callFrame struct {
	module index.Module
	proto  index.Prototype
	pc     int
	bp     int      // stack index of the called closure itself
	self   heap.Ref // the Closure executing this frame; nil for the top-level module frame
}

// VM is a single-threaded interpreter instance: one heap, one value stack,
// one call stack. Hosting multiple independent scripts means instantiating
// multiple VMs (spec.md §5) -- nothing here is safe to share.
type VM struct {
	heap  *heap.Heap
	prims *primitives.Dispatcher

	modules       []heap.Ref
	moduleIndexOf map[heap.Ref]index.Module
	protoIndexOf  map[heap.Ref]index.Prototype

	stack  []value.Value
	frames []callFrame

	// openCells maps a value-stack index to the open CaptureCell aliasing
	// it, per spec.md §4.3. Entries are removed as cells close.
	openCells map[int]heap.Ref

	lastResult value.Value
}

// New creates an empty VM over a fresh heap.
func New() *VM {
	h := heap.New(heap.DefaultOptions())
	return &VM{
		heap:          h,
		prims:         primitives.New(h),
		moduleIndexOf: make(map[heap.Ref]index.Module),
		protoIndexOf:  make(map[heap.Ref]index.Prototype),
		openCells:     make(map[int]heap.Ref),
	}
}

// Heap exposes the VM's heap, for callers (cmd/kurtinspect) that want to
// browse allocated objects without re-implementing materialization.
func (vm *VM) Heap() *heap.Heap { return vm.heap }

// EnqueueRoots implements heap.RootProvider: every Value on the value
// stack, the closure executing at each frame (redundantly rooted by the
// stack, but cheap to enqueue twice), every loaded module, and every open
// capture cell (which, while open, is reachable only through this list,
// not through the stack Value it aliases).
func (vm *VM) EnqueueRoots(w *heap.Worklist) {
	for _, v := range vm.stack {
		if r, ok := v.AsObject(); ok {
			w.Enqueue(r)
		}
	}
	for _, f := range vm.frames {
		w.Enqueue(f.self)
	}
	for _, m := range vm.modules {
		w.Enqueue(m)
	}
	for _, c := range vm.openCells {
		w.Enqueue(c)
	}
}

// LastResult returns the value produced by the most recent Start/Resume
// call.
func (vm *VM) LastResult() value.Value { return vm.lastResult }

// FrameInfo is a read-only snapshot of one call-stack entry, for
// internal/trace's stack-trace reporter. It is produced on demand rather
// than kept as the frame's own shape, since a live callFrame's pc keeps
// moving.
type FrameInfo struct {
	FunctionName string
	Span         diagnostic.Span
	PC           int
}

// CallStack returns the current call stack, innermost frame first, for
// rendering a runtime-error trace.
func (vm *VM) CallStack() []FrameInfo {
	out := make([]FrameInfo, 0, len(vm.frames))
	for i := len(vm.frames) - 1; i >= 0; i-- {
		f := vm.frames[i]
		proto, err := vm.currentProto(&f)
		if err != nil {
			continue
		}
		out = append(out, FrameInfo{FunctionName: proto.Name, Span: proto.Span, PC: f.pc})
	}
	return out
}

// --- loading -----------------------------------------------------------

// Load materializes a freshly compiled module onto the heap and returns
// its module index, ready for Start.
func (vm *VM) Load(input diagnostic.InputID, cm compiler.CompiledModule) index.Module {
	modRef := vm.heap.Allocate(object.NewModule(input), vm)
	mod := vm.heap.Get(modRef).(*object.Module)

	mod.Constants = vm.materializeConstants(cm.Constants)

	protoRefs := make([]heap.Ref, len(cm.Prototypes))
	for i, p := range cm.Prototypes {
		ref := vm.heap.Allocate(object.NewPrototype(modRef, p.Name, p.ParameterCount, p.Captures, p.Code, p.Span), vm)
		protoRefs[i] = ref
		vm.protoIndexOf[ref] = index.New[index.PrototypeKind](uint32(i))
	}
	mod.Prototypes = protoRefs
	mod.MainPrototype = index.New[index.PrototypeKind](0)
	mod.HasMain = cm.HasMain
	mod.Exports = cm.Exports
	mod.Imports = cm.Imports

	idx := index.New[index.ModuleKind](uint32(len(vm.modules)))
	vm.modules = append(vm.modules, modRef)
	vm.moduleIndexOf[modRef] = idx
	return idx
}

// ReloadMain updates an already-loaded module in place from a freshly
// rebuilt CompiledModule -- the REPL path, where internal/compiler.
// PushSyntax keeps extending the same logical module. Main's prototype
// (and any prototype that already existed) is updated in place so the
// currently-suspended frame's pc, which indexes into that same Code slice
// by position, stays valid; newly introduced prototypes are appended.
func (vm *VM) ReloadMain(modIdx index.Module, cm compiler.CompiledModule) {
	modRef := vm.modules[modIdx.AsUsize()]
	mod := vm.heap.Get(modRef).(*object.Module)

	mod.Constants = vm.materializeConstants(cm.Constants)

	for i, p := range cm.Prototypes {
		if i < len(mod.Prototypes) {
			proto := vm.heap.Get(mod.Prototypes[i]).(*object.Prototype)
			proto.Name = p.Name
			proto.ParameterCount = p.ParameterCount
			proto.Captures = p.Captures
			proto.Code = p.Code
			continue
		}
		ref := vm.heap.Allocate(object.NewPrototype(modRef, p.Name, p.ParameterCount, p.Captures, p.Code, p.Span), vm)
		mod.Prototypes = append(mod.Prototypes, ref)
		vm.protoIndexOf[ref] = index.New[index.PrototypeKind](uint32(i))
	}
	mod.HasMain = cm.HasMain
	mod.Exports = cm.Exports
	mod.Imports = cm.Imports
}

func (vm *VM) materializeConstants(cs []constant.Constant) []value.Value {
	out := make([]value.Value, len(cs))
	for i, k := range cs {
		out[i] = vm.materializeConstant(k)
	}
	return out
}

func (vm *VM) materializeConstant(k constant.Constant) value.Value {
	switch k.Kind() {
	case constant.KindChar:
		return value.Char(k.Char())
	case constant.KindFloat:
		return value.Float(math.Float64frombits(k.FloatBits()))
	case constant.KindString:
		return value.Object(vm.heap.Allocate(object.NewString(k.Text()), vm))
	case constant.KindKeyword:
		return value.Object(vm.heap.Allocate(object.NewKeyword(k.Text()), vm))
	default:
		return value.Unit
	}
}

// --- lookups -------------------------------------------------------------

func (vm *VM) moduleAt(i index.Module) *object.Module {
	return vm.heap.Get(vm.modules[i.AsUsize()]).(*object.Module)
}

func (vm *VM) currentProto(f *callFrame) (*object.Prototype, *diagnostic.RuntimeError) {
	mod := vm.moduleAt(f.module)
	if f.proto.AsUsize() >= len(mod.Prototypes) {
		return nil, &diagnostic.RuntimeError{Kind: diagnostic.KindPrototypeIndexOutOfRange}
	}
	return vm.heap.Get(mod.Prototypes[f.proto.AsUsize()]).(*object.Prototype), nil
}

// --- running ---------------------------------------------------------

// Start runs a freshly loaded module's main prototype from the top,
// returning once the call stack fully unwinds (spec.md §4.4's "Halt" on an
// empty call stack). It is the non-REPL path used by `kurt run` and `kurt
// eval`; `kurt disasm` compiles without running.
func (vm *VM) Start(modIdx index.Module) (value.Value, *diagnostic.RuntimeError) {
	mod := vm.moduleAt(modIdx)
	if !mod.HasMain {
		return value.Value{}, &diagnostic.RuntimeError{Kind: diagnostic.KindNoMainFunction}
	}
	vm.stack = vm.stack[:0]
	vm.bootstrapMainFrame(modIdx, mod)
	return vm.run(false)
}

// bootstrapMainFrame pushes main's own stack slot and a bp=0 frame for it.
// Every other frame's bp points at the Closure Call read off the stack;
// main is never called through Call, so a placeholder value takes that
// slot instead, keeping LoadLocal's bp+1+index arithmetic uniform across
// both kinds of frame.
func (vm *VM) bootstrapMainFrame(modIdx index.Module, mod *object.Module) {
	vm.push(value.Unit)
	vm.frames = []callFrame{{module: modIdx, proto: mod.MainPrototype, pc: 0, bp: 0}}
}

// Resume continues (or, on the first call, bootstraps) execution of a
// REPL module's main frame. It treats running off the end of main's
// current code -- rather than hitting an explicit Return -- as a
// suspension point: the top-of-stack value (main's chunk result) is
// returned without popping the frame, so the next PushSyntax+ReloadMain+
// Resume cycle picks up exactly where this one left off.
func (vm *VM) Resume(modIdx index.Module) (value.Value, *diagnostic.RuntimeError) {
	mod := vm.moduleAt(modIdx)
	if len(vm.frames) == 0 {
		vm.stack = vm.stack[:0]
		vm.bootstrapMainFrame(modIdx, mod)
	}
	return vm.run(true)
}

// run is the fetch-decode-execute loop shared by Start and Resume.
// suspendAtEnd controls what happens when the bottom frame's pc runs past
// the end of its code without an explicit Return: true suspends (REPL),
// false is a KindEndOfCode error (a bug in a non-REPL compile, since
// CompileModule always terminates main with Return).
func (vm *VM) run(suspendAtEnd bool) (value.Value, *diagnostic.RuntimeError) {
	for {
		frameIdx := len(vm.frames) - 1
		f := &vm.frames[frameIdx]

		proto, perr := vm.currentProto(f)
		if perr != nil {
			return value.Value{}, perr
		}

		if f.pc >= len(proto.Code) {
			if suspendAtEnd && frameIdx == 0 {
				vm.lastResult = vm.top()
				return vm.lastResult, nil
			}
			return value.Value{}, &diagnostic.RuntimeError{Kind: diagnostic.KindEndOfCode}
		}

		op := proto.Code[f.pc]
		f.pc++

		switch op.Code() {
		case opcode.Halt:
			vm.lastResult = vm.top()
			return vm.lastResult, nil

		case opcode.Nop:
			// no-op

		case opcode.Return:
			result := vm.top()
			vm.closeOpenCellsFrom(f.bp)
			vm.stack = vm.stack[:f.bp]
			vm.push(result)
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				vm.lastResult = result
				return result, nil
			}

		case opcode.Jump:
			f.pc = op.JumpTarget().AsUsize()

		case opcode.BranchFalse:
			cond := vm.pop()
			if !cond.IsTruthy() {
				f.pc = op.JumpTarget().AsUsize()
			}

		case opcode.Pop:
			vm.pop()

		case opcode.DefineLocal:
			vm.push(value.Unit)

		case opcode.CloseCapture:
			top := len(vm.stack) - 1
			if ref, ok := vm.openCells[top]; ok {
				vm.heap.Get(ref).(*object.CaptureCell).Close(vm.stack[top])
				delete(vm.openCells, top)
			}
			vm.pop()

		case opcode.Unit:
			vm.push(value.Unit)
		case opcode.True:
			vm.push(value.True)
		case opcode.False:
			vm.push(value.False)
		case opcode.Nat48:
			vm.push(value.Nat(value.NewU48Unchecked(op.Nat48Bits())))
		case opcode.Int48:
			vm.push(value.Int(value.NewI48Unchecked(int64(op.Int48Bits()))))

		case opcode.LoadConstant:
			mod := vm.moduleAt(f.module)
			i := op.LoadConstantIndex().AsUsize()
			if i >= len(mod.Constants) {
				return value.Value{}, &diagnostic.RuntimeError{Kind: diagnostic.KindConstantIndexOutOfRange}
			}
			vm.push(mod.Constants[i])

		case opcode.LoadLocal:
			slot := f.bp + 1 + op.LoadLocalIndex().AsUsize()
			if slot < 0 || slot >= len(vm.stack) {
				return value.Value{}, &diagnostic.RuntimeError{Kind: diagnostic.KindLocalIndexOutOfRange}
			}
			vm.push(vm.stack[slot])

		case opcode.LoadCapture:
			v, err := vm.loadCapture(f, op.LoadCaptureIndex())
			if err != nil {
				return value.Value{}, err
			}
			vm.push(v)

		case opcode.LoadClosure:
			if err := vm.execLoadClosure(f, op.LoadClosureIndex()); err != nil {
				return value.Value{}, err
			}

		case opcode.LoadSelf:
			vm.push(value.Object(f.self))

		case opcode.StoreLocal:
			slot := f.bp + 1 + op.StoreLocalIndex().AsUsize()
			if slot < 0 || slot >= len(vm.stack) {
				return value.Value{}, &diagnostic.RuntimeError{Kind: diagnostic.KindLocalIndexOutOfRange}
			}
			vm.stack[slot] = vm.top()

		case opcode.StoreCapture:
			if err := vm.storeCapture(f, op.StoreCaptureIndex(), vm.top()); err != nil {
				return value.Value{}, err
			}

		case opcode.Call:
			if err := vm.execCall(op.CallArgCount()); err != nil {
				return value.Value{}, err
			}

		case opcode.List:
			n := int(op.ListCount())
			elements := vm.popN(n)
			vm.push(value.Object(vm.heap.Allocate(object.NewList(elements), vm)))

		case opcode.Tuple:
			if err := vm.execTuple(f, op); err != nil {
				return value.Value{}, err
			}

		case opcode.Index:
			idx := vm.pop()
			container := vm.pop()
			v, err := vm.prims.Index(container, idx)
			if err != nil {
				return value.Value{}, err
			}
			vm.push(v)

		case opcode.Neg:
			v, err := vm.prims.Neg(vm.pop())
			if err != nil {
				return value.Value{}, err
			}
			vm.push(v)

		case opcode.Not:
			v, err := vm.prims.Not(vm.pop())
			if err != nil {
				return value.Value{}, err
			}
			vm.push(v)

		case opcode.Add, opcode.Sub, opcode.Mul, opcode.Div, opcode.Rem, opcode.Pow,
			opcode.BitAnd, opcode.BitOr, opcode.BitXor, opcode.Shl, opcode.Shr,
			opcode.Lt, opcode.Le, opcode.Gt, opcode.Ge:
			b := vm.pop()
			a := vm.pop()
			v, err := vm.binaryDispatch(op.Code(), a, b)
			if err != nil {
				return value.Value{}, err
			}
			vm.push(v)

		case opcode.Eq:
			b, a := vm.pop(), vm.pop()
			vm.push(vm.prims.Eq(a, b))
		case opcode.Ne:
			b, a := vm.pop(), vm.pop()
			vm.push(vm.prims.Ne(a, b))

		case opcode.Yield:
			return value.Value{}, &diagnostic.RuntimeError{Kind: diagnostic.KindUnsupportedOp, Msg: "yield is reserved"}

		default:
			return value.Value{}, &diagnostic.RuntimeError{Kind: diagnostic.KindUnsupportedOp}
		}
	}
}

func (vm *VM) binaryDispatch(code opcode.Code, a, b value.Value) (value.Value, *diagnostic.RuntimeError) {
	switch code {
	case opcode.Add:
		return vm.prims.Add(a, b)
	case opcode.Sub:
		return vm.prims.Sub(a, b)
	case opcode.Mul:
		return vm.prims.Mul(a, b)
	case opcode.Div:
		return vm.prims.Div(a, b)
	case opcode.Rem:
		return vm.prims.Rem(a, b)
	case opcode.Pow:
		return vm.prims.Pow(a, b)
	case opcode.BitAnd:
		return vm.prims.BitAnd(a, b)
	case opcode.BitOr:
		return vm.prims.BitOr(a, b)
	case opcode.BitXor:
		return vm.prims.BitXor(a, b)
	case opcode.Shl:
		return vm.prims.Shl(a, b)
	case opcode.Shr:
		return vm.prims.Shr(a, b)
	case opcode.Lt:
		return vm.prims.Lt(a, b)
	case opcode.Le:
		return vm.prims.Le(a, b)
	case opcode.Gt:
		return vm.prims.Gt(a, b)
	case opcode.Ge:
		return vm.prims.Ge(a, b)
	default:
		return value.Value{}, &diagnostic.RuntimeError{Kind: diagnostic.KindUnsupportedOp}
	}
}

// --- stack helpers -----------------------------------------------------

func (vm *VM) push(v value.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() value.Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) top() value.Value {
	if len(vm.stack) == 0 {
		return value.Unit
	}
	return vm.stack[len(vm.stack)-1]
}

func (vm *VM) popN(n int) []value.Value {
	start := len(vm.stack) - n
	out := make([]value.Value, n)
	copy(out, vm.stack[start:])
	vm.stack = vm.stack[:start]
	return out
}

// closeOpenCellsFrom closes every open capture cell aliasing a stack index
// at or above from, per spec.md §4.3's scope-exit/return discipline.
func (vm *VM) closeOpenCellsFrom(from int) {
	for idx, ref := range vm.openCells {
		if idx >= from {
			vm.heap.Get(ref).(*object.CaptureCell).Close(vm.stack[idx])
			delete(vm.openCells, idx)
		}
	}
}

func (vm *VM) loadCapture(f *callFrame, c index.Capture) (value.Value, *diagnostic.RuntimeError) {
	if f.self.IsNil() {
		return value.Value{}, &diagnostic.RuntimeError{Kind: diagnostic.KindCaptureIndexOutOfRange}
	}
	closure := vm.heap.Get(f.self).(*object.Closure)
	if c.AsUsize() >= len(closure.Captures) {
		return value.Value{}, &diagnostic.RuntimeError{Kind: diagnostic.KindCaptureIndexOutOfRange}
	}
	cell := vm.heap.Get(closure.Captures[c.AsUsize()]).(*object.CaptureCell)
	if cell.IsClosed() {
		return cell.Value(), nil
	}
	return vm.stack[cell.StackIndex()], nil
}

// storeCapture writes v into the current closure's c-th capture cell: the
// aliased stack slot if still open, the cell itself once closed -- the
// write-side symmetry to loadCapture, per spec.md §4.3.
func (vm *VM) storeCapture(f *callFrame, c index.Capture, v value.Value) *diagnostic.RuntimeError {
	if f.self.IsNil() {
		return &diagnostic.RuntimeError{Kind: diagnostic.KindCaptureIndexOutOfRange}
	}
	closure := vm.heap.Get(f.self).(*object.Closure)
	if c.AsUsize() >= len(closure.Captures) {
		return &diagnostic.RuntimeError{Kind: diagnostic.KindCaptureIndexOutOfRange}
	}
	cell := vm.heap.Get(closure.Captures[c.AsUsize()]).(*object.CaptureCell)
	if cell.IsClosed() {
		cell.Set(v)
	} else {
		vm.stack[cell.StackIndex()] = v
	}
	return nil
}

// openCellFor returns the open CaptureCell aliasing stackIdx, allocating
// one if this is the first closure to capture that slot.
func (vm *VM) openCellFor(stackIdx int) heap.Ref {
	if ref, ok := vm.openCells[stackIdx]; ok {
		return ref
	}
	ref := vm.heap.Allocate(object.NewOpenCaptureCell(stackIdx), vm)
	vm.openCells[stackIdx] = ref
	return ref
}

func (vm *VM) execLoadClosure(f *callFrame, protoIdx index.Prototype) *diagnostic.RuntimeError {
	mod := vm.moduleAt(f.module)
	if protoIdx.AsUsize() >= len(mod.Prototypes) {
		return &diagnostic.RuntimeError{Kind: diagnostic.KindPrototypeIndexOutOfRange}
	}
	protoRef := mod.Prototypes[protoIdx.AsUsize()]
	proto := vm.heap.Get(protoRef).(*object.Prototype)

	captures := make([]heap.Ref, len(proto.Captures))
	for i, desc := range proto.Captures {
		if desc.FromLocal {
			captures[i] = vm.openCellFor(f.bp + 1 + int(desc.Index))
			continue
		}
		if f.self.IsNil() {
			return &diagnostic.RuntimeError{Kind: diagnostic.KindCaptureIndexOutOfRange}
		}
		cur := vm.heap.Get(f.self).(*object.Closure)
		if int(desc.Index) >= len(cur.Captures) {
			return &diagnostic.RuntimeError{Kind: diagnostic.KindCaptureIndexOutOfRange}
		}
		captures[i] = cur.Captures[desc.Index]
	}

	closureRef := vm.heap.Allocate(object.NewClosure(protoRef, captures), vm)
	vm.push(value.Object(closureRef))
	return nil
}

func (vm *VM) execCall(n uint32) *diagnostic.RuntimeError {
	idx := len(vm.stack) - int(n) - 1
	if idx < 0 {
		return &diagnostic.RuntimeError{Kind: diagnostic.KindStackIndexBelowZero}
	}
	ref, ok := vm.stack[idx].AsObject()
	if !ok {
		return &diagnostic.RuntimeError{Kind: diagnostic.KindCanOnlyCallClosures}
	}
	closure, ok := vm.heap.Get(ref).(*object.Closure)
	if !ok {
		return &diagnostic.RuntimeError{Kind: diagnostic.KindCanOnlyCallClosures}
	}
	proto := vm.heap.Get(closure.Prototype).(*object.Prototype)
	if proto.ParameterCount != n {
		return &diagnostic.RuntimeError{Kind: diagnostic.KindInvalidArgCount, FoundArgs: n, ExpectedArgs: proto.ParameterCount}
	}
	modIdx, ok := vm.moduleIndexOf[proto.Module]
	if !ok {
		return &diagnostic.RuntimeError{Kind: diagnostic.KindModuleIndexOutOfRange}
	}
	protoIdx, ok := vm.protoIndexOf[closure.Prototype]
	if !ok {
		return &diagnostic.RuntimeError{Kind: diagnostic.KindPrototypeIndexOutOfRange}
	}

	vm.frames = append(vm.frames, callFrame{
		module: modIdx,
		proto:  protoIdx,
		pc:     0,
		bp:     idx,
		self:   ref,
	})
	return nil
}

func (vm *VM) execTuple(f *callFrame, op opcode.Op) *diagnostic.RuntimeError {
	n := int(op.TupleArity())
	elements := vm.popN(n)

	var tagRef heap.Ref
	if constIdx, ok := op.TupleTag(); ok {
		mod := vm.moduleAt(f.module)
		i := constIdx.AsUsize()
		if i >= len(mod.Constants) {
			return &diagnostic.RuntimeError{Kind: diagnostic.KindConstantIndexOutOfRange}
		}
		ref, ok := mod.Constants[i].AsObject()
		if !ok {
			return &diagnostic.RuntimeError{Kind: diagnostic.KindCastError, CastFrom: "constant", CastTo: "Keyword"}
		}
		tagRef = ref
	}

	vm.push(value.Object(vm.heap.Allocate(object.NewTuple(tagRef, elements), vm)))
	return nil
}
