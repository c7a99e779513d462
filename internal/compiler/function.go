package compiler

import (
	"github.com/isaacazuelos/kurt/internal/opcode"
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
	"github.com/isaacazuelos/kurt/pkg/index"
	"github.com/isaacazuelos/kurt/pkg/object"
)

type localVar struct {
	name       string
	depth      int
	isCaptured bool
}

type loopFrame struct {
	breakJumps    []int // indices into fn.code needing patching to the loop's end
	continueStart index.Op
}

// functionState is the compile-time bookkeeping for one prototype,
// mirroring original_source's FunctionBuilder: a name, its captures, its
// local-scope stack, and the code accumulated so far. Nesting is modeled
// by the parent link, walked by resolveCapture.
type functionState struct {
	parent *functionState

	name           string
	parameterCount uint32
	span           diagnostic.Span

	locals     []localVar
	scopeDepth int

	captures []object.CaptureDescriptor

	code []opcode.Op

	loops []loopFrame

	// selfName is set for a function bound via `rec name = ...`, letting
	// an identifier matching it compile to LoadSelf instead of a capture.
	selfName string
}

func newFunctionState(parent *functionState, name string, span diagnostic.Span) *functionState {
	return &functionState{parent: parent, name: name, span: span}
}

func (f *functionState) emit(op opcode.Op) index.Op {
	f.code = append(f.code, op)
	return index.New[index.OpKind](uint32(len(f.code) - 1))
}

func (f *functionState) patchJumpToHere(at index.Op) {
	target := index.New[index.OpKind](uint32(len(f.code)))
	op := f.code[at.AsUsize()]
	switch op.Code() {
	case opcode.Jump:
		f.code[at.AsUsize()] = opcode.MkJump(target)
	case opcode.BranchFalse:
		f.code[at.AsUsize()] = opcode.MkBranchFalse(target)
	}
}

func (f *functionState) beginScope() { f.scopeDepth++ }

// endScope pops every local declared in the scope being closed, emitting
// CloseCapture for locals a nested closure captured and Pop for the rest --
// original_source's function.rs end_scope.
func (f *functionState) endScope() {
	f.scopeDepth--
	for len(f.locals) > 0 && f.locals[len(f.locals)-1].depth > f.scopeDepth {
		last := f.locals[len(f.locals)-1]
		f.locals = f.locals[:len(f.locals)-1]
		if last.isCaptured {
			f.emit(opcode.MkCloseCapture())
		} else {
			f.emit(opcode.MkPop())
		}
	}
}

func (f *functionState) declareLocal(name string, limit uint32) (index.Local, *diagnostic.CompileError) {
	if uint32(len(f.locals)) >= limit {
		return index.Local{}, diagnostic.NewCompileError(diagnostic.KindTooManyLocals, f.span, "too many locals in function "+f.name)
	}
	idx := index.New[index.LocalKind](uint32(len(f.locals)))
	f.locals = append(f.locals, localVar{name: name, depth: f.scopeDepth})
	return idx, nil
}

// resolveLocal scans this function's own locals, most recently declared
// first, so that shadowing resolves to the innermost binding.
func (f *functionState) resolveLocal(name string) (index.Local, bool) {
	for i := len(f.locals) - 1; i >= 0; i-- {
		if f.locals[i].name == name {
			return index.New[index.LocalKind](uint32(i)), true
		}
	}
	return index.Local{}, false
}

func (f *functionState) markCaptured(local index.Local) {
	f.locals[local.AsUsize()].isCaptured = true
}

// resolveCapture finds or creates a capture descriptor for name, walking
// up through enclosing functions as needed and deduping by (fromLocal,
// index) along the way -- original_source's function.rs resolve_capture /
// add_capture.
func (f *functionState) resolveCapture(name string, limit uint32) (index.Capture, bool, *diagnostic.CompileError) {
	if f.parent == nil {
		return index.Capture{}, false, nil
	}

	if local, ok := f.parent.resolveLocal(name); ok {
		f.parent.markCaptured(local)
		return f.addCapture(object.CaptureDescriptor{FromLocal: true, Index: local.AsU32()}, limit)
	}

	if parentCap, ok, err := f.parent.resolveCapture(name, limit); err != nil {
		return index.Capture{}, false, err
	} else if ok {
		return f.addCapture(object.CaptureDescriptor{FromLocal: false, Index: parentCap.AsU32()}, limit)
	}

	return index.Capture{}, false, nil
}

func (f *functionState) addCapture(desc object.CaptureDescriptor, limit uint32) (index.Capture, bool, *diagnostic.CompileError) {
	for i, c := range f.captures {
		if c == desc {
			return index.New[index.CaptureKind](uint32(i)), true, nil
		}
	}
	if uint32(len(f.captures)) >= limit {
		return index.Capture{}, false, diagnostic.NewCompileError(diagnostic.KindTooManyOps, f.span, "too many captures in function "+f.name)
	}
	f.captures = append(f.captures, desc)
	return index.New[index.CaptureKind](uint32(len(f.captures) - 1)), true, nil
}
