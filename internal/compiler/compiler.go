// Package compiler implements the resumable module/prototype builder:
// spec.md §4.2, grounded on original_source/src/compiler/src/internal/
// module.rs and function.rs. It consumes pkg/ast trees (produced by
// internal/parser) and emits internal/opcode streams plus a deduplicated
// internal/constant pool.
package compiler

import (
	"github.com/isaacazuelos/kurt/internal/constant"
	"github.com/isaacazuelos/kurt/internal/opcode"
	"github.com/isaacazuelos/kurt/internal/parser"
	"github.com/isaacazuelos/kurt/pkg/ast"
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
	"github.com/isaacazuelos/kurt/pkg/index"
	"github.com/isaacazuelos/kurt/pkg/object"
)

// MainName is the reserved name of a module's entry-point function; its
// prototype always lives at index 0, exactly as original_source's
// ModuleBuilder hard-codes MAIN_NAME/MAIN.
const MainName = "main"

// CompiledPrototype is a finished function body, ready to be materialized
// onto a heap.Heap by internal/vm's loader (which supplies the owning
// Module's heap.Ref, not knowable until load time).
type CompiledPrototype struct {
	Name           string
	ParameterCount uint32
	Captures       []object.CaptureDescriptor
	Code           []opcode.Op
	Span           diagnostic.Span
}

// CompiledModule is everything internal/vm needs to allocate a Module and
// its Prototypes onto the heap.
type CompiledModule struct {
	Constants  []constant.Constant
	Prototypes []CompiledPrototype
	HasMain    bool
	Exports    []object.Export
	Imports    []object.Import
}

// checkpoint is a snapshot of every truncatable piece of compiler state,
// taken before compiling a chunk of REPL input so a compile error can roll
// the whole chunk back -- spec.md §4.2's "Resumable compilation".
type checkpoint struct {
	mainCodeLen    int
	mainLocalsLen  int
	mainScopeDepth int
	prototypesLen  int
	constantsLen   int
	exportsLen     int
	importsLen     int
}

// Compiler accumulates a single module's compiled state across one or more
// calls to PushSyntax (REPL) or a single call to CompileModule (batch).
type Compiler struct {
	opts  Options
	input diagnostic.InputID
	pool  *constant.Pool

	main       *functionState
	prototypes []CompiledPrototype // index 0 is a placeholder until main finishes

	exports []object.Export
	imports []object.Import

	hasMain bool
}

// New creates a compiler for a fresh module over the given input.
func New(input diagnostic.InputID, opts Options) *Compiler {
	c := &Compiler{
		opts:       opts,
		input:      input,
		pool:       constant.NewPool(),
		prototypes: make([]CompiledPrototype, 1), // reserve index 0 for main
	}
	c.main = newFunctionState(nil, MainName, diagnostic.Span{Input: input})
	return c
}

// CompileModule compiles a whole module in one shot -- the non-REPL path
// used by `kurt run`/`kurt eval`/`kurt disasm`.
func (c *Compiler) CompileModule(m *ast.Module) *diagnostic.CompileError {
	for _, s := range m.Statements {
		if err := c.statement(c.main, s, true); err != nil {
			return err
		}
		c.main.emit(opcode.MkPop())
	}
	if m.Tail != nil {
		if err := c.expression(c.main, m.Tail); err != nil {
			return err
		}
		c.main.emit(opcode.MkReturn())
	} else {
		c.main.emit(opcode.MkUnit())
		c.main.emit(opcode.MkReturn())
	}
	c.finishMain()
	return nil
}

// finishMain snapshots the current main functionState into prototypes[0].
func (c *Compiler) finishMain() {
	c.prototypes[0] = CompiledPrototype{
		Name: MainName,
		Code: append([]opcode.Op(nil), c.main.code...),
		Span: c.main.span,
	}
	c.hasMain = true
}

// snapshot records a rollback point.
func (c *Compiler) snapshot() checkpoint {
	return checkpoint{
		mainCodeLen:    len(c.main.code),
		mainLocalsLen:  len(c.main.locals),
		mainScopeDepth: c.main.scopeDepth,
		prototypesLen:  len(c.prototypes),
		constantsLen:   c.pool.Len(),
		exportsLen:     len(c.exports),
		importsLen:     len(c.imports),
	}
}

func (c *Compiler) rollback(cp checkpoint) {
	c.main.code = c.main.code[:cp.mainCodeLen]
	c.main.locals = c.main.locals[:cp.mainLocalsLen]
	c.main.scopeDepth = cp.mainScopeDepth
	c.prototypes = c.prototypes[:cp.prototypesLen]
	c.pool.Truncate(cp.constantsLen)
	c.exports = c.exports[:cp.exportsLen]
	c.imports = c.imports[:cp.importsLen]
}

// PushSyntax parses and compiles one more chunk of source into the
// module's main function, appending to what's already there. On a parse
// or compile error, every change the chunk would have made -- code,
// locals, prototypes, constants, exports, imports -- is rolled back, so a
// REPL session's prior bindings survive a bad line.
func (c *Compiler) PushSyntax(src string) *diagnostic.CompileError {
	cp := c.snapshot()

	m, perr := parser.Parse(c.input, src)
	if perr != nil {
		return perr
	}

	for _, s := range m.Statements {
		if err := c.statement(c.main, s, true); err != nil {
			c.rollback(cp)
			return err
		}
		c.main.emit(opcode.MkPop())
	}
	if m.Tail != nil {
		if err := c.expression(c.main, m.Tail); err != nil {
			c.rollback(cp)
			return err
		}
	} else {
		c.main.emit(opcode.MkUnit())
	}

	c.finishMain()
	return nil
}

// Build finalizes the compiled module. It's valid to call after either
// CompileModule or any number of PushSyntax calls.
func (c *Compiler) Build() CompiledModule {
	return CompiledModule{
		Constants:  c.pool.AsSlice(),
		Prototypes: c.prototypes,
		HasMain:    c.hasMain,
		Exports:    c.exports,
		Imports:    c.imports,
	}
}

// registerFunction compiles a nested function literal into its own
// prototype slot and returns its index, for LoadClosure to reference.
func (c *Compiler) registerFunction(parent *functionState, fn *ast.Function, selfName string) (index.Prototype, *diagnostic.CompileError) {
	if uint32(len(fn.Parameters)) > c.opts.MaxParameters {
		return index.Prototype{}, diagnostic.NewCompileError(diagnostic.KindTooManyParameters, fn.Loc, "too many parameters")
	}
	if uint32(len(c.prototypes)) >= c.opts.MaxFunctions {
		return index.Prototype{}, diagnostic.NewCompileError(diagnostic.KindTooManyFunctions, fn.Loc, "too many functions in module")
	}

	state := newFunctionState(parent, fn.Name, fn.Loc)
	state.selfName = selfName
	state.parameterCount = uint32(len(fn.Parameters))
	state.beginScope()
	for _, param := range fn.Parameters {
		// Parameters arrive already on the stack via Call's convention
		// (bp+1..bp+1+n); registering them in the local table is enough to
		// make LoadLocal resolve their names. No DefineLocal is emitted --
		// that op is for converting an expression result into a local, and
		// no expression pushed these.
		if _, err := state.declareLocal(param.Name, c.opts.MaxLocals); err != nil {
			return index.Prototype{}, err
		}
	}

	if err := c.expression(state, fn.Body); err != nil {
		return index.Prototype{}, err
	}
	state.emit(opcode.MkReturn())

	idx := index.New[index.PrototypeKind](uint32(len(c.prototypes)))
	c.prototypes = append(c.prototypes, CompiledPrototype{
		Name:           fn.Name,
		ParameterCount: state.parameterCount,
		Captures:       state.captures,
		Code:           state.code,
		Span:           fn.Loc,
	})
	return idx, nil
}
