package compiler

import (
	"github.com/isaacazuelos/kurt/internal/constant"
	"github.com/isaacazuelos/kurt/internal/opcode"
	"github.com/isaacazuelos/kurt/pkg/ast"
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
	"github.com/isaacazuelos/kurt/pkg/index"
)

// block compiles `{ stmts... tail? }`: a fresh lexical scope whose value is
// its tail expression, or Unit when it has none.
func (c *Compiler) block(fn *functionState, b *ast.Block) *diagnostic.CompileError {
	fn.beginScope()
	for _, s := range b.Statements {
		if err := c.statement(fn, s, false); err != nil {
			return err
		}
		fn.emit(opcode.MkPop())
	}
	if b.Tail != nil {
		if err := c.expression(fn, b.Tail); err != nil {
			return err
		}
	} else {
		fn.emit(opcode.MkUnit())
	}
	fn.endScope()
	return nil
}

func (c *Compiler) call(fn *functionState, call *ast.Call) *diagnostic.CompileError {
	if uint32(len(call.Args)) > c.opts.MaxArguments {
		return diagnostic.NewCompileError(diagnostic.KindTooManyArguments, call.Loc, "too many arguments")
	}
	if err := c.expression(fn, call.Callee); err != nil {
		return err
	}
	for _, arg := range call.Args {
		if err := c.expression(fn, arg); err != nil {
			return err
		}
	}
	fn.emit(opcode.MkCall(uint32(len(call.Args))))
	return nil
}

func (c *Compiler) list(fn *functionState, l *ast.List) *diagnostic.CompileError {
	for _, el := range l.Elements {
		if err := c.expression(fn, el); err != nil {
			return err
		}
	}
	fn.emit(opcode.MkList(uint32(len(l.Elements))))
	return nil
}

func (c *Compiler) tuple(fn *functionState, t *ast.Tuple) *diagnostic.CompileError {
	// opcode.MkTuple packs the arity into 20 bits and the tag's constant
	// index into 27 bits.
	const maxTupleArity = 1<<20 - 1
	const maxTupleTag = 1<<27 - 1
	if uint32(len(t.Elements)) > c.opts.MaxArguments || len(t.Elements) > maxTupleArity {
		return diagnostic.NewCompileError(diagnostic.KindTooManyArguments, t.Loc, "too many tuple elements")
	}
	for _, el := range t.Elements {
		if err := c.expression(fn, el); err != nil {
			return err
		}
	}

	var tagIdx *index.Constant
	if t.Tag != nil {
		idx, ok := c.pool.Insert(constant.Keyword(*t.Tag))
		if !ok || idx.AsU32() > maxTupleTag {
			return diagnostic.NewCompileError(diagnostic.KindTooManyConstants, t.Loc, "too many constants")
		}
		tagIdx = &idx
	}

	fn.emit(opcode.MkTuple(uint32(len(t.Elements)), tagIdx))
	return nil
}

func (c *Compiler) subscript(fn *functionState, s *ast.Subscript) *diagnostic.CompileError {
	if err := c.expression(fn, s.Target); err != nil {
		return err
	}
	if err := c.expression(fn, s.Index); err != nil {
		return err
	}
	fn.emit(opcode.MkIndexOp())
	return nil
}

// ifExpr compiles `if cond { then } else { else }` to a BranchFalse/Jump
// pair. A missing else branch still needs a value on the stack, so the
// compiler emits Unit for it -- the teacher's end_scope discipline keeps
// both arms balanced at exactly one pushed value.
func (c *Compiler) ifExpr(fn *functionState, i *ast.If) *diagnostic.CompileError {
	if err := c.expression(fn, i.Condition); err != nil {
		return err
	}
	branch := fn.emit(opcode.MkBranchFalse(index.New[index.OpKind](0)))

	if err := c.block(fn, i.Then); err != nil {
		return err
	}
	jump := fn.emit(opcode.MkJump(index.New[index.OpKind](0)))

	fn.patchJumpToHere(branch)
	switch {
	case i.Else == nil:
		fn.emit(opcode.MkUnit())
	default:
		if err := c.expression(fn, i.Else); err != nil {
			return err
		}
	}
	fn.patchJumpToHere(jump)
	return nil
}

// whileExpr compiles `while cond { body }`. The body's own value is
// discarded each iteration, so a loop ended by its condition has value
// Unit; a `break` jumps past that Unit, so the loop's value is then
// break's argument (or Unit for a bare break).
func (c *Compiler) whileExpr(fn *functionState, w *ast.While) *diagnostic.CompileError {
	start := index.New[index.OpKind](uint32(len(fn.code)))
	fn.loops = append(fn.loops, loopFrame{continueStart: start})

	if err := c.expression(fn, w.Condition); err != nil {
		return err
	}
	exitBranch := fn.emit(opcode.MkBranchFalse(index.New[index.OpKind](0)))

	if err := c.block(fn, w.Body); err != nil {
		return err
	}
	fn.emit(opcode.MkPop())
	fn.emit(opcode.MkJump(start))

	fn.patchJumpToHere(exitBranch)
	fn.emit(opcode.MkUnit())

	loop := fn.loops[len(fn.loops)-1]
	fn.loops = fn.loops[:len(fn.loops)-1]
	for _, at := range loop.breakJumps {
		fn.patchJumpToHere(index.New[index.OpKind](uint32(at)))
	}
	return nil
}

// loopExpr compiles `loop { body }`, an unconditional loop exited only via
// `break`, whose value is break's argument (or Unit for a bare break).
func (c *Compiler) loopExpr(fn *functionState, l *ast.Loop) *diagnostic.CompileError {
	start := index.New[index.OpKind](uint32(len(fn.code)))
	fn.loops = append(fn.loops, loopFrame{continueStart: start})

	if err := c.block(fn, l.Body); err != nil {
		return err
	}
	fn.emit(opcode.MkPop())
	fn.emit(opcode.MkJump(start))

	loop := fn.loops[len(fn.loops)-1]
	fn.loops = fn.loops[:len(fn.loops)-1]
	for _, at := range loop.breakJumps {
		fn.patchJumpToHere(index.New[index.OpKind](uint32(at)))
	}
	return nil
}

// earlyExit compiles return/break/continue; yield is always rejected as
// reserved (spec.md §9).
func (c *Compiler) earlyExit(fn *functionState, e *ast.EarlyExit) *diagnostic.CompileError {
	switch e.Kind {
	case ast.EarlyExitReturn:
		if e.Value != nil {
			if err := c.expression(fn, e.Value); err != nil {
				return err
			}
		} else {
			fn.emit(opcode.MkUnit())
		}
		fn.emit(opcode.MkReturn())
		return nil

	case ast.EarlyExitBreak:
		if len(fn.loops) == 0 {
			return diagnostic.NewCompileError(diagnostic.KindJumpTooFar, e.Loc, "break outside of a loop")
		}
		if e.Value != nil {
			if err := c.expression(fn, e.Value); err != nil {
				return err
			}
		} else {
			fn.emit(opcode.MkUnit())
		}
		at := fn.emit(opcode.MkJump(index.New[index.OpKind](0)))
		top := len(fn.loops) - 1
		fn.loops[top].breakJumps = append(fn.loops[top].breakJumps, at.AsUsize())
		return nil

	case ast.EarlyExitContinue:
		if len(fn.loops) == 0 {
			return diagnostic.NewCompileError(diagnostic.KindJumpTooFar, e.Loc, "continue outside of a loop")
		}
		if e.Value != nil {
			return diagnostic.NewCompileError(diagnostic.KindContinueWithValue, e.Loc, "continue cannot carry a value")
		}
		target := fn.loops[len(fn.loops)-1].continueStart
		fn.emit(opcode.MkJump(target))
		return nil

	case ast.EarlyExitYield:
		return diagnostic.NewCompileError(diagnostic.KindEarlyExitKindNotSupported, e.Loc, "yield is reserved and not yet supported")

	default:
		return diagnostic.NewCompileError(diagnostic.KindEarlyExitKindNotSupported, e.Loc, "unknown early-exit kind")
	}
}
