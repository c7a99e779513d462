package compiler

import (
	"math"
	"strconv"

	"github.com/isaacazuelos/kurt/internal/constant"
	"github.com/isaacazuelos/kurt/internal/opcode"
	"github.com/isaacazuelos/kurt/pkg/ast"
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
	"github.com/isaacazuelos/kurt/pkg/index"
	"github.com/isaacazuelos/kurt/pkg/value"
)

func (c *Compiler) expression(fn *functionState, e ast.Expression) *diagnostic.CompileError {
	switch ex := e.(type) {
	case *ast.Literal:
		return c.literal(fn, ex)
	case *ast.Identifier:
		return c.identifier(fn, ex)
	case *ast.Assign:
		return c.assign(fn, ex)
	case *ast.Grouping:
		return c.expression(fn, ex.Inner)
	case *ast.Unary:
		return c.unary(fn, ex)
	case *ast.Binary:
		return c.binary(fn, ex)
	case *ast.Block:
		return c.block(fn, ex)
	case *ast.Call:
		return c.call(fn, ex)
	case *ast.Function:
		protoIdx, err := c.registerFunction(fn, ex, "")
		if err != nil {
			return err
		}
		fn.emit(opcode.MkLoadClosure(protoIdx))
		return nil
	case *ast.List:
		return c.list(fn, ex)
	case *ast.Tuple:
		return c.tuple(fn, ex)
	case *ast.Subscript:
		return c.subscript(fn, ex)
	case *ast.If:
		return c.ifExpr(fn, ex)
	case *ast.While:
		return c.whileExpr(fn, ex)
	case *ast.Loop:
		return c.loopExpr(fn, ex)
	case *ast.EarlyExit:
		return c.earlyExit(fn, ex)
	default:
		return diagnostic.NewCompileError(diagnostic.KindParseInt, e.Span(), "unknown expression node")
	}
}

func (c *Compiler) literal(fn *functionState, l *ast.Literal) *diagnostic.CompileError {
	switch l.Kind {
	case ast.LiteralUnit:
		fn.emit(opcode.MkUnit())
		return nil
	case ast.LiteralBool:
		if l.Text == "true" {
			fn.emit(opcode.MkTrue())
		} else {
			fn.emit(opcode.MkFalse())
		}
		return nil
	case ast.LiteralDecimal, ast.LiteralHex, ast.LiteralOctal, ast.LiteralBinary:
		return c.integerLiteral(fn, l)
	case ast.LiteralFloat:
		f, err := strconv.ParseFloat(l.Text, 64)
		if err != nil {
			return diagnostic.NewCompileError(diagnostic.KindParseFloat, l.Loc, "invalid float literal "+l.Text)
		}
		idx, ok := c.pool.Insert(constant.Float(math.Float64bits(f)))
		if !ok {
			return diagnostic.NewCompileError(diagnostic.KindTooManyConstants, l.Loc, "too many constants")
		}
		fn.emit(opcode.MkLoadConstant(idx))
		return nil
	case ast.LiteralString:
		idx, ok := c.pool.Insert(constant.String(l.Text))
		if !ok {
			return diagnostic.NewCompileError(diagnostic.KindTooManyConstants, l.Loc, "too many constants")
		}
		fn.emit(opcode.MkLoadConstant(idx))
		return nil
	case ast.LiteralKeyword:
		idx, ok := c.pool.Insert(constant.Keyword(l.Text))
		if !ok {
			return diagnostic.NewCompileError(diagnostic.KindTooManyConstants, l.Loc, "too many constants")
		}
		fn.emit(opcode.MkLoadConstant(idx))
		return nil
	case ast.LiteralChar:
		runes := []rune(l.Text)
		if len(runes) != 1 {
			return diagnostic.NewCompileError(diagnostic.KindParseChar, l.Loc, "char literal must be exactly one rune")
		}
		idx, ok := c.pool.Insert(constant.Char(runes[0]))
		if !ok {
			return diagnostic.NewCompileError(diagnostic.KindTooManyConstants, l.Loc, "too many constants")
		}
		fn.emit(opcode.MkLoadConstant(idx))
		return nil
	default:
		return diagnostic.NewCompileError(diagnostic.KindParseInt, l.Loc, "unknown literal kind")
	}
}

// integerLiteral parses a Decimal/Hex/Octal/Binary literal's magnitude and
// emits it as a signed Int48 immediate. Integer literals are always
// non-negative text; unary '-' composes with this via the Neg opcode, so
// there is no separate unsigned-literal path -- the compiler never emits
// Nat48, and Nat values only come out of Nat-on-Nat operations in
// internal/primitives.
func (c *Compiler) integerLiteral(fn *functionState, l *ast.Literal) *diagnostic.CompileError {
	var base int
	switch l.Kind {
	case ast.LiteralDecimal:
		base = 10
	case ast.LiteralHex:
		base = 16
	case ast.LiteralOctal:
		base = 8
	case ast.LiteralBinary:
		base = 2
	}

	magnitude, err := strconv.ParseUint(l.Text, base, 64)
	if err != nil {
		return diagnostic.NewCompileError(diagnostic.KindParseInt, l.Loc, "invalid integer literal "+l.Text)
	}
	i48, ok := value.NewI48(int64(magnitude))
	if !ok {
		return diagnostic.NewCompileError(diagnostic.KindParseInt, l.Loc, "integer literal out of range: "+l.Text)
	}
	fn.emit(opcode.MkInt48(uint64(i48.AsI64())))
	return nil
}

func (c *Compiler) identifier(fn *functionState, id *ast.Identifier) *diagnostic.CompileError {
	if fn.selfName != "" && id.Name == fn.selfName {
		fn.emit(opcode.MkLoadSelf())
		return nil
	}
	if local, ok := fn.resolveLocal(id.Name); ok {
		fn.emit(opcode.MkLoadLocal(local))
		return nil
	}
	if cap, ok, err := fn.resolveCapture(id.Name, c.opts.MaxCaptures); err != nil {
		return err
	} else if ok {
		fn.emit(opcode.MkLoadCapture(cap))
		return nil
	}
	return diagnostic.NewCompileError(diagnostic.KindUndefinedLocal, id.Loc, "undefined name "+id.Name)
}

// assign compiles `target = value`: evaluate value, then write it into the
// target's local slot or capture cell without popping, so the assignment
// expression's own value is the value just assigned. Any local or capture
// is a legal mutation target -- only `var` bindings are rejected, and that
// happens at the binding site (MutationNotSupported), not here.
func (c *Compiler) assign(fn *functionState, a *ast.Assign) *diagnostic.CompileError {
	if err := c.expression(fn, a.Value); err != nil {
		return err
	}

	name := a.Target.Name

	if fn.selfName != "" && name == fn.selfName {
		return diagnostic.NewCompileError(diagnostic.KindNotALegalAssignmentTarget, a.Loc, "cannot assign to recursive self-reference "+name)
	}

	if local, ok := fn.resolveLocal(name); ok {
		fn.emit(opcode.MkStoreLocal(local))
		return nil
	}

	if cap, ok, err := fn.resolveCapture(name, c.opts.MaxCaptures); err != nil {
		return err
	} else if ok {
		fn.emit(opcode.MkStoreCapture(cap))
		return nil
	}

	return diagnostic.NewCompileError(diagnostic.KindUndefinedLocal, a.Loc, "undefined name "+name)
}

func (c *Compiler) unary(fn *functionState, u *ast.Unary) *diagnostic.CompileError {
	if err := c.expression(fn, u.Operand); err != nil {
		return err
	}
	switch u.Op {
	case ast.OpNeg:
		fn.emit(opcode.MkNeg())
	case ast.OpNot:
		fn.emit(opcode.MkNot())
	default:
		return diagnostic.NewCompileError(diagnostic.KindUndefinedPrefix, u.Loc, "unknown prefix operator")
	}
	return nil
}

func (c *Compiler) binary(fn *functionState, b *ast.Binary) *diagnostic.CompileError {
	// Short-circuit operators compile to branches, not an eagerly-evaluated
	// right-hand side.
	if b.Op == ast.OpAnd || b.Op == ast.OpOr {
		return c.shortCircuit(fn, b)
	}

	if err := c.expression(fn, b.Left); err != nil {
		return err
	}
	if err := c.expression(fn, b.Right); err != nil {
		return err
	}

	switch b.Op {
	case ast.OpAdd:
		fn.emit(opcode.MkAdd())
	case ast.OpSub:
		fn.emit(opcode.MkSub())
	case ast.OpMul:
		fn.emit(opcode.MkMul())
	case ast.OpDiv:
		fn.emit(opcode.MkDiv())
	case ast.OpRem:
		fn.emit(opcode.MkRem())
	case ast.OpPow:
		fn.emit(opcode.MkPow())
	case ast.OpBitAnd:
		fn.emit(opcode.MkBitAnd())
	case ast.OpBitOr:
		fn.emit(opcode.MkBitOr())
	case ast.OpBitXor:
		fn.emit(opcode.MkBitXor())
	case ast.OpShl:
		fn.emit(opcode.MkShl())
	case ast.OpShr:
		fn.emit(opcode.MkShr())
	case ast.OpEq:
		fn.emit(opcode.MkEq())
	case ast.OpNe:
		fn.emit(opcode.MkNe())
	case ast.OpLt:
		fn.emit(opcode.MkLt())
	case ast.OpLe:
		fn.emit(opcode.MkLe())
	case ast.OpGt:
		fn.emit(opcode.MkGt())
	case ast.OpGe:
		fn.emit(opcode.MkGe())
	default:
		return diagnostic.NewCompileError(diagnostic.KindUndefinedInfix, b.Loc, "unknown infix operator")
	}
	return nil
}

// shortCircuit compiles `&&`/`||` to a BranchFalse/Jump pair so the
// right-hand side is only evaluated when it can affect the result.
func (c *Compiler) shortCircuit(fn *functionState, b *ast.Binary) *diagnostic.CompileError {
	if err := c.expression(fn, b.Left); err != nil {
		return err
	}

	if b.Op == ast.OpAnd {
		branch := fn.emit(opcode.MkBranchFalse(index.New[index.OpKind](0)))
		if err := c.expression(fn, b.Right); err != nil {
			return err
		}
		jump := fn.emit(opcode.MkJump(index.New[index.OpKind](0)))
		fn.patchJumpToHere(branch)
		fn.emit(opcode.MkFalse())
		fn.patchJumpToHere(jump)
		return nil
	}

	// OpOr: if left is true, short-circuit to true without evaluating right.
	branch := fn.emit(opcode.MkBranchFalse(index.New[index.OpKind](0)))
	jumpTrue := fn.emit(opcode.MkJump(index.New[index.OpKind](0)))
	fn.patchJumpToHere(branch)
	if err := c.expression(fn, b.Right); err != nil {
		return err
	}
	jumpEnd := fn.emit(opcode.MkJump(index.New[index.OpKind](0)))
	fn.patchJumpToHere(jumpTrue)
	fn.emit(opcode.MkTrue())
	fn.patchJumpToHere(jumpEnd)
	return nil
}
