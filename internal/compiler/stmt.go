package compiler

import (
	"github.com/isaacazuelos/kurt/internal/opcode"
	"github.com/isaacazuelos/kurt/pkg/ast"
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
	"github.com/isaacazuelos/kurt/pkg/object"
)

// statement compiles one statement, leaving exactly one value on the stack
// -- spec.md §4.2's "every statement leaves exactly one value." Popping
// that value between statements is the caller's job (see block/
// CompileModule/PushSyntax), since the last statement in a sequence with no
// trailing separator is a tail expression, not a statement, and so is never
// compiled through here.
func (c *Compiler) statement(fn *functionState, s ast.Statement, topLevel bool) *diagnostic.CompileError {
	switch st := s.(type) {
	case *ast.Empty:
		fn.emit(opcode.MkUnit())
		return nil

	case *ast.Import:
		if !topLevel {
			return diagnostic.NewCompileError(diagnostic.KindImportNotTopLevel, st.Loc, "import must appear at module top level")
		}
		if uint32(len(c.imports)) >= c.opts.MaxImports {
			return diagnostic.NewCompileError(diagnostic.KindTooManyImports, st.Loc, "too many imports")
		}
		c.imports = append(c.imports, object.Import{Name: st.Name})
		fn.emit(opcode.MkUnit())
		return nil

	case *ast.Binding:
		return c.binding(fn, st, topLevel)

	case *ast.ExpressionStatement:
		return c.expression(fn, st.Expr)

	default:
		return diagnostic.NewCompileError(diagnostic.KindParseInt, s.Span(), "unknown statement node")
	}
}

func (c *Compiler) binding(fn *functionState, st *ast.Binding, topLevel bool) *diagnostic.CompileError {
	if st.IsVar {
		return diagnostic.NewCompileError(diagnostic.KindMutationNotSupported, st.Loc, "var bindings are not supported; use let and assign through it instead")
	}
	if st.IsPub && !topLevel {
		return diagnostic.NewCompileError(diagnostic.KindPubNotTopLevel, st.Loc, "pub is only allowed at module top level")
	}

	fnLit, isFunctionBody := st.Body.(*ast.Function)

	switch {
	case isFunctionBody:
		selfName := ""
		if st.IsRec {
			selfName = st.Name
			fnLit.Name = st.Name
		}
		protoIdx, err := c.registerFunction(fn, fnLit, selfName)
		if err != nil {
			return err
		}
		fn.emit(opcode.MkLoadClosure(protoIdx))

		if st.IsPub {
			for _, ex := range c.exports {
				if ex.Name == st.Name {
					return diagnostic.NewCompileError(diagnostic.KindShadowExport, st.Loc, "duplicate export name "+st.Name)
				}
			}
			if uint32(len(c.exports)) >= c.opts.MaxExports {
				return diagnostic.NewCompileError(diagnostic.KindTooManyExports, st.Loc, "too many exports")
			}
			c.exports = append(c.exports, object.Export{Name: st.Name, Prototype: protoIdx})
		}

	case st.IsRec:
		return diagnostic.NewCompileError(diagnostic.KindRecNotFunction, st.Loc, "rec binding's body must be a function literal")

	default:
		if err := c.expression(fn, st.Body); err != nil {
			return err
		}
	}

	if _, err := fn.declareLocal(st.Name, c.opts.MaxLocals); err != nil {
		return err
	}
	fn.emit(opcode.MkDefineLocal())
	return nil
}
