package parser_test

import (
	"testing"

	"github.com/isaacazuelos/kurt/internal/parser"
	"github.com/isaacazuelos/kurt/pkg/ast"
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.Module {
	t.Helper()
	m, err := parser.Parse(diagnostic.InputID(0), src)
	require.Nil(t, err, "parse error: %v", err)
	return m
}

func TestParsesBindingAndTailExpression(t *testing.T) {
	m := parse(t, "let x = 2; x")

	require.Len(t, m.Statements, 1)
	b, ok := m.Statements[0].(*ast.Binding)
	require.True(t, ok)
	require.Equal(t, "x", b.Name)
	require.False(t, b.IsVar)

	id, ok := m.Tail.(*ast.Identifier)
	require.True(t, ok)
	require.Equal(t, "x", id.Name)
}

func TestParsesAssignmentAsRightAssociative(t *testing.T) {
	m := parse(t, "a = b = 1")

	assign, ok := m.Tail.(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "a", assign.Target.Name)

	inner, ok := assign.Value.(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "b", inner.Target.Name)
}

func TestAssignmentToNonIdentifierIsAParseError(t *testing.T) {
	_, err := parser.Parse(diagnostic.InputID(0), "1 + 1 = 2")
	require.NotNil(t, err)
	require.Equal(t, diagnostic.KindNotALegalAssignmentTarget, err.Kind)
}

func TestParsesClosureLiteralAndCall(t *testing.T) {
	m := parse(t, "((x) => x)(42)")

	call, ok := m.Tail.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 1)

	grouping, ok := call.Callee.(*ast.Grouping)
	require.True(t, ok)
	fn, ok := grouping.Inner.(*ast.Function)
	require.True(t, ok)
	require.Len(t, fn.Parameters, 1)
	require.Equal(t, "x", fn.Parameters[0].Name)
}

func TestParsesIfElseAsExpression(t *testing.T) {
	m := parse(t, "if true { 1 } else { 2 }")

	ifExpr, ok := m.Tail.(*ast.If)
	require.True(t, ok)
	require.NotNil(t, ifExpr.Then)
	require.NotNil(t, ifExpr.Else)
}

func TestParsesNegativeSubscript(t *testing.T) {
	m := parse(t, "xs[-1]")

	sub, ok := m.Tail.(*ast.Subscript)
	require.True(t, ok)
	_, ok = sub.Index.(*ast.Unary)
	require.True(t, ok)
}

func TestParsesTaggedTuple(t *testing.T) {
	m := parse(t, ":point(1, 2)")

	tup, ok := m.Tail.(*ast.Tuple)
	require.True(t, ok)
	require.NotNil(t, tup.Tag)
	require.Equal(t, "point", *tup.Tag)
	require.Len(t, tup.Elements, 2)
}
