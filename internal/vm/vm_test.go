package vm_test

import (
	"testing"

	"github.com/isaacazuelos/kurt/internal/compiler"
	"github.com/isaacazuelos/kurt/internal/parser"
	"github.com/isaacazuelos/kurt/internal/vm"
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
	"github.com/isaacazuelos/kurt/pkg/value"
	"github.com/stretchr/testify/require"
)

// run parses, compiles, and starts src as a fresh module, returning the
// machine (for inspecting the heap) alongside the result.
func run(t *testing.T, src string) (*vm.VM, value.Value, *diagnostic.RuntimeError) {
	t.Helper()

	const input diagnostic.InputID = 0
	m, cerr := parser.Parse(input, src)
	require.Nil(t, cerr, "compile error: %v", cerr)

	c := compiler.New(input, compiler.DefaultOptions())
	require.Nil(t, c.CompileModule(m))

	machine := vm.New()
	modIdx := machine.Load(input, c.Build())

	v, rerr := machine.Start(modIdx)
	return machine, v, rerr
}

// The worked examples from the end-to-end literal table: empty module,
// arithmetic, let-bindings, closure application.
func TestEmptyModuleYieldsUnit(t *testing.T) {
	_, v, rerr := run(t, "")
	require.Nil(t, rerr)
	require.True(t, v.IsUnit())
}

func TestArithmeticExpression(t *testing.T) {
	_, v, rerr := run(t, "1 + 2")
	require.Nil(t, rerr)
	n, ok := v.AsInt()
	require.True(t, ok)
	require.Equal(t, int64(3), n.AsI64())
}

func TestLetBindingsAndSequencing(t *testing.T) {
	_, v, rerr := run(t, "let x = 2; let y = 3; x * y + 1")
	require.Nil(t, rerr)
	n, ok := v.AsInt()
	require.True(t, ok)
	require.Equal(t, int64(7), n.AsI64())
}

func TestImmediateClosureApplication(t *testing.T) {
	_, v, rerr := run(t, "((x) => x)(42)")
	require.Nil(t, rerr)
	n, ok := v.AsInt()
	require.True(t, ok)
	require.Equal(t, int64(42), n.AsI64())
}

// A shared capture cell: two closures over the same local, where the
// second closure increments it and the first observes the new value.
func TestSharedCaptureCell(t *testing.T) {
	src := `
		let count = 0;
		let incr = () => { count = count + 1; count };
		incr();
		incr();
		incr()
	`
	_, v, rerr := run(t, src)
	require.Nil(t, rerr)
	n, ok := v.AsInt()
	require.True(t, ok)
	require.Equal(t, int64(3), n.AsI64())
}

func TestIfElseBranching(t *testing.T) {
	_, v, rerr := run(t, "if true { :yes } else { :no }")
	require.Nil(t, rerr)
	require.True(t, v.IsObject())
}

func TestNegativeListIndex(t *testing.T) {
	_, v, rerr := run(t, "let xs = [1, 2, 3]; xs[-1]")
	require.Nil(t, rerr)
	n, ok := v.AsInt()
	require.True(t, ok)
	require.Equal(t, int64(3), n.AsI64())
}

func TestRecursiveFactorial(t *testing.T) {
	src := `
		rec fact = (n) => if n < 2 { 1 } else { n * fact(n - 1) };
		fact(7)
	`
	_, v, rerr := run(t, src)
	require.Nil(t, rerr)
	n, ok := v.AsInt()
	require.True(t, ok)
	require.Equal(t, int64(5040), n.AsI64())
}

func TestEarlyReturnFromLoop(t *testing.T) {
	src := `
		let f = () => {
			loop {
				return 8;
			};
			0
		};
		f()
	`
	_, v, rerr := run(t, src)
	require.Nil(t, rerr)
	n, ok := v.AsInt()
	require.True(t, ok)
	require.Equal(t, int64(8), n.AsI64())
}

func TestAddingIntAndBoolIsARuntimeError(t *testing.T) {
	_, _, rerr := run(t, "1 + true")
	require.NotNil(t, rerr)
	require.Equal(t, diagnostic.KindOperationNotSupported, rerr.Kind)
}

// Short-circuit && and || must leave the stack balanced on every branch,
// both when the right operand is skipped and when it's actually evaluated
// (the normal case, and the one the extra Pop bug broke).
func TestLogicalAndShortCircuits(t *testing.T) {
	_, v, rerr := run(t, "false && (1 / 0 == 0)")
	require.Nil(t, rerr)
	b, ok := v.AsBool()
	require.True(t, ok)
	require.False(t, b)
}

func TestLogicalAndEvaluatesRightWhenLeftIsTrue(t *testing.T) {
	_, v, rerr := run(t, "true && false")
	require.Nil(t, rerr)
	b, ok := v.AsBool()
	require.True(t, ok)
	require.False(t, b)

	_, v, rerr = run(t, "true && true")
	require.Nil(t, rerr)
	b, ok = v.AsBool()
	require.True(t, ok)
	require.True(t, b)
}

func TestLogicalOrShortCircuits(t *testing.T) {
	_, v, rerr := run(t, "true || (1 / 0 == 0)")
	require.Nil(t, rerr)
	b, ok := v.AsBool()
	require.True(t, ok)
	require.True(t, b)
}

func TestLogicalOrEvaluatesRightWhenLeftIsFalse(t *testing.T) {
	_, v, rerr := run(t, "false || true")
	require.Nil(t, rerr)
	b, ok := v.AsBool()
	require.True(t, ok)
	require.True(t, b)

	_, v, rerr = run(t, "false || false")
	require.Nil(t, rerr)
	b, ok = v.AsBool()
	require.True(t, ok)
	require.False(t, b)
}

// Regression for the logical-operator stack-imbalance bug: chaining a
// short-circuit expression with arithmetic afterward would previously
// consume the wrong operand once the extra Pop desynced the stack.
func TestLogicalAndInLargerExpression(t *testing.T) {
	_, v, rerr := run(t, "let x = (true && true); if x { 1 } else { 2 }")
	require.Nil(t, rerr)
	n, ok := v.AsInt()
	require.True(t, ok)
	require.Equal(t, int64(1), n.AsI64())
}

func TestResumeAfterPushSyntaxContinuesState(t *testing.T) {
	const input diagnostic.InputID = 0
	c := compiler.New(input, compiler.DefaultOptions())
	machine := vm.New()

	require.Nil(t, c.PushSyntax("let x = 2;"))
	modIdx := machine.Load(input, c.Build())
	_, rerr := machine.Resume(modIdx)
	require.Nil(t, rerr)

	require.Nil(t, c.PushSyntax("x + 40"))
	machine.ReloadMain(modIdx, c.Build())
	v, rerr := machine.Resume(modIdx)
	require.Nil(t, rerr)

	n, ok := v.AsInt()
	require.True(t, ok)
	require.Equal(t, int64(42), n.AsI64())
}
