package compiler_test

import (
	"testing"

	"github.com/isaacazuelos/kurt/internal/compiler"
	"github.com/isaacazuelos/kurt/internal/parser"
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
	"github.com/stretchr/testify/require"
)

// compileErr parses and compiles src, returning its CompileError. A parse
// failure fails the test outright -- these cases are all meant to fail at
// the compiler stage, not the parser stage.
func compileErr(t *testing.T, src string) *diagnostic.CompileError {
	t.Helper()
	m, perr := parser.Parse(0, src)
	require.Nil(t, perr, "parse error: %v", perr)

	c := compiler.New(0, compiler.DefaultOptions())
	return c.CompileModule(m)
}

// The compile-error path for every CompileErrorKind that a legal parse can
// still trigger -- each one a rejected form rather than a malformed one.
func TestCompileErrorKinds(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind diagnostic.CompileErrorKind
	}{
		{
			name: "var binding is rejected outright",
			src:  "var x = 1; x",
			kind: diagnostic.KindMutationNotSupported,
		},
		{
			name: "rec binding whose body isn't a function",
			src:  "rec x = 1; x",
			kind: diagnostic.KindRecNotFunction,
		},
		{
			name: "assigning to a recursive self-reference",
			src:  "rec fact = (n) => { fact = n; fact }; fact(1)",
			kind: diagnostic.KindNotALegalAssignmentTarget,
		},
		{
			name: "reading an undefined name",
			src:  "x",
			kind: diagnostic.KindUndefinedLocal,
		},
		{
			name: "assigning to an undefined name",
			src:  "x = 1",
			kind: diagnostic.KindUndefinedLocal,
		},
		{
			name: "pub binding below module top level",
			src:  "let f = () => { pub let x = 1; x }; f()",
			kind: diagnostic.KindPubNotTopLevel,
		},
		{
			name: "import below module top level",
			src:  "let f = () => { import foo; 0 }; f()",
			kind: diagnostic.KindImportNotTopLevel,
		},
		{
			name: "break outside any loop",
			src:  "break",
			kind: diagnostic.KindJumpTooFar,
		},
		{
			name: "continue outside any loop",
			src:  "continue",
			kind: diagnostic.KindJumpTooFar,
		},
		{
			name: "continue carrying a value",
			src:  "loop { continue 1 }",
			kind: diagnostic.KindContinueWithValue,
		},
		{
			name: "yield is reserved, not implemented",
			src:  "yield 1",
			kind: diagnostic.KindEarlyExitKindNotSupported,
		},
		{
			name: "duplicate pub export name",
			src:  "pub let f = () => 1; pub let f = () => 2; 0",
			kind: diagnostic.KindShadowExport,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := compileErr(t, tc.src)
			require.NotNil(t, err)
			require.Equal(t, tc.kind, err.Kind)
		})
	}
}

// Legal forms that must NOT error, as a control against the negative cases
// above: every let/rec local, captured or not, is a legal mutation target.
func TestLegalAssignmentTargetsCompileCleanly(t *testing.T) {
	cases := []string{
		"let x = 1; x = 2",
		"rec f = (n) => { n = n + 1; n }; f(1)",
		"let n = 0; let incr = () => { n = n + 1; n }; incr()",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			err := compileErr(t, src)
			require.Nil(t, err)
		})
	}
}
