package parser

import (
	"fmt"

	"github.com/isaacazuelos/kurt/pkg/diagnostic"
)

// parseError is a lexical or syntactic failure. Parse wraps the last one
// encountered into a diagnostic.CompileError so callers see one error type
// for every compile-time failure, whether it came from this package or
// from internal/compiler.
type parseError struct {
	Kind diagnostic.CompileErrorKind
	Msg  string
	Span diagnostic.Span
}

func (e *parseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *parseError) asCompileError() *diagnostic.CompileError {
	return diagnostic.NewCompileError(e.Kind, e.Span, e.Msg)
}
