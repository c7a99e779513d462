// Package diagnostic provides the minimal span/diagnostic surface spec.md
// §1 calls out as an external collaborator ("the diagnostic/source-map
// subsystem... assumed to deliver spans and render human-readable
// errors"). We implement exactly the interface the compiler and VM need to
// carry a location with an error: a Span, and the typed CompileError (one
// primary Span plus any related ones) and RuntimeError. We do not port the original's terminal color emitter,
// caret-art renderer, or code-window renderer (original_source's
// src/diagnostic/src/emitter/*) -- those belong to the subsystem spec.md
// explicitly places out of scope.
package diagnostic

import "fmt"

// InputID names the source text a Span and a compiled Module point back
// into, so a stack trace can pick the right source when rendering a span.
type InputID uint32

// Span is a half-open byte range [Start, End) into some source text, plus
// the line/column of Start for human-readable rendering.
type Span struct {
	Input  InputID
	Start  int
	End    int
	Line   int
	Column int
}

// String renders a span as "line:column" for compact error messages.
func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Diagnostic pairs a message with a primary span and any number of
// secondary highlight spans, matching original_source's Diagnostic shape
// closely enough for a caller to render its own presentation on top.
type Diagnostic struct {
	Primary    Span
	Highlights []Span
	Message    string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Primary, d.Message)
}
