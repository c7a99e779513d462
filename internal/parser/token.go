// Package parser turns kurt source text into a pkg/ast.Module. spec.md and
// SPEC_FULL.md treat the parser as an external collaborator whose output
// type is pkg/ast; this package is the minimal concrete implementation
// needed to drive cmd/kurt end to end, since no third-party lexer/parser
// library in the example pack targets a bespoke language -- see DESIGN.md.
package parser

import "github.com/isaacazuelos/kurt/pkg/diagnostic"

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokKeyword // :name
	tokString
	tokChar
	tokDecimal
	tokHex
	tokOctal
	tokBinary
	tokFloat
	tokTrue
	tokFalse
	tokUnit // ()
	tokLet
	tokVar
	tokRec
	tokPub
	tokImport
	tokIf
	tokElse
	tokWhile
	tokLoop
	tokReturn
	tokYield
	tokBreak
	tokContinue
	tokArrow // =>
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokComma
	tokSemi
	tokAssign
	tokPlus
	tokMinus
	tokStar
	tokStarStar
	tokSlash
	tokPercent
	tokAmp
	tokAmpAmp
	tokPipe
	tokPipePipe
	tokCaret
	tokShl
	tokShr
	tokBang
	tokEqEq
	tokNotEq
	tokLt
	tokLe
	tokGt
	tokGe
)

type token struct {
	kind tokenKind
	text string
	span diagnostic.Span
}

var keywords = map[string]tokenKind{
	"let": tokLet, "var": tokVar, "rec": tokRec, "pub": tokPub,
	"import": tokImport, "if": tokIf, "else": tokElse,
	"while": tokWhile, "loop": tokLoop,
	"return": tokReturn, "yield": tokYield, "break": tokBreak, "continue": tokContinue,
	"true": tokTrue, "false": tokFalse,
}
