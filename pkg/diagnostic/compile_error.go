package diagnostic

import "fmt"

// CompileErrorKind classifies a compile-time failure so callers can branch
// on intent rather than message text, following the teacher's ErrKind
// idiom (pkg/types.ErrKind in hivekit).
type CompileErrorKind int

const (
	KindParseChar CompileErrorKind = iota
	KindParseInt
	KindParseFloat
	KindMutationNotSupported
	KindRecNotFunction
	KindUndefinedLocal
	KindUndefinedPrefix
	KindUndefinedInfix
	KindUndefinedPostfix
	KindTooManyOps
	KindTooManyConstants
	KindTooManyParameters
	KindTooManyArguments
	KindTooManyFunctions
	KindTooManyLocals
	KindTooManyExports
	KindTooManyImports
	KindJumpTooFar
	KindShadowExport
	KindPubNotTopLevel
	KindImportNotTopLevel
	KindEarlyExitKindNotSupported
	KindNotALegalAssignmentTarget
	KindContinueWithValue
)

func (k CompileErrorKind) String() string {
	switch k {
	case KindParseChar:
		return "ParseChar"
	case KindParseInt:
		return "ParseInt"
	case KindParseFloat:
		return "ParseFloat"
	case KindMutationNotSupported:
		return "MutationNotSupported"
	case KindRecNotFunction:
		return "RecNotFunction"
	case KindUndefinedLocal:
		return "UndefinedLocal"
	case KindUndefinedPrefix:
		return "UndefinedPrefix"
	case KindUndefinedInfix:
		return "UndefinedInfix"
	case KindUndefinedPostfix:
		return "UndefinedPostfix"
	case KindTooManyOps:
		return "TooManyOps"
	case KindTooManyConstants:
		return "TooManyConstants"
	case KindTooManyParameters:
		return "TooManyParameters"
	case KindTooManyArguments:
		return "TooManyArguments"
	case KindTooManyFunctions:
		return "TooManyFunctions"
	case KindTooManyLocals:
		return "TooManyLocals"
	case KindTooManyExports:
		return "TooManyExports"
	case KindTooManyImports:
		return "TooManyImports"
	case KindJumpTooFar:
		return "JumpTooFar"
	case KindShadowExport:
		return "ShadowExport"
	case KindPubNotTopLevel:
		return "PubNotTopLevel"
	case KindImportNotTopLevel:
		return "ImportNotTopLevel"
	case KindEarlyExitKindNotSupported:
		return "EarlyExitKindNotSupported"
	case KindNotALegalAssignmentTarget:
		return "NotALegalAssignmentTarget"
	case KindContinueWithValue:
		return "ContinueWithValue"
	default:
		return "Unknown"
	}
}

// CompileError is a typed compile-time failure carrying one primary span
// and any number of secondary spans, following hivekit's
// pkg/types.Error{Kind, Msg, Err} + sentinel-var idiom.
type CompileError struct {
	Kind    CompileErrorKind
	Msg     string
	Primary Span
	Related []Span
	Err     error
}

func (e *CompileError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Primary, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Primary, e.Msg)
}

func (e *CompileError) Unwrap() error { return e.Err }

// NewCompileError builds a CompileError at the given primary span.
func NewCompileError(kind CompileErrorKind, span Span, msg string) *CompileError {
	return &CompileError{Kind: kind, Primary: span, Msg: msg}
}
