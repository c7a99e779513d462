package parser

import (
	"github.com/isaacazuelos/kurt/pkg/ast"
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
)

type parser struct {
	lex  *lexer
	cur  token
	peek token
	err  *parseError
}

// Parse lexes and parses src as a complete module.
func Parse(input diagnostic.InputID, src string) (*ast.Module, *diagnostic.CompileError) {
	p := &parser{lex: newLexer(input, src)}
	p.bump()
	p.bump()

	var statements []ast.Statement
	var tail ast.Expression

	for p.cur.kind != tokEOF && p.err == nil {
		if isStatementStart(p.cur.kind) || p.cur.kind == tokPub || p.cur.kind == tokImport {
			statements = append(statements, p.statement(true))
			continue
		}
		expr := p.expression()
		if p.cur.kind == tokSemi {
			p.bump()
			statements = append(statements, &ast.ExpressionStatement{Expr: expr, Loc: expr.Span()})
			continue
		}
		tail = expr
		break
	}
	if p.err != nil {
		return nil, p.err.asCompileError()
	}
	if p.cur.kind != tokEOF {
		return nil, (&parseError{Kind: diagnostic.KindParseInt, Msg: "unexpected trailing input after module tail expression", Span: p.cur.span}).asCompileError()
	}
	return &ast.Module{Statements: statements, Tail: tail, Span: diagnostic.Span{Input: input, End: len(src)}}, nil
}

func (p *parser) bump() {
	if p.err != nil {
		return
	}
	p.cur = p.peek
	tok, err := p.lex.next()
	if err != nil {
		p.err = err
		return
	}
	p.peek = tok
}

func (p *parser) fail(kind diagnostic.CompileErrorKind, msg string) {
	if p.err == nil {
		p.err = &parseError{Kind: kind, Msg: msg, Span: p.cur.span}
	}
}

func (p *parser) expect(k tokenKind, msg string) token {
	t := p.cur
	if t.kind != k {
		p.fail(diagnostic.KindParseInt, msg)
	}
	p.bump()
	return t
}

// statement parses one top-level-or-block statement. topLevel allows `pub`
// and `import`, which are rejected (PubNotTopLevel/ImportNotTopLevel) by
// internal/compiler when seen elsewhere, not by the parser itself -- the
// parser only records IsPub/Import so the compiler can enforce placement.
func (p *parser) statement(topLevel bool) ast.Statement {
	start := p.cur.span

	if p.cur.kind == tokSemi {
		p.bump()
		return &ast.Empty{Loc: start}
	}

	if p.cur.kind == tokImport {
		p.bump()
		name := p.expect(tokIdent, "expected module name after 'import'")
		p.consumeSemi()
		return &ast.Import{Name: name.text, Loc: start}
	}

	isPub := false
	if p.cur.kind == tokPub {
		isPub = true
		p.bump()
	}

	if p.cur.kind == tokLet || p.cur.kind == tokVar || p.cur.kind == tokRec {
		isVar := p.cur.kind == tokVar
		isRec := p.cur.kind == tokRec
		p.bump()
		name := p.expect(tokIdent, "expected a name after binding keyword")
		p.expect(tokAssign, "expected '=' in binding")
		body := p.expression()
		p.consumeSemi()
		return &ast.Binding{IsVar: isVar, IsRec: isRec, IsPub: isPub, Name: name.text, Body: body, Loc: start}
	}

	expr := p.expression()
	p.consumeSemi()
	return &ast.ExpressionStatement{Expr: expr, Loc: start}
}

func (p *parser) consumeSemi() {
	if p.cur.kind == tokSemi {
		p.bump()
	}
}

// --- expressions, precedence-climbing -------------------------------------

type precedence int

const (
	precNone precedence = iota
	precOr
	precAnd
	precEquality
	precComparison
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdditive
	precMultiplicative
	precPower
	precUnary
)

var binaryTable = map[tokenKind]struct {
	op   ast.BinaryOp
	prec precedence
}{
	tokPipePipe: {ast.OpOr, precOr},
	tokAmpAmp:   {ast.OpAnd, precAnd},
	tokEqEq:     {ast.OpEq, precEquality},
	tokNotEq:    {ast.OpNe, precEquality},
	tokLt:       {ast.OpLt, precComparison},
	tokLe:       {ast.OpLe, precComparison},
	tokGt:       {ast.OpGt, precComparison},
	tokGe:       {ast.OpGe, precComparison},
	tokPipe:     {ast.OpBitOr, precBitOr},
	tokCaret:    {ast.OpBitXor, precBitXor},
	tokAmp:      {ast.OpBitAnd, precBitAnd},
	tokShl:      {ast.OpShl, precShift},
	tokShr:      {ast.OpShr, precShift},
	tokPlus:     {ast.OpAdd, precAdditive},
	tokMinus:    {ast.OpSub, precAdditive},
	tokStar:     {ast.OpMul, precMultiplicative},
	tokSlash:    {ast.OpDiv, precMultiplicative},
	tokPercent:  {ast.OpRem, precMultiplicative},
	tokStarStar: {ast.OpPow, precPower},
}

func (p *parser) expression() ast.Expression {
	return p.assignment()
}

// assignment is `target = value`, right-associative and binding looser
// than every operator; anything else falls through to binary/unary/postfix.
// A left-hand side that isn't a bare identifier is rejected here, as a
// parse-time NotALegalAssignmentTarget; whether the name resolves to a
// local or capture at all is left to the compiler.
func (p *parser) assignment() ast.Expression {
	left := p.binary(precOr)
	if p.cur.kind != tokAssign {
		return left
	}
	start := left.Span()
	p.bump()
	value := p.assignment()
	id, ok := left.(*ast.Identifier)
	if !ok {
		p.fail(diagnostic.KindNotALegalAssignmentTarget, "left-hand side of '=' must be a name")
		return left
	}
	return &ast.Assign{Target: id, Value: value, Loc: start}
}

func (p *parser) binary(min precedence) ast.Expression {
	left := p.unary()
	for p.err == nil {
		info, ok := binaryTable[p.cur.kind]
		if !ok || info.prec < min {
			break
		}
		start := left.Span()
		p.bump()
		nextMin := info.prec + 1
		if info.op == ast.OpPow { // right-associative
			nextMin = info.prec
		}
		right := p.binary(nextMin)
		left = &ast.Binary{Op: info.op, Left: left, Right: right, Loc: start}
	}
	return left
}

func (p *parser) unary() ast.Expression {
	start := p.cur.span
	switch p.cur.kind {
	case tokMinus:
		p.bump()
		return &ast.Unary{Op: ast.OpNeg, Operand: p.unary(), Loc: start}
	case tokBang:
		p.bump()
		return &ast.Unary{Op: ast.OpNot, Operand: p.unary(), Loc: start}
	default:
		return p.postfix(p.primary())
	}
}

func (p *parser) postfix(e ast.Expression) ast.Expression {
	for {
		start := e.Span()
		switch p.cur.kind {
		case tokLParen:
			p.bump()
			var args []ast.Expression
			for p.cur.kind != tokRParen && p.err == nil {
				args = append(args, p.expression())
				if p.cur.kind == tokComma {
					p.bump()
				}
			}
			p.expect(tokRParen, "expected ')' to close call arguments")
			e = &ast.Call{Callee: e, Args: args, Loc: start}
		case tokLBracket:
			p.bump()
			idx := p.expression()
			p.expect(tokRBracket, "expected ']' to close subscript")
			e = &ast.Subscript{Target: e, Index: idx, Loc: start}
		default:
			return e
		}
	}
}

func (p *parser) primary() ast.Expression {
	start := p.cur.span
	switch p.cur.kind {
	case tokTrue:
		p.bump()
		return &ast.Literal{Kind: ast.LiteralBool, Text: "true", Loc: start}
	case tokFalse:
		p.bump()
		return &ast.Literal{Kind: ast.LiteralBool, Text: "false", Loc: start}
	case tokUnit:
		p.bump()
		if p.cur.kind == tokArrow { // `() => body`, a zero-parameter function
			p.bump()
			body := p.expression()
			return &ast.Function{Body: body, Loc: start}
		}
		return &ast.Literal{Kind: ast.LiteralUnit, Loc: start}
	case tokDecimal:
		text := p.cur.text
		p.bump()
		return &ast.Literal{Kind: ast.LiteralDecimal, Text: text, Loc: start}
	case tokHex:
		text := p.cur.text
		p.bump()
		return &ast.Literal{Kind: ast.LiteralHex, Text: text, Loc: start}
	case tokOctal:
		text := p.cur.text
		p.bump()
		return &ast.Literal{Kind: ast.LiteralOctal, Text: text, Loc: start}
	case tokBinary:
		text := p.cur.text
		p.bump()
		return &ast.Literal{Kind: ast.LiteralBinary, Text: text, Loc: start}
	case tokFloat:
		text := p.cur.text
		p.bump()
		return &ast.Literal{Kind: ast.LiteralFloat, Text: text, Loc: start}
	case tokString:
		text := p.cur.text
		p.bump()
		return &ast.Literal{Kind: ast.LiteralString, Text: text, Loc: start}
	case tokChar:
		text := p.cur.text
		p.bump()
		return &ast.Literal{Kind: ast.LiteralChar, Text: text, Loc: start}
	case tokKeyword:
		text := p.cur.text
		p.bump()
		if p.cur.kind == tokLParen {
			return p.taggedTuple(text, start)
		}
		return &ast.Literal{Kind: ast.LiteralKeyword, Text: text, Loc: start}
	case tokIdent:
		text := p.cur.text
		p.bump()
		return &ast.Identifier{Name: text, Loc: start}
	case tokLBracket:
		return p.list(start)
	case tokLBrace:
		return p.block()
	case tokIf:
		return p.ifExpr()
	case tokWhile:
		return p.whileExpr()
	case tokLoop:
		return p.loopExpr()
	case tokReturn:
		return p.earlyExit(ast.EarlyExitReturn, start)
	case tokYield:
		return p.earlyExit(ast.EarlyExitYield, start)
	case tokBreak:
		return p.earlyExit(ast.EarlyExitBreak, start)
	case tokContinue:
		return p.earlyExit(ast.EarlyExitContinue, start)
	case tokLParen:
		return p.parenOrFunctionOrTuple(start)
	default:
		p.fail(diagnostic.KindParseInt, "expected an expression")
		p.bump()
		return &ast.Literal{Kind: ast.LiteralUnit, Loc: start}
	}
}

func (p *parser) taggedTuple(tag string, start diagnostic.Span) ast.Expression {
	p.bump() // '('
	var elems []ast.Expression
	for p.cur.kind != tokRParen && p.err == nil {
		elems = append(elems, p.expression())
		if p.cur.kind == tokComma {
			p.bump()
		}
	}
	p.expect(tokRParen, "expected ')' to close tagged tuple")
	return &ast.Tuple{Tag: &tag, Elements: elems, Loc: start}
}

func (p *parser) list(start diagnostic.Span) ast.Expression {
	p.bump() // '['
	var elems []ast.Expression
	for p.cur.kind != tokRBracket && p.err == nil {
		elems = append(elems, p.expression())
		if p.cur.kind == tokComma {
			p.bump()
		}
	}
	p.expect(tokRBracket, "expected ']' to close list")
	return &ast.List{Elements: elems, Loc: start}
}

func (p *parser) block() *ast.Block {
	start := p.cur.span
	p.bump() // '{'
	var statements []ast.Statement
	var tail ast.Expression

	for p.cur.kind != tokRBrace && p.cur.kind != tokEOF && p.err == nil {
		if isStatementStart(p.cur.kind) {
			statements = append(statements, p.statement(false))
			continue
		}
		expr := p.expression()
		if p.cur.kind == tokSemi {
			p.bump()
			statements = append(statements, &ast.ExpressionStatement{Expr: expr, Loc: expr.Span()})
			continue
		}
		tail = expr
		break
	}
	p.expect(tokRBrace, "expected '}' to close block")
	return &ast.Block{Statements: statements, Tail: tail, Loc: start}
}

func isStatementStart(k tokenKind) bool {
	switch k {
	case tokLet, tokVar, tokRec, tokPub, tokImport, tokSemi:
		return true
	default:
		return false
	}
}

func (p *parser) ifExpr() ast.Expression {
	start := p.cur.span
	p.bump() // 'if'
	cond := p.expression()
	then := p.block()
	var elseExpr ast.Expression
	if p.cur.kind == tokElse {
		p.bump()
		if p.cur.kind == tokIf {
			elseExpr = p.ifExpr()
		} else {
			elseExpr = p.block()
		}
	}
	return &ast.If{Condition: cond, Then: then, Else: elseExpr, Loc: start}
}

func (p *parser) whileExpr() ast.Expression {
	start := p.cur.span
	p.bump() // 'while'
	cond := p.expression()
	body := p.block()
	return &ast.While{Condition: cond, Body: body, Loc: start}
}

func (p *parser) loopExpr() ast.Expression {
	start := p.cur.span
	p.bump() // 'loop'
	body := p.block()
	return &ast.Loop{Body: body, Loc: start}
}

func (p *parser) earlyExit(kind ast.EarlyExitKind, start diagnostic.Span) ast.Expression {
	p.bump()
	var value ast.Expression
	if p.cur.kind != tokSemi && p.cur.kind != tokRBrace && p.cur.kind != tokRParen && p.cur.kind != tokEOF {
		value = p.expression()
	}
	return &ast.EarlyExit{Kind: kind, Value: value, Loc: start}
}

// parenOrFunctionOrTuple disambiguates `(expr)` (Grouping), `(a, b)`
// (Tuple), and `(params) => body` (Function) -- all of which start
// identically at the opening paren.
func (p *parser) parenOrFunctionOrTuple(start diagnostic.Span) ast.Expression {
	if looksLikeParams, params := p.tryParseParams(); looksLikeParams {
		body := p.expression()
		return &ast.Function{Parameters: params, Body: body, Loc: start}
	}

	p.bump() // '('
	var elems []ast.Expression
	for p.cur.kind != tokRParen && p.err == nil {
		elems = append(elems, p.expression())
		if p.cur.kind == tokComma {
			p.bump()
		}
	}
	p.expect(tokRParen, "expected ')' to close parenthesized expression")
	if len(elems) == 1 {
		return &ast.Grouping{Inner: elems[0], Loc: start}
	}
	return &ast.Tuple{Elements: elems, Loc: start}
}

// tryParseParams speculatively scans ahead for `( ident, ident, ... ) =>`.
// It never consumes input unless the whole shape matches, by operating on
// a throwaway copy of the lexer/parser cursor state.
func (p *parser) tryParseParams() (bool, []ast.Parameter) {
	save := *p
	saveLex := *p.lex

	p.bump() // '('
	var params []ast.Parameter
	ok := true
	for p.cur.kind != tokRParen {
		if p.cur.kind != tokIdent {
			ok = false
			break
		}
		params = append(params, ast.Parameter{Name: p.cur.text, Loc: p.cur.span})
		p.bump()
		if p.cur.kind == tokComma {
			p.bump()
			continue
		}
		break
	}
	if ok && p.cur.kind == tokRParen {
		p.bump() // ')'
		if p.cur.kind == tokArrow {
			p.bump() // '=>'
			return true, params
		}
	}

	*p = save
	*p.lex = saveLex
	return false, nil
}
