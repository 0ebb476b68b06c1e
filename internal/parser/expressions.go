package parser

import (
	"strconv"
	"strings"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/token"
)

// Precedence levels, lowest to highest. Assignment and conditional are
// handled by dedicated recursive calls rather than this table since they
// are right-associative and rarely chain with the binary ladder.
const (
	LOWEST int = iota
	COMMA_PREC
	ASSIGN_PREC
	CONDITIONAL_PREC
	NULLISH_PREC
	LOGOR_PREC
	LOGAND_PREC
	BITOR_PREC
	BITXOR_PREC
	BITAND_PREC
	EQUALITY_PREC
	RELATIONAL_PREC
	SHIFT_PREC
	ADDITIVE_PREC
	MULTIPLICATIVE_PREC
	EXPONENT_PREC
	UNARY_PREC
	POSTFIX_PREC
	CALL_PREC
)

var binaryPrecedence = map[token.Kind]int{
	token.EQ: EQUALITY_PREC, token.NEQ: EQUALITY_PREC, token.EQEQEQ: EQUALITY_PREC, token.NEQEQ: EQUALITY_PREC,
	token.LT: RELATIONAL_PREC, token.GT: RELATIONAL_PREC, token.LE: RELATIONAL_PREC, token.GE: RELATIONAL_PREC,
	token.IN: RELATIONAL_PREC, token.INSTANCEOF: RELATIONAL_PREC,
	token.PIPE: BITOR_PREC, token.CARET: BITXOR_PREC, token.AMP: BITAND_PREC,
	token.SHL: SHIFT_PREC, token.SHR: SHIFT_PREC, token.USHR: SHIFT_PREC,
	token.PLUS: ADDITIVE_PREC, token.MINUS: ADDITIVE_PREC,
	token.STAR: MULTIPLICATIVE_PREC, token.SLASH: MULTIPLICATIVE_PREC, token.PERCENT: MULTIPLICATIVE_PREC,
	token.STARSTAR: EXPONENT_PREC,
}

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.EQ: ast.OpEq, token.NEQ: ast.OpNeq, token.EQEQEQ: ast.OpStrictEq, token.NEQEQ: ast.OpStrictNe,
	token.LT: ast.OpLt, token.GT: ast.OpGt, token.LE: ast.OpLe, token.GE: ast.OpGe,
	token.IN: ast.OpIn, token.INSTANCEOF: ast.OpInstOf,
	token.PIPE: ast.OpBitOr, token.CARET: ast.OpBitXor, token.AMP: ast.OpBitAnd,
	token.SHL: ast.OpShl, token.SHR: ast.OpShr, token.USHR: ast.OpUShr,
	token.PLUS: ast.OpAdd, token.MINUS: ast.OpSub,
	token.STAR: ast.OpMul, token.SLASH: ast.OpDiv, token.PERCENT: ast.OpMod,
	token.STARSTAR: ast.OpPow,
}

var assignOps = map[token.Kind]ast.AssignOp{
	token.ASSIGN: ast.AssignPlain, token.PLUSEQ: ast.AssignAdd, token.MINUSEQ: ast.AssignSub,
	token.STAREQ: ast.AssignMul, token.SLASHEQ: ast.AssignDiv, token.PERCENTEQ: ast.AssignMod,
	token.STARSTAREQ: ast.AssignPow, token.ANDEQ: ast.AssignAnd, token.OREQ: ast.AssignOr,
	token.NULLISHEQ: ast.AssignNullish,
	token.AMPEQ: ast.AssignBitAnd, token.PIPEEQ: ast.AssignBitOr, token.CARETEQ: ast.AssignBitXor,
	token.SHLEQ: ast.AssignShl, token.SHREQ: ast.AssignShr, token.USHREQ: ast.AssignUShr,
}

// parseExpression is a thin alias over parseAssignExpr, kept for clarity
// at call sites: nookjs has no sequence (comma) expression in the spec's
// grammar, so prec is ignored and no comma operator is parsed.
func (p *Parser) parseExpression(prec int) ast.Expression {
	return p.parseAssignExpr()
}

// parseAssignExpr handles assignment (right-associative) by first parsing
// a conditional expression, then checking for an assignment operator.
// Array/object literals on the left of `=` are normalized to patterns
// here (spec §4.2 "Assignment target normalization").
func (p *Parser) parseAssignExpr() ast.Expression {
	if arrow := p.tryParseArrowFunction(); arrow != nil {
		return arrow
	}

	left := p.parseConditional()

	if op, ok := assignOps[p.cur.Kind]; ok {
		pos := p.cur.Pos
		p.advance()
		right := p.parseAssignExpr()
		target := p.toAssignmentTarget(left)
		a := &ast.AssignmentExpression{Left: target, Right: right, Op: op}
		a.Position = pos
		return a
	}
	return left
}

func (p *Parser) parseConditional() ast.Expression {
	test := p.parseNullish()
	if p.is(token.QUESTION) {
		pos := p.cur.Pos
		p.advance()
		cons := p.parseAssignExpr()
		p.expect(token.COLON)
		alt := p.parseAssignExpr()
		c := &ast.ConditionalExpression{Test: test, Consequent: cons, Alternate: alt}
		c.Position = pos
		return c
	}
	return test
}

func (p *Parser) parseNullish() ast.Expression {
	left := p.parseLogicalOr()
	for p.is(token.NULLISH) {
		pos := p.cur.Pos
		p.advance()
		right := p.parseLogicalOr()
		l := &ast.LogicalExpression{Left: left, Right: right, Op: ast.LogNullish}
		l.Position = pos
		left = l
	}
	return left
}

func (p *Parser) parseLogicalOr() ast.Expression {
	left := p.parseLogicalAnd()
	for p.is(token.OR) {
		pos := p.cur.Pos
		p.advance()
		right := p.parseLogicalAnd()
		l := &ast.LogicalExpression{Left: left, Right: right, Op: ast.LogOr}
		l.Position = pos
		left = l
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expression {
	left := p.parseBinary(BITOR_PREC)
	for p.is(token.AND) {
		pos := p.cur.Pos
		p.advance()
		right := p.parseBinary(BITOR_PREC)
		l := &ast.LogicalExpression{Left: left, Right: right, Op: ast.LogAnd}
		l.Position = pos
		left = l
	}
	return left
}

// parseBinary implements precedence climbing over the binaryPrecedence
// table. `in` is suppressed inside for-header initializers (spec §4.2).
func (p *Parser) parseBinary(minPrec int) ast.Expression {
	left := p.parseUnary()
	for {
		if p.inForHeader && p.is(token.IN) {
			return left
		}
		prec, ok := binaryPrecedence[p.cur.Kind]
		if !ok || prec < minPrec {
			return left
		}
		op := binaryOps[p.cur.Kind]
		pos := p.cur.Pos
		rightAssoc := p.cur.Kind == token.STARSTAR
		p.advance()
		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		right := p.parseBinary(nextMin)
		b := &ast.BinaryExpression{Left: left, Right: right, Op: op}
		b.Position = pos
		left = b
	}
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.cur.Kind {
	case token.MINUS, token.PLUS, token.NOT, token.TILDE:
		op := ast.UnaryOp(p.cur.Literal)
		pos := p.cur.Pos
		p.advance()
		arg := p.parseUnary()
		u := &ast.UnaryExpression{Argument: arg, Op: op}
		u.Position = pos
		return u
	case token.TYPEOF:
		pos := p.cur.Pos
		p.advance()
		u := &ast.UnaryExpression{Argument: p.parseUnary(), Op: ast.UnaryTypeof}
		u.Position = pos
		return u
	case token.VOID:
		pos := p.cur.Pos
		p.advance()
		u := &ast.UnaryExpression{Argument: p.parseUnary(), Op: ast.UnaryVoid}
		u.Position = pos
		return u
	case token.DELETE:
		pos := p.cur.Pos
		p.advance()
		u := &ast.UnaryExpression{Argument: p.parseUnary(), Op: ast.UnaryDelete}
		u.Position = pos
		return u
	case token.PLUSPLUS, token.MINUSMINUS:
		op := p.cur.Literal
		pos := p.cur.Pos
		p.advance()
		arg := p.parseUnary()
		u := &ast.UpdateExpression{Argument: arg, Op: op, Prefix: true}
		u.Position = pos
		return u
	case token.AWAIT:
		pos := p.cur.Pos
		p.advance()
		a := &ast.AwaitExpression{Argument: p.parseUnary()}
		a.Position = pos
		return a
	case token.YIELD:
		pos := p.cur.Pos
		p.advance()
		delegate := p.accept(token.STAR)
		y := &ast.YieldExpression{Delegate: delegate}
		y.Position = pos
		if !p.is(token.SEMICOLON) && !p.is(token.RPAREN) && !p.is(token.RBRACE) &&
			!p.is(token.RBRACKET) && !p.is(token.COMMA) && !p.is(token.EOF) && !p.cur.NewlineBefore {
			y.Argument = p.parseAssignExpr()
		}
		return y
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parseCallMemberChain()
	if (p.is(token.PLUSPLUS) || p.is(token.MINUSMINUS)) && !p.cur.NewlineBefore {
		op := p.cur.Literal
		pos := p.cur.Pos
		p.advance()
		u := &ast.UpdateExpression{Argument: expr, Op: op, Prefix: false}
		u.Position = pos
		return u
	}
	return expr
}

// parseCallMemberChain parses member/call/new chains, wrapping the whole
// chain in exactly one ChainExpression if any hop was optional (spec §3
// invariant, §4.2 tie-break).
func (p *Parser) parseCallMemberChain() ast.Expression {
	sawOptional := false
	expr := p.parseNewExpression()
	for {
		switch {
		case p.is(token.DOT):
			pos := p.cur.Pos
			p.advance()
			name := p.parsePropertyName()
			m := &ast.MemberExpression{Object: expr, Property: newIdent(name, pos)}
			m.Position = pos
			expr = m
		case p.is(token.OPTCHAIN):
			pos := p.cur.Pos
			p.advance()
			sawOptional = true
			switch p.cur.Kind {
			case token.LPAREN:
				expr = p.parseCallArguments(expr, pos, true)
			case token.LBRACKET:
				p.advance()
				prop := p.parseExpression(LOWEST)
				p.expect(token.RBRACKET)
				m := &ast.MemberExpression{Object: expr, Property: prop, Computed: true, Optional: true}
				m.Position = pos
				expr = m
			default:
				name := p.parsePropertyName()
				m := &ast.MemberExpression{Object: expr, Property: newIdent(name, pos), Optional: true}
				m.Position = pos
				expr = m
			}
		case p.is(token.LBRACKET):
			pos := p.cur.Pos
			p.advance()
			prop := p.parseExpression(LOWEST)
			p.expect(token.RBRACKET)
			m := &ast.MemberExpression{Object: expr, Property: prop, Computed: true}
			m.Position = pos
			expr = m
		case p.is(token.LPAREN):
			pos := p.cur.Pos
			expr = p.parseCallArguments(expr, pos, false)
		case p.is(token.BACKTICK):
			// tagged templates are explicitly out of scope (spec §1 non-goal);
			// stop the chain here so the backtick surfaces as a syntax error
			// at statement level rather than being silently consumed.
			return p.wrapChain(expr, sawOptional)
		default:
			return p.wrapChain(expr, sawOptional)
		}
	}
}

func (p *Parser) wrapChain(expr ast.Expression, optional bool) ast.Expression {
	if !optional {
		return expr
	}
	c := &ast.ChainExpression{Expression: expr}
	c.Position = expr.Pos()
	return c
}

func (p *Parser) parsePropertyName() string {
	name := p.cur.Literal
	if p.is(token.PRIVATE) {
		p.advance()
		return name
	}
	p.advance()
	return name
}

func (p *Parser) parseCallArguments(callee ast.Expression, pos token.Position, optional bool) ast.Expression {
	p.expect(token.LPAREN)
	var args []ast.Expression
	for !p.is(token.RPAREN) && !p.is(token.EOF) {
		if p.is(token.ELLIPSIS) {
			sp := p.cur.Pos
			p.advance()
			s := &ast.SpreadElement{Argument: p.parseAssignExpr()}
			s.Position = sp
			args = append(args, s)
		} else {
			args = append(args, p.parseAssignExpr())
		}
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	c := &ast.CallExpression{Callee: callee, Arguments: args, Optional: optional}
	c.Position = pos
	return c
}

func (p *Parser) parseNewExpression() ast.Expression {
	if p.is(token.NEW) {
		pos := p.cur.Pos
		p.advance()
		callee := p.parseMemberOnly()
		var args []ast.Expression
		if p.is(token.LPAREN) {
			p.advance()
			for !p.is(token.RPAREN) && !p.is(token.EOF) {
				if p.is(token.ELLIPSIS) {
					sp := p.cur.Pos
					p.advance()
					s := &ast.SpreadElement{Argument: p.parseAssignExpr()}
					s.Position = sp
					args = append(args, s)
				} else {
					args = append(args, p.parseAssignExpr())
				}
				if !p.accept(token.COMMA) {
					break
				}
			}
			p.expect(token.RPAREN)
		}
		n := &ast.NewExpression{Callee: callee, Arguments: args}
		n.Position = pos
		return n
	}
	return p.parsePrimary()
}

// parseMemberOnly parses a member-expression chain without calls, used for
// `new Foo.Bar.Baz(...)` callees.
func (p *Parser) parseMemberOnly() ast.Expression {
	expr := p.parseNewExpression()
	for {
		switch {
		case p.is(token.DOT):
			pos := p.cur.Pos
			p.advance()
			name := p.parsePropertyName()
			m := &ast.MemberExpression{Object: expr, Property: newIdent(name, pos)}
			m.Position = pos
			expr = m
		case p.is(token.LBRACKET):
			pos := p.cur.Pos
			p.advance()
			prop := p.parseExpression(LOWEST)
			p.expect(token.RBRACKET)
			m := &ast.MemberExpression{Object: expr, Property: prop, Computed: true}
			m.Position = pos
			expr = m
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expression {
	pos := p.cur.Pos
	switch p.cur.Kind {
	case token.NUMBER:
		lit := p.cur.Literal
		p.advance()
		n := &ast.Literal{Kind: ast.LitNumber, Number: parseNumber(lit)}
		n.Position = pos
		return n
	case token.STRING:
		lit := p.cur.Literal
		p.advance()
		s := &ast.Literal{Kind: ast.LitString, String: lit}
		s.Position = pos
		return s
	case token.TRUE, token.FALSE:
		b := p.cur.Kind == token.TRUE
		p.advance()
		l := &ast.Literal{Kind: ast.LitBool, Bool: b}
		l.Position = pos
		return l
	case token.NULL:
		p.advance()
		l := &ast.Literal{Kind: ast.LitNull}
		l.Position = pos
		return l
	case token.UNDEFINED:
		p.advance()
		return newIdent("undefined", pos)
	case token.THIS:
		p.advance()
		t := &ast.ThisExpression{}
		t.Position = pos
		return t
	case token.SUPER:
		p.advance()
		s := &ast.SuperExpression{}
		s.Position = pos
		return s
	case token.IDENT:
		name := p.cur.Literal
		p.advance()
		return newIdent(name, pos)
	case token.PRIVATE:
		name := p.cur.Literal
		p.advance()
		pi := &ast.PrivateIdentifier{Name: name}
		pi.Position = pos
		return pi
	case token.LPAREN:
		p.advance()
		expr := p.parseExpression(LOWEST)
		p.expect(token.RPAREN)
		p.skipAsAssertion()
		return expr
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseObjectLiteral()
	case token.FUNCTION:
		return p.parseFunctionExpression(false)
	case token.ASYNC:
		if p.peekIs(token.FUNCTION) {
			p.advance()
			return p.parseFunctionExpression(true)
		}
		name := p.cur.Literal
		p.advance()
		return newIdent(name, pos)
	case token.CLASS:
		return p.parseClassExpression()
	case token.BACKTICK:
		return p.parseTemplateLiteral()
	}
	p.errorf("unexpected token %q in expression", p.cur.Literal)
	p.advance()
	bad := &ast.Literal{Kind: ast.LitNull}
	bad.Position = pos
	return bad
}

func parseNumber(lit string) float64 {
	switch {
	case strings.HasPrefix(lit, "0x"), strings.HasPrefix(lit, "0X"):
		v, _ := strconv.ParseInt(lit[2:], 16, 64)
		return float64(v)
	case strings.HasPrefix(lit, "0b"), strings.HasPrefix(lit, "0B"):
		v, _ := strconv.ParseInt(lit[2:], 2, 64)
		return float64(v)
	case strings.HasPrefix(lit, "0o"), strings.HasPrefix(lit, "0O"):
		v, _ := strconv.ParseInt(lit[2:], 8, 64)
		return float64(v)
	}
	v, _ := strconv.ParseFloat(lit, 64)
	return v
}

func (p *Parser) parseArrayLiteral() *ast.ArrayExpression {
	pos := p.cur.Pos
	p.expect(token.LBRACKET)
	arr := &ast.ArrayExpression{}
	arr.Position = pos
	for !p.is(token.RBRACKET) && !p.is(token.EOF) {
		if p.is(token.COMMA) {
			arr.Elements = append(arr.Elements, nil)
			p.advance()
			continue
		}
		if p.is(token.ELLIPSIS) {
			sp := p.cur.Pos
			p.advance()
			s := &ast.SpreadElement{Argument: p.parseAssignExpr()}
			s.Position = sp
			arr.Elements = append(arr.Elements, s)
		} else {
			arr.Elements = append(arr.Elements, p.parseAssignExpr())
		}
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)
	return arr
}

func (p *Parser) parseObjectLiteral() *ast.ObjectExpression {
	pos := p.cur.Pos
	p.expect(token.LBRACE)
	obj := &ast.ObjectExpression{}
	obj.Position = pos
	for !p.is(token.RBRACE) && !p.is(token.EOF) {
		if p.is(token.ELLIPSIS) {
			sp := p.cur.Pos
			p.advance()
			s := &ast.SpreadElement{Argument: p.parseAssignExpr()}
			s.Position = sp
			prop := &ast.Property{Key: nil, Value: s, Kind: "spread"}
			prop.Position = sp
			obj.Properties = append(obj.Properties, prop)
			if !p.accept(token.COMMA) {
				break
			}
			continue
		}
		obj.Properties = append(obj.Properties, p.parseObjectProperty())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return obj
}

func (p *Parser) parseObjectProperty() *ast.Property {
	pos := p.cur.Pos

	if (p.is(token.GET) || p.is(token.SET)) && !p.peekIs(token.COLON) && !p.peekIs(token.COMMA) && !p.peekIs(token.RBRACE) && !p.peekIs(token.LPAREN) {
		kind := p.cur.Literal
		p.advance()
		key, computed := p.parsePropertyKey()
		fn := p.parseFunctionTail(false)
		prop := &ast.Property{Key: key, Value: fn, Computed: computed, Method: true, Kind: kind}
		prop.Position = pos
		return prop
	}

	async := false
	if p.is(token.ASYNC) && !p.peekIs(token.COLON) && !p.peekIs(token.COMMA) && !p.peekIs(token.RBRACE) {
		async = true
		p.advance()
	}
	generator := p.accept(token.STAR)

	key, computed := p.parsePropertyKey()

	if p.is(token.LPAREN) {
		fn := p.parseFunctionTail(async)
		fn.Generator = generator
		prop := &ast.Property{Key: key, Value: fn, Computed: computed, Method: true, Kind: "init"}
		prop.Position = pos
		return prop
	}

	if p.accept(token.COLON) {
		val := p.parseAssignExpr()
		prop := &ast.Property{Key: key, Value: val, Computed: computed, Kind: "init"}
		prop.Position = pos
		return prop
	}

	// shorthand { a } or { a = default } (the latter only valid once
	// normalized into an object pattern on an assignment LHS).
	id, _ := key.(*ast.Identifier)
	var val ast.Expression = id
	if p.accept(token.ASSIGN) {
		def := p.parseAssignExpr()
		a := &ast.AssignmentExpression{Left: id, Right: def, Op: ast.AssignPlain}
		a.Position = pos
		val = a
	}
	prop := &ast.Property{Key: key, Value: val, Shorthand: true, Kind: "init"}
	prop.Position = pos
	return prop
}

func (p *Parser) parsePropertyKey() (ast.Expression, bool) {
	pos := p.cur.Pos
	if p.accept(token.LBRACKET) {
		key := p.parseAssignExpr()
		p.expect(token.RBRACKET)
		return key, true
	}
	if p.is(token.STRING) {
		s := p.cur.Literal
		p.advance()
		lit := &ast.Literal{Kind: ast.LitString, String: s}
		lit.Position = pos
		return lit, false
	}
	if p.is(token.NUMBER) {
		n := p.cur.Literal
		p.advance()
		lit := &ast.Literal{Kind: ast.LitNumber, Number: parseNumber(n)}
		lit.Position = pos
		return lit, false
	}
	name := p.cur.Literal
	p.advance()
	return newIdent(name, pos), false
}

// parseTemplateLiteral parses a backtick-delimited template.
//
// It deliberately bypasses the normal advance/peek machinery at the two
// points where the lexer switches modes: entering raw-chunk scanning
// right after the opening backtick, and resuming it right after a
// substitution's closing "}". Going through expect()/advance() there
// would fetch one more token using ordinary tokenization rules before
// TemplateChunk gets to run, consuming raw template text as code and
// leaving the lexer's position unrecoverable.
func (p *Parser) parseTemplateLiteral() *ast.TemplateLiteral {
	pos := p.cur.Pos
	tpl := &ast.TemplateLiteral{}
	tpl.Position = pos
	for {
		raw, cooked, tail, ePos := p.lex.TemplateChunk()
		el := &ast.TemplateElement{Raw: raw, Cooked: cooked, Tail: tail}
		el.Position = ePos
		tpl.Quasis = append(tpl.Quasis, el)
		if tail {
			break
		}
		// lexer.pos now sits right after "${"; start normal tokenization
		// fresh from there for the embedded expression.
		p.cur = p.lex.Next()
		p.peek = nil
		expr := p.parseExpression(LOWEST)
		tpl.Expressions = append(tpl.Expressions, expr)
		if !p.is(token.RBRACE) {
			p.errorf("unexpected token %q in template substitution, expected '}'", p.cur.Literal)
		}
		// do not advance: lexer.pos sits right after the "}" already, which
		// is exactly where the next TemplateChunk call needs to resume.
	}
	p.cur = p.lex.Next()
	p.peek = nil
	return tpl
}
