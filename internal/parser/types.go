package parser

import "github.com/samlaycock/nookjs/internal/token"

// skipTypeAnnotation consumes a `: Type` annotation, honoring nested
// (), {}, [], <> depths so generic and object-literal type syntax doesn't
// confuse the stop-token search (spec §4.2).
func (p *Parser) skipTypeAnnotation() {
	if !p.is(token.COLON) {
		return
	}
	p.advance()
	p.skipTypeExpression()
}

// skipTypeExpression consumes one type expression: a run of tokens up to
// (but not past) a context stop-token, at bracket depth zero. Union (`|`)
// and intersection (`&`) types, arrays (`T[]`), generics (`T<U>`), and
// function types are all just token runs to this parser since it never
// interprets annotations. At depth zero a `{` opens an object type only
// at the start of the type or after `|`/`&`; after any other token it
// begins the body that follows the annotation and ends the type. A `=>`
// right after a `)` at depth zero is a function type's arrow.
func (p *Parser) skipTypeExpression() {
	depth := 0
	prev := token.ILLEGAL
	for {
		if depth == 0 && p.is(token.LBRACE) && prev != token.ILLEGAL && prev != token.PIPE && prev != token.AMP {
			return
		}
		if depth == 0 && p.is(token.ARROW) && prev == token.RPAREN {
			prev = p.cur.Kind
			p.advance()
			continue
		}
		prev = p.cur.Kind
		switch p.cur.Kind {
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			depth++
			p.advance()
			continue
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			if depth == 0 {
				return
			}
			depth--
			p.advance()
			continue
		case token.LT:
			depth++
			p.advance()
			continue
		case token.GT:
			if depth == 0 {
				return
			}
			depth--
			p.advance()
			continue
		case token.EOF:
			return
		}
		if depth == 0 && p.isTypeStopToken() {
			return
		}
		p.advance()
	}
}

// isTypeStopToken reports whether cur is one of the fixed per-context
// stop tokens that end a type annotation at bracket depth zero.
func (p *Parser) isTypeStopToken() bool {
	switch p.cur.Kind {
	case token.ASSIGN, token.SEMICOLON, token.COMMA,
		token.RPAREN, token.RBRACE, token.RBRACKET,
		token.ARROW, token.LBRACE, token.EOF:
		return true
	}
	return false
}

// skipTypeParamsIfPresent consumes an optional `<...>` generic parameter
// list, used after class, type-alias and interface names and before a
// function's parameter list.
func (p *Parser) skipTypeParamsIfPresent() {
	if !p.is(token.LT) {
		return
	}
	depth := 0
	for {
		switch p.cur.Kind {
		case token.LT:
			depth++
		case token.GT:
			depth--
		case token.EOF:
			return
		}
		p.advance()
		if depth == 0 {
			return
		}
	}
}

// skipTypeAliasOrInterface absorbs `type X = ...;` and
// `interface X { ... }` declarations at statement position; neither
// produces an AST node (spec §4.2).
func (p *Parser) skipTypeAliasOrInterface() {
	switch p.cur.Kind {
	case token.TYPE:
		p.advance()
		p.expect(token.IDENT)
		p.skipTypeParamsIfPresent()
		p.expect(token.ASSIGN)
		p.skipTypeExpression()
		p.semicolon()
	case token.INTERFACE:
		p.advance()
		p.expect(token.IDENT)
		p.skipTypeParamsIfPresent()
		if p.accept(token.EXTENDS) {
			p.skipTypeExpression()
		}
		p.expect(token.LBRACE)
		depth := 1
		for depth > 0 && !p.is(token.EOF) {
			switch p.cur.Kind {
			case token.LBRACE:
				depth++
			case token.RBRACE:
				depth--
			}
			p.advance()
		}
	}
}

// skipAsAssertion consumes a postfix `as Type` assertion if present.
func (p *Parser) skipAsAssertion() {
	for p.is(token.AS) {
		p.advance()
		p.skipTypeExpression()
	}
}
