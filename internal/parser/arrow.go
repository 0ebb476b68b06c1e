package parser

import (
	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/token"
)

// tryParseArrowFunction attempts to parse an arrow function head at the
// current position, returning nil (with the parser rewound to where it
// started) if the tokens don't resolve to one. Arrow heads are
// ambiguous with parenthesized expressions and bare identifiers until a
// `=>` is found past the closing paren, so this speculates eagerly and
// backtracks on failure rather than trying to disambiguate by lookahead
// alone (spec §4.2).
func (p *Parser) tryParseArrowFunction() ast.Expression {
	switch {
	case p.is(token.IDENT) && p.peekIs(token.ARROW):
		pos := p.cur.Pos
		name := p.cur.Literal
		p.advance() // ident
		p.advance() // =>
		param := &ast.Param{Pattern: newIdent(name, pos)}
		return p.finishArrowFunction(pos, []*ast.Param{param}, nil, false)

	case p.is(token.ASYNC) && p.peekIs(token.IDENT):
		snap := p.snapshot()
		pos := p.cur.Pos
		p.advance() // async
		if p.is(token.IDENT) && p.peekIs(token.ARROW) && !p.cur.NewlineBefore {
			name := p.cur.Literal
			namePos := p.cur.Pos
			p.advance() // ident
			p.advance() // =>
			param := &ast.Param{Pattern: newIdent(name, namePos)}
			return p.finishArrowFunction(pos, []*ast.Param{param}, nil, true)
		}
		p.restore(snap)

	case p.is(token.LPAREN):
		snap := p.snapshot()
		pos := p.cur.Pos
		params, rest, ok := p.tryParseArrowParams()
		if ok && p.is(token.ARROW) {
			p.advance()
			return p.finishArrowFunction(pos, params, rest, false)
		}
		p.restore(snap)

	case p.is(token.ASYNC) && p.peekIs(token.LPAREN):
		snap := p.snapshot()
		pos := p.cur.Pos
		p.advance() // async
		if !p.cur.NewlineBefore {
			params, rest, ok := p.tryParseArrowParams()
			if ok && p.is(token.ARROW) {
				p.advance()
				return p.finishArrowFunction(pos, params, rest, true)
			}
		}
		p.restore(snap)
	}

	return nil
}

// tryParseArrowParams speculatively parses a parenthesized parameter
// list. It never records parse errors since failure just means the
// parens belonged to a grouped expression instead; the caller restores
// the snapshot when ok is false.
func (p *Parser) tryParseArrowParams() (params []*ast.Param, rest *ast.RestElement, ok bool) {
	p.suppressErrors = true
	defer func() { p.suppressErrors = false }()

	p.expect(token.LPAREN)
	for !p.is(token.RPAREN) {
		if p.is(token.ELLIPSIS) {
			p.advance()
			rest = &ast.RestElement{Argument: p.parseBindingTarget()}
			p.skipTypeAnnotation()
			break
		}
		target := p.parseBindingTarget()
		p.skipTypeAnnotation()
		param := &ast.Param{Pattern: target}
		if p.accept(token.ASSIGN) {
			param.Default = p.parseAssignExpr()
		}
		params = append(params, param)
		if !p.accept(token.COMMA) {
			break
		}
	}
	if !p.is(token.RPAREN) {
		return nil, nil, false
	}
	p.advance() // ')'
	p.skipTypeAnnotation()
	if !p.is(token.ARROW) {
		return nil, nil, false
	}
	return params, rest, true
}

func (p *Parser) finishArrowFunction(pos token.Position, params []*ast.Param, rest *ast.RestElement, async bool) ast.Expression {
	fn := &ast.ArrowFunctionExpression{Params: params, Rest: rest, Async: async}
	fn.Position = pos
	if p.is(token.LBRACE) {
		fn.Body = p.parseBlockStatement()
	} else {
		fn.Body = p.parseAssignExpr()
	}
	return fn
}
