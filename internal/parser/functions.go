package parser

import (
	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/token"
)

// parseFunctionDeclaration parses `function name(...) { ... }` at
// statement position; async was already consumed by the caller when set.
func (p *Parser) parseFunctionDeclaration(async bool) *ast.FunctionExpression {
	pos := p.cur.Pos
	p.expect(token.FUNCTION)
	generator := p.accept(token.STAR)
	var id *ast.Identifier
	if p.is(token.IDENT) {
		namePos := p.cur.Pos
		name := p.cur.Literal
		p.advance()
		id = newIdent(name, namePos)
	}
	fn := p.parseFunctionTail(async)
	fn.ID = id
	fn.Generator = generator
	fn.Position = pos
	return fn
}

// parseFunctionExpression parses `function [name](...) { ... }` at
// expression position; FUNCTION has not yet been consumed.
func (p *Parser) parseFunctionExpression(async bool) *ast.FunctionExpression {
	pos := p.cur.Pos
	p.expect(token.FUNCTION)
	generator := p.accept(token.STAR)
	var id *ast.Identifier
	if p.is(token.IDENT) {
		namePos := p.cur.Pos
		name := p.cur.Literal
		p.advance()
		id = newIdent(name, namePos)
	}
	fn := p.parseFunctionTail(async)
	fn.ID = id
	fn.Generator = generator
	fn.Position = pos
	return fn
}

// parseFunctionTail parses the shared `(params) { body }` suffix used by
// function declarations/expressions, methods, and accessors. The caller
// has already consumed any leading keyword, name, and generator star.
func (p *Parser) parseFunctionTail(async bool) *ast.FunctionExpression {
	pos := p.cur.Pos
	fn := &ast.FunctionExpression{Async: async}
	fn.Position = pos
	p.skipTypeParamsIfPresent()
	p.expect(token.LPAREN)
	for !p.is(token.RPAREN) && !p.is(token.EOF) {
		if p.is(token.ELLIPSIS) {
			p.advance()
			target := p.parseBindingTarget()
			p.skipTypeAnnotation()
			fn.Rest = &ast.RestElement{Argument: target}
			break
		}
		p.skipParameterModifiers()
		target := p.parseBindingTarget()
		p.skipTypeAnnotation()
		param := &ast.Param{Pattern: target}
		if p.accept(token.ASSIGN) {
			param.Default = p.parseAssignExpr()
		}
		fn.Params = append(fn.Params, param)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	p.skipTypeAnnotation()
	fn.Body = p.parseBlockStatement()
	return fn
}

// skipParameterModifiers absorbs TypeScript constructor-parameter
// accessibility modifiers (`public`/`private`/`protected`/`readonly`),
// which carry no runtime meaning here (spec §4.2).
func (p *Parser) skipParameterModifiers() {
	for p.is(token.PUBLIC) || p.is(token.PRIVATE_MOD) || p.is(token.PROTECTED) || p.is(token.READONLY) {
		p.advance()
	}
}
