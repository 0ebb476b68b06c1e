package parser

import (
	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/token"
)

func (p *Parser) parseClassDeclaration() *ast.ClassDeclaration {
	return p.parseClassTail()
}

func (p *Parser) parseClassExpression() *ast.ClassDeclaration {
	return p.parseClassTail()
}

// parseClassTail parses `class [Name] [extends Super] { ... }`, shared by
// both class declarations and class expressions since nookjs's grammar
// draws no distinction between the two beyond statement vs expression
// position (spec §4.7).
func (p *Parser) parseClassTail() *ast.ClassDeclaration {
	pos := p.cur.Pos
	p.expect(token.CLASS)
	cls := &ast.ClassDeclaration{}
	cls.Position = pos

	if p.is(token.IDENT) {
		namePos := p.cur.Pos
		name := p.cur.Literal
		p.advance()
		cls.ID = newIdent(name, namePos)
	}
	p.skipTypeParamsIfPresent()
	if p.accept(token.EXTENDS) {
		cls.SuperClass = p.parseCallMemberChain()
	}
	if p.accept(token.IMPLEMENTS) {
		p.skipTypeExpression()
	}

	cls.Body = p.parseClassBody()
	return cls
}

func (p *Parser) parseClassBody() *ast.ClassBody {
	pos := p.cur.Pos
	p.expect(token.LBRACE)
	body := &ast.ClassBody{}
	body.Position = pos

	for !p.is(token.RBRACE) && !p.is(token.EOF) {
		if p.accept(token.SEMICOLON) {
			continue
		}
		if p.is(token.STATIC) && p.peekIs(token.LBRACE) {
			memPos := p.cur.Pos
			p.advance()
			blk := p.parseBlockStatement()
			sb := &ast.StaticBlock{Body: blk.Body}
			sb.Position = memPos
			body.Members = append(body.Members, sb)
			continue
		}
		body.Members = append(body.Members, p.parseClassMember())
	}
	p.expect(token.RBRACE)
	return body
}

// parseClassMember parses one method, accessor, or field. Modifier
// keywords (static, async, get/set, *) are all optional prefixes that can
// combine, so they're peeled off in the order nookjs's grammar allows
// before the key is read.
func (p *Parser) parseClassMember() ast.Node {
	pos := p.cur.Pos

	static := false
	if p.is(token.STATIC) {
		static = true
		p.advance()
	}

	private := p.is(token.PRIVATE)

	// TypeScript-only modifiers carry no runtime meaning.
	for p.is(token.PUBLIC) || p.is(token.PRIVATE_MOD) || p.is(token.PROTECTED) || p.is(token.READONLY) || p.is(token.ABSTRACT) {
		p.advance()
	}

	if (p.is(token.GET) || p.is(token.SET)) && !p.peekIs(token.ASSIGN) && !p.peekIs(token.SEMICOLON) &&
		!p.peekIs(token.LPAREN) && !p.peekIs(token.COLON) {
		kind := ast.MethodGet
		if p.cur.Kind == token.SET {
			kind = ast.MethodSet
		}
		p.advance()
		key, computed := p.parsePropertyKey()
		fn := p.parseFunctionTail(false)
		m := &ast.MethodDefinition{Key: key, Value: fn, Kind: kind, Static: static, Private: private, Computed: computed}
		m.Position = pos
		return m
	}

	async := false
	if p.is(token.ASYNC) && !p.peekIs(token.ASSIGN) && !p.peekIs(token.SEMICOLON) && !p.peekIs(token.LPAREN) && !p.peekIs(token.COLON) {
		async = true
		p.advance()
	}
	generator := p.accept(token.STAR)

	key, computed := p.parsePropertyKey()

	if p.is(token.LPAREN) {
		fn := p.parseFunctionTail(async)
		fn.Generator = generator
		kind := ast.MethodPlain
		if id, ok := key.(*ast.Identifier); ok && id.Name == "constructor" && !static {
			kind = ast.MethodCtor
		}
		m := &ast.MethodDefinition{Key: key, Value: fn, Kind: kind, Static: static, Private: private, Computed: computed}
		m.Position = pos
		return m
	}

	p.skipTypeAnnotation()
	field := &ast.FieldDefinition{Key: key, Static: static, Private: private, Computed: computed}
	field.Position = pos
	if p.accept(token.ASSIGN) {
		field.Value = p.parseAssignExpr()
	}
	p.semicolon()
	return field
}
