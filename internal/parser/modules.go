package parser

import (
	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/token"
)

// parseImportDeclaration parses the three import forms: default, named,
// and namespace, optionally combined (spec §4.8).
func (p *Parser) parseImportDeclaration() *ast.ImportDeclaration {
	pos := p.cur.Pos
	p.advance() // 'import'

	decl := &ast.ImportDeclaration{}
	decl.Position = pos

	// `import "module";` — side-effect only.
	if p.is(token.STRING) {
		decl.Source = p.cur.Literal
		p.advance()
		p.semicolon()
		return decl
	}

	// `import type ...` type-only imports are absorbed like a value import
	// since the evaluator never sees them anyway.
	if p.is(token.TYPE) && !p.peekIs(token.FROM) && !p.peekIs(token.COMMA) {
		p.advance()
	}

	if p.is(token.IDENT) {
		name := p.cur.Literal
		p.advance()
		decl.Specifiers = append(decl.Specifiers, &ast.ImportSpecifier{Imported: "", Local: name})
		if p.accept(token.COMMA) {
			p.parseImportClauseInto(decl)
		}
	} else {
		p.parseImportClauseInto(decl)
	}

	p.expect(token.FROM)
	decl.Source = p.cur.Literal
	p.expect(token.STRING)
	p.semicolon()
	return decl
}

// parseImportClauseInto parses either `* as ns` or `{ a, b as c }` and
// appends the resulting specifiers to decl.
func (p *Parser) parseImportClauseInto(decl *ast.ImportDeclaration) {
	if p.accept(token.STAR) {
		p.expect(token.AS)
		name := p.cur.Literal
		p.expect(token.IDENT)
		decl.Specifiers = append(decl.Specifiers, &ast.ImportSpecifier{Imported: "*", Local: name})
		return
	}
	p.expect(token.LBRACE)
	for !p.is(token.RBRACE) && !p.is(token.EOF) {
		imported := p.cur.Literal
		p.advance()
		local := imported
		if p.accept(token.AS) {
			local = p.cur.Literal
			p.advance()
		}
		decl.Specifiers = append(decl.Specifiers, &ast.ImportSpecifier{Imported: imported, Local: local})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
}

// parseExportDeclaration parses `export default`, `export { ... }`
// (with optional re-export `from`), `export * [as ns] from`, and
// `export <decl>` (spec §4.8).
func (p *Parser) parseExportDeclaration() ast.Statement {
	pos := p.cur.Pos
	p.advance() // 'export'

	if p.accept(token.DEFAULT) {
		var expr ast.Expression
		switch p.cur.Kind {
		case token.FUNCTION:
			expr = p.parseFunctionDeclaration(false)
		case token.ASYNC:
			if p.peekIs(token.FUNCTION) {
				p.advance()
				expr = p.parseFunctionDeclaration(true)
			} else {
				expr = p.parseAssignExpr()
			}
		case token.CLASS:
			expr = p.parseClassDeclaration()
		default:
			expr = p.parseAssignExpr()
			p.semicolon()
		}
		d := &ast.ExportDefaultDeclaration{Declaration: expr}
		d.Position = pos
		return d
	}

	if p.accept(token.STAR) {
		exported := ""
		if p.accept(token.AS) {
			exported = p.cur.Literal
			p.expect(token.IDENT)
		}
		p.expect(token.FROM)
		source := p.cur.Literal
		p.expect(token.STRING)
		p.semicolon()
		d := &ast.ExportAllDeclaration{Exported: exported, Source: source}
		d.Position = pos
		return d
	}

	if p.is(token.LBRACE) {
		p.advance()
		d := &ast.ExportNamedDeclaration{}
		d.Position = pos
		for !p.is(token.RBRACE) && !p.is(token.EOF) {
			local := p.cur.Literal
			p.advance()
			exported := local
			if p.accept(token.AS) {
				exported = p.cur.Literal
				p.advance()
			}
			d.Specifiers = append(d.Specifiers, &ast.ExportSpecifier{Local: local, Exported: exported})
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACE)
		if p.accept(token.FROM) {
			d.Source = p.cur.Literal
			p.expect(token.STRING)
		}
		p.semicolon()
		return d
	}

	// `export const x = 1;`, `export function f() {}`, `export class C {}`
	if p.is(token.TYPE) || p.is(token.INTERFACE) {
		p.skipTypeAliasOrInterface()
		return nil
	}
	inner := p.parseStatement()
	d := &ast.ExportNamedDeclaration{Declaration: inner}
	d.Position = pos
	return d
}
