package parser

import (
	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Kind {
	case token.SEMICOLON:
		pos := p.cur.Pos
		p.advance()
		empty := &ast.EmptyStatement{}
		empty.Position = pos
		return empty
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.VAR, token.LET, token.CONST:
		s := p.parseVariableDeclaration()
		p.semicolon()
		return s
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.BREAK:
		return p.parseBreakStatement()
	case token.CONTINUE:
		return p.parseContinueStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.FUNCTION:
		return p.parseFunctionDeclaration(false)
	case token.ASYNC:
		if p.peekIs(token.FUNCTION) {
			p.advance()
			return p.parseFunctionDeclaration(true)
		}
	case token.CLASS:
		return p.parseClassDeclaration()
	case token.IMPORT:
		return p.parseImportDeclaration()
	case token.EXPORT:
		return p.parseExportDeclaration()
	case token.TYPE, token.INTERFACE:
		p.skipTypeAliasOrInterface()
		return nil
	case token.DECLARE:
		// `declare ...` ambient declarations carry no runtime semantics.
		p.advance()
		return p.parseStatement()
	}

	if p.is(token.IDENT) && p.peekIs(token.COLON) {
		return p.parseLabeledStatement()
	}

	return p.parseExpressionStatement()
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	pos := p.cur.Pos
	p.expect(token.LBRACE)
	blk := &ast.BlockStatement{}
	blk.Position = pos
	for !p.is(token.RBRACE) && !p.is(token.EOF) {
		if s := p.parseStatement(); s != nil {
			blk.Body = append(blk.Body, s)
		}
	}
	p.expect(token.RBRACE)
	return blk
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	pos := p.cur.Pos
	expr := p.parseExpression(LOWEST)
	p.semicolon()
	s := &ast.ExpressionStatement{Expression: expr}
	s.Position = pos
	return s
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	pos := p.cur.Pos
	var kind ast.DeclKind
	switch p.cur.Kind {
	case token.VAR:
		kind = ast.DeclVar
	case token.LET:
		kind = ast.DeclLet
	case token.CONST:
		kind = ast.DeclConst
	}
	p.advance()

	decl := &ast.VariableDeclaration{Kind: kind}
	decl.Position = pos
	for {
		target := p.parseBindingTarget()
		p.skipTypeAnnotation()
		var init ast.Expression
		if p.accept(token.ASSIGN) {
			init = p.parseAssignExpr()
		}
		decl.Declarations = append(decl.Declarations, &ast.VariableDeclarator{ID: target, Init: init})
		if !p.accept(token.COMMA) {
			break
		}
	}
	return decl
}

// parseBindingTarget parses an identifier or destructuring pattern used in
// declarations, parameters, and catch clauses.
func (p *Parser) parseBindingTarget() ast.Pattern {
	switch p.cur.Kind {
	case token.LBRACE:
		return p.parseObjectPattern()
	case token.LBRACKET:
		return p.parseArrayPattern()
	default:
		pos := p.cur.Pos
		name := p.expect(token.IDENT).Literal
		return newIdent(name, pos)
	}
}

func (p *Parser) parseObjectPattern() *ast.ObjectPattern {
	pos := p.cur.Pos
	p.expect(token.LBRACE)
	pat := &ast.ObjectPattern{}
	pat.Position = pos
	for !p.is(token.RBRACE) && !p.is(token.EOF) {
		if p.is(token.ELLIPSIS) {
			p.advance()
			rest := &ast.RestElement{Argument: p.parseBindingTarget()}
			pat.Rest = rest
			break
		}
		computed := false
		var key ast.Expression
		keyPos := p.cur.Pos
		if p.accept(token.LBRACKET) {
			computed = true
			key = p.parseAssignExpr()
			p.expect(token.RBRACKET)
		} else {
			name := p.cur.Literal
			p.advance()
			key = newIdent(name, keyPos)
		}
		prop := &ast.ObjectPatternProperty{Key: key, Computed: computed}
		prop.Position = keyPos
		if p.accept(token.COLON) {
			prop.Value = p.parseBindingTarget()
		} else {
			prop.Shorthand = true
			prop.Value = newIdent(key.(*ast.Identifier).Name, keyPos)
		}
		if p.accept(token.ASSIGN) {
			prop.Value = &ast.AssignmentPattern{Left: prop.Value, Right: p.parseAssignExpr()}
		}
		pat.Properties = append(pat.Properties, prop)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return pat
}

func (p *Parser) parseArrayPattern() *ast.ArrayPattern {
	pos := p.cur.Pos
	p.expect(token.LBRACKET)
	pat := &ast.ArrayPattern{}
	pat.Position = pos
	for !p.is(token.RBRACKET) && !p.is(token.EOF) {
		if p.is(token.COMMA) {
			pat.Elements = append(pat.Elements, nil)
			p.advance()
			continue
		}
		if p.is(token.ELLIPSIS) {
			p.advance()
			pat.Rest = &ast.RestElement{Argument: p.parseBindingTarget()}
			break
		}
		target := p.parseBindingTarget()
		if p.accept(token.ASSIGN) {
			target = &ast.AssignmentPattern{Left: target, Right: p.parseAssignExpr()}
		}
		pat.Elements = append(pat.Elements, target)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACKET)
	return pat
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	pos := p.cur.Pos
	p.advance()
	p.expect(token.LPAREN)
	test := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	cons := p.parseStatement()
	stmt := &ast.IfStatement{Test: test, Consequent: cons}
	stmt.Position = pos
	if p.accept(token.ELSE) {
		stmt.Alternate = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	pos := p.cur.Pos
	p.advance()
	p.expect(token.LPAREN)
	test := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	body := p.parseStatement()
	s := &ast.WhileStatement{Test: test, Body: body}
	s.Position = pos
	return s
}

func (p *Parser) parseDoWhileStatement() *ast.DoWhileStatement {
	pos := p.cur.Pos
	p.advance()
	body := p.parseStatement()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	test := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	p.semicolon()
	s := &ast.DoWhileStatement{Body: body, Test: test}
	s.Position = pos
	return s
}

func (p *Parser) parseForStatement() ast.Statement {
	pos := p.cur.Pos
	p.advance()
	p.expect(token.LPAREN)

	var init ast.Node
	if !p.is(token.SEMICOLON) {
		if p.is(token.VAR) || p.is(token.LET) || p.is(token.CONST) {
			declPos := p.cur.Pos
			var declKind ast.DeclKind
			switch p.cur.Kind {
			case token.VAR:
				declKind = ast.DeclVar
			case token.LET:
				declKind = ast.DeclLet
			case token.CONST:
				declKind = ast.DeclConst
			}
			p.advance()
			target := p.parseBindingTarget()
			p.skipTypeAnnotation()

			if p.is(token.OF) || p.is(token.IN) {
				isOf := p.is(token.OF)
				p.advance()
				right := p.parseAssignExpr()
				p.expect(token.RPAREN)
				body := p.parseStatement()
				decl := &ast.VariableDeclaration{Kind: declKind, Declarations: []*ast.VariableDeclarator{{ID: target}}}
				decl.Position = declPos
				if isOf {
					s := &ast.ForOfStatement{Left: decl, Right: right, Body: body}
					s.Position = pos
					return s
				}
				s := &ast.ForInStatement{Left: decl, Right: right, Body: body}
				s.Position = pos
				return s
			}

			decl := &ast.VariableDeclaration{Kind: declKind}
			decl.Position = declPos
			var initExpr ast.Expression
			if p.accept(token.ASSIGN) {
				p.inForHeader = true
				initExpr = p.parseAssignExpr()
				p.inForHeader = false
			}
			decl.Declarations = append(decl.Declarations, &ast.VariableDeclarator{ID: target, Init: initExpr})
			for p.accept(token.COMMA) {
				t2 := p.parseBindingTarget()
				p.skipTypeAnnotation()
				var i2 ast.Expression
				if p.accept(token.ASSIGN) {
					i2 = p.parseAssignExpr()
				}
				decl.Declarations = append(decl.Declarations, &ast.VariableDeclarator{ID: t2, Init: i2})
			}
			init = decl
		} else {
			p.inForHeader = true
			lhs := p.parseExpression(LOWEST)
			p.inForHeader = false
			if p.is(token.OF) || p.is(token.IN) {
				isOf := p.is(token.OF)
				p.advance()
				right := p.parseAssignExpr()
				p.expect(token.RPAREN)
				body := p.parseStatement()
				if isOf {
					s := &ast.ForOfStatement{Left: lhs, Right: right, Body: body}
					s.Position = pos
					return s
				}
				s := &ast.ForInStatement{Left: lhs, Right: right, Body: body}
				s.Position = pos
				return s
			}
			init = lhs
		}
	}

	p.expect(token.SEMICOLON)
	var test ast.Expression
	if !p.is(token.SEMICOLON) {
		test = p.parseExpression(LOWEST)
	}
	p.expect(token.SEMICOLON)
	var update ast.Expression
	if !p.is(token.RPAREN) {
		update = p.parseExpression(LOWEST)
	}
	p.expect(token.RPAREN)
	body := p.parseStatement()

	s := &ast.ForStatement{Init: init, Test: test, Update: update, Body: body}
	s.Position = pos
	return s
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	pos := p.cur.Pos
	p.advance()
	p.expect(token.LPAREN)
	disc := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)
	s := &ast.SwitchStatement{Discriminant: disc}
	s.Position = pos
	for !p.is(token.RBRACE) && !p.is(token.EOF) {
		casePos := p.cur.Pos
		c := &ast.SwitchCase{}
		c.Position = casePos
		if p.accept(token.CASE) {
			c.Test = p.parseExpression(LOWEST)
		} else {
			p.expect(token.DEFAULT)
		}
		p.expect(token.COLON)
		for !p.is(token.CASE) && !p.is(token.DEFAULT) && !p.is(token.RBRACE) && !p.is(token.EOF) {
			if st := p.parseStatement(); st != nil {
				c.Consequent = append(c.Consequent, st)
			}
		}
		s.Cases = append(s.Cases, c)
	}
	p.expect(token.RBRACE)
	return s
}

// parseOptionalLabel returns "" and leaves cur unchanged when the current token
// isn't a bare label (end of statement).
func (p *Parser) parseOptionalLabel() string {
	if p.is(token.IDENT) && !p.cur.NewlineBefore {
		name := p.cur.Literal
		p.advance()
		return name
	}
	return ""
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	pos := p.cur.Pos
	p.advance()
	label := p.parseOptionalLabel()
	p.semicolon()
	s := &ast.BreakStatement{Label: label}
	s.Position = pos
	return s
}

func (p *Parser) parseContinueStatement() *ast.ContinueStatement {
	pos := p.cur.Pos
	p.advance()
	label := p.parseOptionalLabel()
	p.semicolon()
	s := &ast.ContinueStatement{Label: label}
	s.Position = pos
	return s
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	pos := p.cur.Pos
	p.advance()
	s := &ast.ReturnStatement{}
	s.Position = pos
	if !p.is(token.SEMICOLON) && !p.is(token.RBRACE) && !p.is(token.EOF) && !p.cur.NewlineBefore {
		s.Argument = p.parseExpression(LOWEST)
	}
	p.semicolon()
	return s
}

func (p *Parser) parseThrowStatement() *ast.ThrowStatement {
	pos := p.cur.Pos
	p.advance()
	// `throw` followed by a newline fails (spec §4.2 no-line-terminator rule).
	if p.cur.NewlineBefore {
		p.errorf("illegal newline after 'throw'")
	}
	arg := p.parseExpression(LOWEST)
	p.semicolon()
	s := &ast.ThrowStatement{Argument: arg}
	s.Position = pos
	return s
}

func (p *Parser) parseTryStatement() *ast.TryStatement {
	pos := p.cur.Pos
	p.advance()
	block := p.parseBlockStatement()
	s := &ast.TryStatement{Block: block}
	s.Position = pos
	if p.accept(token.CATCH) {
		h := &ast.CatchClause{}
		h.Position = p.cur.Pos
		if p.accept(token.LPAREN) {
			h.Param = p.parseBindingTarget()
			p.skipTypeAnnotation()
			p.expect(token.RPAREN)
		}
		h.Body = p.parseBlockStatement()
		s.Handler = h
	}
	if p.accept(token.FINALLY) {
		s.Finalizer = p.parseBlockStatement()
	}
	if s.Handler == nil && s.Finalizer == nil {
		p.errorf("missing catch or finally after try")
	}
	return s
}

func (p *Parser) parseLabeledStatement() *ast.LabeledStatement {
	pos := p.cur.Pos
	label := p.cur.Literal
	p.advance()
	p.advance() // ':'
	body := p.parseStatement()
	s := &ast.LabeledStatement{Label: label, Body: body}
	s.Position = pos
	return s
}
