// Package parser implements the recursive-descent parser for nookjs.
//
// The parser consumes tokens from internal/lexer and builds an
// ESTree-shaped tree from internal/ast. Expressions use precedence
// climbing; statements dispatch on the current token. Type-only syntax
// (annotations, `type`/`interface` declarations, `as` assertions) is
// absorbed and discarded here so that annotated and plain sources parse
// to the same tree (spec §4.2).
package parser

import (
	"fmt"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/lexer"
	"github.com/samlaycock/nookjs/internal/token"
)

// Parser holds cursor state over a token stream plus accumulated errors.
// Like go-dws's parser, it keeps parsing past the first error where
// possible so callers see more than one mistake per run.
//
// Lookahead is lazy (peek is fetched only on demand and cached) rather
// than the eager two-field style: template-literal parsing switches the
// lexer in and out of raw-chunk mode at exact token boundaries (the
// opening backtick, and each substitution's closing brace), and an eager
// prefetch would scan past those boundaries as ordinary code tokens
// before the template logic gets a chance to intervene.
type Parser struct {
	lex  *lexer.Lexer
	cur  token.Token
	peek *token.Token

	errors []string

	// inForHeader suppresses `in` as a binary operator inside for-header
	// initializers (spec §4.2).
	inForHeader bool

	// suppressErrors silences errorf during speculative parsing (arrow-head
	// backtracking) so a failed attempt leaves no trace in Errors().
	suppressErrors bool
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{lex: l}
	p.cur = l.Next()
	return p
}

// Errors returns the accumulated parse error messages.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) advance() {
	if p.peek != nil {
		p.cur = *p.peek
		p.peek = nil
		return
	}
	p.cur = p.lex.Next()
}

// peekTok returns the token after cur, fetching and caching it lazily.
func (p *Parser) peekTok() token.Token {
	if p.peek == nil {
		t := p.lex.Next()
		p.peek = &t
	}
	return *p.peek
}

func (p *Parser) errorf(format string, args ...interface{}) {
	if p.suppressErrors {
		return
	}
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *Parser) is(k token.Kind) bool     { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peekTok().Kind == k }

// expect advances past a token of kind k, recording an error if the
// current token does not match.
func (p *Parser) expect(k token.Kind) token.Token {
	if !p.is(k) {
		p.errorf("unexpected token %q (%s), expected %s", p.cur.Literal, p.cur.Kind, k)
		return p.cur
	}
	tok := p.cur
	p.advance()
	return tok
}

// accept consumes a token of kind k if present, returning whether it did.
func (p *Parser) accept(k token.Kind) bool {
	if p.is(k) {
		p.advance()
		return true
	}
	return false
}

// snapshot captures full parser+lexer state for arrow-head backtracking.
type snapshot struct {
	lex  lexer.State
	cur  token.Token
	peek *token.Token
}

func (p *Parser) snapshot() snapshot {
	return snapshot{lex: p.lex.Snapshot(), cur: p.cur, peek: p.peek}
}

func (p *Parser) restore(s snapshot) {
	p.lex.Restore(s.lex)
	p.cur, p.peek = s.cur, s.peek
}

// ParseProgram parses the whole input as a module body.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.is(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}
	}
	return prog
}

// newIdent builds an *ast.Identifier, the common case of constructing a
// node and stamping its position in one step.
func newIdent(name string, pos token.Position) *ast.Identifier {
	id := &ast.Identifier{Name: name}
	id.Position = pos
	return id
}

// semicolon implements permissive automatic semicolon insertion (spec
// §4.2): an expected `;` may be absent if the next token is `}`, EOF, or
// separated from the previous token by a newline.
func (p *Parser) semicolon() {
	if p.is(token.SEMICOLON) {
		p.advance()
		return
	}
	if p.is(token.RBRACE) || p.is(token.EOF) || p.cur.NewlineBefore {
		return
	}
	p.errorf("expected ';' but got %q", p.cur.Literal)
}
