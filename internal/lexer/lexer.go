// Package lexer implements the byte-indexed single-pass tokenizer for
// nookjs source text.
package lexer

import (
	"strings"

	"github.com/samlaycock/nookjs/internal/token"
)

// Lexer scans UTF-8 source text into a stream of token.Token values. It
// keeps a one-token lookahead buffer so the parser's Peek never has to
// re-scan, and exposes Snapshot/Restore so the parser can backtrack when
// disambiguating arrow-function heads from parenthesized expressions.
type Lexer struct {
	input  string
	pos    int // current byte offset
	line   int
	col    int // 1-based byte column on the current line
	peeked *token.Token
}

// Option configures a Lexer at construction time.
type Option func(*Lexer)

// New creates a Lexer over input. Options mirror go-dws's lexer.New
// construction pattern.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{input: input, line: 1, col: 1}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State is an opaque snapshot of lexer progress, restorable via Restore.
type State struct {
	pos    int
	line   int
	col    int
	peeked *token.Token
}

// Snapshot captures the lexer's current position for later backtracking.
func (l *Lexer) Snapshot() State {
	return State{pos: l.pos, line: l.line, col: l.col, peeked: l.peeked}
}

// Restore rewinds the lexer to a previously captured State.
func (l *Lexer) Restore(s State) {
	l.pos, l.line, l.col, l.peeked = s.pos, s.line, s.col, s.peeked
}

func (l *Lexer) at(i int) byte {
	if i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

func (l *Lexer) cur() byte  { return l.at(l.pos) }
func (l *Lexer) next() byte { return l.at(l.pos + 1) }

func (l *Lexer) advance() byte {
	ch := l.cur()
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) position() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

// Next returns the next token, consuming it.
func (l *Lexer) Next() token.Token {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t
	}
	return l.scan()
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() token.Token {
	if l.peeked == nil {
		t := l.scan()
		l.peeked = &t
	}
	return *l.peeked
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isIdentStart(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}
func isIdentPart(b byte) bool { return isIdentStart(b) || isDigit(b) }

// scan skips whitespace and comments, then reads exactly one token,
// recording whether any newline was crossed along the way (used for
// automatic semicolon insertion and the throw/return no-line-terminator
// rule).
func (l *Lexer) scan() token.Token {
	newline := l.skipTrivia()
	pos := l.position()

	if l.pos >= len(l.input) {
		return token.Token{Kind: token.EOF, Pos: pos, NewlineBefore: newline}
	}

	ch := l.cur()
	switch {
	case isIdentStart(ch):
		return l.scanIdentifier(pos, newline)
	case ch == '#':
		return l.scanPrivateIdentifier(pos, newline)
	case isDigit(ch), ch == '.' && isDigit(l.next()):
		return l.scanNumber(pos, newline)
	case ch == '"', ch == '\'':
		return l.scanString(pos, newline, ch)
	case ch == '`':
		l.advance()
		return token.Token{Kind: token.BACKTICK, Literal: "`", Pos: pos, NewlineBefore: newline}
	default:
		return l.scanPunctuator(pos, newline)
	}
}

// skipTrivia consumes whitespace and comments, returning true if a newline
// was crossed.
func (l *Lexer) skipTrivia() bool {
	sawNewline := false
	for l.pos < len(l.input) {
		ch := l.cur()
		switch {
		case ch == '\n':
			sawNewline = true
			l.advance()
		case isSpace(ch):
			l.advance()
		case ch == '/' && l.next() == '/':
			for l.pos < len(l.input) && l.cur() != '\n' {
				l.advance()
			}
		case ch == '/' && l.next() == '*':
			l.advance()
			l.advance()
			for l.pos < len(l.input) && !(l.cur() == '*' && l.next() == '/') {
				if l.cur() == '\n' {
					sawNewline = true
				}
				l.advance()
			}
			l.advance()
			l.advance()
		default:
			return sawNewline
		}
	}
	return sawNewline
}

func (l *Lexer) scanIdentifier(pos token.Position, newline bool) token.Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.cur()) {
		l.advance()
	}
	text := l.input[start:l.pos]
	kind := token.IDENT
	if k, ok := token.Keywords[text]; ok {
		kind = k
	}
	return token.Token{Kind: kind, Literal: text, Pos: pos, NewlineBefore: newline}
}

func (l *Lexer) scanPrivateIdentifier(pos token.Position, newline bool) token.Token {
	start := l.pos
	l.advance() // '#'
	for l.pos < len(l.input) && isIdentPart(l.cur()) {
		l.advance()
	}
	return token.Token{Kind: token.PRIVATE, Literal: l.input[start:l.pos], Pos: pos, NewlineBefore: newline}
}

// scanNumber reads decimal, fractional, and 0x/0b/0o-prefixed integer
// literals. Numeric conversion is left to the parser, per spec §4.1.
func (l *Lexer) scanNumber(pos token.Position, newline bool) token.Token {
	start := l.pos
	if l.cur() == '0' && (l.next() == 'x' || l.next() == 'X') {
		l.advance()
		l.advance()
		for l.pos < len(l.input) && isHexDigit(l.cur()) {
			l.advance()
		}
		return token.Token{Kind: token.NUMBER, Literal: l.input[start:l.pos], Pos: pos, NewlineBefore: newline}
	}
	if l.cur() == '0' && (l.next() == 'b' || l.next() == 'B') {
		l.advance()
		l.advance()
		for l.pos < len(l.input) && (l.cur() == '0' || l.cur() == '1') {
			l.advance()
		}
		return token.Token{Kind: token.NUMBER, Literal: l.input[start:l.pos], Pos: pos, NewlineBefore: newline}
	}
	if l.cur() == '0' && (l.next() == 'o' || l.next() == 'O') {
		l.advance()
		l.advance()
		for l.pos < len(l.input) && l.cur() >= '0' && l.cur() <= '7' {
			l.advance()
		}
		return token.Token{Kind: token.NUMBER, Literal: l.input[start:l.pos], Pos: pos, NewlineBefore: newline}
	}
	for l.pos < len(l.input) && isDigit(l.cur()) {
		l.advance()
	}
	if l.cur() == '.' && isDigit(l.next()) {
		l.advance()
		for l.pos < len(l.input) && isDigit(l.cur()) {
			l.advance()
		}
	}
	if l.cur() == 'e' || l.cur() == 'E' {
		save := l.pos
		l.advance()
		if l.cur() == '+' || l.cur() == '-' {
			l.advance()
		}
		if isDigit(l.cur()) {
			for l.pos < len(l.input) && isDigit(l.cur()) {
				l.advance()
			}
		} else {
			l.pos = save
		}
	}
	return token.Token{Kind: token.NUMBER, Literal: l.input[start:l.pos], Pos: pos, NewlineBefore: newline}
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// scanString reads a single- or double-quoted string literal. A fast path
// returns the unquoted slice verbatim when no backslash is present; the
// slow path expands escapes.
func (l *Lexer) scanString(pos token.Position, newline bool, quote byte) token.Token {
	l.advance() // opening quote
	start := l.pos
	hasEscape := false
	for {
		if l.pos >= len(l.input) {
			return token.Token{Kind: token.ILLEGAL, Literal: "unterminated string literal", Pos: pos, NewlineBefore: newline}
		}
		ch := l.cur()
		if ch == '\n' {
			return token.Token{Kind: token.ILLEGAL, Literal: "unterminated string literal", Pos: pos, NewlineBefore: newline}
		}
		if ch == quote {
			break
		}
		if ch == '\\' {
			hasEscape = true
			l.advance()
			if l.pos < len(l.input) {
				l.advance()
			}
			continue
		}
		l.advance()
	}
	raw := l.input[start:l.pos]
	l.advance() // closing quote
	if !hasEscape {
		return token.Token{Kind: token.STRING, Literal: raw, Pos: pos, NewlineBefore: newline}
	}
	return token.Token{Kind: token.STRING, Literal: unescape(raw), Pos: pos, NewlineBefore: newline}
}

func unescape(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i == len(raw)-1 {
			b.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		case '`':
			b.WriteByte('`')
		case '$':
			b.WriteByte('$')
		default:
			b.WriteByte('\\')
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}

// TemplateChunk reads a template-literal chunk starting right after the
// opening backtick or a prior "}" that closed a substitution. It stops at
// either the closing backtick (tail=true) or "${" (tail=false), recording
// both cooked and raw forms.
func (l *Lexer) TemplateChunk() (raw string, cooked string, tail bool, pos token.Position) {
	pos = l.position()
	start := l.pos
	hasEscape := false
	for l.pos < len(l.input) {
		if l.cur() == '`' {
			raw = l.input[start:l.pos]
			l.advance()
			tail = true
			break
		}
		if l.cur() == '$' && l.next() == '{' {
			raw = l.input[start:l.pos]
			l.advance()
			l.advance()
			tail = false
			break
		}
		if l.cur() == '\\' {
			hasEscape = true
			l.advance()
			if l.pos < len(l.input) {
				l.advance()
			}
			continue
		}
		l.advance()
	}
	cooked = raw
	if hasEscape {
		cooked = unescape(raw)
	}
	return raw, cooked, tail, pos
}

type punct struct {
	text string
	kind token.Kind
}

// multi-character punctuators, longest first so the greedy scan below
// never mis-splits e.g. "??=" into "??" + "=".
var multiPunctuators = []punct{
	{"...", token.ELLIPSIS},
	{"?.", token.OPTCHAIN}, // "?." also covers "?.[" / "?.(" at parse time
	{"??=", token.NULLISHEQ},
	{"??", token.NULLISH},
	{"||=", token.OREQ},
	{"&&=", token.ANDEQ},
	{"===", token.EQEQEQ},
	{"!==", token.NEQEQ},
	{"==", token.EQ},
	{"!=", token.NEQ},
	{">>>=", token.USHREQ},
	{">>>", token.USHR},
	{">>=", token.SHREQ},
	{"<<=", token.SHLEQ},
	{"<<", token.SHL},
	{">>", token.SHR},
	{"<=", token.LE},
	{">=", token.GE},
	{"&=", token.AMPEQ},
	{"|=", token.PIPEEQ},
	{"^=", token.CARETEQ},
	{"**=", token.STARSTAREQ},
	{"**", token.STARSTAR},
	{"*=", token.STAREQ},
	{"/=", token.SLASHEQ},
	{"%=", token.PERCENTEQ},
	{"+=", token.PLUSEQ},
	{"-=", token.MINUSEQ},
	{"++", token.PLUSPLUS},
	{"--", token.MINUSMINUS},
	{"=>", token.ARROW},
	{"&&", token.AND},
	{"||", token.OR},
}

var singlePunctuators = map[byte]token.Kind{
	'(': token.LPAREN, ')': token.RPAREN,
	'{': token.LBRACE, '}': token.RBRACE,
	'[': token.LBRACKET, ']': token.RBRACKET,
	';': token.SEMICOLON, ',': token.COMMA,
	':': token.COLON, '.': token.DOT,
	'?': token.QUESTION, '=': token.ASSIGN,
	'+': token.PLUS, '-': token.MINUS,
	'*': token.STAR, '/': token.SLASH, '%': token.PERCENT,
	'<': token.LT, '>': token.GT, '!': token.NOT,
	'&': token.AMP, '|': token.PIPE, '^': token.CARET, '~': token.TILDE,
}

func (l *Lexer) scanPunctuator(pos token.Position, newline bool) token.Token {
	rest := l.input[l.pos:]
	for _, p := range multiPunctuators {
		if strings.HasPrefix(rest, p.text) {
			for range p.text {
				l.advance()
			}
			return token.Token{Kind: p.kind, Literal: p.text, Pos: pos, NewlineBefore: newline}
		}
	}
	ch := l.cur()
	if kind, ok := singlePunctuators[ch]; ok {
		l.advance()
		return token.Token{Kind: kind, Literal: string(ch), Pos: pos, NewlineBefore: newline}
	}
	l.advance()
	return token.Token{Kind: token.ILLEGAL, Literal: string(ch), Pos: pos, NewlineBefore: newline}
}
