package lexer

import (
	"testing"

	"github.com/samlaycock/nookjs/internal/token"
)

func collectKinds(t *testing.T, input string) []token.Kind {
	t.Helper()
	l := New(input)
	var kinds []token.Kind
	for {
		tok := l.Next()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			break
		}
	}
	return kinds
}

func TestLexerPunctuatorsAndKeywords(t *testing.T) {
	kinds := collectKinds(t, "let x = 1 + 2;")
	want := []token.Kind{
		token.LET, token.IDENT, token.ASSIGN, token.NUMBER, token.PLUS, token.NUMBER, token.SEMICOLON, token.EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(kinds), kinds)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("token %d: expected %v, got %v", i, k, kinds[i])
		}
	}
}

func TestLexerStringLiteral(t *testing.T) {
	l := New(`"hello\nworld"`)
	tok := l.Next()
	if tok.Kind != token.STRING {
		t.Fatalf("expected STRING, got %v", tok.Kind)
	}
	if tok.Literal != "hello\nworld" {
		t.Errorf("expected unescaped literal, got %q", tok.Literal)
	}
}

func TestLexerIllegalByte(t *testing.T) {
	l := New("@")
	tok := l.Next()
	if tok.Kind != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %v", tok.Kind)
	}
}

func TestLexerPositionsAreOneIndexed(t *testing.T) {
	l := New("x\ny")
	first := l.Next()
	if first.Pos.Line != 1 || first.Pos.Column != 1 {
		t.Errorf("expected first token at 1:1, got %d:%d", first.Pos.Line, first.Pos.Column)
	}
	second := l.Next()
	if second.Pos.Line != 2 {
		t.Errorf("expected second token on line 2, got line %d", second.Pos.Line)
	}
	if !second.NewlineBefore {
		t.Error("expected NewlineBefore to be set after crossing a line break")
	}
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	l := New("foo bar")
	peeked := l.Peek()
	if peeked.Literal != "foo" {
		t.Fatalf("expected peek to see %q, got %q", "foo", peeked.Literal)
	}
	consumed := l.Next()
	if consumed.Literal != "foo" {
		t.Errorf("expected Next to still return %q after Peek, got %q", "foo", consumed.Literal)
	}
	next := l.Next()
	if next.Literal != "bar" {
		t.Errorf("expected the following token to be %q, got %q", "bar", next.Literal)
	}
}

func TestLexerSnapshotRestore(t *testing.T) {
	l := New("a b c")
	_ = l.Next() // "a"
	snap := l.Snapshot()
	second := l.Next() // "b"
	if second.Literal != "b" {
		t.Fatalf("expected %q, got %q", "b", second.Literal)
	}
	l.Restore(snap)
	replay := l.Next()
	if replay.Literal != "b" {
		t.Errorf("expected restore to replay %q, got %q", "b", replay.Literal)
	}
}

func TestLexerPrivateIdentifier(t *testing.T) {
	l := New("#count")
	tok := l.Next()
	if tok.Kind != token.PRIVATE {
		t.Fatalf("expected PRIVATE, got %v", tok.Kind)
	}
	if tok.Literal != "#count" {
		t.Errorf("expected literal %q, got %q", "#count", tok.Literal)
	}
}

func TestLexerMultiCharOperators(t *testing.T) {
	kinds := collectKinds(t, "a === b ?? c ??= d")
	want := []token.Kind{
		token.IDENT, token.EQEQEQ, token.IDENT, token.NULLISH, token.IDENT,
		token.NULLISHEQ, token.IDENT, token.EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(kinds), kinds)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("token %d: expected %v, got %v", i, k, kinds[i])
		}
	}
}

func TestLexerBitwiseAndShiftOperators(t *testing.T) {
	kinds := collectKinds(t, "a & b | c ^ ~d << 1 >> 2 >>> 3 &= 1 |= 1 ^= 1 <<= 1 >>= 1 >>>= 1")
	want := []token.Kind{
		token.IDENT, token.AMP, token.IDENT, token.PIPE, token.IDENT, token.CARET, token.TILDE, token.IDENT,
		token.SHL, token.NUMBER, token.SHR, token.NUMBER, token.USHR, token.NUMBER,
		token.AMPEQ, token.NUMBER, token.PIPEEQ, token.NUMBER, token.CARETEQ, token.NUMBER,
		token.SHLEQ, token.NUMBER, token.SHREQ, token.NUMBER, token.USHREQ, token.NUMBER,
		token.EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(kinds), kinds)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("token %d: expected %v, got %v", i, k, kinds[i])
		}
	}
}
