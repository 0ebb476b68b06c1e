package token

import "testing"

func TestKindStringKnownAndUnknown(t *testing.T) {
	if PLUS.String() != "+" {
		t.Errorf("expected %q, got %q", "+", PLUS.String())
	}
	if IF.String() != "if" {
		t.Errorf("expected %q, got %q", "if", IF.String())
	}
	unknown := Kind(10000)
	if unknown.String() != "UNKNOWN" {
		t.Errorf("expected UNKNOWN for an out-of-range kind, got %q", unknown.String())
	}
}

func TestIsLiteral(t *testing.T) {
	for _, k := range []Kind{IDENT, PRIVATE, NUMBER, STRING, TEMPLATE} {
		if !k.IsLiteral() {
			t.Errorf("expected %v to be a literal kind", k)
		}
	}
	if ILLEGAL.IsLiteral() {
		t.Error("ILLEGAL should not be a literal kind")
	}
	if IF.IsLiteral() {
		t.Error("IF should not be a literal kind")
	}
}

func TestIsKeyword(t *testing.T) {
	for _, k := range []Kind{VAR, LET, CONST, IF, CLASS, ASYNC, AWAIT} {
		if !k.IsKeyword() {
			t.Errorf("expected %v to be a keyword kind", k)
		}
	}
	for _, k := range []Kind{IDENT, NUMBER, PLUS, LPAREN} {
		if k.IsKeyword() {
			t.Errorf("expected %v to NOT be a keyword kind", k)
		}
	}
}

func TestKeywordsMapMatchesKindTable(t *testing.T) {
	for text, kind := range Keywords {
		if !kind.IsKeyword() {
			t.Errorf("keyword %q maps to %v, which IsKeyword() reports false for", text, kind)
		}
		if kind.String() != text {
			t.Errorf("keyword %q maps to kind %v whose String() is %q", text, kind, kind.String())
		}
	}
}

func TestTypeAnnotationKeywordsAreInKeywordsMap(t *testing.T) {
	// Type-annotation-only keywords (TYPE, INTERFACE, READONLY, ...) are in
	// the Keywords map the lexer consults for identifier/keyword
	// classification, so the parser's skip routines see their own kinds.
	for text, want := range map[string]Kind{"type": TYPE, "interface": INTERFACE, "readonly": READONLY} {
		if got, ok := Keywords[text]; !ok || got != want {
			t.Errorf("expected %q to map to %v in Keywords, got %v (present: %v)", text, want, got, ok)
		}
	}
}
