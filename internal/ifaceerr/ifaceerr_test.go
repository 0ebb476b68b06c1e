package ifaceerr

import (
	"strings"
	"testing"

	"github.com/samlaycock/nookjs/internal/token"
)

func TestCompilerErrorMessage(t *testing.T) {
	err := &CompilerError{Kind: Parse, Message: "unexpected token", Pos: token.Position{Line: 3, Column: 7}}
	got := err.Error()
	if !strings.Contains(got, "parse error at 3:7") || !strings.Contains(got, "unexpected token") {
		t.Errorf("unexpected error message: %s", got)
	}
}

func TestErrorListAddAndFormat(t *testing.T) {
	var l ErrorList
	if l.HasErrors() {
		t.Fatal("empty list should report no errors")
	}

	l.Add(Parse, token.Position{Line: 1, Column: 1}, "bad token %q", "+")
	l.Add(Feature, token.Position{Line: 2, Column: 4}, "feature disabled")

	if !l.HasErrors() {
		t.Fatal("list should report errors after Add")
	}
	formatted := l.FormatErrors()
	lines := strings.Split(formatted, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 formatted lines, got %d: %q", len(lines), formatted)
	}
	if !strings.Contains(lines[0], `bad token "+"`) {
		t.Errorf("unexpected first line: %s", lines[0])
	}
}

func TestFromStringErrorsWrapsEachMessage(t *testing.T) {
	l := FromStringErrors(Parse, []string{"err one", "err two"})
	if len(l.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(l.Errors))
	}
	for _, e := range l.Errors {
		if e.Kind != Parse {
			t.Errorf("expected Parse kind, got %s", e.Kind)
		}
	}
}

func TestRuntimeErrorCatchable(t *testing.T) {
	cases := []struct {
		kind      Kind
		catchable bool
	}{
		{Runtime, true},
		{Security, false},
		{Resource, false},
		{Feature, false},
	}
	for _, c := range cases {
		e := &RuntimeError{Kind: c.kind, Message: "x"}
		if e.Catchable() != c.catchable {
			t.Errorf("kind %s: expected Catchable()=%v, got %v", c.kind, c.catchable, e.Catchable())
		}
	}
}

func TestRuntimeErrorMessageNamesHostFunction(t *testing.T) {
	e := &RuntimeError{Kind: Runtime, Message: "boom", HostFnName: "doStuff"}
	got := e.Error()
	if !strings.Contains(got, `host function "doStuff"`) || !strings.Contains(got, "boom") {
		t.Errorf("unexpected message: %s", got)
	}
}

func TestSanitizeHidesHostErrorMessage(t *testing.T) {
	e := &RuntimeError{Kind: Runtime, Message: "secret detail", HostFnName: "readSecret"}
	out := Sanitize(e, false, true)
	if out.Message != "[host error]" {
		t.Errorf("expected hidden host error message, got %q", out.Message)
	}
	// Original error must be untouched.
	if e.Message != "secret detail" {
		t.Error("Sanitize should not mutate its input")
	}
}

func TestSanitizeScrubsHostPaths(t *testing.T) {
	e := &RuntimeError{Kind: Runtime, Message: "open failed: /home/user/secret/config.json"}
	out := Sanitize(e, true, false)
	if strings.Contains(out.Message, "/home/user/secret") {
		t.Errorf("expected host path to be scrubbed, got %q", out.Message)
	}
	if !strings.Contains(out.Message, "[host path]") {
		t.Errorf("expected scrubbed placeholder, got %q", out.Message)
	}
}

func TestSanitizeNoopWhenBothFlagsOff(t *testing.T) {
	e := &RuntimeError{Kind: Runtime, Message: "plain message", HostFnName: "fn"}
	out := Sanitize(e, false, false)
	if out.Message != "plain message" {
		t.Errorf("expected message untouched, got %q", out.Message)
	}
}

func TestNewSecurityResourceFeatureConstructors(t *testing.T) {
	if s := NewSecurity("blocked %s", "write"); s.Kind != Security || !strings.Contains(s.Message, "blocked write") {
		t.Errorf("unexpected security error: %+v", s)
	}
	if r := NewResource("limit %d", 5); r.Kind != Resource || !strings.Contains(r.Message, "limit 5") {
		t.Errorf("unexpected resource error: %+v", r)
	}
	if f := NewFeature("AsyncAwait"); f.Kind != Feature || !strings.Contains(f.Message, "AsyncAwait") {
		t.Errorf("unexpected feature error: %+v", f)
	}
}
