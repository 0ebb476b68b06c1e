package sandbox

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/feature"
)

func TestEvalArithmetic(t *testing.T) {
	eng, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := eng.Eval("1 + 2 * 3;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatal("expected a successful evaluation")
	}
	if got := result.Native(); got != 7.0 {
		t.Errorf("expected 7, got %v", got)
	}
}

func TestEvalPrintUsesConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	eng, err := New(WithOutput(&buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := eng.Eval(`print("hello");`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected output to contain 'hello', got %q", buf.String())
	}
}

func TestRegisterFunctionCallableFromScript(t *testing.T) {
	eng, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := eng.RegisterFunction("add", func(a, b int64) (int64, error) {
		return a + b, nil
	}); err != nil {
		t.Fatalf("unexpected error registering function: %v", err)
	}
	result, err := eng.Eval("add(3, 4);")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Native(); got != 7.0 {
		t.Errorf("expected 7, got %v", got)
	}
}

func TestRegisterFunctionErrorSurfacesToScript(t *testing.T) {
	eng, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := eng.RegisterFunction("boom", func() (int64, error) {
		return 0, errors.New("exploded")
	}); err != nil {
		t.Fatalf("unexpected error registering function: %v", err)
	}
	result, err := eng.Eval("boom();")
	if err == nil {
		t.Fatal("expected an error from the failing host function")
	}
	if result.Success {
		t.Error("expected Success to be false")
	}
}

func TestRegisterGlobalRejectsForbiddenName(t *testing.T) {
	eng, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := eng.RegisterGlobal("Function", 1); err == nil {
		t.Fatal("expected registering a forbidden global name to fail")
	}
}

func TestWithGlobalsRejectsForbiddenNameAtConstruction(t *testing.T) {
	_, err := New(WithGlobals(map[string]interface{}{"eval": 1}))
	if err == nil {
		t.Fatal("expected WithGlobals to reject a forbidden global name")
	}
}

func TestWithCallGlobalsSkipsForbiddenNameSilently(t *testing.T) {
	eng, err := New(WithGlobals(map[string]interface{}{"base": int64(1)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := eng.Eval("base;", WithCallGlobals(map[string]interface{}{"eval": 1}))
	if err != nil {
		t.Fatalf("per-call forbidden global should be skipped, not fail the call: %v", err)
	}
	if got := result.Native(); got != 1.0 {
		t.Errorf("expected base == 1, got %v", got)
	}
}

func TestFeatureControlRejectsDisabledConstruct(t *testing.T) {
	eng, err := New(WithFeatureControl(feature.Blacklist, []feature.Token{feature.Classes}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = eng.Eval("class C {}")
	if err == nil {
		t.Fatal("expected a feature-gate rejection")
	}
}

func TestCallFeatureControlOverridesConstructorGate(t *testing.T) {
	eng, err := New(WithFeatureControl(feature.Blacklist, []feature.Token{feature.Classes}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = eng.Eval("class C {}", WithCallFeatureControl(feature.Blacklist, nil))
	if err != nil {
		t.Fatalf("per-call gate should fully replace the constructor gate: %v", err)
	}
}

func TestValidatorRejectsProgram(t *testing.T) {
	eng, err := New(WithValidator(func(p *ast.Program) bool { return len(p.Body) <= 1 }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = eng.Eval("let x = 1; let y = 2;")
	if err == nil {
		t.Fatal("expected the validator to reject a two-statement program")
	}

	result, err := eng.Eval("let x = 1;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Error("expected a single-statement program to pass validation")
	}
}

func TestEngineTracksCumulativeResourceHistory(t *testing.T) {
	eng, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := eng.Eval("1 + 1;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := eng.Eval("2 + 2;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eng.Tracker().Evaluations() != 2 {
		t.Errorf("expected 2 recorded evaluations, got %d", eng.Tracker().Evaluations())
	}
}
