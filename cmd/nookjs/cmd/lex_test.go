package cmd

import (
	"strings"
	"testing"
)

func resetLexFlags() {
	lexEvalExpr = ""
	showPos = false
	showKind = false
	onlyErrors = false
}

func TestLexScriptEvalFlag(t *testing.T) {
	defer resetLexFlags()
	lexEvalExpr = "let x = 42;"

	output := captureStdout(t, func() {
		if err := lexScript(lexCmd, nil); err != nil {
			t.Fatalf("lexScript failed: %v", err)
		}
	})

	if !strings.Contains(output, `"let"`) {
		t.Errorf("expected output to contain the let keyword literal, got %q", output)
	}
	if !strings.Contains(output, `"42"`) {
		t.Errorf("expected output to contain the number literal, got %q", output)
	}
}

func TestLexScriptShowKindAndPos(t *testing.T) {
	defer resetLexFlags()
	lexEvalExpr = "x"
	showKind = true
	showPos = true

	output := captureStdout(t, func() {
		if err := lexScript(lexCmd, nil); err != nil {
			t.Fatalf("lexScript failed: %v", err)
		}
	})

	if !strings.Contains(output, "@1:1") {
		t.Errorf("expected a 1:1 position marker, got %q", output)
	}
}

func TestLexScriptOnlyErrorsWithNoIllegalTokens(t *testing.T) {
	defer resetLexFlags()
	lexEvalExpr = "let x = 1;"
	onlyErrors = true

	var err error
	output := captureStdout(t, func() {
		err = lexScript(lexCmd, nil)
	})

	if err != nil {
		t.Fatalf("expected no error for legal input, got %v", err)
	}
	if strings.TrimSpace(output) != "" {
		t.Errorf("expected no output when there are no illegal tokens, got %q", output)
	}
}

func TestLexScriptOnlyErrorsWithIllegalToken(t *testing.T) {
	defer resetLexFlags()
	lexEvalExpr = `let x = "unterminated`
	onlyErrors = true

	var err error
	captureStdout(t, func() {
		err = lexScript(lexCmd, nil)
	})

	if err == nil {
		t.Fatal("expected an error reporting illegal token count")
	}
}

func TestLexScriptRequiresInput(t *testing.T) {
	defer resetLexFlags()
	if err := lexScript(lexCmd, nil); err == nil {
		t.Fatal("expected an error when neither a file nor -e is provided")
	}
}
