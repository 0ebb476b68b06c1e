package cmd

import (
	"strings"
	"testing"
)

func resetParseFlags() {
	parseExpression = false
}

func TestRunParseExpressionFlag(t *testing.T) {
	defer resetParseFlags()
	parseExpression = true

	output := captureStdout(t, func() {
		if err := runParse(parseCmd, []string{"1 + 2"}); err != nil {
			t.Fatalf("runParse failed: %v", err)
		}
	})

	if !strings.Contains(output, "BinaryExpression") {
		t.Errorf("expected AST dump to contain BinaryExpression, got %q", output)
	}
	if !strings.Contains(output, "NumberLiteral") {
		t.Errorf("expected AST dump to contain NumberLiteral, got %q", output)
	}
}

func TestRunParseExpressionFlagMissingArg(t *testing.T) {
	defer resetParseFlags()
	parseExpression = true

	if err := runParse(parseCmd, nil); err == nil {
		t.Fatal("expected an error when -e is set with no expression argument")
	}
}

func TestRunParseReportsSyntaxErrors(t *testing.T) {
	defer resetParseFlags()
	parseExpression = true

	err := runParse(parseCmd, []string{"let = ;"})
	if err == nil {
		t.Fatal("expected a parse error for malformed input")
	}
}

func TestRunParseVariableDeclaration(t *testing.T) {
	defer resetParseFlags()
	parseExpression = true

	output := captureStdout(t, func() {
		if err := runParse(parseCmd, []string{"let x = 1;"}); err != nil {
			t.Fatalf("runParse failed: %v", err)
		}
	})

	if !strings.Contains(output, "VariableDeclaration") {
		t.Errorf("expected AST dump to contain VariableDeclaration, got %q", output)
	}
	if !strings.Contains(output, "Identifier: x") {
		t.Errorf("expected AST dump to contain the declared identifier, got %q", output)
	}
}
