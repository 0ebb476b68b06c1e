package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func resetRunFlags() {
	runEvalExpr = ""
	traceResources = false
	runMaxCallDepth = 0
	runMaxLoopIters = 0
	dumpAST = false
}

func TestRunScriptEvalFlag(t *testing.T) {
	defer resetRunFlags()
	runEvalExpr = `print(1 + 2);`

	output := captureStdout(t, func() {
		if err := runScript(runCmd, nil); err != nil {
			t.Fatalf("runScript failed: %v", err)
		}
	})

	if !strings.Contains(output, "3") {
		t.Errorf("expected output to contain '3', got %q", output)
	}
}

func TestRunScriptFromFile(t *testing.T) {
	defer resetRunFlags()
	tempDir := t.TempDir()
	scriptPath := filepath.Join(tempDir, "main.js")
	if err := os.WriteFile(scriptPath, []byte(`print("hello from file");`), 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	output := captureStdout(t, func() {
		if err := runScript(runCmd, []string{scriptPath}); err != nil {
			t.Fatalf("runScript failed: %v", err)
		}
	})

	if !strings.Contains(output, "hello from file") {
		t.Errorf("expected output to contain script output, got %q", output)
	}
}

func TestRunScriptMissingFile(t *testing.T) {
	defer resetRunFlags()
	err := runScript(runCmd, []string{filepath.Join(t.TempDir(), "does-not-exist.js")})
	if err == nil {
		t.Fatal("expected an error reading a missing file")
	}
}

func TestRunScriptTraceResourcesWritesToStderr(t *testing.T) {
	defer resetRunFlags()
	runEvalExpr = `let x = 1 + 1;`
	traceResources = true

	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	captureStdout(t, func() {
		if err := runScript(runCmd, nil); err != nil {
			t.Fatalf("runScript failed: %v", err)
		}
	})

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)
	stderrOutput := buf.String()

	if !strings.Contains(stderrOutput, "resource trace") {
		t.Errorf("expected a resource trace header in stderr, got %q", stderrOutput)
	}
	if !strings.Contains(stderrOutput, "call depth peak") {
		t.Errorf("expected call depth peak in the trace, got %q", stderrOutput)
	}
}

func TestRunScriptDumpASTWritesToStderr(t *testing.T) {
	defer resetRunFlags()
	runEvalExpr = `let x = 1 + 2;`
	dumpAST = true

	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	captureStdout(t, func() {
		if err := runScript(runCmd, nil); err != nil {
			t.Fatalf("runScript failed: %v", err)
		}
	})

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)
	stderrOutput := buf.String()

	if !strings.Contains(stderrOutput, "VariableDeclaration") {
		t.Errorf("expected the AST dump to contain VariableDeclaration, got %q", stderrOutput)
	}
}

func TestRunScriptCallDepthLimitFails(t *testing.T) {
	defer resetRunFlags()
	runEvalExpr = `function recurse(n) { return recurse(n + 1); } recurse(0);`
	runMaxCallDepth = 5

	var runErr error
	captureStdout(t, func() {
		runErr = runScript(runCmd, nil)
	})

	if runErr == nil {
		t.Fatal("expected an error from exceeding the call-depth limit")
	}
}
