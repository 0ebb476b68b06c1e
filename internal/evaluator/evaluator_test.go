package evaluator

import (
	"testing"

	"github.com/samlaycock/nookjs/internal/feature"
	"github.com/samlaycock/nookjs/internal/lexer"
	"github.com/samlaycock/nookjs/internal/parser"
	"github.com/samlaycock/nookjs/internal/resource"
)

func evalSource(t *testing.T, src string) Value {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	ev := New(feature.Default(), resource.NewRun(resource.Limits{}))
	env := NewGlobalEnvironment()
	v, err := ev.EvalProgram(prog, env)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	return v
}

func TestEvalArithmeticExpression(t *testing.T) {
	v := evalSource(t, "1 + 2 * 3;")
	n, ok := v.(Number)
	if !ok {
		t.Fatalf("expected Number, got %T", v)
	}
	if n != 7 {
		t.Errorf("expected 7, got %v", n)
	}
}

func TestEvalVariableDeclarationAndReference(t *testing.T) {
	v := evalSource(t, "let x = 10; x * 2;")
	if v != Number(20) {
		t.Errorf("expected 20, got %v", v)
	}
}

func TestEvalStringConcatenation(t *testing.T) {
	v := evalSource(t, `"foo" + "bar";`)
	s, ok := v.(String)
	if !ok {
		t.Fatalf("expected String, got %T", v)
	}
	if s != "foobar" {
		t.Errorf("expected %q, got %q", "foobar", s)
	}
}

func TestEvalBitwiseAndShiftOperators(t *testing.T) {
	cases := map[string]float64{
		"6 & 3;":    2,
		"6 | 3;":    7,
		"6 ^ 3;":    5,
		"~0;":       -1,
		"1 << 3;":   8,
		"-8 >> 1;":  -4,
		"-8 >>> 28": 15,
	}
	for src, want := range cases {
		v := evalSource(t, src)
		n, ok := v.(Number)
		if !ok {
			t.Fatalf("%q: expected Number, got %T", src, v)
		}
		if float64(n) != want {
			t.Errorf("%q: expected %v, got %v", src, want, n)
		}
	}
}

func TestEvalCompoundBitwiseAssignment(t *testing.T) {
	v := evalSource(t, "let x = 1; x <<= 4; x;")
	if v != Number(16) {
		t.Errorf("expected 16, got %v", v)
	}
}

func TestEvalIfElseBranches(t *testing.T) {
	v := evalSource(t, "let y; if (1 > 0) { y = 'yes'; } else { y = 'no'; } y;")
	if v != String("yes") {
		t.Errorf("expected 'yes', got %v", v)
	}
}

func TestEvalFunctionCall(t *testing.T) {
	v := evalSource(t, `
function add(a, b) { return a + b; }
add(3, 4);
`)
	if v != Number(7) {
		t.Errorf("expected 7, got %v", v)
	}
}

func TestEvalArrowFunctionClosure(t *testing.T) {
	v := evalSource(t, `
function makeAdder(x) {
  return y => x + y;
}
const add5 = makeAdder(5);
add5(10);
`)
	if v != Number(15) {
		t.Errorf("expected 15, got %v", v)
	}
}

func TestEvalFeatureGateRejectsDisabledConstruct(t *testing.T) {
	p := parser.New(lexer.New("class C {}"))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}

	gate := feature.New(feature.Blacklist, []feature.Token{feature.Classes})
	ev := New(gate, resource.NewRun(resource.Limits{}))
	env := NewGlobalEnvironment()
	_, err := ev.EvalProgram(prog, env)
	if err == nil {
		t.Fatal("expected a feature-gate rejection for a disabled class declaration")
	}
	if err.Kind.String() != "feature" {
		t.Errorf("expected a Feature-kind error, got %v", err.Kind)
	}
}

func TestEvalCallStackDepthLimit(t *testing.T) {
	p := parser.New(lexer.New(`
function recurse(n) { return recurse(n + 1); }
recurse(0);
`))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	run := resource.NewRun(resource.Limits{MaxCallStackDepth: 10})
	ev := New(feature.Default(), run)
	env := NewGlobalEnvironment()
	_, err := ev.EvalProgram(prog, env)
	if err == nil {
		t.Fatal("expected a resource error from unbounded recursion")
	}
}

func TestDeclareGlobalInstallsConstBinding(t *testing.T) {
	env := NewGlobalEnvironment()
	if err := env.DeclareGlobal("HOST_VALUE", Number(42)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := env.Get("HOST_VALUE")
	if !ok {
		t.Fatal("expected HOST_VALUE to be readable")
	}
	if v != Number(42) {
		t.Errorf("expected 42, got %v", v)
	}
}

func TestToNativeConvertsPrimitives(t *testing.T) {
	cases := []struct {
		in   Value
		want interface{}
	}{
		{Undef, nil},
		{Nul, nil},
		{Bool(true), true},
		{Number(3.5), 3.5},
		{String("hi"), "hi"},
	}
	for _, c := range cases {
		got := ToNative(c.in)
		if got != c.want {
			t.Errorf("ToNative(%v): expected %v, got %v", c.in, c.want, got)
		}
	}
}
