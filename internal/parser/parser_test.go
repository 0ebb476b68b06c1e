package parser

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/lexer"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	return prog
}

func TestParseVariableDeclaration(t *testing.T) {
	prog := parseOK(t, "let x = 1 + 2;")
	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Body))
	}
	decl, ok := prog.Body[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected *ast.VariableDeclaration, got %T", prog.Body[0])
	}
	if decl.Kind != ast.DeclLet {
		t.Errorf("expected let declaration, got %v", decl.Kind)
	}
	if len(decl.Declarations) != 1 {
		t.Fatalf("expected 1 declarator, got %d", len(decl.Declarations))
	}
	bin, ok := decl.Declarations[0].Init.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpression init, got %T", decl.Declarations[0].Init)
	}
	if bin.Op != ast.OpAdd {
		t.Errorf("expected OpAdd, got %v", bin.Op)
	}
}

func TestParseIfElseStatement(t *testing.T) {
	prog := parseOK(t, `if (x > 0) { y = 1; } else { y = 2; }`)
	stmt, ok := prog.Body[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", prog.Body[0])
	}
	if stmt.Alternate == nil {
		t.Fatal("expected an else branch")
	}
}

func TestParseFunctionExpression(t *testing.T) {
	prog := parseOK(t, `const add = function(a, b) { return a + b; };`)
	decl := prog.Body[0].(*ast.VariableDeclaration)
	fn, ok := decl.Declarations[0].Init.(*ast.FunctionExpression)
	if !ok {
		t.Fatalf("expected *ast.FunctionExpression, got %T", decl.Declarations[0].Init)
	}
	if len(fn.Params) != 2 {
		t.Errorf("expected 2 params, got %d", len(fn.Params))
	}
}

func TestParseArrowFunction(t *testing.T) {
	prog := parseOK(t, `const square = x => x * x;`)
	decl := prog.Body[0].(*ast.VariableDeclaration)
	arrow, ok := decl.Declarations[0].Init.(*ast.ArrowFunctionExpression)
	if !ok {
		t.Fatalf("expected *ast.ArrowFunctionExpression, got %T", decl.Declarations[0].Init)
	}
	if len(arrow.Params) != 1 {
		t.Errorf("expected 1 param, got %d", len(arrow.Params))
	}
}

func TestParseMemberAndCallExpression(t *testing.T) {
	prog := parseOK(t, `console.log("hi");`)
	exprStmt := prog.Body[0].(*ast.ExpressionStatement)
	call, ok := exprStmt.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected *ast.CallExpression, got %T", exprStmt.Expression)
	}
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("expected *ast.MemberExpression callee, got %T", call.Callee)
	}
	if member.Computed {
		t.Error("console.log should not be a computed member access")
	}
}

func TestParseBitwiseShiftPrecedence(t *testing.T) {
	// a | b & c << d groups as a | (b & (c << d)): shift binds tighter
	// than bitwise AND, which binds tighter than bitwise OR.
	prog := parseOK(t, "let x = a | b & c << d;")
	decl := prog.Body[0].(*ast.VariableDeclaration)
	or, ok := decl.Declarations[0].Init.(*ast.BinaryExpression)
	if !ok || or.Op != ast.OpBitOr {
		t.Fatalf("expected top-level OpBitOr, got %T %v", decl.Declarations[0].Init, or)
	}
	and, ok := or.Right.(*ast.BinaryExpression)
	if !ok || and.Op != ast.OpBitAnd {
		t.Fatalf("expected OpBitAnd on the right of |, got %T %v", or.Right, and)
	}
	shl, ok := and.Right.(*ast.BinaryExpression)
	if !ok || shl.Op != ast.OpShl {
		t.Fatalf("expected OpShl on the right of &, got %T %v", and.Right, shl)
	}
}

func TestParseBitwiseNotUnary(t *testing.T) {
	prog := parseOK(t, "let x = ~y;")
	decl := prog.Body[0].(*ast.VariableDeclaration)
	u, ok := decl.Declarations[0].Init.(*ast.UnaryExpression)
	if !ok {
		t.Fatalf("expected *ast.UnaryExpression, got %T", decl.Declarations[0].Init)
	}
	if u.Op != ast.UnaryBitNot {
		t.Errorf("expected UnaryBitNot, got %v", u.Op)
	}
}

func TestParseCompoundBitwiseAssignment(t *testing.T) {
	prog := parseOK(t, "x >>>= 1;")
	exprStmt := prog.Body[0].(*ast.ExpressionStatement)
	a, ok := exprStmt.Expression.(*ast.AssignmentExpression)
	if !ok {
		t.Fatalf("expected *ast.AssignmentExpression, got %T", exprStmt.Expression)
	}
	if a.Op != ast.AssignUShr {
		t.Errorf("expected AssignUShr, got %v", a.Op)
	}
}

func TestParseErrorsAccumulate(t *testing.T) {
	p := New(lexer.New("let = ;"))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected parse errors for malformed input")
	}
}

func TestParseClassDeclarationSnapshot(t *testing.T) {
	prog := parseOK(t, `
class Counter {
  #count = 0;
  increment() {
    this.#count = this.#count + 1;
    return this.#count;
  }
}
`)
	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Body))
	}
	cls, ok := prog.Body[0].(*ast.ClassDeclaration)
	if !ok {
		t.Fatalf("expected *ast.ClassDeclaration, got %T", prog.Body[0])
	}
	snaps.MatchSnapshot(t, "class name", cls.ID.Name)
	snaps.MatchSnapshot(t, "class member count", len(cls.Body.Members))
}
