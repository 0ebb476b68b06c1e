package ast

import (
	"testing"

	"github.com/samlaycock/nookjs/internal/token"
)

func TestPosReturnsStampedPosition(t *testing.T) {
	id := &Identifier{Name: "x"}
	id.Position = token.Position{Line: 4, Column: 9}
	if got := id.Pos(); got.Line != 4 || got.Column != 9 {
		t.Errorf("expected Pos() to return the stamped position, got %+v", got)
	}
}

func TestExpressionNodesSatisfyExpressionInterface(t *testing.T) {
	var exprs []Expression = []Expression{
		&Identifier{Name: "a"},
		&Literal{Kind: LitNumber, Number: 1},
		&BinaryExpression{Left: &Identifier{Name: "a"}, Right: &Identifier{Name: "b"}, Op: OpAdd},
		&CallExpression{Callee: &Identifier{Name: "f"}},
		&MemberExpression{Object: &Identifier{Name: "o"}, Property: &Identifier{Name: "p"}},
		&ThisExpression{},
	}
	for _, e := range exprs {
		if e.Pos().Line != 0 {
			t.Errorf("expected a zero-value Position by default, got %+v", e.Pos())
		}
	}
}

func TestStatementNodesSatisfyStatementInterface(t *testing.T) {
	var stmts []Statement = []Statement{
		&ExpressionStatement{Expression: &Identifier{Name: "a"}},
		&BlockStatement{},
		&IfStatement{Test: &Identifier{Name: "a"}, Consequent: &BlockStatement{}},
		&ReturnStatement{},
		&Program{},
	}
	for _, s := range stmts {
		_ = s.Pos()
	}
}

func TestPatternNodesSatisfyPatternInterface(t *testing.T) {
	var patterns []Pattern = []Pattern{
		&Identifier{Name: "a"},
		&ArrayPattern{},
		&ObjectPattern{},
		&AssignmentPattern{Left: &Identifier{Name: "a"}, Right: &Literal{Kind: LitNumber, Number: 0}},
		&RestElement{Argument: &Identifier{Name: "rest"}},
	}
	for _, p := range patterns {
		_ = p.Pos()
	}
}

func TestLiteralKindDistinguishesPayload(t *testing.T) {
	str := &Literal{Kind: LitString, String: "hi"}
	num := &Literal{Kind: LitNumber, Number: 3.5}
	boolLit := &Literal{Kind: LitBool, Bool: true}
	null := &Literal{Kind: LitNull}

	if str.Kind != LitString || str.String != "hi" {
		t.Errorf("unexpected string literal: %+v", str)
	}
	if num.Kind != LitNumber || num.Number != 3.5 {
		t.Errorf("unexpected number literal: %+v", num)
	}
	if boolLit.Kind != LitBool || !boolLit.Bool {
		t.Errorf("unexpected bool literal: %+v", boolLit)
	}
	if null.Kind != LitNull {
		t.Errorf("unexpected null literal: %+v", null)
	}
}
