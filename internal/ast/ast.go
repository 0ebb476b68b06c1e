// Package ast defines the ESTree-shaped abstract syntax tree produced by
// the parser.
//
// Each node carries only the fields needed to evaluate it; no positional
// metadata is required beyond what error messages reference (see spec
// §3), so most nodes carry a single token.Position rather than a full
// source range.
package ast

import "github.com/samlaycock/nookjs/internal/token"

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
	node()
}

// Statement is implemented by statement-position nodes.
type Statement interface {
	Node
	stmt()
}

// Expression is implemented by expression-position nodes.
type Expression interface {
	Node
	expr()
}

// Pattern is implemented by binding-target nodes: Identifier, ObjectPattern,
// ArrayPattern, AssignmentPattern, RestElement.
type Pattern interface {
	Node
	pattern()
}

type base struct {
	Position token.Position
}

func (b base) Pos() token.Position { return b.Position }
func (base) node()                 {}

// Program is the root node: a module body.
type Program struct {
	base
	Body []Statement
}

func (*Program) stmt() {}
