package ast

// MethodKind distinguishes constructor/getter/setter/ordinary methods.
type MethodKind string

const (
	MethodCtor MethodKind = "constructor"
	MethodGet  MethodKind = "get"
	MethodSet  MethodKind = "set"
	MethodPlain MethodKind = "method"
)

// MethodDefinition is one method, getter, setter, or constructor entry in
// a class body.
type MethodDefinition struct {
	base
	Key      Expression // Identifier or PrivateIdentifier
	Value    *FunctionExpression
	Kind     MethodKind
	Static   bool
	Private  bool
	Computed bool
}

func (*MethodDefinition) node() {}

// FieldDefinition is one instance or static field, with an optional
// initializer that runs at the top of the constructor (instance fields)
// or at class-definition time (static fields), per spec §4.7.
type FieldDefinition struct {
	base
	Key      Expression
	Value    Expression // nil if uninitialized
	Static   bool
	Private  bool
	Computed bool
}

func (*FieldDefinition) node() {}

// StaticBlock is a `static { ... }` initializer, run in declaration order
// alongside static fields at class-definition time.
type StaticBlock struct {
	base
	Body []Statement
}

func (*StaticBlock) node() {}

// ClassBody is the ordered sequence of members between `{` and `}`;
// ordering matters because static initializers and static blocks run in
// declaration order.
type ClassBody struct {
	base
	Members []Node // *MethodDefinition, *FieldDefinition, or *StaticBlock
}

func (*ClassBody) node() {}

// ClassDeclaration is `class Name extends Super { ... }`; SuperClass is
// nil for a base class.
type ClassDeclaration struct {
	base
	ID         *Identifier // nil for an anonymous class expression
	SuperClass Expression
	Body       *ClassBody
}

func (*ClassDeclaration) stmt() {}
func (*ClassDeclaration) expr() {} // class expressions are also valid in expression position
