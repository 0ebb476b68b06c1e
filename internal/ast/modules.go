package ast

// ImportSpecifier binds one imported name into the local module scope.
// Default and namespace imports are represented with Imported == nil and
// Imported == "*" respectively, kept simple since the linker (spec §4.8)
// only needs Local and the exported name being requested.
type ImportSpecifier struct {
	base
	Imported string // exported name in the source module, "" for default, "*" for namespace
	Local    string
}

func (*ImportSpecifier) node() {}

// ImportDeclaration is `import { a as b, c } from "spec";` or
// `import def from "spec";` or `import * as ns from "spec";`.
type ImportDeclaration struct {
	base
	Specifiers []*ImportSpecifier
	Source     string
}

func (*ImportDeclaration) stmt() {}

// ExportSpecifier is one `a as b` entry of a named export list.
type ExportSpecifier struct {
	base
	Local    string
	Exported string
}

func (*ExportSpecifier) node() {}

// ExportNamedDeclaration covers `export { a, b as c };`,
// `export { a } from "spec";`, and `export const x = 1;` (Declaration set,
// Specifiers empty).
type ExportNamedDeclaration struct {
	base
	Declaration Statement // nil when this is a re-export list
	Specifiers  []*ExportSpecifier
	Source      string // "" unless this is a re-export
}

func (*ExportNamedDeclaration) stmt() {}

// ExportDefaultDeclaration is `export default Expression;`.
type ExportDefaultDeclaration struct {
	base
	Declaration Expression
}

func (*ExportDefaultDeclaration) stmt() {}

// ExportAllDeclaration is `export * from "spec";` or
// `export * as ns from "spec";`; Exported is "" for the unnamed form.
type ExportAllDeclaration struct {
	base
	Exported string
	Source   string
}

func (*ExportAllDeclaration) stmt() {}
