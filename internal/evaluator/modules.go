package evaluator

import (
	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/ifaceerr"
)

// evalImportDeclaration resolves n.Source through the resolver wired by
// internal/module (spec §4.8) and binds each specifier into env as a
// const. Running without a resolver wired (plain, non-module script mode)
// fails with the same Feature-kind rejection a disabled gate token would
// produce, since nothing can satisfy the import either way.
func (ev *Evaluator) evalImportDeclaration(env *Environment, n *ast.ImportDeclaration) completion {
	if ev.resolveModule == nil {
		return throwCompletion(Undef, ifaceerr.NewFeature("Modules"))
	}
	ns, err := ev.resolveModule(n.Source)
	if err != nil {
		return rejectCompletion(asRuntimeError(err))
	}
	for _, spec := range n.Specifiers {
		var v Value = Undef
		switch spec.Imported {
		case "*":
			v = ns
		case "":
			v, _ = ns.Get("default")
		default:
			v, _ = ns.Get(spec.Imported)
		}
		if err := env.Declare(spec.Local, bindConst, v); err != nil {
			return rejectCompletion(err.(*ifaceerr.RuntimeError))
		}
	}
	return normalCompletion()
}

// ensureExports lazily creates the running module's export table; exports
// accumulate here as export statements are reached, and the linker reads
// this table after the module body finishes (spec §4.8 step 5).
func (ev *Evaluator) ensureExports() *Object {
	if ev.exports == nil {
		ev.exports = NewObject()
	}
	return ev.exports
}

// Exports returns the module's accumulated export table, creating an
// empty one if the module exported nothing.
func (ev *Evaluator) Exports() *Object {
	return ev.ensureExports()
}

// SetExports installs obj as this evaluator's export table up front, so
// export statements reached during evaluation mutate obj in place. Used
// by internal/module to seed a module's evaluator with the same object
// already visible to a cyclic importer (spec §4.8 step 2).
func (ev *Evaluator) SetExports(obj *Object) {
	ev.exports = obj
}

func (ev *Evaluator) evalExportNamedDeclaration(env *Environment, n *ast.ExportNamedDeclaration) completion {
	if n.Declaration != nil {
		c := ev.evalStatement(env, n.Declaration)
		if c.isAbrupt() {
			return c
		}
		for _, name := range declaredNames(n.Declaration) {
			v, _ := env.Get(name)
			ev.ensureExports().Set(name, v)
		}
		return normalCompletion()
	}
	if n.Source != "" {
		if ev.resolveModule == nil {
			return throwCompletion(Undef, ifaceerr.NewFeature("Modules"))
		}
		ns, err := ev.resolveModule(n.Source)
		if err != nil {
			return rejectCompletion(asRuntimeError(err))
		}
		for _, spec := range n.Specifiers {
			v, _ := ns.Get(spec.Local)
			ev.ensureExports().Set(spec.Exported, v)
		}
		return normalCompletion()
	}
	for _, spec := range n.Specifiers {
		v, ok := env.Get(spec.Local)
		if !ok {
			v = Undef
		}
		ev.ensureExports().Set(spec.Exported, v)
	}
	return normalCompletion()
}

func (ev *Evaluator) evalExportDefaultDeclaration(env *Environment, n *ast.ExportDefaultDeclaration) completion {
	v, c := ev.evalExpr(env, n.Declaration)
	if c.isAbrupt() {
		return c
	}
	ev.ensureExports().Set("default", v)
	return normalCompletion()
}

// evalExportAllDeclaration implements `export * from "m"` and
// `export * as ns from "m"`: both copy the referenced bindings once, at
// instantiation time (spec §4.8 step 5 "no live re-binding").
func (ev *Evaluator) evalExportAllDeclaration(env *Environment, n *ast.ExportAllDeclaration) completion {
	if ev.resolveModule == nil {
		return throwCompletion(Undef, ifaceerr.NewFeature("Modules"))
	}
	ns, err := ev.resolveModule(n.Source)
	if err != nil {
		return rejectCompletion(asRuntimeError(err))
	}
	if n.Exported != "" {
		ev.ensureExports().Set(n.Exported, ns)
		return normalCompletion()
	}
	for _, k := range ns.Keys() {
		v, _ := ns.Get(k)
		ev.ensureExports().Set(k, v)
	}
	return normalCompletion()
}

// asRuntimeError adapts a plain error from a host-supplied resolver into
// the RuntimeError shape rejectCompletion expects, wrapping it as a
// catchable Runtime-kind failure when it isn't already one of the five
// taxonomy kinds.
func asRuntimeError(err error) *ifaceerr.RuntimeError {
	if re, ok := err.(*ifaceerr.RuntimeError); ok {
		return re
	}
	return &ifaceerr.RuntimeError{Kind: ifaceerr.Runtime, Message: err.Error()}
}

// declaredNames collects the top-level binding names introduced by an
// `export <declaration>` statement: a variable declaration (recursing
// through destructuring patterns), a named function declaration, or a
// named class declaration.
func declaredNames(s ast.Statement) []string {
	switch d := s.(type) {
	case *ast.VariableDeclaration:
		var names []string
		for _, decl := range d.Declarations {
			names = append(names, patternNames(decl.ID)...)
		}
		return names
	case *ast.FunctionExpression:
		if d.ID != nil {
			return []string{d.ID.Name}
		}
	case *ast.ClassDeclaration:
		if d.ID != nil {
			return []string{d.ID.Name}
		}
	}
	return nil
}

func patternNames(p ast.Pattern) []string {
	switch pat := p.(type) {
	case *ast.Identifier:
		return []string{pat.Name}
	case *ast.AssignmentPattern:
		return patternNames(pat.Left)
	case *ast.ArrayPattern:
		var names []string
		for _, el := range pat.Elements {
			if el == nil {
				continue
			}
			names = append(names, patternNames(el)...)
		}
		if pat.Rest != nil {
			names = append(names, patternNames(pat.Rest.Argument)...)
		}
		return names
	case *ast.ObjectPattern:
		var names []string
		for _, prop := range pat.Properties {
			names = append(names, patternNames(prop.Value)...)
		}
		if pat.Rest != nil {
			names = append(names, patternNames(pat.Rest.Argument)...)
		}
		return names
	default:
		return nil
	}
}
