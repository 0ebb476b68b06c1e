package evaluator

import (
	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/ifaceerr"
)

// evalStatement evaluates one statement, returning its Completion (spec
// §4.7): Normal for fall-through, Return/Break/Continue/Throw/Abort for
// abrupt control flow that callers (blocks, loops, try/finally) must
// propagate or intercept according to their own rules.
func (ev *Evaluator) evalStatement(env *Environment, n ast.Statement) completion {
	if c := ev.checkAbort(); c.isAbrupt() {
		return c
	}
	if c := ev.checkGate(n); c.isAbrupt() {
		return c
	}
	switch s := n.(type) {
	case *ast.ExpressionStatement:
		_, c := ev.evalExpr(env, s.Expression)
		if c.isAbrupt() {
			return c
		}
		return normalCompletion()
	case *ast.EmptyStatement:
		return normalCompletion()
	case *ast.BlockStatement:
		return ev.evalBlock(env, s)
	case *ast.VariableDeclaration:
		return ev.evalVariableDeclaration(env, s)
	case *ast.FunctionExpression:
		// function declaration: the binding is hoisted by evalBlock's
		// pre-pass, so evaluating it again here is a no-op rebind to the
		// same closure value for correctness under re-entrant blocks.
		if s.ID != nil {
			env.Assign(s.ID.Name, ev.makeClosure(env, s, nil))
		}
		return normalCompletion()
	case *ast.ClassDeclaration:
		v, c := ev.evalClassDeclaration(env, s)
		if c.isAbrupt() {
			return c
		}
		if s.ID != nil {
			env.Declare(s.ID.Name, bindLet, v)
		}
		return normalCompletion()
	case *ast.IfStatement:
		return ev.evalIf(env, s)
	case *ast.WhileStatement:
		return ev.evalWhile(env, s)
	case *ast.DoWhileStatement:
		return ev.evalDoWhile(env, s)
	case *ast.ForStatement:
		return ev.evalFor(env, s)
	case *ast.ForOfStatement:
		return ev.evalForOf(env, s)
	case *ast.ForInStatement:
		return ev.evalForIn(env, s)
	case *ast.SwitchStatement:
		return ev.evalSwitch(env, s)
	case *ast.ImportDeclaration:
		return ev.evalImportDeclaration(env, s)
	case *ast.ExportNamedDeclaration:
		return ev.evalExportNamedDeclaration(env, s)
	case *ast.ExportDefaultDeclaration:
		return ev.evalExportDefaultDeclaration(env, s)
	case *ast.ExportAllDeclaration:
		return ev.evalExportAllDeclaration(env, s)
	case *ast.BreakStatement:
		if s.Label != "" {
			return throwCompletion(Undef, ifaceerr.NewFeature("labeled-break"))
		}
		return breakCompletion("")
	case *ast.ContinueStatement:
		if s.Label != "" {
			return throwCompletion(Undef, ifaceerr.NewFeature("labeled-continue"))
		}
		return continueCompletion("")
	case *ast.ReturnStatement:
		if s.Argument == nil {
			return returnCompletion(Undef)
		}
		v, c := ev.evalExpr(env, s.Argument)
		if c.isAbrupt() {
			return c
		}
		return returnCompletion(v)
	case *ast.ThrowStatement:
		v, c := ev.evalExpr(env, s.Argument)
		if c.isAbrupt() {
			return c
		}
		return throwCompletion(v, nil)
	case *ast.TryStatement:
		return ev.evalTry(env, s)
	case *ast.LabeledStatement:
		return ev.evalStatement(env, s.Body)
	default:
		return ev.throwRuntime("unsupported statement form")
	}
}

// evalBlock opens a child lexical frame, hoists function declarations
// (spec §4.3 "var/function-declaration hoisting"), and runs the body in
// order.
func (ev *Evaluator) evalBlock(parent *Environment, b *ast.BlockStatement) completion {
	env := NewChildEnvironment(parent)
	ev.hoistFunctions(env, b.Body)
	for _, stmt := range b.Body {
		if c := ev.evalStatement(env, stmt); c.isAbrupt() {
			return c
		}
	}
	return normalCompletion()
}

func (ev *Evaluator) hoistFunctions(env *Environment, body []ast.Statement) {
	for _, stmt := range body {
		// `export function f() {}` wraps the declaration one level deep;
		// unwrap it so module-level exports hoist the same way a plain
		// script's top-level function declarations do.
		if exp, ok := stmt.(*ast.ExportNamedDeclaration); ok && exp.Declaration != nil {
			stmt = exp.Declaration
		}
		if fn, ok := stmt.(*ast.FunctionExpression); ok && fn.ID != nil {
			env.Declare(fn.ID.Name, bindVar, ev.makeClosure(env, fn, nil))
		}
	}
}

func (ev *Evaluator) evalVariableDeclaration(env *Environment, d *ast.VariableDeclaration) completion {
	kind := bindLet
	switch d.Kind {
	case ast.DeclVar:
		kind = bindVar
	case ast.DeclConst:
		kind = bindConst
	}
	for _, decl := range d.Declarations {
		var v Value = Undef
		if decl.Init != nil {
			var c completion
			v, c = ev.evalExpr(env, decl.Init)
			if c.isAbrupt() {
				return c
			}
		}
		if c := ev.bindPattern(env, decl.ID, v, kind); c.isAbrupt() {
			return c
		}
	}
	return normalCompletion()
}

func (ev *Evaluator) evalIf(env *Environment, s *ast.IfStatement) completion {
	t, c := ev.evalExpr(env, s.Test)
	if c.isAbrupt() {
		return c
	}
	if Truthy(t) {
		return ev.evalStatement(env, s.Consequent)
	}
	if s.Alternate != nil {
		return ev.evalStatement(env, s.Alternate)
	}
	return normalCompletion()
}

// loopBody runs one iteration's statement, translating an unlabeled
// `break`/`continue` into the loop's own control signal; any other
// abrupt completion propagates to the caller unchanged.
func (ev *Evaluator) loopBody(env *Environment, body ast.Statement) (brk bool, c completion) {
	r := ev.evalStatement(env, body)
	switch r.kind {
	case cBreak:
		return true, normalCompletion()
	case cContinue:
		return false, normalCompletion()
	case cNormal:
		return false, normalCompletion()
	default:
		return true, r
	}
}

func (ev *Evaluator) evalWhile(env *Environment, s *ast.WhileStatement) completion {
	counter := new(int)
	for {
		t, c := ev.evalExpr(env, s.Test)
		if c.isAbrupt() {
			return c
		}
		if !Truthy(t) {
			return normalCompletion()
		}
		if ev.Run != nil {
			if err := ev.Run.LoopIteration(counter); err != nil {
				return abortCompletion(err)
			}
		}
		brk, c := ev.loopBody(env, s.Body)
		if c.isAbrupt() {
			return c
		}
		if brk {
			return normalCompletion()
		}
	}
}

func (ev *Evaluator) evalDoWhile(env *Environment, s *ast.DoWhileStatement) completion {
	counter := new(int)
	for {
		if ev.Run != nil {
			if err := ev.Run.LoopIteration(counter); err != nil {
				return abortCompletion(err)
			}
		}
		brk, c := ev.loopBody(env, s.Body)
		if c.isAbrupt() {
			return c
		}
		if brk {
			return normalCompletion()
		}
		t, c := ev.evalExpr(env, s.Test)
		if c.isAbrupt() {
			return c
		}
		if !Truthy(t) {
			return normalCompletion()
		}
	}
}

func (ev *Evaluator) evalFor(env *Environment, s *ast.ForStatement) completion {
	loopEnv := NewChildEnvironment(env)
	if s.Init != nil {
		switch init := s.Init.(type) {
		case *ast.VariableDeclaration:
			if c := ev.evalVariableDeclaration(loopEnv, init); c.isAbrupt() {
				return c
			}
		case ast.Expression:
			if _, c := ev.evalExpr(loopEnv, init); c.isAbrupt() {
				return c
			}
		}
	}
	counter := new(int)
	for {
		if s.Test != nil {
			t, c := ev.evalExpr(loopEnv, s.Test)
			if c.isAbrupt() {
				return c
			}
			if !Truthy(t) {
				return normalCompletion()
			}
		}
		if ev.Run != nil {
			if err := ev.Run.LoopIteration(counter); err != nil {
				return abortCompletion(err)
			}
		}
		iterEnv := NewChildEnvironment(loopEnv)
		brk, c := ev.loopBody(iterEnv, s.Body)
		if c.isAbrupt() {
			return c
		}
		if brk {
			return normalCompletion()
		}
		if s.Update != nil {
			if _, c := ev.evalExpr(loopEnv, s.Update); c.isAbrupt() {
				return c
			}
		}
	}
}

func (ev *Evaluator) evalForOf(env *Environment, s *ast.ForOfStatement) completion {
	rv, c := ev.evalExpr(env, s.Right)
	if c.isAbrupt() {
		return c
	}
	items, c := ev.iterableToSlice(env, rv)
	if c.isAbrupt() {
		return c
	}
	counter := new(int)
	for _, item := range items {
		if ev.Run != nil {
			if err := ev.Run.LoopIteration(counter); err != nil {
				return abortCompletion(err)
			}
		}
		iterEnv := NewChildEnvironment(env)
		if c := ev.bindForTarget(iterEnv, s.Left, item); c.isAbrupt() {
			return c
		}
		brk, c := ev.loopBody(iterEnv, s.Body)
		if c.isAbrupt() {
			return c
		}
		if brk {
			return normalCompletion()
		}
	}
	return normalCompletion()
}

func (ev *Evaluator) evalForIn(env *Environment, s *ast.ForInStatement) completion {
	rv, c := ev.evalExpr(env, s.Right)
	if c.isAbrupt() {
		return c
	}
	var keys []string
	switch o := rv.(type) {
	case *Object:
		keys = o.Keys()
	case *Array:
		for i := range o.Elements {
			keys = append(keys, formatNumber(float64(i)))
		}
	}
	counter := new(int)
	for _, k := range keys {
		if ev.Run != nil {
			if err := ev.Run.LoopIteration(counter); err != nil {
				return abortCompletion(err)
			}
		}
		iterEnv := NewChildEnvironment(env)
		if c := ev.bindForTarget(iterEnv, s.Left, String(k)); c.isAbrupt() {
			return c
		}
		brk, c := ev.loopBody(iterEnv, s.Body)
		if c.isAbrupt() {
			return c
		}
		if brk {
			return normalCompletion()
		}
	}
	return normalCompletion()
}

func (ev *Evaluator) bindForTarget(env *Environment, left ast.Node, v Value) completion {
	switch t := left.(type) {
	case *ast.VariableDeclaration:
		kind := bindLet
		if t.Kind == ast.DeclVar {
			kind = bindVar
		} else if t.Kind == ast.DeclConst {
			kind = bindConst
		}
		return ev.bindPattern(env, t.Declarations[0].ID, v, kind)
	case ast.Pattern:
		return ev.assignTo(env, t, v)
	default:
		return ev.throwRuntime("invalid for-loop binding target")
	}
}

func (ev *Evaluator) evalSwitch(env *Environment, s *ast.SwitchStatement) completion {
	d, c := ev.evalExpr(env, s.Discriminant)
	if c.isAbrupt() {
		return c
	}
	switchEnv := NewChildEnvironment(env)
	matched := -1
	for i, cs := range s.Cases {
		if cs.Test == nil {
			continue
		}
		tv, c := ev.evalExpr(switchEnv, cs.Test)
		if c.isAbrupt() {
			return c
		}
		if StrictEquals(d, tv) {
			matched = i
			break
		}
	}
	if matched == -1 {
		for i, cs := range s.Cases {
			if cs.Test == nil {
				matched = i
				break
			}
		}
	}
	if matched == -1 {
		return normalCompletion()
	}
	for i := matched; i < len(s.Cases); i++ {
		for _, stmt := range s.Cases[i].Consequent {
			r := ev.evalStatement(switchEnv, stmt)
			if r.kind == cBreak && r.label == "" {
				return normalCompletion()
			}
			if r.isAbrupt() {
				return r
			}
		}
	}
	return normalCompletion()
}

func (ev *Evaluator) evalTry(env *Environment, s *ast.TryStatement) completion {
	result := ev.evalBlock(env, s.Block)
	if result.kind == cThrow && s.Handler != nil {
		if isCatchable(result) {
			catchEnv := NewChildEnvironment(env)
			if s.Handler.Param != nil {
				if c := ev.bindPattern(catchEnv, s.Handler.Param, result.value, bindLet); c.isAbrupt() {
					result = c
				} else {
					result = ev.evalBlock(catchEnv, s.Handler.Body)
				}
			} else {
				result = ev.evalBlock(catchEnv, s.Handler.Body)
			}
		}
	}
	if s.Finalizer != nil {
		finResult := ev.evalBlock(env, s.Finalizer)
		if finResult.isAbrupt() {
			// a finally completion always overrides whatever the try/catch
			// produced (spec §4.7).
			return finResult
		}
	}
	return result
}

// isCatchable reports whether a thrown completion may be intercepted by
// sandbox try/catch: Security/Resource/Feature errors always unwind to
// the host uncaught (spec §7), even though their completionKind is
// cThrow like ordinary sandbox throws.
func isCatchable(c completion) bool {
	if c.err == nil {
		return true
	}
	type catchabler interface{ Catchable() bool }
	if ce, ok := c.err.(catchabler); ok {
		return ce.Catchable()
	}
	return true
}
