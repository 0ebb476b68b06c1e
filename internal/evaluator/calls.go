package evaluator

import (
	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/ifaceerr"
)

// makeClosure builds a Closure value from a function declaration or
// expression, capturing env. home is the class a method was defined on
// (nil for free functions), used later for `super`/private resolution.
func (ev *Evaluator) makeClosure(env *Environment, f *ast.FunctionExpression, home *Class) *Closure {
	name := ""
	if f.ID != nil {
		name = f.ID.Name
	}
	c := &Closure{
		Name:      name,
		Body:      f.Body,
		Env:       env,
		Async:     f.Async,
		Generator: f.Generator,
		HomeClass: home,
	}
	for _, p := range f.Params {
		c.Params = append(c.Params, &ParamBinding{Pattern: p.Pattern, Default: p.Default})
	}
	if f.Rest != nil {
		if id, ok := f.Rest.Argument.(*ast.Identifier); ok {
			c.Rest = id.Name
		}
	}
	return c
}

func (ev *Evaluator) makeArrowClosure(env *Environment, f *ast.ArrowFunctionExpression) *Closure {
	c := &Closure{
		Body:    f.Body,
		Env:     env,
		Async:   f.Async,
		IsArrow: true,
		ThisVal: env.ThisValue(),
	}
	for _, p := range f.Params {
		c.Params = append(c.Params, &ParamBinding{Pattern: p.Pattern, Default: p.Default})
	}
	if f.Rest != nil {
		if id, ok := f.Rest.Argument.(*ast.Identifier); ok {
			c.Rest = id.Name
		}
	}
	return c
}

// evalArguments evaluates a call's argument list, expanding any
// SpreadElement entries in place (spec §4.2).
func (ev *Evaluator) evalArguments(env *Environment, args []ast.Expression) ([]Value, completion) {
	var out []Value
	for _, a := range args {
		if sp, ok := a.(*ast.SpreadElement); ok {
			v, c := ev.evalExpr(env, sp.Argument)
			if c.isAbrupt() {
				return nil, c
			}
			items, c := ev.iterableToSlice(env, v)
			if c.isAbrupt() {
				return nil, c
			}
			out = append(out, items...)
			continue
		}
		v, c := ev.evalExpr(env, a)
		if c.isAbrupt() {
			return nil, c
		}
		out = append(out, v)
	}
	return out, normalCompletion()
}

func (ev *Evaluator) evalCall(env *Environment, call *ast.CallExpression) (Value, completion) {
	if _, ok := call.Callee.(*ast.SuperExpression); ok {
		return ev.evalSuperCall(env, call)
	}
	var fn, thisVal Value
	if m, ok := call.Callee.(*ast.MemberExpression); ok {
		v, recv, c := ev.evalMember(env, m, true)
		if c.isAbrupt() {
			return Undef, c
		}
		fn, thisVal = v, recv
	} else {
		v, c := ev.evalExpr(env, call.Callee)
		if c.isAbrupt() {
			return Undef, c
		}
		fn, thisVal = v, Undef
	}
	if call.Optional {
		if _, isU := fn.(Undefined); isU {
			return Undef, completion{kind: cChainShort}
		}
		if _, isN := fn.(Null); isN {
			return Undef, completion{kind: cChainShort}
		}
	}
	args, c := ev.evalArguments(env, call.Arguments)
	if c.isAbrupt() {
		return Undef, c
	}
	return ev.callValue(env, fn, thisVal, args)
}

// callValue invokes any callable Value, dispatching on its concrete kind
// (spec §4.7: Closure, BoundMethod, NativeFunction, host function, or a
// class used as a value which is a TypeError-equivalent when called
// without `new`).
func (ev *Evaluator) callValue(env *Environment, fn Value, this Value, args []Value) (Value, completion) {
	switch f := fn.(type) {
	case *Closure:
		return ev.invokeClosure(f, this, args, nil)
	case *BoundMethod:
		return ev.invokeClosure(f.Fn, f.Receiver, args, nil)
	case *NativeFunction:
		return f.Fn(ev, env, this, args)
	case *HostValue:
		rawArgs := make([]interface{}, len(args))
		for i, a := range args {
			rawArgs[i] = unwrapForHost(a)
		}
		out, err := f.Proxy.Invoke(rawArgs)
		if err != nil {
			return Undef, rejectCompletion(err.(*ifaceerr.RuntimeError))
		}
		return hostWrapToValue(out), normalCompletion()
	case *Class:
		return Undef, ev.throwRuntime("class constructor %s cannot be invoked without 'new'", f.Name)
	default:
		return Undef, ev.throwRuntime("value is not a function")
	}
}

func unwrapForHost(v Value) interface{} {
	switch x := v.(type) {
	case Undefined:
		return nil
	case Null:
		return nil
	case Bool:
		return bool(x)
	case Number:
		return float64(x)
	case String:
		return string(x)
	case *HostValue:
		return x.Proxy.Value
	default:
		return ToStringValue(v)
	}
}

// invokeClosure runs fn's body to completion against a fresh function
// frame, binding parameters, `this`, and `new.target` (newTarget nil for
// ordinary calls). Generator/async closures are intercepted before a
// plain synchronous call would run their body (handled in generator.go
// and async.go respectively).
func (ev *Evaluator) invokeClosure(fn *Closure, this Value, args []Value, newTarget Value) (Value, completion) {
	if fn.Generator {
		return ev.startGenerator(fn, this, args), normalCompletion()
	}
	if fn.Async {
		return ev.startAsync(fn, this, args)
	}
	if ev.Run != nil {
		if err := ev.Run.EnterCall(); err != nil {
			return Undef, abortCompletion(err)
		}
		defer ev.Run.ExitCall()
	}
	frame := NewFunctionEnvironment(fn.Env)
	if fn.IsArrow {
		// arrow frames never bind `this`/new.target; ThisValue climbs to
		// the captured enclosing frame transparently.
	} else {
		frame.BindThis(this)
		frame.SetNewTarget(newTarget)
		argsArr := &Array{Elements: append([]Value{}, args...)}
		frame.Declare("arguments", bindVar, argsArr)
	}
	if c := ev.bindParams(frame, fn.Params, fn.Rest, args); c.isAbrupt() {
		return Undef, c
	}
	switch body := fn.Body.(type) {
	case *ast.BlockStatement:
		c := ev.evalStatement(frame, body)
		switch c.kind {
		case cReturn:
			return c.value, normalCompletion()
		case cNormal:
			return Undef, normalCompletion()
		default:
			return Undef, c
		}
	case ast.Expression:
		return ev.evalExpr(frame, body)
	default:
		return Undef, ev.throwRuntime("malformed function body")
	}
}

func (ev *Evaluator) bindParams(frame *Environment, params []*ParamBinding, restName string, args []Value) completion {
	for i, p := range params {
		var v Value = Undef
		if i < len(args) {
			v = args[i]
		}
		if _, isUndef := v.(Undefined); isUndef && p.Default != nil {
			dv, c := ev.evalExpr(frame, p.Default.(ast.Expression))
			if c.isAbrupt() {
				return c
			}
			v = dv
		}
		pat, ok := p.Pattern.(ast.Pattern)
		if !ok {
			return ev.throwRuntime("malformed parameter pattern")
		}
		if c := ev.bindPattern(frame, pat, v, bindLet); c.isAbrupt() {
			return c
		}
	}
	if restName != "" {
		rest := &Array{}
		if len(args) > len(params) {
			rest.Elements = append(rest.Elements, args[len(params):]...)
		}
		frame.Declare(restName, bindLet, rest)
	}
	return normalCompletion()
}

func (ev *Evaluator) evalNew(env *Environment, n *ast.NewExpression) (Value, completion) {
	calleeV, c := ev.evalExpr(env, n.Callee)
	if c.isAbrupt() {
		return Undef, c
	}
	class, ok := calleeV.(*Class)
	if !ok {
		return Undef, ev.throwRuntime("value is not a constructor")
	}
	args, c := ev.evalArguments(env, n.Arguments)
	if c.isAbrupt() {
		return Undef, c
	}
	return ev.construct(env, class, args)
}
