package evaluator

import "github.com/samlaycock/nookjs/internal/ast"

// asyncState is unused by the current synchronous await strategy but
// kept as the extension point a future real-I/O host integration would
// need: a per-call suspension channel pair mirroring genState, wired in
// the same way once a host-driven event loop exists to resume it.
type asyncState struct{}

// startAsync runs an async function's body to completion and wraps the
// outcome in a Promise (spec §4.7, §4 "fully specified Promise
// surface"). Unlike generators, async bodies need no goroutine-based
// suspension here: every host call the sandbox can make is synchronous
// (spec §4.5), so there is never another task to interleave with at an
// `await` — the only await points.
func (ev *Evaluator) startAsync(fn *Closure, this Value, args []Value) (Value, completion) {
	if ev.Run != nil {
		if err := ev.Run.EnterCall(); err != nil {
			return Undef, abortCompletion(err)
		}
		defer ev.Run.ExitCall()
	}
	frame := NewFunctionEnvironment(fn.Env)
	if !fn.IsArrow {
		frame.BindThis(this)
		argsArr := &Array{Elements: append([]Value{}, args...)}
		frame.Declare("arguments", bindVar, argsArr)
	}
	if c := ev.bindParams(frame, fn.Params, fn.Rest, args); c.isAbrupt() {
		return RejectedPromise(completionThrownValue(c)), normalCompletion()
	}
	var result completion
	switch body := fn.Body.(type) {
	case *ast.BlockStatement:
		result = ev.evalStatement(frame, body)
	case ast.Expression:
		v, c := ev.evalExpr(frame, body)
		if c.isAbrupt() {
			result = c
		} else {
			result = returnCompletion(v)
		}
	default:
		return RejectedPromise(Undef), normalCompletion()
	}
	switch result.kind {
	case cReturn:
		return ResolvedPromise(result.value), normalCompletion()
	case cNormal:
		return ResolvedPromise(Undef), normalCompletion()
	default:
		if result.kind == cAbort {
			// resource aborts still unwind the host call, not just the
			// promise: the sandbox never gets a chance to .catch these.
			return Undef, result
		}
		return RejectedPromise(completionThrownValue(result)), normalCompletion()
	}
}

// evalAwait unwraps a Promise synchronously: every promise in this
// evaluator settles the instant its resolve/reject is called (no
// microtask queue delay, spec §4 design note), so by the time control
// reaches `await` the operand is either already settled or it never
// will be — the latter is a sandbox-authored deadlock (e.g. awaiting a
// manually constructed Promise that nothing ever resolves), surfaced as
// a catchable runtime error rather than hanging the host process.
func (ev *Evaluator) evalAwait(env *Environment, a *ast.AwaitExpression) (Value, completion) {
	v, c := ev.evalExpr(env, a.Argument)
	if c.isAbrupt() {
		return Undef, c
	}
	p := ResolvedPromise(v)
	switch p.status {
	case promiseFulfilled:
		return p.value, normalCompletion()
	case promiseRejected:
		return Undef, throwCompletion(p.reason, nil)
	default:
		return Undef, ev.throwRuntime("await on a promise that never settles")
	}
}
