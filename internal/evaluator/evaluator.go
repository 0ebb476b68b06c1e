package evaluator

import (
	"fmt"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/feature"
	"github.com/samlaycock/nookjs/internal/ifaceerr"
	"github.com/samlaycock/nookjs/internal/resource"
)

// Evaluator drives one evaluation call over a parsed Program (spec §4.7,
// C9). It is not safe for concurrent use by itself; pkg/sandbox creates
// one per Eval call and serializes calls into it the way go-dws's
// interpreter serializes script execution.
type Evaluator struct {
	Gate *feature.Gate
	Run  *resource.Run

	// resolveModule is set by internal/module when evaluating inside a
	// linked module graph; nil in plain script mode, where import/export
	// statements fail with a Feature error regardless of the gate.
	resolveModule func(specifier string) (*Object, error)

	// ctorFieldInit tracks the (class, instance) pair of each constructor
	// currently executing, innermost last, so a nested `super(...)` call
	// knows which superclass chain and field set to run (classes.go).
	ctorFieldInit []ctorFrame

	// curGen is set on the per-goroutine Evaluator a generator body runs
	// under, so `yield` knows which channel pair to suspend on
	// (generator.go). nil outside a generator body.
	curGen *genState

	// curAsync is not set anywhere: async function bodies run to completion
	// on the calling evaluator (async.go) without per-body state here.
	curAsync *asyncState

	// exports accumulates this evaluator's module export table as export
	// statements are reached (modules.go); nil until the first export,
	// read by internal/module once the module body finishes.
	exports *Object
}

// New creates an Evaluator. gate and run may be nil, in which case every
// feature is allowed and no resource limits are enforced (unbounded
// script-mode evaluation).
func New(gate *feature.Gate, run *resource.Run) *Evaluator {
	return &Evaluator{Gate: gate, Run: run}
}

// SetModuleResolver wires an ES-module-style resolver into the
// evaluator, enabling import/export statement evaluation.
func (ev *Evaluator) SetModuleResolver(f func(specifier string) (*Object, error)) {
	ev.resolveModule = f
}

// Run the evaluator against the program's top-level statements in env,
// returning the completion value of the final expression statement (or
// Undefined), and a RuntimeError if evaluation ended abruptly without
// being caught (spec §4.9, §7).
func (ev *Evaluator) EvalProgram(prog *ast.Program, env *Environment) (Value, *ifaceerr.RuntimeError) {
	ev.hoistFunctions(env, prog.Body)
	var last Value = Undef
	for _, stmt := range prog.Body {
		if es, ok := stmt.(*ast.ExpressionStatement); ok {
			v, c := ev.evalExpr(env, es.Expression)
			if c.isAbrupt() {
				return Undef, completionToRuntimeError(c)
			}
			last = v
			continue
		}
		c := ev.evalStatement(env, stmt)
		if c.isAbrupt() {
			return Undef, completionToRuntimeError(c)
		}
	}
	return last, nil
}

func completionToRuntimeError(c completion) *ifaceerr.RuntimeError {
	if re, ok := c.err.(*ifaceerr.RuntimeError); ok {
		return re
	}
	msg := "uncaught exception"
	if c.value != nil {
		msg = ToStringValue(c.value)
	}
	return &ifaceerr.RuntimeError{Kind: ifaceerr.Runtime, Message: msg, Thrown: c.value}
}

// checkGate enforces the feature gate for node n, returning an abrupt,
// non-catchable completion if any required token is disallowed.
func (ev *Evaluator) checkGate(n ast.Node) completion {
	if ev.Gate == nil {
		return normalCompletion()
	}
	for _, t := range feature.TokensFor(n) {
		if !ev.Gate.Allows(t) {
			return throwCompletion(Undef, ifaceerr.NewFeature(string(t)))
		}
	}
	return normalCompletion()
}

// checkAbort polls the resource tracker at statement boundaries (spec
// §4.6).
func (ev *Evaluator) checkAbort() completion {
	if ev.Run == nil {
		return normalCompletion()
	}
	if err := ev.Run.CheckAbort(); err != nil {
		return abortCompletion(err)
	}
	return normalCompletion()
}

// throwRuntime builds a catchable Runtime-kind throw completion carrying
// a sandbox Error-shaped object as its value (spec §4.9).
func (ev *Evaluator) throwRuntime(format string, args ...interface{}) completion {
	msg := fmt.Sprintf(format, args...)
	errObj := NewErrorObject("Error", msg)
	return completion{kind: cThrow, value: errObj, err: &ifaceerr.RuntimeError{Kind: ifaceerr.Runtime, Message: msg}}
}

// rejectCompletion wraps a host-rejection error (from hostproxy or the
// resource tracker) as a throw completion carrying err. A catchable
// (Runtime-kind) error also carries an Error object sandbox code can
// catch; Security, Resource and Feature kinds carry no thrown value and
// are not catchable (spec §7).
func rejectCompletion(err *ifaceerr.RuntimeError) completion {
	if err.Catchable() {
		return completion{kind: cThrow, value: NewErrorObject("Error", err.Message), err: err}
	}
	return completion{kind: cThrow, value: Undef, err: err}
}

// NewErrorObject builds the minimal Error-shaped object sandbox code
// sees when it catches a runtime-thrown failure: {name, message, stack}.
func NewErrorObject(name, message string) *Object {
	o := NewObject()
	o.Set("name", String(name))
	o.Set("message", String(message))
	o.Set("stack", String(name+": "+message))
	return o
}
