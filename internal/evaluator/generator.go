package evaluator

import "github.com/samlaycock/nookjs/internal/ast"

// genState drives a generator body on its own goroutine, handing control
// back and forth with the caller strictly one side at a time: the
// goroutine blocks on resumeCh until told to proceed, and the caller
// blocks on yieldCh until the goroutine yields or finishes. This is the
// cooperative-suspension mechanism chosen for generators (C9) in place of
// a hand-rolled CPS rewrite, since goroutines are the idiomatic Go
// primitive for exactly this handoff. Async functions (C10) do not use it:
// they run synchronously (async.go).
type genState struct {
	resumeCh chan genResume
	yieldCh  chan genYield
	done     bool
}

type resumeKind int

const (
	resumeNext resumeKind = iota
	resumeThrow
	resumeReturn
)

type genResume struct {
	kind  resumeKind
	value Value
}

type genYield struct {
	done    bool
	value   Value
	aborted completion // non-normal only when the body ended via throw/abort
}

// genSignal is a sentinel panic value used to unwind a generator body
// when .return()/.throw() is delivered while the body sits at a yield
// point; it is recovered at the top of the driving goroutine only.
type genSignal struct {
	kind  resumeKind
	value Value
}

func (ev *Evaluator) startGenerator(fn *Closure, this Value, args []Value) *Generator {
	st := &genState{
		resumeCh: make(chan genResume),
		yieldCh:  make(chan genYield),
	}
	go func() {
		first := <-st.resumeCh
		if first.kind != resumeNext {
			st.yieldCh <- genYield{done: true, value: Undef}
			return
		}
		frame := NewFunctionEnvironment(fn.Env)
		if !fn.IsArrow {
			frame.BindThis(this)
		}
		genEv := &Evaluator{Gate: ev.Gate, Run: ev.Run, resolveModule: ev.resolveModule}
		genEv.curGen = st
		if c := genEv.bindParams(frame, fn.Params, fn.Rest, args); c.isAbrupt() {
			st.yieldCh <- genYield{done: true, value: completionThrownValue(c), aborted: c}
			return
		}
		var result completion
		func() {
			defer func() {
				if r := recover(); r != nil {
					if sig, ok := r.(genSignal); ok {
						if sig.kind == resumeReturn {
							result = returnCompletion(sig.value)
							return
						}
						result = throwCompletion(sig.value, nil)
						return
					}
					panic(r)
				}
			}()
			body, ok := fn.Body.(*ast.BlockStatement)
			if !ok {
				result = throwCompletion(Undef, nil)
				return
			}
			result = genEv.evalStatement(frame, body)
		}()
		switch result.kind {
		case cReturn, cNormal:
			v := Undef
			if result.kind == cReturn {
				v = result.value
			}
			st.yieldCh <- genYield{done: true, value: v}
		default:
			st.yieldCh <- genYield{done: true, value: completionThrownValue(result), aborted: result}
		}
	}()
	return &Generator{state: st}
}

// evalYield suspends the current generator's goroutine at a `yield`
// expression, handing the produced value to the caller and blocking
// until resumed.
func (ev *Evaluator) evalYield(env *Environment, y *ast.YieldExpression) (Value, completion) {
	if ev.curGen == nil {
		return Undef, ev.throwRuntime("'yield' is only valid inside a generator function")
	}
	var v Value = Undef
	if y.Argument != nil {
		av, c := ev.evalExpr(env, y.Argument)
		if c.isAbrupt() {
			return Undef, c
		}
		v = av
	}
	if y.Delegate {
		return ev.evalYieldDelegate(env, v)
	}
	return ev.suspendYield(v)
}

func (ev *Evaluator) suspendYield(v Value) (Value, completion) {
	st := ev.curGen
	st.yieldCh <- genYield{done: false, value: v}
	r := <-st.resumeCh
	switch r.kind {
	case resumeNext:
		return r.value, normalCompletion()
	case resumeReturn:
		panic(genSignal{kind: resumeReturn, value: r.value})
	case resumeThrow:
		panic(genSignal{kind: resumeThrow, value: r.value})
	default:
		return Undef, normalCompletion()
	}
}

func (ev *Evaluator) evalYieldDelegate(env *Environment, iterable Value) (Value, completion) {
	items, c := ev.iterableToSlice(env, iterable)
	if c.isAbrupt() {
		return Undef, c
	}
	var last Value = Undef
	for _, item := range items {
		v, c := ev.suspendYield(item)
		if c.isAbrupt() {
			return Undef, c
		}
		last = v
	}
	return last, normalCompletion()
}

// Next resumes the generator with v as the result of the suspended yield
// expression (ignored on the very first call), returning the iterator
// result {value, done} and a completion carrying any uncaught error the
// body raised.
func (g *Generator) Next(v Value) (*Object, completion) {
	return g.resume(genResume{kind: resumeNext, value: v})
}

func (g *Generator) Return(v Value) (*Object, completion) {
	return g.resume(genResume{kind: resumeReturn, value: v})
}

func (g *Generator) Throw(v Value) (*Object, completion) {
	return g.resume(genResume{kind: resumeThrow, value: v})
}

func (g *Generator) resume(r genResume) (*Object, completion) {
	st := g.state
	if st.done {
		o := NewObject()
		o.Set("value", Undef)
		o.Set("done", Bool(true))
		return o, normalCompletion()
	}
	st.resumeCh <- r
	y := <-st.yieldCh
	if y.done {
		st.done = true
	}
	if y.aborted.isAbrupt() {
		return nil, y.aborted
	}
	o := NewObject()
	o.Set("value", y.value)
	o.Set("done", Bool(y.done))
	return o, normalCompletion()
}

// drainGenerator fully consumes a generator via repeated Next(undefined)
// calls, used by spread/destructuring/for-of over a generator value.
func (ev *Evaluator) drainGenerator(g *Generator) ([]Value, completion) {
	var out []Value
	for {
		res, c := g.Next(Undef)
		if c.isAbrupt() {
			return nil, c
		}
		done, _ := res.Get("done")
		if Truthy(done) {
			return out, normalCompletion()
		}
		v, _ := res.Get("value")
		out = append(out, v)
	}
}
