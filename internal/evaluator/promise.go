package evaluator

// Promise implements the minimal pending/fulfilled/rejected state machine
// spec §4 calls for (Promise.all/race/allSettled/any, plus then/catch/
// finally), settled synchronously since sandbox code never observes real
// host I/O latency (every host call is synchronous, spec §4.5) — only
// control-flow suspension at `await`, not true concurrency.
func NewPromise() *Promise {
	return &Promise{status: promisePending}
}

func ResolvedPromise(v Value) *Promise {
	if p, ok := v.(*Promise); ok {
		return p
	}
	p := NewPromise()
	p.resolve(v)
	return p
}

func RejectedPromise(reason Value) *Promise {
	p := NewPromise()
	p.reject(reason)
	return p
}

func (p *Promise) resolve(v Value) {
	if p.status != promisePending {
		return
	}
	if inner, ok := v.(*Promise); ok {
		inner.onSettle(func() {
			if inner.status == promiseFulfilled {
				p.resolve(inner.value)
			} else {
				p.reject(inner.reason)
			}
		})
		return
	}
	p.status = promiseFulfilled
	p.value = v
	p.fire()
}

func (p *Promise) reject(reason Value) {
	if p.status != promisePending {
		return
	}
	p.status = promiseRejected
	p.reason = reason
	p.fire()
}

func (p *Promise) fire() {
	cbs := p.onDone
	p.onDone = nil
	for _, cb := range cbs {
		cb()
	}
}

// onSettle registers cb to run immediately if already settled, or once
// resolve/reject fires otherwise. Since this evaluator settles promises
// synchronously at the point of resolution (no separate microtask tick),
// cb runs inline rather than being queued.
func (p *Promise) onSettle(cb func()) {
	if p.status != promisePending {
		cb()
		return
	}
	p.onDone = append(p.onDone, cb)
}

// promiseThen implements `.then(onFulfilled, onRejected)`, returning a new
// Promise chained to the handler's return value (or to the original
// reason/value when the corresponding handler is absent).
func (ev *Evaluator) promiseThen(env *Environment, p *Promise, onFulfilled, onRejected Value) *Promise {
	out := NewPromise()
	run := func() {
		if p.status == promiseFulfilled {
			if isCallableValue(onFulfilled) {
				v, c := ev.callValue(env, onFulfilled, Undef, []Value{p.value})
				if c.isAbrupt() {
					out.reject(completionThrownValue(c))
					return
				}
				out.resolve(v)
				return
			}
			out.resolve(p.value)
			return
		}
		if isCallableValue(onRejected) {
			v, c := ev.callValue(env, onRejected, Undef, []Value{p.reason})
			if c.isAbrupt() {
				out.reject(completionThrownValue(c))
				return
			}
			out.resolve(v)
			return
		}
		out.reject(p.reason)
	}
	p.onSettle(run)
	return out
}

func isCallableValue(v Value) bool {
	switch v.(type) {
	case *Closure, *BoundMethod, *NativeFunction, *HostValue:
		return true
	default:
		return false
	}
}

func completionThrownValue(c completion) Value {
	if c.value != nil {
		return c.value
	}
	if c.err != nil {
		return NewErrorObject("Error", c.err.Error())
	}
	return Undef
}

// PromiseAll implements Promise.all: fulfills with an array of all
// results once every input settles, or rejects with the first rejection.
func PromiseAll(items []*Promise) *Promise {
	out := NewPromise()
	if len(items) == 0 {
		out.resolve(&Array{})
		return out
	}
	results := make([]Value, len(items))
	remaining := len(items)
	for i, p := range items {
		i := i
		p.onSettle(func() {
			if out.status != promisePending {
				return
			}
			if p.status == promiseRejected {
				out.reject(p.reason)
				return
			}
			results[i] = p.value
			remaining--
			if remaining == 0 {
				out.resolve(&Array{Elements: results})
			}
		})
	}
	return out
}

// PromiseAllSettled fulfills with one {status, value|reason} object per
// input, never rejecting itself.
func PromiseAllSettled(items []*Promise) *Promise {
	out := NewPromise()
	if len(items) == 0 {
		out.resolve(&Array{})
		return out
	}
	results := make([]Value, len(items))
	remaining := len(items)
	for i, p := range items {
		i := i
		p.onSettle(func() {
			o := NewObject()
			if p.status == promiseFulfilled {
				o.Set("status", String("fulfilled"))
				o.Set("value", p.value)
			} else {
				o.Set("status", String("rejected"))
				o.Set("reason", p.reason)
			}
			results[i] = o
			remaining--
			if remaining == 0 {
				out.resolve(&Array{Elements: results})
			}
		})
	}
	return out
}

// PromiseRace settles with whichever input settles first.
func PromiseRace(items []*Promise) *Promise {
	out := NewPromise()
	for _, p := range items {
		p.onSettle(func() {
			if out.status != promisePending {
				return
			}
			if p.status == promiseFulfilled {
				out.resolve(p.value)
			} else {
				out.reject(p.reason)
			}
		})
	}
	return out
}

// PromiseAny fulfills with the first fulfillment, or rejects with an
// AggregateError-shaped object once every input has rejected.
func PromiseAny(items []*Promise) *Promise {
	out := NewPromise()
	if len(items) == 0 {
		out.reject(NewErrorObject("AggregateError", "All promises were rejected"))
		return out
	}
	reasons := make([]Value, len(items))
	remaining := len(items)
	for i, p := range items {
		i := i
		p.onSettle(func() {
			if out.status != promisePending {
				return
			}
			if p.status == promiseFulfilled {
				out.resolve(p.value)
				return
			}
			reasons[i] = p.reason
			remaining--
			if remaining == 0 {
				agg := NewErrorObject("AggregateError", "All promises were rejected")
				agg.Set("errors", &Array{Elements: reasons})
				out.reject(agg)
			}
		})
	}
	return out
}
