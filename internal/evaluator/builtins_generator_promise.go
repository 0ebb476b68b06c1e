package evaluator

// generatorMethods exposes the iterator protocol on a *Generator
// receiver (spec §4.7 generator resumption).
var generatorMethods = map[string]NativeFunc{
	"next": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		var v Value = Undef
		if len(args) > 0 {
			v = args[0]
		}
		res, c := this.(*Generator).Next(v)
		if c.isAbrupt() {
			return Undef, c
		}
		return res, normalCompletion()
	},
	"return": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		var v Value = Undef
		if len(args) > 0 {
			v = args[0]
		}
		res, c := this.(*Generator).Return(v)
		if c.isAbrupt() {
			return Undef, c
		}
		return res, normalCompletion()
	},
	"throw": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		var v Value = Undef
		if len(args) > 0 {
			v = args[0]
		}
		res, c := this.(*Generator).Throw(v)
		if c.isAbrupt() {
			return Undef, c
		}
		return res, normalCompletion()
	},
}

// promiseMethods exposes then/catch/finally on a *Promise receiver
// (spec §4 "fully specified Promise surface"). Like arrayMethods it is
// filled in init, from promiseMethodTable, to avoid an initialization cycle.
var promiseMethods map[string]NativeFunc

func init() { promiseMethods = promiseMethodTable }

var promiseMethodTable = map[string]NativeFunc{
	"then": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		var onF, onR Value = Undef, Undef
		if len(args) > 0 {
			onF = args[0]
		}
		if len(args) > 1 {
			onR = args[1]
		}
		return ev.promiseThen(env, this.(*Promise), onF, onR), normalCompletion()
	},
	"catch": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		var onR Value = Undef
		if len(args) > 0 {
			onR = args[0]
		}
		return ev.promiseThen(env, this.(*Promise), Undef, onR), normalCompletion()
	},
	"finally": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		p := this.(*Promise)
		if len(args) == 0 || !isCallableValue(args[0]) {
			return p, normalCompletion()
		}
		cb := args[0]
		out := NewPromise()
		p.onSettle(func() {
			_, c := ev.callValue(env, cb, Undef, nil)
			if c.isAbrupt() {
				out.reject(completionThrownValue(c))
				return
			}
			if p.status == promiseFulfilled {
				out.resolve(p.value)
			} else {
				out.reject(p.reason)
			}
		})
		return out, normalCompletion()
	},
}
