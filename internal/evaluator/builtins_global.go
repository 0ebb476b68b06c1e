package evaluator

import (
	"encoding/json"
	"math"
	"sort"
)

// PopulateStandardGlobals declares the minimal standard global surface
// spec §4 names: print, Object.keys/values/entries, Array.isArray,
// JSON.stringify/parse, Math.*, and the Promise constructor with its
// all/race/allSettled/any statics. Called once per fresh global
// environment, before any sandbox-supplied globals are merged in (spec
// §6 "constructor options: globals").
func PopulateStandardGlobals(env *Environment, print func(string)) {
	env.Declare("print", bindConst, &NativeFunction{Name: "print", Fn: func(ev *Evaluator, e *Environment, this Value, args []Value) (Value, completion) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = ToStringValue(a)
		}
		out := ""
		for i, p := range parts {
			if i > 0 {
				out += " "
			}
			out += p
		}
		if print != nil {
			print(out)
		}
		return Undef, normalCompletion()
	}})

	env.Declare("Object", bindConst, buildObjectNamespace())
	env.Declare("Array", bindConst, buildArrayNamespace())
	env.Declare("JSON", bindConst, buildJSONNamespace())
	env.Declare("Math", bindConst, buildMathNamespace())
	env.Declare("Promise", bindConst, buildPromiseNamespace())
}

func nativeObject(methods map[string]NativeFunc) *Object {
	o := NewObject()
	for name, fn := range methods {
		o.Set(name, &NativeFunction{Name: name, Fn: fn})
	}
	return o
}

func buildObjectNamespace() *Object {
	return nativeObject(map[string]NativeFunc{
		"keys": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
			if len(args) == 0 {
				return &Array{}, normalCompletion()
			}
			o, ok := args[0].(*Object)
			if !ok {
				return &Array{}, normalCompletion()
			}
			keys := o.Keys()
			out := make([]Value, len(keys))
			for i, k := range keys {
				out[i] = String(k)
			}
			return &Array{Elements: out}, normalCompletion()
		},
		"values": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
			if len(args) == 0 {
				return &Array{}, normalCompletion()
			}
			o, ok := args[0].(*Object)
			if !ok {
				return &Array{}, normalCompletion()
			}
			var out []Value
			for _, k := range o.Keys() {
				v, _ := o.Get(k)
				out = append(out, v)
			}
			return &Array{Elements: out}, normalCompletion()
		},
		"entries": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
			if len(args) == 0 {
				return &Array{}, normalCompletion()
			}
			o, ok := args[0].(*Object)
			if !ok {
				return &Array{}, normalCompletion()
			}
			var out []Value
			for _, k := range o.Keys() {
				v, _ := o.Get(k)
				out = append(out, &Array{Elements: []Value{String(k), v}})
			}
			return &Array{Elements: out}, normalCompletion()
		},
		"assign": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
			if len(args) == 0 {
				return NewObject(), normalCompletion()
			}
			target, ok := args[0].(*Object)
			if !ok {
				return Undef, ev.throwRuntime("Object.assign target must be an object")
			}
			for _, src := range args[1:] {
				if o, ok := src.(*Object); ok {
					for _, k := range o.Keys() {
						v, _ := o.Get(k)
						target.Set(k, v)
					}
				}
			}
			return target, normalCompletion()
		},
		"freeze": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
			if len(args) == 0 {
				return Undef, normalCompletion()
			}
			return args[0], normalCompletion()
		},
	})
}

func buildArrayNamespace() *Object {
	o := nativeObject(map[string]NativeFunc{
		"isArray": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
			if len(args) == 0 {
				return Bool(false), normalCompletion()
			}
			_, ok := args[0].(*Array)
			return Bool(ok), normalCompletion()
		},
		"from": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
			if len(args) == 0 {
				return &Array{}, normalCompletion()
			}
			items, c := ev.iterableToSlice(env, args[0])
			if c.isAbrupt() {
				return Undef, c
			}
			if len(args) > 1 && isCallableValue(args[1]) {
				out := make([]Value, len(items))
				for i, item := range items {
					v, c := ev.callValue(env, args[1], Undef, []Value{item, Number(float64(i))})
					if c.isAbrupt() {
						return Undef, c
					}
					out[i] = v
				}
				return &Array{Elements: out}, normalCompletion()
			}
			return &Array{Elements: items}, normalCompletion()
		},
		"of": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
			return &Array{Elements: append([]Value{}, args...)}, normalCompletion()
		},
	})
	return o
}

func buildMathNamespace() *Object {
	o := nativeObject(map[string]NativeFunc{
		"abs":   unaryMath(math.Abs),
		"floor": unaryMath(math.Floor),
		"ceil":  unaryMath(math.Ceil),
		"round": unaryMath(math.Round),
		"trunc": unaryMath(math.Trunc),
		"sqrt":  unaryMath(math.Sqrt),
		"cbrt":  unaryMath(math.Cbrt),
		"sign": unaryMath(func(x float64) float64 {
			switch {
			case x > 0:
				return 1
			case x < 0:
				return -1
			default:
				return x
			}
		}),
		"log":  unaryMath(math.Log),
		"log2": unaryMath(math.Log2),
		"log10": unaryMath(math.Log10),
		"exp":  unaryMath(math.Exp),
		"sin":  unaryMath(math.Sin),
		"cos":  unaryMath(math.Cos),
		"tan":  unaryMath(math.Tan),
		"pow": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
			if len(args) < 2 {
				return Number(math.NaN()), normalCompletion()
			}
			return Number(math.Pow(ToNumber(args[0]), ToNumber(args[1]))), normalCompletion()
		},
		"max": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
			if len(args) == 0 {
				return Number(math.Inf(-1)), normalCompletion()
			}
			m := math.Inf(-1)
			for _, a := range args {
				if n := ToNumber(a); n > m {
					m = n
				}
			}
			return Number(m), normalCompletion()
		},
		"min": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
			if len(args) == 0 {
				return Number(math.Inf(1)), normalCompletion()
			}
			m := math.Inf(1)
			for _, a := range args {
				if n := ToNumber(a); n < m {
					m = n
				}
			}
			return Number(m), normalCompletion()
		},
		"random": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
			// cryptographic randomness is a spec non-goal: a plain
			// pseudo-random sequence is sufficient here.
			return Number(pseudoRandom()), normalCompletion()
		},
	})
	o.Set("PI", Number(math.Pi))
	o.Set("E", Number(math.E))
	return o
}

func unaryMath(f func(float64) float64) NativeFunc {
	return func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		if len(args) == 0 {
			return Number(math.NaN()), normalCompletion()
		}
		return Number(f(ToNumber(args[0]))), normalCompletion()
	}
}

var randState uint64 = 0x2545F4914F6CDD1D

// pseudoRandom is a small xorshift generator: Math.random() needs no
// cryptographic strength (spec non-goal). randState starts from a fixed
// seed and is shared by every evaluator in the process, so a fresh
// process always produces the same sequence.
func pseudoRandom() float64 {
	randState ^= randState << 13
	randState ^= randState >> 7
	randState ^= randState << 17
	return float64(randState%1_000_000_000) / 1_000_000_000
}

func buildJSONNamespace() *Object {
	return nativeObject(map[string]NativeFunc{
		"stringify": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
			if len(args) == 0 {
				return Undef, normalCompletion()
			}
			indent := ""
			if len(args) > 2 {
				if n, ok := args[2].(Number); ok {
					for i := 0; i < int(n); i++ {
						indent += " "
					}
				} else if s, ok := args[2].(String); ok {
					indent = string(s)
				}
			}
			generic := toJSONGeneric(args[0])
			var b []byte
			var err error
			if indent != "" {
				b, err = json.MarshalIndent(generic, "", indent)
			} else {
				b, err = json.Marshal(generic)
			}
			if err != nil {
				return Undef, ev.throwRuntime("JSON.stringify failed: %s", err.Error())
			}
			return String(string(b)), normalCompletion()
		},
		"parse": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
			if len(args) == 0 {
				return Undef, ev.throwRuntime("Unexpected end of JSON input")
			}
			var generic interface{}
			if err := json.Unmarshal([]byte(ToStringValue(args[0])), &generic); err != nil {
				return Undef, ev.throwRuntime("%s", err.Error())
			}
			return fromJSONGeneric(generic), normalCompletion()
		},
	})
}

func toJSONGeneric(v Value) interface{} {
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
	case *Array:
		out := make([]interface{}, len(x.Elements))
		for i, e := range x.Elements {
			out[i] = toJSONGeneric(e)
		}
		return out
	case *Object:
		m := make(map[string]interface{})
		keys := x.Keys()
		sort.Strings(keys)
		for _, k := range keys {
			val, _ := x.Get(k)
			m[k] = toJSONGeneric(val)
		}
		return m
	default:
		return nil
	}
}

func fromJSONGeneric(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Nul
	case bool:
		return Bool(x)
	case float64:
		return Number(x)
	case string:
		return String(x)
	case []interface{}:
		out := make([]Value, len(x))
		for i, e := range x {
			out[i] = fromJSONGeneric(e)
		}
		return &Array{Elements: out}
	case map[string]interface{}:
		o := NewObject()
		for k, val := range x {
			o.Set(k, fromJSONGeneric(val))
		}
		return o
	default:
		return Undef
	}
}

func buildPromiseNamespace() *Object {
	o := nativeObject(map[string]NativeFunc{
		"resolve": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
			if len(args) == 0 {
				return ResolvedPromise(Undef), normalCompletion()
			}
			return ResolvedPromise(args[0]), normalCompletion()
		},
		"reject": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
			if len(args) == 0 {
				return RejectedPromise(Undef), normalCompletion()
			}
			return RejectedPromise(args[0]), normalCompletion()
		},
		"all":        promiseCombinator(PromiseAll),
		"allSettled": promiseCombinator(PromiseAllSettled),
		"race":       promiseCombinator(PromiseRace),
		"any":        promiseCombinator(PromiseAny),
	})
	o.Set("__isPromiseConstructor__", Bool(true))
	return o
}

func promiseCombinator(f func([]*Promise) *Promise) NativeFunc {
	return func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		if len(args) == 0 {
			return f(nil), normalCompletion()
		}
		items, c := ev.iterableToSlice(env, args[0])
		if c.isAbrupt() {
			return Undef, c
		}
		promises := make([]*Promise, len(items))
		for i, it := range items {
			promises[i] = ResolvedPromise(it)
		}
		return f(promises), normalCompletion()
	}
}
