package evaluator

import "sort"

// arrayMethods implements the Array.prototype subset spec §4 names as
// part of the minimal standard global surface. Each entry receives the
// array as `this`; a `this` of the wrong shape is a defect elsewhere in
// the evaluator (property lookup only ever reaches these through an
// *Array receiver) so it is asserted rather than defensively checked.
// It is filled from arrayMethodTable in init, because the table's entries
// reach getProperty, which reads arrayMethods; a direct initializer would
// be an initialization cycle.
var arrayMethods map[string]NativeFunc

func init() { arrayMethods = arrayMethodTable }

var arrayMethodTable = map[string]NativeFunc{
	"push": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		a.Elements = append(a.Elements, args...)
		return Number(float64(len(a.Elements))), normalCompletion()
	},
	"pop": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		if len(a.Elements) == 0 {
			return Undef, normalCompletion()
		}
		last := a.Elements[len(a.Elements)-1]
		a.Elements = a.Elements[:len(a.Elements)-1]
		return last, normalCompletion()
	},
	"shift": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		if len(a.Elements) == 0 {
			return Undef, normalCompletion()
		}
		first := a.Elements[0]
		a.Elements = a.Elements[1:]
		return first, normalCompletion()
	},
	"unshift": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		a.Elements = append(append([]Value{}, args...), a.Elements...)
		return Number(float64(len(a.Elements))), normalCompletion()
	},
	"slice": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		start, end := sliceBounds(args, len(a.Elements))
		out := make([]Value, 0, end-start)
		if end > start {
			out = append(out, a.Elements[start:end]...)
		}
		return &Array{Elements: out}, normalCompletion()
	},
	"splice": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		n := len(a.Elements)
		start := 0
		if len(args) > 0 {
			start = clampIndex(int(ToNumber(args[0])), n)
		}
		deleteCount := n - start
		if len(args) > 1 {
			deleteCount = clampIndex(int(ToNumber(args[1])), n-start)
		}
		removed := append([]Value{}, a.Elements[start:start+deleteCount]...)
		var inserted []Value
		if len(args) > 2 {
			inserted = args[2:]
		}
		rest := append([]Value{}, a.Elements[start+deleteCount:]...)
		a.Elements = append(append(a.Elements[:start], inserted...), rest...)
		return &Array{Elements: removed}, normalCompletion()
	},
	"concat": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		out := append([]Value{}, a.Elements...)
		for _, arg := range args {
			if other, ok := arg.(*Array); ok {
				out = append(out, other.Elements...)
			} else {
				out = append(out, arg)
			}
		}
		return &Array{Elements: out}, normalCompletion()
	},
	"join": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		sep := ","
		if len(args) > 0 {
			if _, ok := args[0].(Undefined); !ok {
				sep = ToStringValue(args[0])
			}
		}
		parts := make([]string, len(a.Elements))
		for i, e := range a.Elements {
			if _, ok := e.(Hole); ok {
				parts[i] = ""
				continue
			}
			if _, ok := e.(Undefined); ok {
				parts[i] = ""
				continue
			}
			if _, ok := e.(Null); ok {
				parts[i] = ""
				continue
			}
			parts[i] = ToStringValue(e)
		}
		out := ""
		for i, p := range parts {
			if i > 0 {
				out += sep
			}
			out += p
		}
		return String(out), normalCompletion()
	},
	"reverse": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		for i, j := 0, len(a.Elements)-1; i < j; i, j = i+1, j-1 {
			a.Elements[i], a.Elements[j] = a.Elements[j], a.Elements[i]
		}
		return a, normalCompletion()
	},
	"indexOf": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		if len(args) == 0 {
			return Number(-1), normalCompletion()
		}
		for i, e := range a.Elements {
			if StrictEquals(e, args[0]) {
				return Number(float64(i)), normalCompletion()
			}
		}
		return Number(-1), normalCompletion()
	},
	"includes": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		if len(args) == 0 {
			return Bool(false), normalCompletion()
		}
		for _, e := range a.Elements {
			if StrictEquals(e, args[0]) {
				return Bool(true), normalCompletion()
			}
		}
		return Bool(false), normalCompletion()
	},
	"map": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		if len(args) == 0 {
			return Undef, ev.throwRuntime("Array.prototype.map requires a callback")
		}
		out := make([]Value, len(a.Elements))
		for i, e := range a.Elements {
			v, c := ev.callValue(env, args[0], Undef, []Value{e, Number(float64(i)), a})
			if c.isAbrupt() {
				return Undef, c
			}
			out[i] = v
		}
		return &Array{Elements: out}, normalCompletion()
	},
	"filter": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		if len(args) == 0 {
			return Undef, ev.throwRuntime("Array.prototype.filter requires a callback")
		}
		var out []Value
		for i, e := range a.Elements {
			v, c := ev.callValue(env, args[0], Undef, []Value{e, Number(float64(i)), a})
			if c.isAbrupt() {
				return Undef, c
			}
			if Truthy(v) {
				out = append(out, e)
			}
		}
		return &Array{Elements: out}, normalCompletion()
	},
	"forEach": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		if len(args) == 0 {
			return Undef, ev.throwRuntime("Array.prototype.forEach requires a callback")
		}
		for i, e := range a.Elements {
			_, c := ev.callValue(env, args[0], Undef, []Value{e, Number(float64(i)), a})
			if c.isAbrupt() {
				return Undef, c
			}
		}
		return Undef, normalCompletion()
	},
	"reduce": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		if len(args) == 0 {
			return Undef, ev.throwRuntime("Array.prototype.reduce requires a callback")
		}
		i := 0
		var acc Value
		if len(args) > 1 {
			acc = args[1]
		} else {
			if len(a.Elements) == 0 {
				return Undef, ev.throwRuntime("Reduce of empty array with no initial value")
			}
			acc = a.Elements[0]
			i = 1
		}
		for ; i < len(a.Elements); i++ {
			v, c := ev.callValue(env, args[0], Undef, []Value{acc, a.Elements[i], Number(float64(i)), a})
			if c.isAbrupt() {
				return Undef, c
			}
			acc = v
		}
		return acc, normalCompletion()
	},
	"find": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		for i, e := range a.Elements {
			v, c := ev.callValue(env, args[0], Undef, []Value{e, Number(float64(i)), a})
			if c.isAbrupt() {
				return Undef, c
			}
			if Truthy(v) {
				return e, normalCompletion()
			}
		}
		return Undef, normalCompletion()
	},
	"findIndex": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		for i, e := range a.Elements {
			v, c := ev.callValue(env, args[0], Undef, []Value{e, Number(float64(i)), a})
			if c.isAbrupt() {
				return Undef, c
			}
			if Truthy(v) {
				return Number(float64(i)), normalCompletion()
			}
		}
		return Number(-1), normalCompletion()
	},
	"some": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		for i, e := range a.Elements {
			v, c := ev.callValue(env, args[0], Undef, []Value{e, Number(float64(i)), a})
			if c.isAbrupt() {
				return Undef, c
			}
			if Truthy(v) {
				return Bool(true), normalCompletion()
			}
		}
		return Bool(false), normalCompletion()
	},
	"every": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		for i, e := range a.Elements {
			v, c := ev.callValue(env, args[0], Undef, []Value{e, Number(float64(i)), a})
			if c.isAbrupt() {
				return Undef, c
			}
			if !Truthy(v) {
				return Bool(false), normalCompletion()
			}
		}
		return Bool(true), normalCompletion()
	},
	"flat": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		depth := 1
		if len(args) > 0 {
			depth = int(ToNumber(args[0]))
		}
		return &Array{Elements: flattenDepth(a.Elements, depth)}, normalCompletion()
	},
	"flatMap": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		var out []Value
		for i, e := range a.Elements {
			v, c := ev.callValue(env, args[0], Undef, []Value{e, Number(float64(i)), a})
			if c.isAbrupt() {
				return Undef, c
			}
			if inner, ok := v.(*Array); ok {
				out = append(out, inner.Elements...)
			} else {
				out = append(out, v)
			}
		}
		return &Array{Elements: out}, normalCompletion()
	},
	"sort": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		a := this.(*Array)
		var sortErr completion
		var cmp func(x, y Value) bool
		if len(args) > 0 && isCallableValue(args[0]) {
			cmp = func(x, y Value) bool {
				v, c := ev.callValue(env, args[0], Undef, []Value{x, y})
				if c.isAbrupt() {
					sortErr = c
					return false
				}
				return ToNumber(v) < 0
			}
		} else {
			cmp = func(x, y Value) bool { return ToStringValue(x) < ToStringValue(y) }
		}
		sort.SliceStable(a.Elements, func(i, j int) bool { return cmp(a.Elements[i], a.Elements[j]) })
		if sortErr.isAbrupt() {
			return Undef, sortErr
		}
		return a, normalCompletion()
	},
}

func sliceBounds(args []Value, length int) (int, int) {
	start, end := 0, length
	if len(args) > 0 {
		start = clampIndex(int(ToNumber(args[0])), length)
	}
	if len(args) > 1 {
		if _, ok := args[1].(Undefined); !ok {
			end = clampIndex(int(ToNumber(args[1])), length)
		}
	}
	if end < start {
		end = start
	}
	return start, end
}

func clampIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

func flattenDepth(elements []Value, depth int) []Value {
	if depth <= 0 {
		return append([]Value{}, elements...)
	}
	var out []Value
	for _, e := range elements {
		if inner, ok := e.(*Array); ok {
			out = append(out, flattenDepth(inner.Elements, depth-1)...)
		} else {
			out = append(out, e)
		}
	}
	return out
}
