package evaluator

import "strings"

// stringMethods implements the String.prototype subset the minimal
// global surface names; `this` is always the receiving String.
var stringMethods = map[string]NativeFunc{
	"slice": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		runes := []rune(string(this.(String)))
		start, end := sliceBounds(args, len(runes))
		return String(string(runes[start:end])), normalCompletion()
	},
	"substring": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		runes := []rune(string(this.(String)))
		n := len(runes)
		start, end := 0, n
		if len(args) > 0 {
			start = clampIndex0(int(ToNumber(args[0])), n)
		}
		if len(args) > 1 {
			end = clampIndex0(int(ToNumber(args[1])), n)
		}
		if start > end {
			start, end = end, start
		}
		return String(string(runes[start:end])), normalCompletion()
	},
	"toUpperCase": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		return String(strings.ToUpper(string(this.(String)))), normalCompletion()
	},
	"toLowerCase": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		return String(strings.ToLower(string(this.(String)))), normalCompletion()
	},
	"trim": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		return String(strings.TrimSpace(string(this.(String)))), normalCompletion()
	},
	"split": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		s := string(this.(String))
		if len(args) == 0 {
			return &Array{Elements: []Value{String(s)}}, normalCompletion()
		}
		sep := ToStringValue(args[0])
		var parts []string
		if sep == "" {
			for _, r := range s {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(s, sep)
		}
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = String(p)
		}
		return &Array{Elements: out}, normalCompletion()
	},
	"includes": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		if len(args) == 0 {
			return Bool(false), normalCompletion()
		}
		return Bool(strings.Contains(string(this.(String)), ToStringValue(args[0]))), normalCompletion()
	},
	"indexOf": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		if len(args) == 0 {
			return Number(-1), normalCompletion()
		}
		return Number(float64(strings.Index(string(this.(String)), ToStringValue(args[0])))), normalCompletion()
	},
	"startsWith": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		if len(args) == 0 {
			return Bool(false), normalCompletion()
		}
		return Bool(strings.HasPrefix(string(this.(String)), ToStringValue(args[0]))), normalCompletion()
	},
	"endsWith": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		if len(args) == 0 {
			return Bool(false), normalCompletion()
		}
		return Bool(strings.HasSuffix(string(this.(String)), ToStringValue(args[0]))), normalCompletion()
	},
	"replace": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		if len(args) < 2 {
			return this, normalCompletion()
		}
		return String(strings.Replace(string(this.(String)), ToStringValue(args[0]), ToStringValue(args[1]), 1)), normalCompletion()
	},
	"replaceAll": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		if len(args) < 2 {
			return this, normalCompletion()
		}
		return String(strings.ReplaceAll(string(this.(String)), ToStringValue(args[0]), ToStringValue(args[1]))), normalCompletion()
	},
	"repeat": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		n := 0
		if len(args) > 0 {
			n = int(ToNumber(args[0]))
		}
		if n < 0 {
			return Undef, ev.throwRuntime("Invalid count value: %d", n)
		}
		return String(strings.Repeat(string(this.(String)), n)), normalCompletion()
	},
	"charAt": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		runes := []rune(string(this.(String)))
		i := 0
		if len(args) > 0 {
			i = int(ToNumber(args[0]))
		}
		if i < 0 || i >= len(runes) {
			return String(""), normalCompletion()
		}
		return String(string(runes[i])), normalCompletion()
	},
	"concat": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		s := string(this.(String))
		for _, a := range args {
			s += ToStringValue(a)
		}
		return String(s), normalCompletion()
	},
	"padStart": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		return padString(this.(String), args, true), normalCompletion()
	},
	"padEnd": func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion) {
		return padString(this.(String), args, false), normalCompletion()
	},
}

func clampIndex0(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func padString(s String, args []Value, start bool) Value {
	if len(args) == 0 {
		return s
	}
	target := int(ToNumber(args[0]))
	pad := " "
	if len(args) > 1 {
		pad = ToStringValue(args[1])
	}
	runes := []rune(string(s))
	if len(runes) >= target || pad == "" {
		return s
	}
	need := target - len(runes)
	padRunes := []rune(strings.Repeat(pad, need/len([]rune(pad))+1))[:need]
	if start {
		return String(string(padRunes) + string(s))
	}
	return String(string(s) + string(padRunes))
}
