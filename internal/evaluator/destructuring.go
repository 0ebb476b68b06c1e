package evaluator

import (
	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/ifaceerr"
)

// bindPattern recursively destructures value into pat, declaring each
// leaf binding in env at the given kind (spec §4.2 "Destructuring",
// §4.3). Used for variable declarators, function parameters, and catch
// clause parameters.
func (ev *Evaluator) bindPattern(env *Environment, pat ast.Pattern, value Value, kind bindingKind) completion {
	switch p := pat.(type) {
	case *ast.Identifier:
		if err := env.Declare(p.Name, kind, value); err != nil {
			return rejectCompletion(err.(*ifaceerr.RuntimeError))
		}
		return normalCompletion()
	case *ast.AssignmentPattern:
		v := value
		if _, isUndef := v.(Undefined); isUndef || v == nil {
			dv, c := ev.evalExpr(env, p.Right)
			if c.isAbrupt() {
				return c
			}
			v = dv
		}
		return ev.bindPattern(env, p.Left, v, kind)
	case *ast.ArrayPattern:
		return ev.bindArrayPattern(env, p, value, kind)
	case *ast.ObjectPattern:
		return ev.bindObjectPattern(env, p, value, kind)
	case *ast.RestElement:
		return ev.bindPattern(env, p.Argument, value, kind)
	default:
		return ev.throwRuntime("unsupported binding pattern")
	}
}

func (ev *Evaluator) bindArrayPattern(env *Environment, p *ast.ArrayPattern, value Value, kind bindingKind) completion {
	items, c := ev.iterableToSlice(env, value)
	if c.isAbrupt() {
		return c
	}
	for i, elPat := range p.Elements {
		if elPat == nil {
			continue
		}
		var v Value = Undef
		if i < len(items) {
			v = items[i]
		}
		if c := ev.bindPattern(env, elPat, v, kind); c.isAbrupt() {
			return c
		}
	}
	if p.Rest != nil {
		rest := &Array{}
		if len(p.Elements) < len(items) {
			rest.Elements = append(rest.Elements, items[len(p.Elements):]...)
		}
		if c := ev.bindPattern(env, p.Rest.Argument, rest, kind); c.isAbrupt() {
			return c
		}
	}
	return normalCompletion()
}

func (ev *Evaluator) bindObjectPattern(env *Environment, p *ast.ObjectPattern, value Value, kind bindingKind) completion {
	taken := make(map[string]bool)
	for _, prop := range p.Properties {
		key, c := ev.propKeyName(env, prop.Key, prop.Computed)
		if c.isAbrupt() {
			return c
		}
		taken[key] = true
		v, c := ev.getProperty(env, value, key)
		if c.isAbrupt() {
			return c
		}
		if c := ev.bindPattern(env, prop.Value, v, kind); c.isAbrupt() {
			return c
		}
	}
	if p.Rest != nil {
		rest := NewObject()
		if obj, ok := value.(*Object); ok {
			for _, k := range obj.Keys() {
				if !taken[k] {
					v, _ := obj.Get(k)
					rest.Set(k, v)
				}
			}
		}
		if c := ev.bindPattern(env, p.Rest.Argument, rest, kind); c.isAbrupt() {
			return c
		}
	}
	return normalCompletion()
}

// propKeyName resolves an object property's key, evaluating it as an
// expression when Computed is set.
func (ev *Evaluator) propKeyName(env *Environment, key ast.Expression, computed bool) (string, completion) {
	if !computed {
		switch k := key.(type) {
		case *ast.Identifier:
			return k.Name, normalCompletion()
		case *ast.Literal:
			return literalKeyString(k), normalCompletion()
		}
	}
	v, c := ev.evalExpr(env, key)
	if c.isAbrupt() {
		return "", c
	}
	return ToStringValue(v), normalCompletion()
}

func literalKeyString(l *ast.Literal) string {
	switch l.Kind {
	case ast.LitString:
		return l.String
	case ast.LitNumber:
		return formatNumber(l.Number)
	case ast.LitBool:
		if l.Bool {
			return "true"
		}
		return "false"
	default:
		return "null"
	}
}

// iterableToSlice materializes an iterable value (array, string, or
// plain-object-as-iterable via its enumerable values) into a Go slice,
// for array-pattern destructuring and spread (spec §4.2).
func (ev *Evaluator) iterableToSlice(env *Environment, value Value) ([]Value, completion) {
	switch v := value.(type) {
	case *Array:
		return v.Elements, normalCompletion()
	case String:
		runes := []rune(string(v))
		out := make([]Value, len(runes))
		for i, r := range runes {
			out[i] = String(string(r))
		}
		return out, normalCompletion()
	case *Generator:
		return ev.drainGenerator(v)
	case Undefined, Null:
		c := ev.throwRuntime("value is not iterable")
		return nil, c
	default:
		c := ev.throwRuntime("value is not iterable")
		return nil, c
	}
}
