package evaluator

import (
	"math"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/ifaceerr"
)

func (ev *Evaluator) evalAssignment(env *Environment, a *ast.AssignmentExpression) (Value, completion) {
	if a.Op == ast.AssignPlain {
		rv, c := ev.evalExpr(env, a.Right)
		if c.isAbrupt() {
			return Undef, c
		}
		if pat, ok := a.Left.(ast.Pattern); ok {
			if _, isIdent := pat.(*ast.Identifier); !isIdent {
				if c := ev.destructureAssign(env, pat, rv); c.isAbrupt() {
					return Undef, c
				}
				return rv, normalCompletion()
			}
		}
		if c := ev.assignTo(env, a.Left, rv); c.isAbrupt() {
			return Undef, c
		}
		return rv, normalCompletion()
	}

	if a.Op == ast.AssignAnd || a.Op == ast.AssignOr || a.Op == ast.AssignNullish {
		leftExpr, ok := a.Left.(ast.Expression)
		if !ok {
			return Undef, ev.throwRuntime("invalid assignment target")
		}
		cur, c := ev.evalExpr(env, leftExpr)
		if c.isAbrupt() {
			return Undef, c
		}
		shouldAssign := false
		switch a.Op {
		case ast.AssignAnd:
			shouldAssign = Truthy(cur)
		case ast.AssignOr:
			shouldAssign = !Truthy(cur)
		case ast.AssignNullish:
			_, isU := cur.(Undefined)
			_, isN := cur.(Null)
			shouldAssign = isU || isN
		}
		if !shouldAssign {
			return cur, normalCompletion()
		}
		rv, c := ev.evalExpr(env, a.Right)
		if c.isAbrupt() {
			return Undef, c
		}
		if c := ev.assignTo(env, a.Left, rv); c.isAbrupt() {
			return Undef, c
		}
		return rv, normalCompletion()
	}

	leftExpr, ok := a.Left.(ast.Expression)
	if !ok {
		return Undef, ev.throwRuntime("invalid compound assignment target")
	}
	cur, c := ev.evalExpr(env, leftExpr)
	if c.isAbrupt() {
		return Undef, c
	}
	rv, c := ev.evalExpr(env, a.Right)
	if c.isAbrupt() {
		return Undef, c
	}
	var result Value
	switch a.Op {
	case ast.AssignAdd:
		if ls, ok := cur.(String); ok {
			result = ls + String(ToStringValue(rv))
		} else if rs, ok := rv.(String); ok {
			result = String(ToStringValue(cur)) + rs
		} else {
			result = Number(ToNumber(cur) + ToNumber(rv))
		}
	case ast.AssignSub:
		result = Number(ToNumber(cur) - ToNumber(rv))
	case ast.AssignMul:
		result = Number(ToNumber(cur) * ToNumber(rv))
	case ast.AssignDiv:
		result = Number(ToNumber(cur) / ToNumber(rv))
	case ast.AssignMod:
		result = Number(math.Mod(ToNumber(cur), ToNumber(rv)))
	case ast.AssignPow:
		result = Number(math.Pow(ToNumber(cur), ToNumber(rv)))
	case ast.AssignBitAnd:
		result = Number(float64(ToInt32(cur) & ToInt32(rv)))
	case ast.AssignBitOr:
		result = Number(float64(ToInt32(cur) | ToInt32(rv)))
	case ast.AssignBitXor:
		result = Number(float64(ToInt32(cur) ^ ToInt32(rv)))
	case ast.AssignShl:
		result = Number(float64(ToInt32(cur) << (ToUint32(rv) & 31)))
	case ast.AssignShr:
		result = Number(float64(ToInt32(cur) >> (ToUint32(rv) & 31)))
	case ast.AssignUShr:
		result = Number(float64(ToUint32(cur) >> (ToUint32(rv) & 31)))
	default:
		return Undef, ev.throwRuntime("unsupported assignment operator %q", a.Op)
	}
	if c := ev.assignTo(env, a.Left, result); c.isAbrupt() {
		return Undef, c
	}
	return result, normalCompletion()
}

// assignTo writes value to an assignment target that is either an
// Identifier or a MemberExpression (patterns other than Identifier go
// through destructureAssign instead).
func (ev *Evaluator) assignTo(env *Environment, target ast.Node, value Value) completion {
	switch t := target.(type) {
	case *ast.Identifier:
		if err := env.Assign(t.Name, value); err != nil {
			return rejectCompletion(err.(*ifaceerr.RuntimeError))
		}
		return normalCompletion()
	case *ast.MemberExpression:
		return ev.assignMember(env, t, value)
	default:
		return ev.throwRuntime("invalid assignment target")
	}
}

func (ev *Evaluator) assignMember(env *Environment, m *ast.MemberExpression, value Value) completion {
	obj, c := ev.evalExpr(env, m.Object)
	if c.isAbrupt() {
		return c
	}
	if priv, ok := m.Property.(*ast.PrivateIdentifier); ok {
		o, ok := obj.(*Object)
		if !ok {
			return ev.throwRuntime("cannot set private field off non-object")
		}
		o.SetPrivate(o.Class, priv.Name, value)
		return normalCompletion()
	}
	key, c := ev.memberKey(env, m)
	if c.isAbrupt() {
		return c
	}
	return ev.setProperty(obj, key, value)
}

func (ev *Evaluator) setProperty(obj Value, key string, value Value) completion {
	switch o := obj.(type) {
	case *Object:
		if setFn, ok := o.Get(accessorSlotName(key, "set")); ok {
			_, c := ev.callValue(nil, setFn, o, []Value{value})
			return c
		}
		o.Set(key, value)
		if ev.Run != nil {
			if err := ev.Run.Alloc(allocObjectProp); err != nil {
				return abortCompletion(err)
			}
		}
		return normalCompletion()
	case *Array:
		if key == "length" {
			n := int(ToNumber(value))
			if n < len(o.Elements) {
				o.Elements = o.Elements[:n]
			} else {
				for len(o.Elements) < n {
					o.Elements = append(o.Elements, Hole{})
				}
			}
			return normalCompletion()
		}
		if idx, err := parseArrayIndex(key); err == nil {
			for len(o.Elements) <= idx {
				o.Elements = append(o.Elements, Hole{})
			}
			o.Elements[idx] = value
			return normalCompletion()
		}
		return normalCompletion()
	case *HostValue:
		if err := o.Proxy.Set(key, unwrapForHost(value)); err != nil {
			return rejectCompletion(err.(*ifaceerr.RuntimeError))
		}
		return normalCompletion()
	case Undefined, Null:
		return ev.throwRuntime("cannot set properties of %s (setting '%s')", TypeOf(obj), key)
	default:
		return normalCompletion()
	}
}

// destructureAssign handles `[a, b] = x` / `{a, b} = x` when the left
// side is already a Pattern (normalized from array/object literals
// during parsing, spec §4.2), writing through assignTo/assignMember
// instead of declaring new bindings.
func (ev *Evaluator) destructureAssign(env *Environment, pat ast.Pattern, value Value) completion {
	switch p := pat.(type) {
	case *ast.ArrayPattern:
		items, c := ev.iterableToSlice(env, value)
		if c.isAbrupt() {
			return c
		}
		for i, el := range p.Elements {
			if el == nil {
				continue
			}
			var v Value = Undef
			if i < len(items) {
				v = items[i]
			}
			if c := ev.destructureAssignOne(env, el, v); c.isAbrupt() {
				return c
			}
		}
		if p.Rest != nil {
			rest := &Array{}
			if len(p.Elements) < len(items) {
				rest.Elements = append(rest.Elements, items[len(p.Elements):]...)
			}
			if c := ev.destructureAssignOne(env, p.Rest.Argument, rest); c.isAbrupt() {
				return c
			}
		}
		return normalCompletion()
	case *ast.ObjectPattern:
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
			if c := ev.destructureAssignOne(env, prop.Value, v); c.isAbrupt() {
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
			if c := ev.destructureAssignOne(env, p.Rest.Argument, rest); c.isAbrupt() {
				return c
			}
		}
		return normalCompletion()
	default:
		return ev.destructureAssignOne(env, pat, value)
	}
}

func (ev *Evaluator) destructureAssignOne(env *Environment, pat ast.Pattern, value Value) completion {
	switch p := pat.(type) {
	case *ast.Identifier:
		return ev.assignTo(env, p, value)
	case *ast.AssignmentPattern:
		v := value
		if _, isUndef := v.(Undefined); isUndef {
			dv, c := ev.evalExpr(env, p.Right)
			if c.isAbrupt() {
				return c
			}
			v = dv
		}
		return ev.destructureAssignOne(env, p.Left, v)
	case *ast.ArrayPattern, *ast.ObjectPattern:
		return ev.destructureAssign(env, p, value)
	default:
		return ev.throwRuntime("invalid destructuring assignment target")
	}
}
