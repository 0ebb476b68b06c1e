package evaluator

import (
	"math"
	"strings"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/hostproxy"
	"github.com/samlaycock/nookjs/internal/ifaceerr"
)

// evalExpr evaluates n in env, returning either a value and a normal
// completion, or an abrupt completion (throw/abort) that callers must
// propagate without inspecting the value.
func (ev *Evaluator) evalExpr(env *Environment, n ast.Expression) (Value, completion) {
	if c := ev.checkGate(n); c.isAbrupt() {
		return Undef, c
	}
	switch e := n.(type) {
	case *ast.Literal:
		return literalValue(e), normalCompletion()
	case *ast.Identifier:
		if v, ok := env.Get(e.Name); ok {
			return v, normalCompletion()
		}
		return Undef, ev.throwRuntime("%s is not defined", e.Name)
	case *ast.ThisExpression:
		return env.ThisValue(), normalCompletion()
	case *ast.TemplateLiteral:
		return ev.evalTemplateLiteral(env, e)
	case *ast.ArrayExpression:
		return ev.evalArrayLiteral(env, e)
	case *ast.ObjectExpression:
		return ev.evalObjectLiteral(env, e)
	case *ast.FunctionExpression:
		return ev.makeClosure(env, e, nil), normalCompletion()
	case *ast.ArrowFunctionExpression:
		return ev.makeArrowClosure(env, e), normalCompletion()
	case *ast.ClassDeclaration:
		return ev.evalClassDeclaration(env, e)
	case *ast.UnaryExpression:
		return ev.evalUnary(env, e)
	case *ast.UpdateExpression:
		return ev.evalUpdate(env, e)
	case *ast.BinaryExpression:
		return ev.evalBinary(env, e)
	case *ast.LogicalExpression:
		return ev.evalLogical(env, e)
	case *ast.ConditionalExpression:
		t, c := ev.evalExpr(env, e.Test)
		if c.isAbrupt() {
			return Undef, c
		}
		if Truthy(t) {
			return ev.evalExpr(env, e.Consequent)
		}
		return ev.evalExpr(env, e.Alternate)
	case *ast.AssignmentExpression:
		return ev.evalAssignment(env, e)
	case *ast.MemberExpression:
		v, _, c := ev.evalMember(env, e, false)
		return v, c
	case *ast.ChainExpression:
		v, c := ev.evalExpr(env, e.Expression)
		if c.kind == cChainShort {
			return Undef, normalCompletion()
		}
		return v, c
	case *ast.CallExpression:
		return ev.evalCall(env, e)
	case *ast.NewExpression:
		return ev.evalNew(env, e)
	case *ast.SpreadElement:
		return ev.evalExpr(env, e.Argument)
	case *ast.AwaitExpression:
		return ev.evalAwait(env, e)
	case *ast.YieldExpression:
		return ev.evalYield(env, e)
	case *ast.SuperExpression:
		return Undef, ev.throwRuntime("'super' keyword is only valid inside a class")
	default:
		return Undef, ev.throwRuntime("unsupported expression form")
	}
}

func literalValue(l *ast.Literal) Value {
	switch l.Kind {
	case ast.LitString:
		return String(l.String)
	case ast.LitNumber:
		return Number(l.Number)
	case ast.LitBool:
		return Bool(l.Bool)
	default:
		return Nul
	}
}

func (ev *Evaluator) evalTemplateLiteral(env *Environment, t *ast.TemplateLiteral) (Value, completion) {
	var b strings.Builder
	for i, q := range t.Quasis {
		b.WriteString(q.Cooked)
		if i < len(t.Expressions) {
			v, c := ev.evalExpr(env, t.Expressions[i])
			if c.isAbrupt() {
				return Undef, c
			}
			b.WriteString(ToStringValue(v))
		}
	}
	return String(b.String()), normalCompletion()
}

func (ev *Evaluator) evalArrayLiteral(env *Environment, a *ast.ArrayExpression) (Value, completion) {
	arr := &Array{}
	for _, el := range a.Elements {
		if el == nil {
			arr.Elements = append(arr.Elements, Hole{})
			continue
		}
		if spread, ok := el.(*ast.SpreadElement); ok {
			v, c := ev.evalExpr(env, spread.Argument)
			if c.isAbrupt() {
				return Undef, c
			}
			items, c := ev.iterableToSlice(env, v)
			if c.isAbrupt() {
				return Undef, c
			}
			arr.Elements = append(arr.Elements, items...)
			continue
		}
		v, c := ev.evalExpr(env, el)
		if c.isAbrupt() {
			return Undef, c
		}
		arr.Elements = append(arr.Elements, v)
	}
	if ev.Run != nil {
		if err := ev.Run.Alloc(int64(len(arr.Elements)) * allocArrayElement); err != nil {
			return Undef, abortCompletion(err)
		}
	}
	return arr, normalCompletion()
}

func (ev *Evaluator) evalObjectLiteral(env *Environment, o *ast.ObjectExpression) (Value, completion) {
	obj := NewObject()
	for _, prop := range o.Properties {
		if prop.Kind == "spread" {
			v, c := ev.evalExpr(env, prop.Value)
			if c.isAbrupt() {
				return Undef, c
			}
			if src, ok := v.(*Object); ok {
				for _, k := range src.Keys() {
					val, _ := src.Get(k)
					obj.Set(k, val)
				}
			}
			continue
		}
		key, c := ev.propKeyName(env, prop.Key, prop.Computed)
		if c.isAbrupt() {
			return Undef, c
		}
		v, c := ev.evalExpr(env, prop.Value)
		if c.isAbrupt() {
			return Undef, c
		}
		if prop.Kind == "get" || prop.Kind == "set" {
			obj.Set(accessorSlotName(key, prop.Kind), v)
			continue
		}
		obj.Set(key, v)
	}
	if ev.Run != nil {
		if err := ev.Run.Alloc(int64(len(obj.Keys())) * allocObjectProp); err != nil {
			return Undef, abortCompletion(err)
		}
	}
	return obj, normalCompletion()
}

func accessorSlotName(key, kind string) string { return "__" + kind + "__" + key }

const (
	allocArrayElement = 8
	allocObjectProp   = 32
)

func (ev *Evaluator) evalUnary(env *Environment, u *ast.UnaryExpression) (Value, completion) {
	if u.Op == ast.UnaryTypeof {
		if id, ok := u.Argument.(*ast.Identifier); ok {
			if v, ok := env.Get(id.Name); ok {
				return String(TypeOf(v)), normalCompletion()
			}
			return String("undefined"), normalCompletion()
		}
	}
	if u.Op == ast.UnaryDelete {
		return ev.evalDelete(env, u.Argument)
	}
	v, c := ev.evalExpr(env, u.Argument)
	if c.isAbrupt() {
		return Undef, c
	}
	switch u.Op {
	case ast.UnaryMinus:
		return Number(-ToNumber(v)), normalCompletion()
	case ast.UnaryPlus:
		return Number(ToNumber(v)), normalCompletion()
	case ast.UnaryNot:
		return Bool(!Truthy(v)), normalCompletion()
	case ast.UnaryVoid:
		return Undef, normalCompletion()
	case ast.UnaryTypeof:
		return String(TypeOf(v)), normalCompletion()
	case ast.UnaryBitNot:
		return Number(float64(^ToInt32(v))), normalCompletion()
	default:
		return Undef, ev.throwRuntime("unsupported unary operator %q", u.Op)
	}
}

func (ev *Evaluator) evalDelete(env *Environment, target ast.Expression) (Value, completion) {
	m, ok := target.(*ast.MemberExpression)
	if !ok {
		return Bool(true), normalCompletion()
	}
	obj, c := ev.evalExpr(env, m.Object)
	if c.isAbrupt() {
		return Undef, c
	}
	key, c := ev.memberKey(env, m)
	if c.isAbrupt() {
		return Undef, c
	}
	switch o := obj.(type) {
	case *Object:
		return Bool(o.Delete(key)), normalCompletion()
	case *HostValue:
		if err := o.Proxy.Delete(key); err != nil {
			return Undef, rejectCompletion(err.(*ifaceerr.RuntimeError))
		}
		return Bool(true), normalCompletion()
	default:
		return Bool(true), normalCompletion()
	}
}

func (ev *Evaluator) evalUpdate(env *Environment, u *ast.UpdateExpression) (Value, completion) {
	old, c := ev.evalExpr(env, u.Argument)
	if c.isAbrupt() {
		return Undef, c
	}
	n := ToNumber(old)
	var next float64
	if u.Op == "++" {
		next = n + 1
	} else {
		next = n - 1
	}
	if c := ev.assignTo(env, u.Argument, Number(next)); c.isAbrupt() {
		return Undef, c
	}
	if u.Prefix {
		return Number(next), normalCompletion()
	}
	return Number(n), normalCompletion()
}

func (ev *Evaluator) evalBinary(env *Environment, b *ast.BinaryExpression) (Value, completion) {
	l, c := ev.evalExpr(env, b.Left)
	if c.isAbrupt() {
		return Undef, c
	}
	r, c := ev.evalExpr(env, b.Right)
	if c.isAbrupt() {
		return Undef, c
	}
	switch b.Op {
	case ast.OpAdd:
		if ls, ok := l.(String); ok {
			return ls + String(ToStringValue(r)), normalCompletion()
		}
		if rs, ok := r.(String); ok {
			return String(ToStringValue(l)) + rs, normalCompletion()
		}
		return Number(ToNumber(l) + ToNumber(r)), normalCompletion()
	case ast.OpSub:
		return Number(ToNumber(l) - ToNumber(r)), normalCompletion()
	case ast.OpMul:
		return Number(ToNumber(l) * ToNumber(r)), normalCompletion()
	case ast.OpDiv:
		return Number(ToNumber(l) / ToNumber(r)), normalCompletion()
	case ast.OpMod:
		return Number(math.Mod(ToNumber(l), ToNumber(r))), normalCompletion()
	case ast.OpPow:
		return Number(math.Pow(ToNumber(l), ToNumber(r))), normalCompletion()
	case ast.OpEq:
		return Bool(LooseEquals(l, r)), normalCompletion()
	case ast.OpNeq:
		return Bool(!LooseEquals(l, r)), normalCompletion()
	case ast.OpStrictEq:
		return Bool(StrictEquals(l, r)), normalCompletion()
	case ast.OpStrictNe:
		return Bool(!StrictEquals(l, r)), normalCompletion()
	case ast.OpLt:
		return compareOp(l, r, func(a, b float64) bool { return a < b }, func(a, b string) bool { return a < b }), normalCompletion()
	case ast.OpGt:
		return compareOp(l, r, func(a, b float64) bool { return a > b }, func(a, b string) bool { return a > b }), normalCompletion()
	case ast.OpLe:
		return compareOp(l, r, func(a, b float64) bool { return a <= b }, func(a, b string) bool { return a <= b }), normalCompletion()
	case ast.OpGe:
		return compareOp(l, r, func(a, b float64) bool { return a >= b }, func(a, b string) bool { return a >= b }), normalCompletion()
	case ast.OpIn:
		return ev.evalInOp(l, r)
	case ast.OpInstOf:
		return ev.evalInstanceOf(l, r)
	case ast.OpBitAnd:
		return Number(float64(ToInt32(l) & ToInt32(r))), normalCompletion()
	case ast.OpBitOr:
		return Number(float64(ToInt32(l) | ToInt32(r))), normalCompletion()
	case ast.OpBitXor:
		return Number(float64(ToInt32(l) ^ ToInt32(r))), normalCompletion()
	case ast.OpShl:
		return Number(float64(ToInt32(l) << (ToUint32(r) & 31))), normalCompletion()
	case ast.OpShr:
		return Number(float64(ToInt32(l) >> (ToUint32(r) & 31))), normalCompletion()
	case ast.OpUShr:
		return Number(float64(ToUint32(l) >> (ToUint32(r) & 31))), normalCompletion()
	default:
		return Undef, ev.throwRuntime("unsupported binary operator %q", b.Op)
	}
}

func compareOp(l, r Value, numCmp func(a, b float64) bool, strCmp func(a, b string) bool) Value {
	ls, lok := l.(String)
	rs, rok := r.(String)
	if lok && rok {
		return Bool(strCmp(string(ls), string(rs)))
	}
	return Bool(numCmp(ToNumber(l), ToNumber(r)))
}

func (ev *Evaluator) evalInOp(l, r Value) (Value, completion) {
	key := ToStringValue(l)
	switch o := r.(type) {
	case *Object:
		_, ok := o.Get(key)
		return Bool(ok), normalCompletion()
	case *Array:
		idx, err := parseArrayIndex(key)
		return Bool(err == nil && idx >= 0 && idx < len(o.Elements)), normalCompletion()
	default:
		return Bool(false), ev.throwRuntime("cannot use 'in' operator on this value")
	}
}

func (ev *Evaluator) evalInstanceOf(l, r Value) (Value, completion) {
	class, ok := r.(*Class)
	if !ok {
		return Undef, ev.throwRuntime("right-hand side of 'instanceof' is not a class")
	}
	obj, ok := l.(*Object)
	if !ok {
		return Bool(false), normalCompletion()
	}
	for c := obj.Class; c != nil; c = c.Super {
		if c == class {
			return Bool(true), normalCompletion()
		}
	}
	return Bool(false), normalCompletion()
}

func (ev *Evaluator) evalLogical(env *Environment, l *ast.LogicalExpression) (Value, completion) {
	left, c := ev.evalExpr(env, l.Left)
	if c.isAbrupt() {
		return Undef, c
	}
	switch l.Op {
	case ast.LogAnd:
		if !Truthy(left) {
			return left, normalCompletion()
		}
		return ev.evalExpr(env, l.Right)
	case ast.LogOr:
		if Truthy(left) {
			return left, normalCompletion()
		}
		return ev.evalExpr(env, l.Right)
	case ast.LogNullish:
		if _, isU := left.(Undefined); isU {
			return ev.evalExpr(env, l.Right)
		}
		if _, isN := left.(Null); isN {
			return ev.evalExpr(env, l.Right)
		}
		return left, normalCompletion()
	default:
		return Undef, ev.throwRuntime("unsupported logical operator %q", l.Op)
	}
}

// memberKey resolves the property name of a (possibly computed) member
// expression without evaluating its object.
func (ev *Evaluator) memberKey(env *Environment, m *ast.MemberExpression) (string, completion) {
	if priv, ok := m.Property.(*ast.PrivateIdentifier); ok {
		return "#" + priv.Name, normalCompletion()
	}
	if !m.Computed {
		id, ok := m.Property.(*ast.Identifier)
		if !ok {
			return "", ev.throwRuntime("invalid member property")
		}
		return id.Name, normalCompletion()
	}
	v, c := ev.evalExpr(env, m.Property)
	if c.isAbrupt() {
		return "", c
	}
	return ToStringValue(v), normalCompletion()
}

// evalMember evaluates a member expression, returning the resolved value
// and the receiver (object) it was read from — the receiver is needed by
// evalCall to bind `this` for method calls. forCall marks a lookup made
// for a call's callee; the body does not consult it.
func (ev *Evaluator) evalMember(env *Environment, m *ast.MemberExpression, forCall bool) (Value, Value, completion) {
	if _, ok := m.Object.(*ast.SuperExpression); ok {
		return ev.evalSuperMember(env, m)
	}
	obj, c := ev.evalExpr(env, m.Object)
	if c.isAbrupt() {
		return Undef, Undef, c
	}
	if m.Optional {
		if _, isU := obj.(Undefined); isU {
			return Undef, Undef, completion{kind: cChainShort}
		}
		if _, isN := obj.(Null); isN {
			return Undef, Undef, completion{kind: cChainShort}
		}
	}
	if priv, ok := m.Property.(*ast.PrivateIdentifier); ok {
		o, ok := obj.(*Object)
		if !ok {
			return Undef, Undef, ev.throwRuntime("cannot read private field off non-object")
		}
		v, ok := o.GetPrivate(o.Class, priv.Name)
		if !ok {
			return Undef, Undef, ev.throwRuntime("private field '#%s' not present", priv.Name)
		}
		return v, obj, normalCompletion()
	}
	key, c := ev.memberKey(env, m)
	if c.isAbrupt() {
		return Undef, Undef, c
	}
	v, c := ev.getProperty(env, obj, key)
	return v, obj, c
}

func (ev *Evaluator) getProperty(env *Environment, obj Value, key string) (Value, completion) {
	switch o := obj.(type) {
	case *Object:
		if v, ok := o.Get(accessorSlotName(key, "get")); ok {
			return ev.callValue(env, v, o, nil)
		}
		if v, ok := o.Get(key); ok {
			return v, normalCompletion()
		}
		return Undef, normalCompletion()
	case *Array:
		return ev.getArrayProperty(o, key)
	case String:
		return ev.getStringProperty(o, key)
	case *Class:
		if v, ok := o.Statics.Get(key); ok {
			return v, normalCompletion()
		}
		return Undef, normalCompletion()
	case *HostValue:
		v, err := o.Proxy.Get(key)
		if err != nil {
			return Undef, rejectCompletion(err.(*ifaceerr.RuntimeError))
		}
		return hostWrapToValue(v), normalCompletion()
	case *Generator:
		if fn, ok := generatorMethods[key]; ok {
			return &NativeFunction{Name: key, Fn: fn}, normalCompletion()
		}
		return Undef, normalCompletion()
	case *Promise:
		if fn, ok := promiseMethods[key]; ok {
			return &NativeFunction{Name: key, Fn: fn}, normalCompletion()
		}
		return Undef, normalCompletion()
	case Undefined, Null:
		return Undef, ev.throwRuntime("cannot read properties of %s (reading '%s')", TypeOf(obj), key)
	default:
		return Undef, normalCompletion()
	}
}

func parseArrayIndex(key string) (int, error) {
	n := 0
	if key == "" {
		return -1, ifaceerr.NewSecurity("empty index")
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return -1, ifaceerr.NewSecurity("not an index")
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

func (ev *Evaluator) getArrayProperty(a *Array, key string) (Value, completion) {
	if key == "length" {
		return Number(float64(len(a.Elements))), normalCompletion()
	}
	if idx, err := parseArrayIndex(key); err == nil {
		if idx < 0 || idx >= len(a.Elements) {
			return Undef, normalCompletion()
		}
		if _, ok := a.Elements[idx].(Hole); ok {
			return Undef, normalCompletion()
		}
		return a.Elements[idx], normalCompletion()
	}
	if fn, ok := arrayMethods[key]; ok {
		return &NativeFunction{Name: key, Fn: fn}, normalCompletion()
	}
	return Undef, normalCompletion()
}

func (ev *Evaluator) getStringProperty(s String, key string) (Value, completion) {
	if key == "length" {
		return Number(float64(len([]rune(string(s))))), normalCompletion()
	}
	if idx, err := parseArrayIndex(key); err == nil {
		runes := []rune(string(s))
		if idx < 0 || idx >= len(runes) {
			return Undef, normalCompletion()
		}
		return String(string(runes[idx])), normalCompletion()
	}
	if fn, ok := stringMethods[key]; ok {
		return &NativeFunction{Name: key, Fn: fn}, normalCompletion()
	}
	return Undef, normalCompletion()
}

func hostWrapToValue(v interface{}) Value {
	if v == nil {
		return Undef
	}
	switch x := v.(type) {
	case *hostproxy.Proxy:
		return &HostValue{Proxy: x}
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case int:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case float64:
		return Number(x)
	default:
		return String(ToStringValue(Undef))
	}
}
