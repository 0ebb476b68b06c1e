// Package evaluator implements the tree-walking evaluator (spec §4.7):
// the Value model (C4), lexical Environment (C5), and both the
// synchronous and cooperative-asynchronous evaluation modes (C9, C10)
// over the AST produced by internal/parser.
package evaluator

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/samlaycock/nookjs/internal/hostproxy"
)

// Value is the sandbox's runtime value type: a closed tagged union over
// the kinds named in spec §3. Concrete types below are the tags;
// interface dispatch stands in for the union discriminant.
type Value interface {
	valueTag()
}

type Undefined struct{}
type Null struct{}
type Bool bool
type Number float64
type String string

// BigIntValue is an opaque pass-through: its text is preserved but no
// arithmetic is defined on it (spec §1 non-goal).
type BigIntValue string

func (Undefined) valueTag()    {}
func (Null) valueTag()         {}
func (Bool) valueTag()         {}
func (Number) valueTag()       {}
func (String) valueTag()       {}
func (BigIntValue) valueTag()  {}

// Hole marks a sparse-array slot with no element (spec §3).
type Hole struct{}

func (Hole) valueTag() {}

// Array is an ordered, mutable sequence of sandbox values.
type Array struct {
	Elements []Value
}

func (*Array) valueTag() {}

// privateKey is keyed by a per-class identity pointer rather than the
// textual field name, so that the same `#x` in two different classes
// never collides (spec §4.7).
type privateKey struct {
	class *Class
	name  string
}

// Object is an insertion-ordered string-keyed map plus a private-field
// table keyed by (defining class, name) so private access can be checked
// against instance membership.
type Object struct {
	keys      []string
	props     map[string]Value
	private   map[privateKey]Value
	Proto     *Object // prototype chain link, nil for plain object literals
	Class     *Class  // the class this instance was constructed by, nil for plain objects
}

func (*Object) valueTag() {}

func NewObject() *Object {
	return &Object{props: make(map[string]Value)}
}

func (o *Object) Get(name string) (Value, bool) {
	if v, ok := o.props[name]; ok {
		return v, true
	}
	if o.Proto != nil {
		return o.Proto.Get(name)
	}
	return nil, false
}

func (o *Object) Set(name string, v Value) {
	if _, exists := o.props[name]; !exists {
		o.keys = append(o.keys, name)
	}
	o.props[name] = v
}

func (o *Object) Delete(name string) bool {
	if _, ok := o.props[name]; !ok {
		return false
	}
	delete(o.props, name)
	for i, k := range o.keys {
		if k == name {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o *Object) GetPrivate(class *Class, name string) (Value, bool) {
	if o.private == nil {
		return nil, false
	}
	v, ok := o.private[privateKey{class, name}]
	return v, ok
}

func (o *Object) SetPrivate(class *Class, name string, v Value) {
	if o.private == nil {
		o.private = make(map[privateKey]Value)
	}
	o.private[privateKey{class, name}] = v
}

// Closure is a user-defined function value: captured environment,
// parameter list, body, and mode flags.
type Closure struct {
	Name      string
	Params    []*ParamBinding
	Rest      string // "" if no rest parameter
	Body      interface{} // *ast.BlockStatement or ast.Expression (arrow concise body); kept as interface{} to avoid an import cycle on ast in this file
	Env       *Environment
	Async     bool
	Generator bool
	IsArrow   bool
	ThisVal   Value // captured `this` for arrow functions
	HomeClass *Class // the class this method was defined in, for super/private resolution
}

func (*Closure) valueTag() {}

// ParamBinding pairs a parameter's binding target with its default value
// expression, both kept as interface{} (ast.Pattern / ast.Expression) for
// the same reason as Closure.Body.
type ParamBinding struct {
	Pattern interface{}
	Default interface{}
}

// BoundMethod pairs a closure with a fixed receiver, produced when a
// method is read off an instance for later invocation.
type BoundMethod struct {
	Fn       *Closure
	Receiver Value
}

func (*BoundMethod) valueTag() {}

// NativeFunc is the shape of a builtin implemented directly in Go:
// array/string/Math/JSON methods and the minimal global surface (spec
// §4 "minimal standard global surface"). this is the receiver the
// function was read off (Undefined for free functions like `print`).
type NativeFunc func(ev *Evaluator, env *Environment, this Value, args []Value) (Value, completion)

// NativeFunction is a builtin bound to a fixed name, used for its
// toString() rendering and stack traces.
type NativeFunction struct {
	Name string
	Fn   NativeFunc
}

func (*NativeFunction) valueTag() {}

// Class is a constructor closure plus its prototype object, static
// member table, and superclass link (spec §3, §4.7).
type Class struct {
	Name        string
	Ctor        *Closure // nil if no explicit constructor
	Prototype   *Object
	Statics     *Object
	Super       *Class
	InstFields  []*InstanceField
	PrivateSet  map[string]struct{} // private field/method names declared directly on this class
}

func (*Class) valueTag() {}

// InstanceField is one instance field initializer, run at the top of the
// constructor in declaration order (spec §4.7).
type InstanceField struct {
	Name     string
	Private  bool
	Computed interface{} // ast.Expression, evaluated once per construction when Computed != nil overrides Name
	Init     interface{} // ast.Expression or nil
}

// HostValue wraps a hostproxy.Proxy so the evaluator can dispatch on it
// like any other Value; all property access still goes through the proxy
// rules (spec §4.5).
type HostValue struct {
	Proxy *hostproxy.Proxy
}

func (*HostValue) valueTag() {}

// Generator covers both sync and async generators, told apart only by the
// Async flag; both expose next/return/throw over a resumable evaluator
// state (spec §3, §4.7). The concrete implementation lives in
// generator.go.
type Generator struct {
	Async bool
	state *genState
}

func (*Generator) valueTag() {}

// Promise models spec's internal pending/fulfilled/rejected state with a
// continuation queue (spec §3, §5); implementation in promise.go.
type Promise struct {
	status   promiseStatus
	value    Value
	reason   Value
	onDone   []func()
}

func (*Promise) valueTag() {}

type promiseStatus int

const (
	promisePending promiseStatus = iota
	promiseFulfilled
	promiseRejected
)

// Undef and Nul are the canonical singleton instances, avoiding
// repeated allocation at every undefined/null-producing site.
var (
	Undef Value = Undefined{}
	Nul   Value = Null{}
)

// Truthy implements spec §4.3's truthiness table.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Undefined:
		return false
	case Null:
		return false
	case Bool:
		return bool(x)
	case Number:
		return float64(x) != 0 && !math.IsNaN(float64(x))
	case String:
		return x != ""
	default:
		return true
	}
}

// TypeOf implements unary `typeof` (spec §4.3): a fixed string per value
// tag.
func TypeOf(v Value) string {
	switch v.(type) {
	case Undefined:
		return "undefined"
	case Null:
		return "object"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case BigIntValue:
		return "bigint"
	case *Array, *Object:
		return "object"
	case *Closure, *BoundMethod, *Class, *NativeFunction:
		return "function"
	case *HostValue:
		if v.(*HostValue).Proxy.Kind == hostproxy.KindFunction {
			return "function"
		}
		return "object"
	case *Promise, *Generator:
		return "object"
	default:
		return "undefined"
	}
}

// ToNumber coerces v per spec §4.3's `+` and comparison rules.
func ToNumber(v Value) float64 {
	switch x := v.(type) {
	case Undefined:
		return math.NaN()
	case Null:
		return 0
	case Bool:
		if x {
			return 1
		}
		return 0
	case Number:
		return float64(x)
	case String:
		s := strings.TrimSpace(string(x))
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// ToInt32 coerces v to a 32-bit signed integer per the bitwise/shift
// operators' ToInt32 abstract operation: NaN/Infinity become 0, then the
// value wraps modulo 2^32 into the signed range.
func ToInt32(v Value) int32 {
	n := ToNumber(v)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return int32(uint32(int64(n)))
}

// ToUint32 coerces v to a 32-bit unsigned integer, used by `>>>` whose
// result is always non-negative.
func ToUint32(v Value) uint32 {
	n := ToNumber(v)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return uint32(int64(n))
}

// ToStringValue coerces v to its string form, used for `+` concatenation
// and template-literal interpolation.
func ToStringValue(v Value) string {
	switch x := v.(type) {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Bool:
		if x {
			return "true"
		}
		return "false"
	case Number:
		return formatNumber(float64(x))
	case String:
		return string(x)
	case BigIntValue:
		return string(x) + "n"
	case *Array:
		parts := make([]string, len(x.Elements))
		for i, e := range x.Elements {
			if _, ok := e.(Hole); ok || e == nil {
				parts[i] = ""
				continue
			}
			parts[i] = ToStringValue(e)
		}
		return strings.Join(parts, ",")
	case *Object:
		return "[object Object]"
	case *Closure:
		return fmt.Sprintf("function %s() { [sandbox code] }", x.Name)
	case *Class:
		return fmt.Sprintf("class %s { [sandbox code] }", x.Name)
	case *NativeFunction:
		return fmt.Sprintf("function %s() { [native code] }", x.Name)
	case *HostValue:
		return "[host value]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// LooseEquals implements `==`/`!=` abstract comparison with numeric
// coercion (spec §4.3); StrictEquals implements `===`/`!==`.
func LooseEquals(a, b Value) bool {
	if sameTag(a, b) {
		return StrictEquals(a, b)
	}
	_, aNull := a.(Null)
	_, aUndef := a.(Undefined)
	_, bNull := b.(Null)
	_, bUndef := b.(Undefined)
	if (aNull || aUndef) && (bNull || bUndef) {
		return true
	}
	if aNull || aUndef || bNull || bUndef {
		return false
	}
	return ToNumber(a) == ToNumber(b)
}

func sameTag(a, b Value) bool {
	switch a.(type) {
	case Number:
		_, ok := b.(Number)
		return ok
	case String:
		_, ok := b.(String)
		return ok
	case Bool:
		_, ok := b.(Bool)
		return ok
	}
	return false
}

// StrictEquals implements `===` without coercion: identical primitive
// value, or identical reference for arrays/objects/functions.
func StrictEquals(a, b Value) bool {
	switch x := a.(type) {
	case Undefined:
		_, ok := b.(Undefined)
		return ok
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	default:
		return a == b
	}
}

// sortedKeys returns m's keys in sorted order, an ordering distinct from
// insertion order. Nothing in the package calls it; property enumeration
// stays insertion-ordered per spec §3.
func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
