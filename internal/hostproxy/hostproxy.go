// Package hostproxy implements the read-only wrapper interposed between
// sandbox code and any value owned by the embedding host application
// (spec §4.5). It never imports internal/evaluator so the evaluator can
// depend on it instead, following go-dws's internal/interp split between
// the evaluator and its embedding facade.
package hostproxy

import (
	"reflect"

	"github.com/samlaycock/nookjs/internal/ifaceerr"
)

// dangerousNames is checked on every property read; a name in this set
// fails with a security error regardless of whether the underlying host
// value actually has such a property. then/catch/finally are deliberately
// absent so sandbox code can consume host-returned promise-shaped values
// without touching Function.prototype internals.
var dangerousNames = map[string]struct{}{
	"__proto__":          {},
	"constructor":        {},
	"prototype":          {},
	"__defineGetter__":   {},
	"__defineSetter__":   {},
	"__lookupGetter__":   {},
	"__lookupSetter__":   {},
	"apply":              {},
	"call":               {},
	"bind":                {},
	"arguments":          {},
	"caller":             {},
}

// IsDangerous reports whether name is always forbidden to read off a
// proxied host value.
func IsDangerous(name string) bool {
	_, ok := dangerousNames[name]
	return ok
}

// forbiddenGlobals names identifiers that may never be registered as
// globals at all (spec §4.5, §6): the Function constructor, eval, the
// global object aliases, proxy/reflection primitives, and async/generator
// function constructors.
var forbiddenGlobals = map[string]struct{}{
	"Function":             {},
	"eval":                 {},
	"globalThis":           {},
	"window":               {},
	"global":               {},
	"Proxy":                {},
	"Reflect":               {},
	"AsyncFunction":        {},
	"GeneratorFunction":    {},
	"AsyncGeneratorFunction": {},
}

// IsForbiddenGlobalName reports whether name can never be registered as a
// global identifier.
func IsForbiddenGlobalName(name string) bool {
	_, ok := forbiddenGlobals[name]
	return ok
}

// Kind distinguishes a plain host object/value proxy from a callable host
// function handle, which additionally reports security errors (rather
// than silently no-op) on attempted mutation (spec §4.5).
type Kind int

const (
	KindObject Kind = iota
	KindFunction
)

// Proxy wraps a host value reachable from sandbox code. Reads of
// dangerous names fail; writes/defines/deletes/re-parents are rejected;
// nested object/function reads are lazily wrapped in their own Proxy.
type Proxy struct {
	Kind  Kind
	Value interface{} // the underlying host Go value
	Call  func(args []interface{}) (interface{}, error)
}

// NewObject wraps a plain host value for read-only sandbox access.
func NewObject(v interface{}) *Proxy { return &Proxy{Kind: KindObject, Value: v} }

// NewFunction wraps a host callable. call is invoked with the sandbox's
// already-unwrapped argument values and returns a raw Go value, which
// Invoke re-wraps with the same nested-wrap rule Get uses.
func NewFunction(v interface{}, call func(args []interface{}) (interface{}, error)) *Proxy {
	return &Proxy{Kind: KindFunction, Value: v, Call: call}
}

// Get reads property name off the wrapped host value via reflection,
// enforcing the dangerous-name set and wrapping object/function results
// recursively. Primitive results pass through unwrapped.
func (p *Proxy) Get(name string) (interface{}, error) {
	if IsDangerous(name) {
		return nil, ifaceerr.NewSecurity("access to %q is forbidden on host values", name)
	}
	rv := reflect.ValueOf(p.Value)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct && rv.Kind() != reflect.Map {
		return nil, nil
	}
	var field reflect.Value
	switch rv.Kind() {
	case reflect.Struct:
		field = rv.FieldByName(name)
	case reflect.Map:
		field = rv.MapIndex(reflect.ValueOf(name))
	}
	if !field.IsValid() {
		return nil, nil
	}
	return wrap(field.Interface()), nil
}

// wrap lazily re-proxies nested object/function results; primitives
// (numbers, strings, bools) pass through untouched.
func wrap(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		return NewFunction(v, func(args []interface{}) (interface{}, error) {
			in := make([]reflect.Value, len(args))
			for i, a := range args {
				in[i] = reflect.ValueOf(a)
			}
			out := rv.Call(in)
			if len(out) == 0 {
				return nil, nil
			}
			return out[0].Interface(), nil
		})
	case reflect.Struct, reflect.Map, reflect.Ptr, reflect.Slice:
		return NewObject(v)
	default:
		return v
	}
}

// Set always rejects mutation: plain objects reject silently (return nil
// so the evaluator treats it as a no-op), function handles report a
// security error (spec §4.5).
func (p *Proxy) Set(name string, value interface{}) error {
	if p.Kind == KindFunction {
		return ifaceerr.NewSecurity("cannot assign %q on a host function", name)
	}
	return nil
}

// Delete always rejects, matching Set's no-op-or-error split.
func (p *Proxy) Delete(name string) error {
	if p.Kind == KindFunction {
		return ifaceerr.NewSecurity("cannot delete %q on a host function", name)
	}
	return nil
}

// Invoke calls a KindFunction proxy; calling a KindObject proxy fails.
func (p *Proxy) Invoke(args []interface{}) (interface{}, error) {
	if p.Kind != KindFunction || p.Call == nil {
		return nil, ifaceerr.NewSecurity("value is not callable")
	}
	out, err := p.Call(args)
	if err != nil {
		return nil, err
	}
	return wrap(out), nil
}
