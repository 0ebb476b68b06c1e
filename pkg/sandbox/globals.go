package sandbox

import (
	"fmt"
	"reflect"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/hostproxy"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// wrapGlobal converts a host Go value into the sandbox Value its name
// will be bound to. Primitives map directly onto sandbox primitives;
// functions become a callable HostValue that converts sandbox-unwrapped
// arguments to the function's declared parameter types on each call
// (go-dws's Engine.RegisterFunction registers typed Go functions the
// same way); everything else is a read-only object proxy (spec §4.5).
func wrapGlobal(name string, v interface{}) (evaluator.Value, error) {
	if v == nil {
		return evaluator.Nul, nil
	}
	switch x := v.(type) {
	case bool:
		return evaluator.Bool(x), nil
	case int:
		return evaluator.Number(float64(x)), nil
	case int32:
		return evaluator.Number(float64(x)), nil
	case int64:
		return evaluator.Number(float64(x)), nil
	case float32:
		return evaluator.Number(float64(x)), nil
	case float64:
		return evaluator.Number(x), nil
	case string:
		return evaluator.String(x), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		fnName := name
		return &evaluator.HostValue{Proxy: hostproxy.NewFunction(v, func(args []interface{}) (interface{}, error) {
			out, err := callHostFunc(rv, args)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fnName, err)
			}
			return out, nil
		})}, nil
	default:
		return &evaluator.HostValue{Proxy: hostproxy.NewObject(v)}, nil
	}
}

// callHostFunc invokes fn via reflection, converting each sandbox-side
// argument to the corresponding declared parameter type. A trailing
// error return is split off and reported to the caller, which wraps it
// naming the host function (see RegisterFunction, spec §7).
func callHostFunc(fn reflect.Value, args []interface{}) (interface{}, error) {
	t := fn.Type()
	n := t.NumIn()
	in := make([]reflect.Value, 0, n)
	for i := 0; i < n; i++ {
		var arg interface{}
		if i < len(args) {
			arg = args[i]
		}
		in = append(in, convertArg(arg, t.In(i)))
	}
	out := fn.Call(in)
	if len(out) == 0 {
		return nil, nil
	}
	last := out[len(out)-1]
	if last.Type().Implements(errorType) {
		var err error
		if !last.IsNil() {
			err, _ = last.Interface().(error)
		}
		if len(out) == 1 {
			return nil, err
		}
		return out[0].Interface(), err
	}
	return out[0].Interface(), nil
}

func convertArg(v interface{}, want reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(want)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().ConvertibleTo(want) {
		return rv.Convert(want)
	}
	return reflect.Zero(want)
}
