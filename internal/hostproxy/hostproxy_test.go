package hostproxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleHost struct {
	Name  string
	Count int
}

func TestIsDangerousExcludesThenCatchFinally(t *testing.T) {
	for _, n := range []string{"__proto__", "constructor", "prototype", "apply", "call", "bind"} {
		if !IsDangerous(n) {
			t.Errorf("expected %q to be dangerous", n)
		}
	}
	for _, n := range []string{"then", "catch", "finally"} {
		if IsDangerous(n) {
			t.Errorf("expected %q to NOT be dangerous (promise-shaped access)", n)
		}
	}
}

func TestIsForbiddenGlobalName(t *testing.T) {
	for _, n := range []string{"Function", "eval", "globalThis", "Proxy", "Reflect"} {
		if !IsForbiddenGlobalName(n) {
			t.Errorf("expected %q to be a forbidden global", n)
		}
	}
	if IsForbiddenGlobalName("myHelper") {
		t.Error("an ordinary name should not be forbidden")
	}
}

func TestProxyGetDangerousNameFails(t *testing.T) {
	p := NewObject(sampleHost{Name: "x"})
	_, err := p.Get("__proto__")
	if err == nil {
		t.Fatal("expected a security error reading a dangerous name")
	}
}

func TestProxyGetStructField(t *testing.T) {
	p := NewObject(sampleHost{Name: "widget", Count: 3})
	v, err := p.Get("Name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "widget" {
		t.Errorf("expected %q, got %v", "widget", v)
	}
}

func TestProxyGetMissingFieldReturnsNil(t *testing.T) {
	p := NewObject(sampleHost{Name: "widget"})
	v, err := p.Get("DoesNotExist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Errorf("expected nil for a missing field, got %v", v)
	}
}

func TestProxyGetMapKey(t *testing.T) {
	p := NewObject(map[string]interface{}{"greeting": "hi"})
	v, err := p.Get("greeting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "hi" {
		t.Errorf("expected %q, got %v", "hi", v)
	}
}

func TestProxySetAlwaysRejected(t *testing.T) {
	obj := NewObject(sampleHost{})
	if err := obj.Set("Name", "y"); err != nil {
		t.Errorf("plain object Set should no-op, not error: %v", err)
	}

	fn := NewFunction(func() {}, func(args []interface{}) (interface{}, error) { return nil, nil })
	if err := fn.Set("x", 1); err == nil {
		t.Error("function proxy Set should report a security error")
	}
}

func TestProxyDeleteAlwaysRejected(t *testing.T) {
	obj := NewObject(sampleHost{})
	if err := obj.Delete("Name"); err != nil {
		t.Errorf("plain object Delete should no-op, not error: %v", err)
	}

	fn := NewFunction(func() {}, func(args []interface{}) (interface{}, error) { return nil, nil })
	if err := fn.Delete("x"); err == nil {
		t.Error("function proxy Delete should report a security error")
	}
}

func TestProxyInvokeNonFunctionFails(t *testing.T) {
	obj := NewObject(sampleHost{})
	if _, err := obj.Invoke(nil); err == nil {
		t.Error("invoking a plain object proxy should fail")
	}
}

func TestProxyInvokeCallsUnderlying(t *testing.T) {
	called := false
	fn := NewFunction(nil, func(args []interface{}) (interface{}, error) {
		called = true
		return 42, nil
	})
	out, err := fn.Invoke(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected the wrapped Call to run")
	}
	if out != 42 {
		t.Errorf("expected 42, got %v", out)
	}
}

func TestProxyGetWrapsNestedStruct(t *testing.T) {
	type outer struct {
		Inner sampleHost
	}
	p := NewObject(&outer{Inner: sampleHost{Name: "nested"}})
	v, err := p.Get("Inner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nested, ok := v.(*Proxy)
	if !ok {
		t.Fatalf("expected a nested *Proxy, got %T", v)
	}
	if nested.Kind != KindObject {
		t.Errorf("expected nested proxy to be KindObject, got %v", nested.Kind)
	}
}

func TestProxyKindsForSliceAndFunction(t *testing.T) {
	p := NewObject([]int{1, 2, 3})
	require.Equal(t, KindObject, p.Kind)

	fn := NewFunction(nil, func(args []interface{}) (interface{}, error) { return nil, nil })
	assert.Equal(t, KindFunction, fn.Kind)
	assert.NotNil(t, fn.Call)
}
