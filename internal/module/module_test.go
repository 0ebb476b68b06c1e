package module

import (
	"fmt"
	"testing"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/feature"
	"github.com/samlaycock/nookjs/internal/resource"
)

func sourceResolver(files map[string]string) Resolver {
	return func(specifier string) (*Result, error) {
		src, ok := files[specifier]
		if !ok {
			return nil, nil
		}
		return &Result{Source: src}, nil
	}
}

func newLinker(files map[string]string) *Linker {
	env := evaluator.NewGlobalEnvironment()
	evaluator.PopulateStandardGlobals(env, func(string) {})
	return New(sourceResolver(files), env, feature.Default(), resource.NewRun(resource.Limits{}), 0)
}

func TestLinkSimpleModuleExports(t *testing.T) {
	l := newLinker(map[string]string{
		"math": `export const double = x => x * 2;`,
	})
	exports, err := l.Link("math")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := exports.Get("double"); !ok {
		t.Fatal("expected export named 'double'")
	}
}

func TestLinkMissingModuleFails(t *testing.T) {
	l := newLinker(map[string]string{})
	_, err := l.Link("does-not-exist")
	if err == nil {
		t.Fatal("expected an error resolving a missing module")
	}
}

func TestLinkCachesBySpecifier(t *testing.T) {
	calls := 0
	resolver := func(specifier string) (*Result, error) {
		calls++
		return &Result{Source: `export const value = 1;`}, nil
	}
	env := evaluator.NewGlobalEnvironment()
	evaluator.PopulateStandardGlobals(env, func(string) {})
	l := New(resolver, env, feature.Default(), resource.NewRun(resource.Limits{}), 0)

	if _, err := l.Link("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Link("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected the resolver to be called once for a repeated specifier, got %d calls", calls)
	}
}

func TestLinkDistinctSpecifiersGetSeparateRecords(t *testing.T) {
	calls := 0
	resolver := func(specifier string) (*Result, error) {
		calls++
		return &Result{Source: `export const value = 1;`}, nil
	}
	env := evaluator.NewGlobalEnvironment()
	evaluator.PopulateStandardGlobals(env, func(string) {})
	l := New(resolver, env, feature.Default(), resource.NewRun(resource.Limits{}), 0)

	if _, err := l.Link("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Link("b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected the resolver to be called once per distinct specifier, got %d calls", calls)
	}
}

func TestLinkMaxDepthExceeded(t *testing.T) {
	files := map[string]string{}
	const depth = 5
	for i := 0; i < depth; i++ {
		files[fmt.Sprintf("mod%d", i)] = fmt.Sprintf(`import {} from "mod%d"; export const v = %d;`, i+1, i)
	}
	files[fmt.Sprintf("mod%d", depth)] = `export const v = 99;`

	l := newLinker(files)
	l.maxDepth = 2

	_, err := l.Link("mod0")
	if err == nil {
		t.Fatal("expected a max-depth resource error")
	}
}

func TestLinkParseErrorSurfaces(t *testing.T) {
	l := newLinker(map[string]string{
		"broken": `export const = ;`,
	})
	_, err := l.Link("broken")
	if err == nil {
		t.Fatal("expected a parse error from malformed module source")
	}
}
