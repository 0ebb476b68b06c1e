// Package sandbox is the embeddable facade over internal/lexer,
// internal/parser, internal/evaluator, and internal/module (spec §6,
// C12), following the shape go-dws's pkg/dwscript Engine gives its own
// internal/interp: a functional-options constructor, a serialized
// Eval call, and thin host-registration helpers (RegisterFunction,
// SetOutput) layered over a package that never imports this one.
package sandbox

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/feature"
	"github.com/samlaycock/nookjs/internal/hostproxy"
	"github.com/samlaycock/nookjs/internal/ifaceerr"
	"github.com/samlaycock/nookjs/internal/lexer"
	"github.com/samlaycock/nookjs/internal/module"
	"github.com/samlaycock/nookjs/internal/parser"
	"github.com/samlaycock/nookjs/internal/resource"
)

// config is the concrete configuration type. It implements
// evaluator.Options so internal/evaluator can read it without importing
// this package.
type config struct {
	globals               map[string]evaluator.Value
	gate                  *feature.Gate
	validator             func(*ast.Program) bool
	sanitizeErrors        bool
	hideHostErrorMessages bool
	limits                resource.Limits

	modulesEnabled bool
	resolver       module.Resolver
	maxModuleDepth int
}

func (c *config) FeatureGate() *feature.Gate      { return c.gate }
func (c *config) ResourceLimits() resource.Limits { return c.limits }

// Engine is one embeddable interpreter instance (spec §5: "a single
// interpreter instance is single-threaded and not reentrant with respect
// to its own evaluations"). Eval and EvalModule serialize on mu the same
// way a DWScript engine executes one script at a time.
type Engine struct {
	mu sync.Mutex

	base    config
	tracker *resource.Tracker
	writer  io.Writer
}

// New builds an Engine from functional options. With no options it is a
// plain interpreter with every feature allowed, no resource limits, a
// blacklist (permissive) feature gate, output to os.Stdout, and
// sanitization flags on by default (spec §4.9 "Both default on").
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		base: config{
			globals:               make(map[string]evaluator.Value),
			gate:                  feature.Default(),
			sanitizeErrors:        true,
			hideHostErrorMessages: true,
		},
		writer: os.Stdout,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.tracker == nil {
		e.tracker = resource.NewTracker(resource.CumulativeLimits{})
	}
	return e, nil
}

// SetOutput redirects the globals print() writes to, mirroring go-dws's
// Engine.SetOutput.
func (e *Engine) SetOutput(w io.Writer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.writer = w
}

// Tracker returns the Engine's cumulative resource tracker, letting an
// embedder inspect per-evaluation history and totals after a call (spec
// §4.6) without reaching into unexported Engine state.
func (e *Engine) Tracker() *resource.Tracker {
	return e.tracker
}

// RegisterFunction wraps a Go function as a host global callable from
// sandbox code, following go-dws's Engine.RegisterFunction. Arguments are
// converted to the function's declared parameter types on each call; a
// final error return, if present, surfaces as a runtime error naming
// name as the host function (spec §7).
func (e *Engine) RegisterFunction(name string, fn interface{}) error {
	return e.RegisterGlobal(name, fn)
}

// RegisterGlobal installs a single host value as a global, usable after
// construction in addition to (or instead of) WithGlobals.
func (e *Engine) RegisterGlobal(name string, value interface{}) error {
	if hostproxy.IsForbiddenGlobalName(name) {
		return fmt.Errorf("identifier %q cannot be registered as a global", name)
	}
	wrapped, err := wrapGlobal(name, value)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.base.globals[name] = wrapped
	return nil
}

// Result is the outcome of one Eval/EvalModule call.
type Result struct {
	// Value is the completion value of the final expression statement
	// (script mode) or the module's export namespace (module mode).
	Value evaluator.Value
	// Success is false when evaluation ended with an uncaught error.
	Success bool
}

// Native converts Value into a plain Go value (spec §6 host boundary).
func (r *Result) Native() interface{} {
	if r == nil || r.Value == nil {
		return nil
	}
	return evaluator.ToNative(r.Value)
}

// Eval parses and evaluates src as a plain script (no module linking);
// import/export statements fail with a Feature-kind error in this mode,
// matching a nil module resolver in internal/evaluator (spec §4.8 is
// reached only through EvalModule).
func (e *Engine) Eval(src string, opts ...EvalOption) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.tracker.CheckBeforeRun(); err != nil {
		return &Result{Success: false}, err
	}

	call := e.buildCallConfig(opts)

	prog, err := parseSource(src)
	if err != nil {
		return &Result{Success: false}, err
	}
	if call.validator != nil && !call.validator(prog) {
		return &Result{Success: false}, &ifaceerr.CompilerError{Kind: ifaceerr.Parse, Message: "program rejected by validator"}
	}

	env := evaluator.NewGlobalEnvironment()
	evaluator.PopulateStandardGlobals(env, e.printFunc())
	for name, v := range call.globals {
		env.DeclareGlobal(name, v)
	}

	ev, run := evaluator.NewFromOptions(call)

	value, runtimeErr := ev.EvalProgram(prog, env)
	e.tracker.Record(run.Summary())
	if runtimeErr != nil {
		sanitized := ifaceerr.Sanitize(runtimeErr, e.base.sanitizeErrors, e.base.hideHostErrorMessages)
		return &Result{Success: false}, sanitized
	}
	return &Result{Value: value, Success: true}, nil
}

func parseSource(src string) (*ast.Program, error) {
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		errs := ifaceerr.FromStringErrors(ifaceerr.Parse, p.Errors())
		return nil, fmt.Errorf("%s", errs.FormatErrors())
	}
	return prog, nil
}

func (e *Engine) printFunc() func(string) {
	return func(s string) {
		if e.writer == nil {
			return
		}
		fmt.Fprintln(e.writer, s)
	}
}
