package sandbox

import (
	"fmt"
	"io"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/feature"
	"github.com/samlaycock/nookjs/internal/hostproxy"
	"github.com/samlaycock/nookjs/internal/module"
	"github.com/samlaycock/nookjs/internal/resource"
)

// Option configures an Engine at construction time (spec §6 "Constructor
// options"), following go-dws's pkg/dwscript With* pattern.
type Option func(*Engine) error

// WithGlobals registers a set of host values as globals, wrapped on
// entry the same way RegisterGlobal wraps a single value. Returns an
// error at construction time if any name is forbidden (spec §6
// "Forbidden global identifiers").
func WithGlobals(globals map[string]interface{}) Option {
	return func(e *Engine) error {
		for name, v := range globals {
			if hostproxy.IsForbiddenGlobalName(name) {
				return fmt.Errorf("identifier %q cannot be registered as a global", name)
			}
			wrapped, err := wrapGlobal(name, v)
			if err != nil {
				return err
			}
			e.base.globals[name] = wrapped
		}
		return nil
	}
}

// WithFeatureControl sets the constructor-level feature gate (spec §6
// "featureControl"). Per-call EvalOption WithCallFeatureControl fully
// replaces this for that one call.
func WithFeatureControl(mode feature.Mode, tokens []feature.Token) Option {
	return func(e *Engine) error {
		e.base.gate = feature.New(mode, tokens)
		return nil
	}
}

// WithValidator installs the constructor-level AST validator (spec §6
// "validator"): called once per Eval with the parsed program, rejecting
// with a fixed parse-kind error when it returns false.
func WithValidator(v func(*ast.Program) bool) Option {
	return func(e *Engine) error {
		e.base.validator = v
		return nil
	}
}

// WithSecurity sets the two error-sanitization flags (spec §4.9, §6
// "security"). Both default to true in New.
func WithSecurity(sanitizeErrors, hideHostErrorMessages bool) Option {
	return func(e *Engine) error {
		e.base.sanitizeErrors = sanitizeErrors
		e.base.hideHostErrorMessages = hideHostErrorMessages
		return nil
	}
}

// WithResourceTracker installs a pre-existing cumulative tracker instead
// of the fresh one New creates by default (spec §6 "resourceTracker"),
// letting several Engines share one cumulative budget.
func WithResourceTracker(t *resource.Tracker) Option {
	return func(e *Engine) error {
		e.tracker = t
		return nil
	}
}

// WithLimits sets the constructor-level default per-call execution
// guards (spec §6's per-call maxCallStackDepth/maxLoopIterations/
// maxMemory), overridable per Eval call via WithCallLimits.
func WithLimits(limits resource.Limits) Option {
	return func(e *Engine) error {
		e.base.limits = limits
		return nil
	}
}

// WithModules enables module-mode evaluation (EvalModule) with resolver
// and a recursion depth guard (spec §6 "modules: { enabled, resolver,
// cache, maxDepth }"). The cache lives inside the module.Linker that
// EvalModule builds afresh on every call, so it covers one call's module
// graph only; a later EvalModule call resolves every specifier again.
func WithModules(resolver module.Resolver, maxDepth int) Option {
	return func(e *Engine) error {
		e.base.modulesEnabled = true
		e.base.resolver = resolver
		e.base.maxModuleDepth = maxDepth
		return nil
	}
}

// WithOutput sets the writer the print() global writes to, equivalent to
// calling SetOutput before the first Eval.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) error {
		e.writer = w
		return nil
	}
}

// callConfig is the effective per-call configuration after merging
// constructor defaults with EvalOption overrides (spec §6 "Evaluate-call
// options. Override-and-merge semantics").
type callConfig struct {
	globals   map[string]evaluator.Value
	gate      *feature.Gate
	validator func(*ast.Program) bool
	limits    resource.Limits
}

// FeatureGate and ResourceLimits make callConfig itself an
// evaluator.Options implementation, so Eval/EvalModule can hand it
// straight to evaluator.NewFromOptions instead of unpacking it by hand.
func (c *callConfig) FeatureGate() *feature.Gate      { return c.gate }
func (c *callConfig) ResourceLimits() resource.Limits { return c.limits }

// EvalOption configures one Eval/EvalModule call.
type EvalOption func(*callConfig)

// WithCallGlobals merges additional globals over the constructor set for
// this call only (spec §6 "per-call globals merges over constructor
// globals").
func WithCallGlobals(globals map[string]interface{}) EvalOption {
	return func(c *callConfig) {
		for name, v := range globals {
			if hostproxy.IsForbiddenGlobalName(name) {
				continue
			}
			wrapped, err := wrapGlobal(name, v)
			if err != nil {
				continue
			}
			c.globals[name] = wrapped
		}
	}
}

// WithCallFeatureControl fully replaces the constructor gate for this
// call only (spec §6 "per-call validator and featureControl fully
// replace the constructor value").
func WithCallFeatureControl(mode feature.Mode, tokens []feature.Token) EvalOption {
	return func(c *callConfig) {
		c.gate = feature.New(mode, tokens)
	}
}

// WithCallValidator fully replaces the constructor validator for this
// call only.
func WithCallValidator(v func(*ast.Program) bool) EvalOption {
	return func(c *callConfig) {
		c.validator = v
	}
}

// WithCallLimits fully replaces the per-call execution guards for this
// call (spec §6 "maxCallStackDepth, maxLoopIterations, maxMemory,
// signal").
func WithCallLimits(limits resource.Limits) EvalOption {
	return func(c *callConfig) {
		c.limits = limits
	}
}

func (e *Engine) buildCallConfig(opts []EvalOption) *callConfig {
	c := &callConfig{
		globals: make(map[string]evaluator.Value, len(e.base.globals)),
		gate:    e.base.gate,
		limits:  e.base.limits,
	}
	for name, v := range e.base.globals {
		c.globals[name] = v
	}
	c.validator = e.base.validator
	for _, opt := range opts {
		opt(c)
	}
	return c
}
