package sandbox

import (
	"fmt"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/ifaceerr"
	"github.com/samlaycock/nookjs/internal/module"
)

// EvalModule runs the module graph rooted at specifier through the
// Engine's resolver (spec §4.8, C11), returning the entry module's
// export namespace as Result.Value. Requires WithModules to have been
// supplied at construction; otherwise it returns a plain error before
// resolving or evaluating anything.
func (e *Engine) EvalModule(specifier string, opts ...EvalOption) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.base.modulesEnabled || e.base.resolver == nil {
		return &Result{Success: false}, fmt.Errorf("module evaluation requires WithModules at construction")
	}
	if err := e.tracker.CheckBeforeRun(); err != nil {
		return &Result{Success: false}, err
	}

	call := e.buildCallConfig(opts)

	env := evaluator.NewGlobalEnvironment()
	evaluator.PopulateStandardGlobals(env, e.printFunc())
	for name, v := range call.globals {
		env.DeclareGlobal(name, v)
	}

	_, run := evaluator.NewFromOptions(call)
	linker := module.New(e.base.resolver, env, call.gate, run, e.base.maxModuleDepth)

	exports, linkErr := linker.Link(specifier)
	e.tracker.Record(run.Summary())
	if linkErr != nil {
		if re, ok := linkErr.(*ifaceerr.RuntimeError); ok {
			sanitized := ifaceerr.Sanitize(re, e.base.sanitizeErrors, e.base.hideHostErrorMessages)
			return &Result{Success: false}, sanitized
		}
		return &Result{Success: false}, linkErr
	}
	return &Result{Value: exports, Success: true}, nil
}
