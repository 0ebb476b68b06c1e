// Package module implements the ES-module-style linker (spec §4.8, C11):
// specifier resolution, a status-tracked module cache, cycle detection,
// a configurable recursion depth guard, and re-export instantiation. It
// sits above internal/evaluator the way go-dws's pkg/dwscript composes
// internal/interp — the linker owns the module graph, handing each
// module body to its own Evaluator instance to run.
package module

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/feature"
	"github.com/samlaycock/nookjs/internal/ifaceerr"
	"github.com/samlaycock/nookjs/internal/lexer"
	"github.com/samlaycock/nookjs/internal/parser"
	"github.com/samlaycock/nookjs/internal/resource"
)

// Result is what a host-supplied Resolver hands back for one specifier
// (spec §4.8 step 3): exactly one of Source, Program, or Namespace should
// be set. The cache keys records by the raw specifier string passed to
// the resolver (spec §3, "the cache maps specifier → record"), so a host
// resolving two different specifiers to the same underlying module gets
// two separate records and two separate evaluations.
type Result struct {
	Source    string
	Program   *ast.Program
	Namespace *evaluator.Object
}

// Resolver maps an import specifier to a Result, or returns a nil Result
// (not found) or an error to fail the host import (spec §4.8 step 3).
type Resolver func(specifier string) (*Result, error)

type status int

const (
	statusInitializing status = iota
	statusInitialized
	statusFailed
)

type record struct {
	status  status
	exports *evaluator.Object
	err     error
}

// Linker resolves and links a module graph rooted at whatever specifiers
// its importers name, caching by specifier, detecting cycles via
// record status, and bounding recursion depth (spec §4.8 steps 1-4, 7).
// Not safe for concurrent Link calls from more than one goroutine sharing
// the same specifier without the singleflight dedup below — callers
// running generator bodies on separate goroutines rely on that dedup to
// keep the "resolver called exactly once per specifier" property (spec
// §8 scenario 8).
type Linker struct {
	resolver  Resolver
	globalEnv *evaluator.Environment
	gate      *feature.Gate
	run       *resource.Run
	maxDepth  int

	mu      sync.Mutex
	records map[string]*record

	group singleflight.Group
}

// New builds a Linker. globalEnv is the shared environment every module
// body's top-level frame is chained under (standard globals plus any
// host-supplied globals); maxDepth <= 0 means unbounded.
func New(resolver Resolver, globalEnv *evaluator.Environment, gate *feature.Gate, run *resource.Run, maxDepth int) *Linker {
	return &Linker{
		resolver:  resolver,
		globalEnv: globalEnv,
		gate:      gate,
		run:       run,
		maxDepth:  maxDepth,
		records:   make(map[string]*record),
	}
}

// Link resolves, instantiates, and evaluates the module graph rooted at
// specifier, returning its read-only export namespace (spec §4.8).
func (l *Linker) Link(specifier string) (*evaluator.Object, error) {
	return l.link(specifier, 0)
}

func (l *Linker) link(specifier string, depth int) (*evaluator.Object, error) {
	l.mu.Lock()
	if rec, ok := l.records[specifier]; ok {
		status, exports, err := rec.status, rec.exports, rec.err
		l.mu.Unlock()
		switch status {
		case statusInitialized:
			return exports, nil
		case statusInitializing:
			// Cycle (spec §4.8 step 2): hand back whatever this module has
			// exported so far; subsequent reads by the importer see later
			// exports only if they re-read the same namespace object.
			return exports, nil
		default:
			return nil, err
		}
	}
	if l.maxDepth > 0 && depth > l.maxDepth {
		l.mu.Unlock()
		return nil, ifaceerr.NewResource("module resolution exceeded max depth %d", l.maxDepth)
	}
	rec := &record{status: statusInitializing, exports: evaluator.NewObject()}
	l.records[specifier] = rec
	l.mu.Unlock()

	exports, err := l.instantiate(specifier, depth, rec.exports)
	l.mu.Lock()
	if err != nil {
		rec.status = statusFailed
		rec.err = err
	} else {
		rec.status = statusInitialized
		rec.exports = exports
	}
	l.mu.Unlock()
	return exports, err
}

// resolveOnce calls the resolver exactly once per specifier even under
// concurrent callers, via singleflight; the module cache above already
// prevents duplicate calls from sequential/recursive callers, this
// covers the case of two goroutines (e.g. two generator bodies) racing to
// import the same not-yet-cached specifier.
func (l *Linker) resolveOnce(specifier string) (*Result, error) {
	v, err, _ := l.group.Do(specifier, func() (interface{}, error) {
		return l.resolver(specifier)
	})
	if err != nil {
		return nil, err
	}
	res, _ := v.(*Result)
	return res, nil
}

// instantiate links and evaluates one module body. placeholder is the
// empty exports object already installed in the cache's `initializing`
// record; the evaluator fills it in place (rather than building a
// separate exports object and swapping it in at the end) so that a
// cyclic importer reading it mid-evaluation sees live partial exports,
// matching the record's `initializing`-status contract.
func (l *Linker) instantiate(specifier string, depth int, placeholder *evaluator.Object) (*evaluator.Object, error) {
	res, err := l.resolveOnce(specifier)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ifaceerr.NewResource("module %q not found", specifier)
	}
	if res.Namespace != nil {
		return res.Namespace, nil
	}

	prog := res.Program
	if prog == nil {
		p := parser.New(lexer.New(res.Source))
		prog = p.ParseProgram()
		if len(p.Errors()) > 0 {
			errs := ifaceerr.FromStringErrors(ifaceerr.Parse, p.Errors())
			return nil, fmt.Errorf("%s", errs.FormatErrors())
		}
	}

	moduleEnv := evaluator.NewFunctionEnvironment(l.globalEnv)
	ev := evaluator.New(l.gate, l.run)
	ev.SetExports(placeholder)
	ev.SetModuleResolver(func(childSpecifier string) (*evaluator.Object, error) {
		return l.link(childSpecifier, depth+1)
	})

	// evaluator.EvalProgram runs import/export statements itself (via the
	// resolver above) as it reaches them in source order (spec §4.8 steps
	// 4-6 interleaved rather than a separate dependency-first pre-pass,
	// since import declarations are always written at the top of a module
	// body by convention and the resolver call is idempotent per specifier
	// either way); it also hoists function declarations, export-wrapped or
	// not, before running the body.
	_, runtimeErr := ev.EvalProgram(prog, moduleEnv)
	if runtimeErr != nil {
		return nil, runtimeErr
	}
	return ev.Exports(), nil
}
