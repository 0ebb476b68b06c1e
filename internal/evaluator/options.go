package evaluator

import (
	"github.com/samlaycock/nookjs/internal/feature"
	"github.com/samlaycock/nookjs/internal/resource"
)

// Options decouples Evaluator construction from its facade package
// (pkg/sandbox), mirroring go-dws's internal/interp.Options split from
// pkg/dwscript: the concrete configuration type lives in the facade and
// implements this interface, so internal/evaluator never imports
// pkg/sandbox and the two packages cannot form an import cycle.
type Options interface {
	// FeatureGate returns the gate to enforce for this evaluation, or nil
	// to allow every feature.
	FeatureGate() *feature.Gate

	// ResourceLimits returns the per-call limits to bound this evaluation
	// with.
	ResourceLimits() resource.Limits
}

// NewFromOptions builds an Evaluator plus the per-call resource tracker
// it runs under, reading both from an Options implementation. opts may be
// nil, in which case the evaluator runs unbounded with every feature
// allowed.
func NewFromOptions(opts Options) (*Evaluator, *resource.Run) {
	var gate *feature.Gate
	var limits resource.Limits
	if opts != nil {
		gate = opts.FeatureGate()
		limits = opts.ResourceLimits()
	}
	run := resource.NewRun(limits)
	return New(gate, run), run
}
