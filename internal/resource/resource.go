// Package resource implements the per-run and cumulative resource
// tracker (spec §4.6): call depth, loop iterations, memory estimate, an
// abort signal, and cumulative totals/peaks/history across an
// interpreter's lifetime.
package resource

import (
	"context"

	"github.com/samlaycock/nookjs/internal/ifaceerr"
)

// historyCap bounds the cumulative tracker's per-evaluation summary ring
// buffer (spec §3 "optional bounded history", fixed here at 64 entries
// mirroring go-dws's fixed-capacity call-stack slice pattern).
const historyCap = 64

// Limits bounds a single evaluation call (spec §6 per-call execution
// guards). Zero means "no limit" for that field.
type Limits struct {
	MaxCallStackDepth int
	MaxLoopIterations int
	MaxMemory         int64
	Signal            context.Context // canceled Context polls as an abort
}

// CumulativeLimits bounds an interpreter instance across all of its
// evaluations (spec §4.6).
type CumulativeLimits struct {
	MaxTotalMemory     int64
	MaxTotalIterations int64
	MaxTotalCalls      int64
	MaxEvaluations     int64
}

// Summary is one completed evaluation's counters, retained in the
// cumulative tracker's bounded history.
type Summary struct {
	CallDepthPeak  int
	TotalCalls     int64
	LoopIterations int
	Memory         int64
	Aborted        bool
}

// Run is the per-evaluation counter set, reset at the start of every
// call. Methods mutate it in place at the well-defined sites spec §4.6
// names: call entry/exit, loop iteration, allocation, statement boundary.
type Run struct {
	limits Limits

	callDepth     int
	callDepthPeak int
	totalCalls    int64 // every EnterCall, independent of depth, unlike callDepthPeak
	loopIters     map[*int]int // per-loop-instance iteration counts, keyed by the loop node's own counter cell
	totalIters    int
	memory        int64
	aborted       bool
}

// NewRun creates a per-run tracker bound by limits.
func NewRun(limits Limits) *Run {
	return &Run{limits: limits, loopIters: make(map[*int]int)}
}

// EnterCall increments call depth, failing if it would exceed the limit.
func (r *Run) EnterCall() error {
	r.callDepth++
	r.totalCalls++
	if r.callDepth > r.callDepthPeak {
		r.callDepthPeak = r.callDepth
	}
	if r.limits.MaxCallStackDepth > 0 && r.callDepth > r.limits.MaxCallStackDepth {
		return ifaceerr.NewResource("call stack depth exceeded (%d)", r.limits.MaxCallStackDepth)
	}
	return nil
}

// ExitCall decrements call depth on return, however the call completed.
func (r *Run) ExitCall() {
	if r.callDepth > 0 {
		r.callDepth--
	}
}

// LoopIteration records one iteration of the loop instance identified by
// counter (a distinct *int per live loop frame), failing once it would
// exceed MaxLoopIterations.
func (r *Run) LoopIteration(counter *int) error {
	r.loopIters[counter]++
	r.totalIters++
	if r.limits.MaxLoopIterations > 0 && r.loopIters[counter] > r.limits.MaxLoopIterations {
		return ifaceerr.NewResource("loop iteration limit exceeded (%d)", r.limits.MaxLoopIterations)
	}
	return nil
}

// Alloc kinds map to a fixed per-allocation size estimate (spec §4.6).
const (
	AllocArrayElement int64 = 8
	AllocObjectProp   int64 = 32
	AllocStringByte   int64 = 1
	AllocClosureCap   int64 = 16
)

// Alloc records a memory estimate increment, failing if it would exceed
// MaxMemory.
func (r *Run) Alloc(n int64) error {
	r.memory += n
	if r.limits.MaxMemory > 0 && r.memory > r.limits.MaxMemory {
		return ifaceerr.NewResource("memory limit exceeded (%d bytes)", r.limits.MaxMemory)
	}
	return nil
}

// CheckAbort polls the abort signal; called at statement boundaries and
// on every suspension resume (spec §4.6, §5).
func (r *Run) CheckAbort() error {
	if r.aborted {
		return ifaceerr.NewResource("evaluation aborted")
	}
	if r.limits.Signal != nil {
		select {
		case <-r.limits.Signal.Done():
			r.aborted = true
			return ifaceerr.NewResource("evaluation aborted")
		default:
		}
	}
	return nil
}

// Summary snapshots this run's counters for the cumulative tracker.
func (r *Run) Summary() Summary {
	return Summary{
		CallDepthPeak:  r.callDepthPeak,
		TotalCalls:     r.totalCalls,
		LoopIterations: r.totalIters,
		Memory:         r.memory,
		Aborted:        r.aborted,
	}
}

// Tracker aggregates Summary values across every evaluation of one
// interpreter instance (spec §4.6 cumulative counters).
type Tracker struct {
	limits CumulativeLimits

	evaluations int64
	totalMemory int64
	totalIters  int64
	totalCalls  int64
	peakMemory  int64
	peakIters   int

	history    [historyCap]Summary
	historyLen int
	historyPos int

	exhausted bool
}

// NewTracker creates a cumulative tracker bound by limits.
func NewTracker(limits CumulativeLimits) *Tracker {
	return &Tracker{limits: limits}
}

// Exhausted reports whether a prior cumulative limit was breached; once
// true, further evaluations reject without executing (spec §4.6).
func (t *Tracker) Exhausted() bool { return t.exhausted }

// CheckBeforeRun rejects a new evaluation outright if the cumulative
// evaluation-count limit is already met.
func (t *Tracker) CheckBeforeRun() error {
	if t.exhausted {
		return ifaceerr.NewResource("cumulative resource limits exhausted")
	}
	if t.limits.MaxEvaluations > 0 && t.evaluations >= t.limits.MaxEvaluations {
		t.exhausted = true
		return ifaceerr.NewResource("cumulative evaluation count limit exceeded (%d)", t.limits.MaxEvaluations)
	}
	return nil
}

// Record folds one completed run's Summary into the cumulative totals and
// bounded history, flagging exhaustion if any cumulative limit is now
// breached.
func (t *Tracker) Record(s Summary) {
	t.evaluations++
	t.totalMemory += s.Memory
	t.totalIters += int64(s.LoopIterations)
	t.totalCalls += s.TotalCalls
	if s.Memory > t.peakMemory {
		t.peakMemory = s.Memory
	}
	if s.LoopIterations > t.peakIters {
		t.peakIters = s.LoopIterations
	}

	t.history[t.historyPos] = s
	t.historyPos = (t.historyPos + 1) % historyCap
	if t.historyLen < historyCap {
		t.historyLen++
	}

	if t.limits.MaxTotalMemory > 0 && t.totalMemory > t.limits.MaxTotalMemory {
		t.exhausted = true
	}
	if t.limits.MaxTotalIterations > 0 && t.totalIters > t.limits.MaxTotalIterations {
		t.exhausted = true
	}
	if t.limits.MaxTotalCalls > 0 && t.totalCalls > t.limits.MaxTotalCalls {
		t.exhausted = true
	}
}

// History returns the retained per-evaluation summaries, oldest first.
func (t *Tracker) History() []Summary {
	out := make([]Summary, t.historyLen)
	start := t.historyPos - t.historyLen
	for i := 0; i < t.historyLen; i++ {
		idx := ((start+i)%historyCap + historyCap) % historyCap
		out[i] = t.history[idx]
	}
	return out
}

// Evaluations returns the total number of evaluations recorded.
func (t *Tracker) Evaluations() int64 { return t.evaluations }

// PeakMemory returns the largest single-evaluation memory estimate seen.
func (t *Tracker) PeakMemory() int64 { return t.peakMemory }

// PeakIterations returns the largest single-evaluation loop-iteration
// count seen.
func (t *Tracker) PeakIterations() int { return t.peakIters }
