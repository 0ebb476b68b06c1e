package resource

import (
	"context"
	"testing"
)

func TestRunEnterExitCallTracksDepthPeak(t *testing.T) {
	r := NewRun(Limits{})

	if err := r.EnterCall(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.EnterCall(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.ExitCall()
	if err := r.EnterCall(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := r.Summary()
	if s.CallDepthPeak != 2 {
		t.Errorf("expected peak depth 2, got %d", s.CallDepthPeak)
	}
}

func TestRunSummaryCountsEveryCallNotJustPeakDepth(t *testing.T) {
	r := NewRun(Limits{})

	// 100 sequential, non-recursive calls: depth never exceeds 1, but
	// every one of them should still count toward TotalCalls.
	for i := 0; i < 100; i++ {
		if err := r.EnterCall(); err != nil {
			t.Fatalf("unexpected error on call %d: %v", i, err)
		}
		r.ExitCall()
	}

	s := r.Summary()
	if s.CallDepthPeak != 1 {
		t.Errorf("expected peak depth 1, got %d", s.CallDepthPeak)
	}
	if s.TotalCalls != 100 {
		t.Errorf("expected 100 total calls, got %d", s.TotalCalls)
	}
}

func TestRunEnterCallFailsAtLimit(t *testing.T) {
	r := NewRun(Limits{MaxCallStackDepth: 1})

	if err := r.EnterCall(); err != nil {
		t.Fatalf("first call should be under the limit: %v", err)
	}
	if err := r.EnterCall(); err == nil {
		t.Fatal("expected an error exceeding the call stack depth limit")
	}
}

func TestRunLoopIterationPerCounterLimit(t *testing.T) {
	r := NewRun(Limits{MaxLoopIterations: 2})
	counter := new(int)
	otherCounter := new(int)

	if err := r.LoopIteration(counter); err != nil {
		t.Fatalf("unexpected error on iteration 1: %v", err)
	}
	if err := r.LoopIteration(counter); err != nil {
		t.Fatalf("unexpected error on iteration 2: %v", err)
	}
	if err := r.LoopIteration(counter); err == nil {
		t.Fatal("expected loop iteration limit to trip on the 3rd iteration")
	}

	// A distinct loop instance has its own counter.
	if err := r.LoopIteration(otherCounter); err != nil {
		t.Fatalf("a separate loop instance should not inherit the exhausted counter: %v", err)
	}
}

func TestRunAllocFailsOverMemoryLimit(t *testing.T) {
	r := NewRun(Limits{MaxMemory: 10})

	if err := r.Alloc(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Alloc(10); err == nil {
		t.Fatal("expected memory limit to trip")
	}
}

func TestRunCheckAbortOnCanceledSignal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRun(Limits{Signal: ctx})

	if err := r.CheckAbort(); err != nil {
		t.Fatalf("unexpected abort before cancellation: %v", err)
	}
	cancel()
	if err := r.CheckAbort(); err == nil {
		t.Fatal("expected CheckAbort to report the canceled signal")
	}
	// Once aborted, stays aborted even if checked again.
	if err := r.CheckAbort(); err == nil {
		t.Fatal("expected CheckAbort to remain aborted")
	}
}

func TestTrackerRecordAccumulatesAndBoundsHistory(t *testing.T) {
	tr := NewTracker(CumulativeLimits{})

	for i := 0; i < historyCap+5; i++ {
		tr.Record(Summary{CallDepthPeak: 1, LoopIterations: i, Memory: int64(i)})
	}

	if tr.Evaluations() != int64(historyCap+5) {
		t.Errorf("expected %d evaluations, got %d", historyCap+5, tr.Evaluations())
	}
	hist := tr.History()
	if len(hist) != historyCap {
		t.Errorf("expected history capped at %d, got %d", historyCap, len(hist))
	}
	// Oldest entries should have been evicted; the last entry in history
	// corresponds to the most recent Record call.
	if hist[len(hist)-1].LoopIterations != historyCap+4 {
		t.Errorf("expected newest history entry to be the latest summary, got %+v", hist[len(hist)-1])
	}
}

func TestTrackerExhaustsOnCumulativeLimit(t *testing.T) {
	tr := NewTracker(CumulativeLimits{MaxEvaluations: 1})

	if err := tr.CheckBeforeRun(); err != nil {
		t.Fatalf("first evaluation should be allowed: %v", err)
	}
	tr.Record(Summary{})
	if err := tr.CheckBeforeRun(); err == nil {
		t.Fatal("expected the cumulative evaluation limit to reject a second run")
	}
	if !tr.Exhausted() {
		t.Error("tracker should report Exhausted() once its limit trips")
	}
}

func TestTrackerMaxTotalCallsCatchesFlatCallFlood(t *testing.T) {
	tr := NewTracker(CumulativeLimits{MaxTotalCalls: 150})

	r := NewRun(Limits{})
	for i := 0; i < 100; i++ {
		if err := r.EnterCall(); err != nil {
			t.Fatalf("unexpected error on call %d: %v", i, err)
		}
		r.ExitCall()
	}
	tr.Record(r.Summary())
	if tr.Exhausted() {
		t.Fatal("100 calls should not yet exhaust a 150 call budget")
	}

	r2 := NewRun(Limits{})
	for i := 0; i < 100; i++ {
		if err := r2.EnterCall(); err != nil {
			t.Fatalf("unexpected error on call %d: %v", i, err)
		}
		r2.ExitCall()
	}
	tr.Record(r2.Summary())
	if !tr.Exhausted() {
		t.Fatal("200 cumulative flat calls should exceed a 150 call budget")
	}
}

func TestTrackerPeakMemoryAndIterations(t *testing.T) {
	tr := NewTracker(CumulativeLimits{})
	tr.Record(Summary{Memory: 100, LoopIterations: 3})
	tr.Record(Summary{Memory: 50, LoopIterations: 9})
	tr.Record(Summary{Memory: 200, LoopIterations: 1})

	if tr.PeakMemory() != 200 {
		t.Errorf("expected peak memory 200, got %d", tr.PeakMemory())
	}
	if tr.PeakIterations() != 9 {
		t.Errorf("expected peak iterations 9, got %d", tr.PeakIterations())
	}
}
