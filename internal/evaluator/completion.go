package evaluator

// completionKind tags how a statement finished: falling off the end,
// `return`, `break`, `continue`, an uncaught throw, or a resource-tracker
// abort. try/finally propagation (spec §4.7 "finally overrides prior
// completion") is implemented entirely in terms of this type.
type completionKind int

const (
	cNormal completionKind = iota
	cReturn
	cBreak
	cContinue
	cThrow
	cAbort
	// cChainShort marks a `?.` short-circuit propagating up through an
	// enclosing optional chain (spec §3 ChainExpression invariant); it is
	// abrupt only to stop evaluating the rest of the chain, and is always
	// absorbed back into a normal Undefined result at the nearest
	// ChainExpression boundary.
	cChainShort
)

type completion struct {
	kind  completionKind
	value Value  // return value, or the thrown value for cThrow
	label string // break/continue label, "" for unlabeled
	err   error  // set for cAbort and for runtime/host-raised cThrow; nil for a sandbox `throw`
}

func normalCompletion() completion { return completion{kind: cNormal} }

func returnCompletion(v Value) completion { return completion{kind: cReturn, value: v} }

func breakCompletion(label string) completion { return completion{kind: cBreak, label: label} }

func continueCompletion(label string) completion { return completion{kind: cContinue, label: label} }

func throwCompletion(v Value, err error) completion {
	return completion{kind: cThrow, value: v, err: err}
}

func abortCompletion(err error) completion { return completion{kind: cAbort, err: err} }

func (c completion) isAbrupt() bool { return c.kind != cNormal }
