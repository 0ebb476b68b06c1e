// Package ifaceerr defines the five-kind error taxonomy shared by the
// parser and evaluator, following go-dws's internal/errors package shape:
// accumulated, source-located errors with a formatting helper, plus a
// distinct wrapper for values thrown from sandbox code.
package ifaceerr

import (
	"fmt"
	"strings"

	"github.com/samlaycock/nookjs/internal/token"
)

// Kind tags which of the five taxonomy buckets an error belongs to.
type Kind int

const (
	Parse Kind = iota
	Runtime
	Security
	Feature
	Resource
)

func (k Kind) String() string {
	switch k {
	case Parse:
		return "parse"
	case Runtime:
		return "runtime"
	case Security:
		return "security"
	case Feature:
		return "feature"
	case Resource:
		return "resource"
	default:
		return "unknown"
	}
}

// CompilerError is one parse- or feature-kind diagnostic with a source
// position, mirroring go-dws's CompilerError.
type CompilerError struct {
	Kind    Kind
	Message string
	Pos     token.Position
}

func (e *CompilerError) Error() string {
	return fmt.Sprintf("%s error at %d:%d: %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
}

// ErrorList accumulates CompilerErrors across a parse or validation pass,
// following go-dws's pattern of collecting rather than failing fast.
type ErrorList struct {
	Errors []*CompilerError
}

func (l *ErrorList) Add(kind Kind, pos token.Position, format string, args ...interface{}) {
	l.Errors = append(l.Errors, &CompilerError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos})
}

func (l *ErrorList) HasErrors() bool { return len(l.Errors) > 0 }

// FormatErrors renders all accumulated errors, one per line, in the style
// go-dws's FormatErrors produces for CLI output.
func (l *ErrorList) FormatErrors() string {
	var b strings.Builder
	for i, e := range l.Errors {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

// FromStringErrors wraps a plain string slice (e.g. Parser.Errors()) into
// an ErrorList of errors of the given kind with no position information.
func FromStringErrors(kind Kind, msgs []string) *ErrorList {
	l := &ErrorList{}
	for _, m := range msgs {
		l.Errors = append(l.Errors, &CompilerError{Kind: kind, Message: m})
	}
	return l
}

// RuntimeError wraps a value thrown from sandbox code (or raised
// internally as security/resource) for the host Go boundary. The thrown
// sandbox value is preserved verbatim on Thrown so catch handlers and the
// host both see the original value (spec §7).
type RuntimeError struct {
	Kind       Kind
	Message    string
	Thrown     interface{} // the sandbox Value that was thrown, if any
	HostFnName string      // set when the error originated inside a host function
}

func (e *RuntimeError) Error() string {
	if e.HostFnName != "" {
		return fmt.Sprintf("%s error in host function %q: %s", e.Kind, e.HostFnName, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Catchable reports whether sandbox try/catch may intercept this error.
// Only Runtime errors are catchable; Security, Resource, and Abort-flagged
// errors unwind through finally blocks but always reach the host (spec §7).
func (e *RuntimeError) Catchable() bool { return e.Kind == Runtime }

// NewSecurity builds a Security-kind RuntimeError, used throughout the
// host proxy for dangerous-property and illegal-mutation violations.
func NewSecurity(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: Security, Message: fmt.Sprintf(format, args...)}
}

// NewResource builds a Resource-kind RuntimeError for exhausted limits and
// aborts.
func NewResource(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: Resource, Message: fmt.Sprintf(format, args...)}
}

// NewFeature builds a Feature-kind RuntimeError naming the disabled token.
func NewFeature(token string) *RuntimeError {
	return &RuntimeError{Kind: Feature, Message: fmt.Sprintf("disabled language feature: %s", token)}
}

// Sanitize applies the two error-sanitization flags (spec §4.9): scrubbing
// host file paths from the message, and replacing host-function-error
// messages with a fixed placeholder while still naming the host function.
func Sanitize(e *RuntimeError, sanitizeErrors, hideHostErrorMessages bool) *RuntimeError {
	out := *e
	if hideHostErrorMessages && out.HostFnName != "" {
		out.Message = "[host error]"
	}
	if sanitizeErrors {
		out.Message = scrubHostPaths(out.Message)
	}
	return &out
}

func scrubHostPaths(msg string) string {
	if i := strings.LastIndex(msg, "/"); i >= 0 {
		if j := strings.LastIndexByte(msg[:i], ' '); j >= 0 {
			return msg[:j+1] + "[host path]" + msg[i+1:]
		}
	}
	return msg
}
