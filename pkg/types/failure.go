package types

import (
	"errors"
	"fmt"
)

type FailureKind int

const (
	Unknown FailureKind = iota
	RendererUnavailable
	RenderFailed
	RenderOutputMissing
	RenderTimeout
	DecodeFailure
	IOFailure
	InvalidInput
)

var kindNames = map[FailureKind]string{
	Unknown:             "unknown",
	RendererUnavailable: "renderer unavailable",
	RenderFailed:        "render failed",
	RenderOutputMissing: "render output missing",
	RenderTimeout:       "render timed out",
	DecodeFailure:       "decode failure",
	IOFailure:           "io failure",
	InvalidInput:        "invalid input",
}

func (k FailureKind) String() string { return kindNames[k] }

// Failure is the error type returned by every conversion step.
// Diagnostics holds renderer output when there is any.
type Failure struct {
	Kind        FailureKind
	Op          string
	Diagnostics string
	Err         error
}

func (f *Failure) Error() string {
	msg := f.Op
	if msg == "" {
		msg = f.Kind.String()
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	if f.Diagnostics != "" {
		msg += ": " + f.Diagnostics
	}
	return msg
}

func (f *Failure) Unwrap() error { return f.Err }

// Fail builds a Failure. err may be nil.
func Fail(kind FailureKind, op string, err error) *Failure {
	return &Failure{Kind: kind, Op: op, Err: err}
}

func Failf(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Op: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of the first Failure in err's chain.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return Unknown
}
