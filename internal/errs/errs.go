// Package errs defines the fatal error taxonomy shared by every stage of
// the compiler, in the style of Orizon's internal/errors package: one
// concrete error type carrying a Kind and a small context bag, rather than
// a family of sentinel values or per-package error types.
package errs

import "fmt"

// Kind classifies why the compiler gave up. Every Kind is terminal: none
// of them are recovered locally, all of them propagate to the driver and
// end the process with a non-zero status.
type Kind string

const (
	// Back-end kinds (core contract, §7 of the back-end design).
	UnsupportedOperand Kind = "UnsupportedOperand"
	NotInRegister      Kind = "NotInRegister"
	NoFreeRegister     Kind = "NoFreeRegister"
	NotImplemented     Kind = "NotImplemented"
	UnsupportedOpcode  Kind = "UnsupportedOpcode"

	// Front-end kinds, needed to make the pipeline buildable end to end.
	SyntaxError       Kind = "SyntaxError"
	UnknownIdentifier Kind = "UnknownIdentifier"
	TypeMismatch      Kind = "TypeMismatch"
	VersionMismatch   Kind = "VersionMismatch"
)

// Error is the single error type raised anywhere in the compiler.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]any
}

func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("[%s] %s (%v)", e.Kind, e.Message, e.Context)
}

// New builds an Error of the given kind with an optional context bag.
// ctx is read as alternating key, value pairs, mirroring how the call
// sites read most naturally (errs.New(errs.NotInRegister, "...", "var", name)).
func New(kind Kind, message string, ctx ...any) *Error {
	e := &Error{Kind: kind, Message: message}
	if len(ctx) == 0 {
		return e
	}
	e.Context = make(map[string]any, len(ctx)/2)
	for i := 0; i+1 < len(ctx); i += 2 {
		key, ok := ctx[i].(string)
		if !ok {
			continue
		}
		e.Context[key] = ctx[i+1]
	}
	return e
}

// Is reports whether err is an *Error of the given Kind, for use in tests.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
