// Package apierr defines the typed error categories returned across
// agentwire's public and internal APIs, so callers can branch on Kind
// instead of matching error text.
package apierr

import "fmt"

// Kind classifies an error into one of the dispositions of the error
// handling design: each Kind maps to exactly one row of that table.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfigMissing
	KindUnknownType
	KindFieldTooLarge
	KindBodyOverflow
	KindUnknownSender
	KindUnknownRecipient
	KindTransportFatal
	KindAgentLimitExceeded
	KindConstrictMismatch
)

func (k Kind) String() string {
	switch k {
	case KindConfigMissing:
		return "ConfigMissing"
	case KindUnknownType:
		return "UnknownType"
	case KindFieldTooLarge:
		return "FieldTooLarge"
	case KindBodyOverflow:
		return "BodyOverflow"
	case KindUnknownSender:
		return "UnknownSender"
	case KindUnknownRecipient:
		return "UnknownRecipient"
	case KindTransportFatal:
		return "TransportFatal"
	case KindAgentLimitExceeded:
		return "AgentLimitExceeded"
	case KindConstrictMismatch:
		return "ConstrictMismatch"
	default:
		return "Unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an *Error of the given kind wrapping cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	ae, ok := err.(*Error)
	return ok && ae.Kind == kind
}
