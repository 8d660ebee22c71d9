// Package errs defines the typed error kinds shared by the simulation,
// rollback, replay, and wire packages.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error without callers needing to match on message text.
type Kind int

const (
	// InvalidArgument covers malformed caller input: zero seed, history
	// capacity below 2, an unknown local role, and similar construction-time
	// mistakes.
	InvalidArgument Kind = iota
	// Unsupported covers a well-formed request this version of the format
	// or engine deliberately does not handle, such as a non-zero replay
	// start frame.
	Unsupported
	// Corrupt covers a file or packet that fails an integrity check: bad
	// magic, unknown flags, a wrong declared length, or a CRC mismatch.
	Corrupt
	// InsufficientHistory covers a rollback target whose snapshot has been
	// evicted from the ring buffer.
	InsufficientHistory
	// MissingLocalInput covers a re-simulation pass that found no recorded
	// local input for a frame at or before the current frame — a
	// programming error in the caller, not a user condition.
	MissingLocalInput
	// Truncated covers a stream that ended before the declared number of
	// bytes could be read.
	Truncated
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid_argument"
	case Unsupported:
		return "unsupported"
	case Corrupt:
		return "corrupt"
	case InsufficientHistory:
		return "insufficient_history"
	case MissingLocalInput:
		return "missing_local_input"
	case Truncated:
		return "truncated"
	default:
		return "unknown"
	}
}

// Error is a typed-kind error carrying a diagnostic message and an
// optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an *Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with a wrapped cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
