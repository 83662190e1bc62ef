package servicenow

import (
	"errors"
	"fmt"
)

// Kind classifies façade errors into a closed set so callers can react
// without string matching. Text rendering happens only at the tool layer.
type Kind string

const (
	// KindTransport covers network failures, non-2xx responses, and
	// malformed JSON from the Table API.
	KindTransport Kind = "transport"
	// KindNotFound is returned when a by-identifier lookup matches nothing.
	KindNotFound Kind = "not-found"
	// KindValidation is returned when a request is rejected before it is
	// sent, e.g. a missing required field.
	KindValidation Kind = "validation"
	// KindParse is returned when a response cannot be decoded.
	KindParse Kind = "parse"
)

// Error is the façade's error type. Op names the façade operation that
// failed, e.g. "query_cases".
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// ErrorKind returns the Kind of err when it is a façade *Error, or "" otherwise.
func ErrorKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsNotFound reports whether err is a not-found façade error.
func IsNotFound(err error) bool {
	return ErrorKind(err) == KindNotFound
}
