package feed

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates generation pipeline failures so the HTTP
// boundary can map each one exactly once.
type ErrorKind string

const (
	KindConfigMissing     ErrorKind = "config_missing"
	KindUpstreamCall      ErrorKind = "upstream_call_failed"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindSchemaViolation   ErrorKind = "schema_violation"
	KindPersistence       ErrorKind = "persistence_failed"
)

// Error wraps a pipeline failure with its kind.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the error kind from err, or "" if err carries none.
func KindOf(err error) ErrorKind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
