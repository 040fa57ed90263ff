// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. The bridge folds these kinds into its results so callers
// can tell a dead executor apart from a bad statement without parsing message text.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// TransportFailed indicates a network failure, a non-2xx status or a non-JSON response
	// from the executor.
	TransportFailed Kind = "transport_error"
	// EnvelopeInvalid indicates a response whose nested body could not be decoded.
	EnvelopeInvalid Kind = "envelope_error"
	// StatementFailed indicates the executor reported a SQL-level failure.
	StatementFailed Kind = "statement_error"
	// BatchInvalid indicates a batch with missing or duplicate labels or empty SQL.
	BatchInvalid Kind = "invalid_batch"
	// ConfigInvalid indicates configuration that cannot be used to reach an executor.
	ConfigInvalid Kind = "config_invalid"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}
