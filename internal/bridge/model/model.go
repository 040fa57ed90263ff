// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package model defines shared data structures for bridge communication.
// It provides the wire types exchanged with the remote executor and the
// normalized result shape that is the only contract downstream callers
// (the HTTP surface, the aggregation layer, the CLI) may depend on.
//
// The types in this package are transport-agnostic.
package model

import (
	"encoding/json"

	sberrors "sqlbridge/cli/internal/errors"
)

// QueryRequest is the inbound body accepted by the bridge endpoint.
type QueryRequest struct {
	Query string `json:"query"`
}

// Payload carries the statement inside an InvocationEnvelope.
type Payload struct {
	SQL string `json:"sql"`
}

// InvocationEnvelope is the body posted to the remote executor.
// FunctionName identifies the remote routine that runs the statement.
type InvocationEnvelope struct {
	FunctionName string  `json:"functionName"`
	Payload      Payload `json:"payload"`
}

// Row is one decoded row object.
type Row = map[string]any

// Result is the normalized outcome of executing one statement.
// Exactly one of three shapes is meaningful: rows (optionally with Command and
// Success for mutating statements, or Raw for unrecognized envelopes) or Error.
type Result struct {
	Rows    []Row
	Command string
	Success *bool
	// Raw holds the undecoded executor response when no known shape matched.
	Raw json.RawMessage
	// Error is the failure description surfaced to callers.
	Error string
	// Kind categorizes Error; it is not serialized.
	Kind sberrors.Kind

	cause error
}

// RowsResult builds a row-producing result. A nil slice is normalized to empty.
func RowsResult(rows []Row) Result {
	if rows == nil {
		rows = []Row{}
	}
	return Result{Rows: rows}
}

// CommandResult builds the result of a mutating statement.
func CommandResult(command string, success *bool) Result {
	return Result{Rows: []Row{}, Command: command, Success: success}
}

// UnknownResult builds the diagnostic passthrough result for an unrecognized envelope.
func UnknownResult(raw json.RawMessage) Result {
	return Result{Rows: []Row{}, Raw: raw}
}

// Failure builds an error result from err. For typed errors the underlying
// cause's message is surfaced, so executor-provided messages reach the caller verbatim.
func Failure(err error) Result {
	r := Result{Error: message(err), Kind: sberrors.KindOf(err), cause: err}
	if r.Error == "" {
		r.Error = "unknown error"
	}
	return r
}

func message(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := err.(*sberrors.E); ok {
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Message
	}
	return err.Error()
}

// Failed reports whether the result is an error result.
func (r Result) Failed() bool { return r.Error != "" }

// Err returns the error behind a failed result, or nil.
func (r Result) Err() error {
	if !r.Failed() {
		return nil
	}
	if r.cause != nil {
		return r.cause
	}
	return sberrors.New(r.Kind, r.Error)
}

// First returns the sole row of a summary-style result.
// It reports false for failed results and for results without rows.
func (r Result) First() (Row, bool) {
	if r.Failed() || len(r.Rows) == 0 {
		return nil, false
	}
	return r.Rows[0], true
}

// MarshalJSON renders {error} for failures and {rows, command?, success?, raw?} otherwise.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	}
	rows := r.Rows
	if rows == nil {
		rows = []Row{}
	}
	return json.Marshal(struct {
		Rows    []Row           `json:"rows"`
		Command string          `json:"command,omitempty"`
		Success *bool           `json:"success,omitempty"`
		Raw     json.RawMessage `json:"raw,omitempty"`
	}{rows, r.Command, r.Success, r.Raw})
}
