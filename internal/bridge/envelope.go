// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"sqlbridge/cli/internal/bridge/model"
	sberrors "sqlbridge/cli/internal/errors"
)

// EnvelopeKind tags the decoded shape of an executor response.
type EnvelopeKind int

const (
	// EnvelopeRows is a row-producing statement's result.
	EnvelopeRows EnvelopeKind = iota
	// EnvelopeCommand is a mutating statement's result.
	EnvelopeCommand
	// EnvelopeError is an executor-reported failure.
	EnvelopeError
	// EnvelopeUnknown is any response that matched no other shape.
	EnvelopeUnknown
)

func (k EnvelopeKind) String() string {
	switch k {
	case EnvelopeRows:
		return "rows"
	case EnvelopeCommand:
		return "command"
	case EnvelopeError:
		return "error"
	default:
		return "unknown"
	}
}

// Envelope is the decoded executor response. Only the fields belonging to Kind are set.
type Envelope struct {
	Kind    EnvelopeKind
	Rows    []model.Row
	Command string
	Success *bool
	Message string
	Raw     json.RawMessage
}

// Result converts the envelope to the bridge's normalized result.
func (e Envelope) Result() model.Result {
	switch e.Kind {
	case EnvelopeRows:
		return model.RowsResult(e.Rows)
	case EnvelopeCommand:
		return model.CommandResult(e.Command, e.Success)
	case EnvelopeError:
		return model.Failure(sberrors.New(sberrors.StatementFailed, e.Message))
	default:
		return model.UnknownResult(e.Raw)
	}
}

// DecodeEnvelope decodes a raw executor response. The observed shape is
// {result: {body: <string|object>}} where body is {success, result}; body may be
// JSON-encoded a second time. rowProducing must be the classification used when
// the statement was sent.
//
// It returns an error only when data is not JSON or when a string body does not
// hold JSON; every other input maps to one of the envelope kinds.
func DecodeEnvelope(data []byte, rowProducing bool) (Envelope, error) {
	if !json.Valid(data) {
		return Envelope{}, sberrors.New(sberrors.TransportFailed, "executor returned a non-JSON response: "+snippet(data))
	}
	raw := json.RawMessage(bytes.TrimSpace(data))

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return unknown(raw), nil
	}

	if body, ok := bodyOf(top); ok {
		inner, err := unquote(body)
		if err != nil {
			return Envelope{}, sberrors.Wrap(sberrors.EnvelopeInvalid, "decode result body", err)
		}
		return decodeBody(inner, raw, rowProducing), nil
	}

	if msg := errorMessage(top["error"]); msg != "" {
		return Envelope{Kind: EnvelopeError, Message: msg}, nil
	}
	return unknown(raw), nil
}

// decodeBody unwraps the inner {success, result} document.
func decodeBody(inner []byte, raw json.RawMessage, rowProducing bool) Envelope {
	// A body that is not an object has neither success nor result.
	var body map[string]json.RawMessage
	_ = json.Unmarshal(inner, &body)

	var success *bool
	if v, ok := body["success"]; ok {
		var b bool
		if json.Unmarshal(v, &b) == nil && !isNull(v) {
			success = &b
		}
	}

	if success == nil || !*success {
		if msg := errorMessage(body["error"]); msg != "" {
			return Envelope{Kind: EnvelopeError, Message: msg}
		}
	}

	result := body["result"]
	if rowProducing && isArray(result) {
		rows, ok := unwrapRows(result)
		if !ok {
			return unknown(raw)
		}
		return Envelope{Kind: EnvelopeRows, Rows: rows}
	}

	var cmd struct {
		Command string `json:"command"`
	}
	if isObject(result) {
		_ = json.Unmarshal(result, &cmd)
	}
	return Envelope{Kind: EnvelopeCommand, Command: cmd.Command, Success: success}
}

// unwrapRows extracts the row array from a wrapped statement's result.
// When the first element carries the aggregate column its value is the row array,
// with null meaning no rows. Without the column the result itself is the row array.
func unwrapRows(result json.RawMessage) ([]model.Row, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(result, &items); err != nil {
		return nil, false
	}
	if len(items) > 0 {
		var first map[string]json.RawMessage
		if json.Unmarshal(items[0], &first) == nil {
			if agg, ok := first[AggregateColumn]; ok {
				inner, err := unquote(agg)
				if err != nil {
					return nil, false
				}
				return decodeRows(inner)
			}
		}
	}
	return decodeRows(result)
}

func decodeRows(data []byte) ([]model.Row, bool) {
	if isNull(data) {
		return []model.Row{}, true
	}
	// Numbers stay json.Number so bigint values survive the round trip.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var rows []model.Row
	if err := dec.Decode(&rows); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	if rows == nil {
		rows = []model.Row{}
	}
	return rows, true
}

// bodyOf returns result.body when it is present and truthy.
func bodyOf(top map[string]json.RawMessage) (json.RawMessage, bool) {
	var result map[string]json.RawMessage
	if err := json.Unmarshal(top["result"], &result); err != nil || result == nil {
		return nil, false
	}
	body, ok := result["body"]
	if !ok || !isTruthy(body) {
		return nil, false
	}
	return body, true
}

// unquote returns the JSON document held by v. A JSON string is decoded and its
// contents must themselves be JSON; anything else is returned as is.
func unquote(v json.RawMessage) ([]byte, error) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || v[0] != '"' {
		return v, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, err
	}
	inner := []byte(strings.TrimSpace(s))
	if !json.Valid(inner) {
		return nil, fmt.Errorf("string body is not JSON: %s", snippet(inner))
	}
	return inner, nil
}

// errorMessage renders an executor error field: strings as is, objects by their
// message field, anything else as raw JSON. Absent, null and empty values yield "".
func errorMessage(v json.RawMessage) string {
	if !isTruthy(v) {
		return ""
	}
	var s string
	if json.Unmarshal(v, &s) == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(v, &obj) == nil && obj.Message != "" {
		return obj.Message
	}
	return string(bytes.TrimSpace(v))
}

func unknown(raw json.RawMessage) Envelope {
	return Envelope{Kind: EnvelopeUnknown, Raw: raw}
}

func isTruthy(v json.RawMessage) bool {
	switch string(bytes.TrimSpace(v)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}

func isNull(v json.RawMessage) bool {
	t := bytes.TrimSpace(v)
	return len(t) == 0 || string(t) == "null"
}

func isArray(v json.RawMessage) bool {
	t := bytes.TrimSpace(v)
	return len(t) > 0 && t[0] == '['
}

func isObject(v json.RawMessage) bool {
	t := bytes.TrimSpace(v)
	return len(t) > 0 && t[0] == '{'
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
