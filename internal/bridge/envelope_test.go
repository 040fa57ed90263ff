// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"encoding/json"
	"testing"

	"sqlbridge/cli/internal/bridge/model"
	sberrors "sqlbridge/cli/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stringBody builds the double-encoded shape {result: {body: "<json>"}}.
func stringBody(t *testing.T, inner string) string {
	t.Helper()
	b, err := json.Marshal(inner)
	require.NoError(t, err)
	return `{"result":{"statusCode":200,"body":` + string(b) + `}}`
}

// objectBody builds the already-decoded shape {result: {body: {...}}}.
func objectBody(inner string) string {
	return `{"result":{"statusCode":200,"body":` + inner + `}}`
}

func TestDecodeEnvelope(t *testing.T) {
	ok := true
	failed := false
	tests := []struct {
		name         string
		data         string
		rowProducing bool
		want         Envelope
	}{
		{
			name:         "aggregate column holds the rows",
			data:         objectBody(`{"success":true,"result":[{"json_agg":[{"id":1},{"id":2}]}]}`),
			rowProducing: true,
			want:         Envelope{Kind: EnvelopeRows, Rows: []model.Row{{"id": json.Number("1")}, {"id": json.Number("2")}}},
		},
		{
			name:         "null aggregate means no rows",
			data:         objectBody(`{"success":true,"result":[{"json_agg":null}]}`),
			rowProducing: true,
			want:         Envelope{Kind: EnvelopeRows, Rows: []model.Row{}},
		},
		{
			name:         "empty aggregate means no rows",
			data:         objectBody(`{"success":true,"result":[{"json_agg":[]}]}`),
			rowProducing: true,
			want:         Envelope{Kind: EnvelopeRows, Rows: []model.Row{}},
		},
		{
			name:         "string-encoded aggregate is decoded",
			data:         objectBody(`{"success":true,"result":[{"json_agg":"[{\"id\":7}]"}]}`),
			rowProducing: true,
			want:         Envelope{Kind: EnvelopeRows, Rows: []model.Row{{"id": json.Number("7")}}},
		},
		{
			name:         "bigint values keep their precision",
			data:         objectBody(`{"success":true,"result":[{"json_agg":[{"id":9007199254740993,"amount":12.5}]}]}`),
			rowProducing: true,
			want:         Envelope{Kind: EnvelopeRows, Rows: []model.Row{{"id": json.Number("9007199254740993"), "amount": json.Number("12.5")}}},
		},
		{
			name:         "missing aggregate column falls back to the raw result",
			data:         objectBody(`{"success":true,"result":[{"id":1},{"id":2}]}`),
			rowProducing: true,
			want:         Envelope{Kind: EnvelopeRows, Rows: []model.Row{{"id": json.Number("1")}, {"id": json.Number("2")}}},
		},
		{
			name:         "empty result array",
			data:         objectBody(`{"success":true,"result":[]}`),
			rowProducing: true,
			want:         Envelope{Kind: EnvelopeRows, Rows: []model.Row{}},
		},
		{
			name: "command result",
			data: objectBody(`{"success":true,"result":{"command":"UPDATE","rowCount":3}}`),
			want: Envelope{Kind: EnvelopeCommand, Command: "UPDATE", Success: &ok},
		},
		{
			name: "array result of a mutating statement is not rows",
			data: objectBody(`{"success":true,"result":[{"id":1}]}`),
			want: Envelope{Kind: EnvelopeCommand, Success: &ok},
		},
		{
			name:         "row statement whose result is not an array",
			data:         objectBody(`{"success":false,"result":{"command":"SELECT"}}`),
			rowProducing: true,
			want:         Envelope{Kind: EnvelopeCommand, Command: "SELECT", Success: &failed},
		},
		{
			name:         "inner body error",
			data:         objectBody(`{"success":false,"error":"relation \"nope\" does not exist"}`),
			rowProducing: true,
			want:         Envelope{Kind: EnvelopeError, Message: `relation "nope" does not exist`},
		},
		{
			name: "top level error string",
			data: `{"error":"Function not found: troy-sql-executor"}`,
			want: Envelope{Kind: EnvelopeError, Message: "Function not found: troy-sql-executor"},
		},
		{
			name: "top level error object",
			data: `{"error":{"message":"Task timed out after 3.00 seconds"}}`,
			want: Envelope{Kind: EnvelopeError, Message: "Task timed out after 3.00 seconds"},
		},
		{
			name:         "unrecognized shape is passed through",
			data:         `{"status":"accepted"}`,
			rowProducing: true,
			want:         Envelope{Kind: EnvelopeUnknown, Raw: json.RawMessage(`{"status":"accepted"}`)},
		},
		{
			name: "empty body string is not a body",
			data: `{"result":{"body":""}}`,
			want: Envelope{Kind: EnvelopeUnknown, Raw: json.RawMessage(`{"result":{"body":""}}`)},
		},
		{
			name:         "rows that are not objects are passed through",
			data:         objectBody(`{"success":true,"result":[1,2,3]}`),
			rowProducing: true,
			want:         Envelope{Kind: EnvelopeUnknown, Raw: json.RawMessage(objectBody(`{"success":true,"result":[1,2,3]}`))},
		},
		{
			name: "top level array",
			data: `[1,2]`,
			want: Envelope{Kind: EnvelopeUnknown, Raw: json.RawMessage(`[1,2]`)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeEnvelope([]byte(tt.data), tt.rowProducing)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeEnvelopeDoubleEncodingTransparency(t *testing.T) {
	inners := []struct {
		name         string
		inner        string
		rowProducing bool
	}{
		{name: "rows", inner: `{"success":true,"result":[{"json_agg":[{"id":1,"name":"a"}]}]}`, rowProducing: true},
		{name: "fallback rows", inner: `{"success":true,"result":[{"id":1}]}`, rowProducing: true},
		{name: "command", inner: `{"success":true,"result":{"command":"DELETE","rowCount":0}}`},
		{name: "error", inner: `{"success":false,"error":"permission denied"}`},
	}

	for _, tt := range inners {
		t.Run(tt.name, func(t *testing.T) {
			fromString, err := DecodeEnvelope([]byte(stringBody(t, tt.inner)), tt.rowProducing)
			require.NoError(t, err)
			fromObject, err := DecodeEnvelope([]byte(objectBody(tt.inner)), tt.rowProducing)
			require.NoError(t, err)

			assert.Equal(t, fromObject.Result(), fromString.Result())
		})
	}
}

func TestDecodeEnvelopeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		kind sberrors.Kind
	}{
		{name: "non-JSON response", data: "<html>Bad Gateway</html>", kind: sberrors.TransportFailed},
		{name: "empty response", data: "", kind: sberrors.TransportFailed},
		{name: "string body that is not JSON", data: `{"result":{"body":"Internal Server Error"}}`, kind: sberrors.EnvelopeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEnvelope([]byte(tt.data), true)
			require.Error(t, err)
			assert.Equal(t, tt.kind, sberrors.KindOf(err))
		})
	}
}

func TestEnvelopeResult(t *testing.T) {
	res := Envelope{Kind: EnvelopeError, Message: "deadlock detected"}.Result()
	assert.True(t, res.Failed())
	assert.Equal(t, "deadlock detected", res.Error)
	assert.Equal(t, sberrors.StatementFailed, res.Kind)

	res = Envelope{Kind: EnvelopeUnknown, Raw: json.RawMessage(`{"x":1}`)}.Result()
	assert.False(t, res.Failed())
	assert.Empty(t, res.Rows)
	assert.JSONEq(t, `{"x":1}`, string(res.Raw))
}
