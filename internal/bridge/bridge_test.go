// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"sqlbridge/cli/internal/bridge/model"
	sberrors "sqlbridge/cli/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFunction = "sql-executor"

// stubExecutor answers every invocation with reply after recording the envelope it received.
func stubExecutor(t *testing.T, status int, reply string, got *model.InvocationEnvelope) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestBridge(url string) *HTTP {
	return New(Config{Endpoint: url, FunctionName: testFunction}, nil)
}

func TestExecuteSelectRoundTrip(t *testing.T) {
	var got model.InvocationEnvelope
	inner := `{"success":true,"result":[{"json_agg":[{"id":1},{"id":2}]}]}`
	srv := stubExecutor(t, http.StatusOK, stringBody(t, inner), &got)

	res := newTestBridge(srv.URL).Execute(context.Background(), "SELECT id FROM t")

	assert.Equal(t, testFunction, got.FunctionName)
	assert.Equal(t, "SELECT json_agg(row_to_json(t)) FROM (SELECT id FROM t) t", got.Payload.SQL)
	require.False(t, res.Failed(), res.Error)
	assert.Equal(t, []model.Row{{"id": json.Number("1")}, {"id": json.Number("2")}}, res.Rows)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows":[{"id":1},{"id":2}]}`, string(b))
}

func TestExecutePreservesLargeIntegers(t *testing.T) {
	inner := `{"success":true,"result":[{"json_agg":[{"id":9007199254740993}]}]}`
	srv := stubExecutor(t, http.StatusOK, stringBody(t, inner), nil)

	res := newTestBridge(srv.URL).Execute(context.Background(), "SELECT id FROM t")
	require.False(t, res.Failed(), res.Error)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows":[{"id":9007199254740993}]}`, string(b))
	assert.Contains(t, string(b), "9007199254740993")
}

func TestExecuteMutatingStatementIsNotWrapped(t *testing.T) {
	var got model.InvocationEnvelope
	srv := stubExecutor(t, http.StatusOK, objectBody(`{"success":true,"result":{"command":"UPDATE","rowCount":4}}`), &got)

	res := newTestBridge(srv.URL).Execute(context.Background(), "UPDATE t SET x=1")

	assert.Equal(t, "UPDATE t SET x=1", got.Payload.SQL)
	require.False(t, res.Failed(), res.Error)
	assert.Empty(t, res.Rows)
	assert.NotNil(t, res.Rows)
	assert.Equal(t, "UPDATE", res.Command)
	require.NotNil(t, res.Success)
	assert.True(t, *res.Success)
}

func TestExecuteFailures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		reply     string
		wantKind  sberrors.Kind
		wantError string
	}{
		{
			name:      "executor error envelope",
			status:    http.StatusOK,
			reply:     `{"error":"column \"nope\" does not exist"}`,
			wantKind:  sberrors.StatementFailed,
			wantError: `column "nope" does not exist`,
		},
		{
			name:      "non-2xx with executor message",
			status:    http.StatusInternalServerError,
			reply:     `{"error":"syntax error at or near \"FORM\""}`,
			wantKind:  sberrors.StatementFailed,
			wantError: `syntax error at or near "FORM"`,
		},
		{
			name:      "non-2xx without message",
			status:    http.StatusBadGateway,
			reply:     `Bad Gateway`,
			wantKind:  sberrors.TransportFailed,
			wantError: "executor returned status 502: Bad Gateway",
		},
		{
			name:      "non-JSON success response",
			status:    http.StatusOK,
			reply:     `<html></html>`,
			wantKind:  sberrors.TransportFailed,
			wantError: "executor returned a non-JSON response: <html></html>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := stubExecutor(t, tt.status, tt.reply, nil)

			res := newTestBridge(srv.URL).Execute(context.Background(), "SELECT nope FROM t")

			require.True(t, res.Failed())
			assert.Equal(t, tt.wantKind, res.Kind)
			assert.Equal(t, tt.wantError, res.Error)
			assert.Nil(t, res.Rows)
		})
	}
}

func TestExecuteUnreachableExecutor(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := newTestBridge(url).Execute(context.Background(), "SELECT 1")

	require.True(t, res.Failed())
	assert.Equal(t, sberrors.TransportFailed, res.Kind)
	assert.Error(t, res.Err())
}

func TestExecuteEmptyStatementMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	res := newTestBridge(srv.URL).Execute(context.Background(), "  \n")

	require.True(t, res.Failed())
	assert.Equal(t, sberrors.StatementFailed, res.Kind)
	assert.Equal(t, int32(0), calls.Load())
}

func TestExecuteHonoursContextCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res := newTestBridge(srv.URL).Execute(ctx, "SELECT pg_sleep(60)")

	require.True(t, res.Failed())
	assert.Equal(t, sberrors.TransportFailed, res.Kind)
	assert.ErrorIs(t, res.Err(), context.DeadlineExceeded)
}
