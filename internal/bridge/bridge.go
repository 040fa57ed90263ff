// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package bridge forwards SQL statements to a remote executor over HTTP and
// normalizes the executor's nested, inconsistently shaped responses.
//
// A statement is classified once (row-producing or not). Row-producing
// statements are wrapped in json_agg before they are sent and unwrapped from
// the aggregate column on the way back; other statements travel unmodified and
// come back as command results. Every failure is folded into model.Result, so
// Execute never returns an error and never panics into its caller.
//
// Known limitation: the HTTP client has no timeout and no retry. A hung executor
// blocks Execute until ctx is cancelled.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sqlbridge/cli/internal/bridge/model"
	sberrors "sqlbridge/cli/internal/errors"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
)

// Bridge executes a single SQL statement and returns its normalized result.
type Bridge interface {
	Execute(ctx context.Context, sql string) model.Result
}

// Config names the remote executor: the URL invocations are posted to and the
// remote routine that runs the statement.
type Config struct {
	Endpoint     string
	FunctionName string
}

// HTTP implements Bridge by posting an InvocationEnvelope to Config.Endpoint.
type HTTP struct {
	endpoint     string
	functionName string
	// client has no timeout; see the package documentation.
	client *http.Client
	log    *pterm.Logger
}

// New creates an HTTP bridge. A nil logger disables logging.
func New(cfg Config, log *pterm.Logger) *HTTP {
	if log == nil {
		log = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return &HTTP{
		endpoint:     strings.TrimSpace(cfg.Endpoint),
		functionName: cfg.FunctionName,
		client:       &http.Client{},
		log:          log,
	}
}

// WithClient replaces the underlying HTTP client and returns h.
func (h *HTTP) WithClient(c *http.Client) *HTTP {
	h.client = c
	return h
}

// Execute runs sql on the remote executor.
func (h *HTTP) Execute(ctx context.Context, sql string) model.Result {
	requestID := uuid.NewString()
	start := time.Now()
	rowProducing := IsRowProducing(sql)

	res := h.execute(ctx, sql, rowProducing)

	args := h.log.Args(
		"request_id", requestID,
		"row_producing", rowProducing,
		"rows", len(res.Rows),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)
	if res.Failed() {
		h.log.Warn("bridge call failed", append(args, h.log.Args("kind", string(res.Kind), "error", res.Error)...))
	} else {
		h.log.Debug("bridge call", args)
	}
	return res
}

func (h *HTTP) execute(ctx context.Context, sql string, rowProducing bool) model.Result {
	if strings.TrimSpace(sql) == "" {
		return model.Failure(sberrors.New(sberrors.StatementFailed, "sql statement is empty"))
	}

	stmt := sql
	if rowProducing {
		stmt = Wrap(sql)
	}
	body, err := json.Marshal(model.InvocationEnvelope{
		FunctionName: h.functionName,
		Payload:      model.Payload{SQL: stmt},
	})
	if err != nil {
		return model.Failure(sberrors.Wrap(sberrors.TransportFailed, "encode invocation", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.Failure(sberrors.Wrap(sberrors.TransportFailed, "build request", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return model.Failure(sberrors.Wrap(sberrors.TransportFailed, "post to executor", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Failure(sberrors.Wrap(sberrors.TransportFailed, "read executor response", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Failure(statusError(resp.StatusCode, data))
	}

	env, err := DecodeEnvelope(data, rowProducing)
	if err != nil {
		return model.Failure(err)
	}
	return env.Result()
}

// statusError describes a non-2xx executor response, preferring the executor's
// own error message when the body carries one.
func statusError(status int, data []byte) error {
	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		if msg := errorMessage(body.Error); msg != "" {
			return sberrors.New(sberrors.StatementFailed, msg)
		}
	}
	msg := "executor returned status " + strconv.Itoa(status)
	if s := snippet(data); s != "" {
		msg += ": " + s
	}
	return sberrors.New(sberrors.TransportFailed, msg)
}
