// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package gather runs a batch of independent labelled queries concurrently and
// collects their outcomes into an immutable Snapshot.
//
// A failing query never fails the batch: its label gets a default value
// (no rows for list queries, no row for summary queries) and is marked unknown.
package gather

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sqlbridge/cli/internal/bridge/model"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Executor runs one statement. bridge.Bridge satisfies it.
type Executor interface {
	Execute(ctx context.Context, sql string) model.Result
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, sql string) model.Result

func (f ExecutorFunc) Execute(ctx context.Context, sql string) model.Result { return f(ctx, sql) }

// Gather issues every query of batch concurrently and waits for all of them.
// It returns an error only when the batch is invalid, before any query runs.
func Gather(ctx context.Context, exec Executor, batch Batch) (*Snapshot, error) {
	if err := batch.Validate(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		labels:    batch.Labels(),
		values:    make(map[string]Value, len(batch)),
	}

	// Each task owns slot i; nothing else is shared until Wait returns.
	slots := make([]Value, len(batch))
	var g errgroup.Group
	for i, q := range batch {
		g.Go(func() error {
			slots[i] = run(ctx, exec, q)
			return nil
		})
	}
	_ = g.Wait()

	for i, label := range snap.labels {
		snap.values[label] = slots[i]
	}
	snap.CompletedAt = time.Now()
	return snap, nil
}

func run(ctx context.Context, exec Executor, q Query) (v Value) {
	shape := q.shape()
	defer func() {
		if r := recover(); r != nil {
			v = failed(shape, fmt.Sprintf("query %q panicked: %v", strings.TrimSpace(q.Label), r))
		}
	}()

	res := exec.Execute(ctx, q.SQL)
	if res.Failed() {
		return failed(shape, res.Error)
	}
	return succeeded(shape, res)
}

func succeeded(shape Shape, res model.Result) Value {
	v := Value{Shape: shape, Known: true}
	if shape == ShapeSummary {
		v.Row, _ = res.First()
		return v
	}
	v.Rows = res.Rows
	if v.Rows == nil {
		v.Rows = []model.Row{}
	}
	return v
}

func failed(shape Shape, msg string) Value {
	v := Value{Shape: shape, Err: msg}
	if shape == ShapeList {
		v.Rows = []model.Row{}
	}
	return v
}
