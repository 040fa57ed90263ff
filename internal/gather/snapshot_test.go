// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gather

import (
	"context"
	"encoding/json"
	"testing"

	"sqlbridge/cli/internal/bridge/model"
	sberrors "sqlbridge/cli/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type overview struct {
	Total   int     `mapstructure:"total"`
	Flagged int     `mapstructure:"flagged"`
	Amount  float64 `mapstructure:"amount"`
}

func TestDecodeSummary(t *testing.T) {
	exec := &fakeExecutor{results: map[string]model.Result{
		"SELECT 1": rows(model.Row{"total": float64(120), "flagged": "3", "amount": "1999.50"}),
		"SELECT 2": rows(),
	}}
	snap, err := Gather(context.Background(), exec, Batch{
		{Label: "overview", SQL: "SELECT 1", Shape: ShapeSummary},
		{Label: "empty", SQL: "SELECT 2", Shape: ShapeSummary},
	})
	require.NoError(t, err)

	var got overview
	ok, err := snap.DecodeSummary("overview", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, overview{Total: 120, Flagged: 3, Amount: 1999.5}, got)

	untouched := overview{Total: -1}
	ok, err = snap.DecodeSummary("empty", &untouched)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, -1, untouched.Total)

	ok, err = snap.DecodeSummary("missing", &untouched)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeSummaryFromJSONNumbers(t *testing.T) {
	exec := &fakeExecutor{results: map[string]model.Result{
		"SELECT 1": rows(model.Row{"total": json.Number("120"), "flagged": json.Number("3"), "amount": json.Number("1999.5")}),
	}}
	snap, err := Gather(context.Background(), exec, Batch{{Label: "overview", SQL: "SELECT 1", Shape: ShapeSummary}})
	require.NoError(t, err)

	var got overview
	ok, err := snap.DecodeSummary("overview", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, overview{Total: 120, Flagged: 3, Amount: 1999.5}, got)
}

func TestSnapshotMarshalJSON(t *testing.T) {
	exec := &fakeExecutor{results: map[string]model.Result{
		"SELECT 1": rows(model.Row{"id": float64(1)}),
		"SELECT 2": model.Failure(sberrors.New(sberrors.StatementFailed, "boom")),
	}}
	snap, err := Gather(context.Background(), exec, Batch{
		{Label: "list", SQL: "SELECT 1"},
		{Label: "summary", SQL: "SELECT 2", Shape: ShapeSummary},
		{Label: "broken", SQL: "SELECT 3"},
	})
	require.NoError(t, err)

	b, err := json.Marshal(snap)
	require.NoError(t, err)

	var got struct {
		ID     string                     `json:"id"`
		Labels []string                   `json:"labels"`
		Data   map[string]json.RawMessage `json:"data"`
		Errors map[string]string          `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, snap.ID.String(), got.ID)
	assert.Equal(t, []string{"list", "summary", "broken"}, got.Labels)
	assert.JSONEq(t, `[{"id":1}]`, string(got.Data["list"]))
	assert.JSONEq(t, `null`, string(got.Data["summary"]))
	assert.JSONEq(t, `[]`, string(got.Data["broken"]))
	assert.Equal(t, "boom", got.Errors["summary"])
	assert.Contains(t, got.Errors, "broken")
	assert.NotContains(t, got.Errors, "list")
}
