// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gather

import (
	"encoding/json"
	"fmt"
	"time"

	"sqlbridge/cli/internal/bridge/model"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// Value is the outcome of one labelled query.
// Known is false when the query failed; the value then holds the shape's
// default and Err describes the failure. Callers must present an unknown value
// as unknown rather than as zero or empty.
type Value struct {
	Shape Shape
	Rows  []model.Row
	Row   model.Row
	Known bool
	Err   string
}

// Snapshot is the immutable result of one Gather. Every label of the batch
// appears exactly once.
type Snapshot struct {
	ID          uuid.UUID
	StartedAt   time.Time
	CompletedAt time.Time

	labels []string
	values map[string]Value
}

// Labels returns the snapshot's labels in batch order.
func (s *Snapshot) Labels() []string {
	return append([]string(nil), s.labels...)
}

// Value returns the outcome stored for label.
func (s *Snapshot) Value(label string) (Value, bool) {
	v, ok := s.values[label]
	return v, ok
}

// Rows returns the rows of a list label. Failed and missing labels yield an empty slice.
func (s *Snapshot) Rows(label string) []model.Row {
	if v, ok := s.values[label]; ok && v.Rows != nil {
		return v.Rows
	}
	return []model.Row{}
}

// Summary returns the row of a summary label.
// It reports false when the query failed, returned no rows, or the label is missing.
func (s *Snapshot) Summary(label string) (model.Row, bool) {
	v, ok := s.values[label]
	if !ok || v.Row == nil {
		return nil, false
	}
	return v.Row, true
}

// Known reports whether label's query succeeded.
func (s *Snapshot) Known(label string) bool {
	return s.values[label].Known
}

// Failures maps every failed label to its error message.
func (s *Snapshot) Failures() map[string]string {
	out := make(map[string]string)
	for _, label := range s.labels {
		if v := s.values[label]; !v.Known {
			out[label] = v.Err
		}
	}
	return out
}

// Elapsed is the wall time of the gather that built the snapshot.
func (s *Snapshot) Elapsed() time.Duration {
	return s.CompletedAt.Sub(s.StartedAt)
}

// DecodeSummary decodes label's summary row into out, which must be a pointer
// to a struct tagged with `mapstructure`. Numeric strings are accepted for
// numeric fields. It reports false, leaving out untouched, when there is no row.
func (s *Snapshot) DecodeSummary(label string, out any) (bool, error) {
	row, ok := s.Summary(label)
	if !ok {
		return false, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return false, fmt.Errorf("decode summary %q: %w", label, err)
	}
	if err := dec.Decode(row); err != nil {
		return false, fmt.Errorf("decode summary %q: %w", label, err)
	}
	return true, nil
}

// MarshalJSON renders the snapshot with list labels as arrays, summary labels
// as an object or null, and failed labels listed under "errors".
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	data := make(map[string]any, len(s.labels))
	for _, label := range s.labels {
		v := s.values[label]
		if v.Shape == ShapeSummary {
			if v.Row == nil {
				data[label] = nil
			} else {
				data[label] = v.Row
			}
			continue
		}
		data[label] = s.Rows(label)
	}
	return json.Marshal(struct {
		ID          uuid.UUID         `json:"id"`
		StartedAt   time.Time         `json:"startedAt"`
		CompletedAt time.Time         `json:"completedAt"`
		Labels      []string          `json:"labels"`
		Data        map[string]any    `json:"data"`
		Errors      map[string]string `json:"errors,omitempty"`
	}{s.ID, s.StartedAt, s.CompletedAt, s.Labels(), data, s.Failures()})
}
