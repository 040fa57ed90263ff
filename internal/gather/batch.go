// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gather

import (
	"fmt"
	"strings"

	sberrors "sqlbridge/cli/internal/errors"
)

// Shape says how a query's rows are exposed in a snapshot.
type Shape string

const (
	// ShapeList exposes every row. A failed list query defaults to no rows.
	ShapeList Shape = "list"
	// ShapeSummary exposes the first row only. A failed or empty summary query
	// has no row.
	ShapeSummary Shape = "summary"
)

// Query is one labelled statement of a batch.
type Query struct {
	Label string `yaml:"label" json:"label"`
	SQL   string `yaml:"sql" json:"sql"`
	Shape Shape  `yaml:"shape" json:"shape"`
}

// Batch is an ordered set of independent queries.
type Batch []Query

// Validate rejects batches with empty or duplicate labels, empty SQL or an
// unknown shape. An empty shape is accepted and treated as ShapeList.
func (b Batch) Validate() error {
	if len(b) == 0 {
		return sberrors.New(sberrors.BatchInvalid, "batch has no queries")
	}
	seen := make(map[string]struct{}, len(b))
	for i, q := range b {
		label := strings.TrimSpace(q.Label)
		if label == "" {
			return sberrors.New(sberrors.BatchInvalid, fmt.Sprintf("query #%d has no label", i+1))
		}
		if _, dup := seen[label]; dup {
			return sberrors.New(sberrors.BatchInvalid, fmt.Sprintf("duplicate label %q", label))
		}
		seen[label] = struct{}{}
		if strings.TrimSpace(q.SQL) == "" {
			return sberrors.New(sberrors.BatchInvalid, fmt.Sprintf("query %q has no sql", label))
		}
		switch q.Shape {
		case "", ShapeList, ShapeSummary:
		default:
			return sberrors.New(sberrors.BatchInvalid, fmt.Sprintf("query %q has unknown shape %q", label, q.Shape))
		}
	}
	return nil
}

// Labels returns the batch labels in order.
func (b Batch) Labels() []string {
	labels := make([]string, len(b))
	for i, q := range b {
		labels[i] = strings.TrimSpace(q.Label)
	}
	return labels
}

func (q Query) shape() Shape {
	if q.Shape == "" {
		return ShapeList
	}
	return q.Shape
}
