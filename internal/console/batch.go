// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package console provides the built-in dashboard batch, batch files and the
// typed views and terminal rendering of dashboard snapshots.
package console

import (
	_ "embed"
	"fmt"
	"os"

	"sqlbridge/cli/internal/gather"

	"gopkg.in/yaml.v3"
)

//go:embed dashboard.yaml
var dashboardYAML []byte

// batchFile is the on-disk batch format.
type batchFile struct {
	Queries []gather.Query `yaml:"queries"`
}

// Dashboard returns the built-in dashboard batch.
func Dashboard() gather.Batch {
	b, err := ParseBatch(dashboardYAML)
	if err != nil {
		// The embedded file is part of the binary.
		panic(fmt.Sprintf("console: embedded dashboard batch: %v", err))
	}
	return b
}

// LoadBatch reads a batch file. An empty path yields the built-in dashboard.
func LoadBatch(path string) (gather.Batch, error) {
	if path == "" {
		return Dashboard(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	b, err := ParseBatch(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// ParseBatch decodes and validates a YAML batch. Queries without a shape are lists.
func ParseBatch(data []byte) (gather.Batch, error) {
	var f batchFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse batch: %w", err)
	}
	b := gather.Batch(f.Queries)
	for i := range b {
		if b[i].Shape == "" {
			b[i].Shape = gather.ShapeList
		}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
