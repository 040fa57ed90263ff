// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gather

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/pterm/pterm"
)

// Store holds the current snapshot. Refresh replaces it wholesale; readers see
// either the previous snapshot or the new one, never a mix.
//
// Overlapping refreshes are not serialized: whichever finishes last wins.
type Store struct {
	exec    Executor
	log     *pterm.Logger
	current atomic.Pointer[Snapshot]
}

// NewStore creates an empty store. A nil logger disables logging.
func NewStore(exec Executor, log *pterm.Logger) *Store {
	if log == nil {
		log = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return &Store{exec: exec, log: log}
}

// Current returns the latest snapshot, or nil before the first successful refresh.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Refresh gathers batch and publishes the result. An invalid batch, or a ctx
// cancelled before the gather completes, leaves the current snapshot in place.
func (s *Store) Refresh(ctx context.Context, batch Batch) (*Snapshot, error) {
	snap, err := Gather(ctx, s.exec, batch)
	if err != nil {
		return nil, err
	}
	// Queries cut short by cancellation would publish as unknown over good data.
	if err := ctx.Err(); err != nil {
		s.log.Warn("snapshot discarded", s.log.Args("snapshot", snap.ID.String(), "error", err.Error()))
		return nil, fmt.Errorf("refresh cancelled: %w", err)
	}
	s.current.Store(snap)

	failures := snap.Failures()
	args := s.log.Args(
		"snapshot", snap.ID.String(),
		"labels", len(snap.labels),
		"failed", len(failures),
		"elapsed", snap.Elapsed().String(),
	)
	if len(failures) > 0 {
		s.log.Warn("snapshot refreshed with failures", args)
		for label, msg := range failures {
			s.log.Debug("query failed", s.log.Args("snapshot", snap.ID.String(), "label", label, "error", msg))
		}
	} else {
		s.log.Info("snapshot refreshed", args)
	}
	return snap, nil
}
