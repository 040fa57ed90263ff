// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gather

import (
	"context"
	"fmt"

	"sqlbridge/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/robfig/cron/v3"
)

// Schedule refreshes store with batch on the cron spec (for example "@every 1m").
// A tick that fires while the previous refresh is still running is skipped.
// onRefresh, when non-nil, is called after each successful refresh.
// The returned scheduler is not started.
func Schedule(ctx context.Context, spec string, store *Store, batch Batch, log *pterm.Logger, onRefresh func(*Snapshot)) (*cron.Cron, error) {
	if log == nil {
		log = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	clog := logging.CronLogger(log)
	c := cron.New(
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)
	_, err := c.AddFunc(spec, func() {
		snap, err := store.Refresh(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error("scheduled refresh failed", log.Args("error", logging.Mask(err.Error())))
			return
		}
		if onRefresh != nil {
			onRefresh(snap)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return c, nil
}
