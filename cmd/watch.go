// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sqlbridge/cli/internal/console"
	"sqlbridge/cli/internal/gather"
	"sqlbridge/cli/internal/logging"
	"sqlbridge/cli/internal/xdg"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	watchBatch   string
	watchEvery   time.Duration
	watchMaxRows int
)

// watchCmd keeps a snapshot on screen and refreshes it periodically.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show a live snapshot that refreshes periodically",
	Long: `The watch command gathers a batch, shows the snapshot and refreshes it every
--every interval until interrupted. A refresh that is still running when the
next one is due is skipped. Logs are written to the sqlbridge state directory
so they do not disturb the display.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if watchEvery < time.Second {
			return fmt.Errorf("--every must be at least 1s")
		}
		path := watchBatch
		if path == "" && !cmd.Flags().Changed("batch") {
			path = cfg.BatchFile
		}
		batch, err := console.LoadBatch(path)
		if err != nil {
			return err
		}

		logFile, err := openWatchLog()
		if err != nil {
			return err
		}
		defer logFile.Close()
		log := logging.New(cfg.LogLevel, logFile)

		ctx := cmd.Context()
		store := gather.NewStore(newBridge(cfg, log), log)

		cursor.Hide()
		defer cursor.Show()
		area, err := pterm.DefaultArea.Start()
		if err != nil {
			return err
		}
		defer func() { _ = area.Stop() }()

		var mu sync.Mutex
		show := func(snap *gather.Snapshot) {
			out := renderWatch(snap, path == "", watchEvery)
			mu.Lock()
			defer mu.Unlock()
			area.Update(out)
		}

		area.Update(pterm.NewStyle(pterm.FgGray).Sprintf("gathering %d queries...", len(batch)))
		snap, err := store.Refresh(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		show(snap)

		sched, err := gather.Schedule(ctx, fmt.Sprintf("@every %s", watchEvery), store, batch, log, show)
		if err != nil {
			return err
		}
		sched.Start()
		<-ctx.Done()
		<-sched.Stop().Done()
		return nil
	},
}

func renderWatch(snap *gather.Snapshot, dashboard bool, every time.Duration) string {
	out := ""
	if dashboard {
		if view, err := console.NewView(snap); err == nil {
			out += console.Headline(view) + "\n\n"
		}
	}
	out += console.Render(snap, watchMaxRows)
	out += pterm.NewStyle(pterm.FgGray).Sprintf("refreshing every %s; press Ctrl+C to stop", every)
	return out
}

func openWatchLog() (*os.File, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "watch.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchBatch, "batch", "", "YAML batch file (default: built-in dashboard)")
	watchCmd.Flags().DurationVar(&watchEvery, "every", 30*time.Second, "Refresh interval")
	watchCmd.Flags().IntVar(&watchMaxRows, "max-rows", 10, "Maximum rows to show per list (0 for all)")
}
