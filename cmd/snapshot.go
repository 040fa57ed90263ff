// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"sqlbridge/cli/internal/console"
	"sqlbridge/cli/internal/gather"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	snapshotBatch   string
	snapshotJSON    bool
	snapshotMaxRows int
)

// snapshotCmd gathers a batch once and prints the snapshot.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Run a batch of queries concurrently and print the snapshot",
	Long: `The snapshot command runs every query of a batch concurrently through the
executor and prints the results. A failing query does not fail the snapshot:
its label is shown as unknown.

Without --batch the built-in money console dashboard is used. A batch file is
YAML:

  queries:
    - label: users
      sql: SELECT id, email FROM users
    - label: totals
      shape: summary
      sql: SELECT count(*) AS users FROM users`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path := snapshotBatch
		if path == "" && !cmd.Flags().Changed("batch") {
			path = cfg.BatchFile
		}
		batch, err := console.LoadBatch(path)
		if err != nil {
			return err
		}

		stop := func() {}
		if !snapshotJSON {
			stop = startInlineSpinner(os.Stderr, fmt.Sprintf("gathering %d queries", len(batch)), spinnerFrames, 100*time.Millisecond)
		}
		snap, err := gather.Gather(cmd.Context(), newBridge(cfg, newLogger(cfg)), batch)
		stop()
		if err != nil {
			return err
		}

		if snapshotJSON {
			out, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		if path == "" {
			view, err := console.NewView(snap)
			if err != nil {
				return err
			}
			pterm.Println(console.Headline(view))
			pterm.Println()
		}
		pterm.Print(console.Render(snap, snapshotMaxRows))
		if failed := len(snap.Failures()); failed > 0 {
			pterm.Warning.Printf("%d of %d queries failed; their values are unknown\n", failed, len(batch))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringVar(&snapshotBatch, "batch", "", "YAML batch file (default: built-in dashboard)")
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "Print the snapshot as JSON")
	snapshotCmd.Flags().IntVar(&snapshotMaxRows, "max-rows", 20, "Maximum rows to print per list (0 for all)")
}
