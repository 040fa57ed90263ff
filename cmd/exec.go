// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"sqlbridge/cli/internal/bridge/model"
	"sqlbridge/cli/internal/console"
	sberrors "sqlbridge/cli/internal/errors"
	"sqlbridge/cli/internal/httperrors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	execJSON    bool
	execMaxRows int
)

// execCmd runs one statement through the bridge.
var execCmd = &cobra.Command{
	Use:   "exec <sql>",
	Short: "Run one SQL statement through the executor",
	Long: `The exec command sends a single SQL statement to the configured executor and
prints the normalized result. SELECT statements print their rows; other
statements print the executor's command tag.

With --json the normalized result is printed exactly as the HTTP bridge
endpoint would return it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		sql := strings.Join(args, " ")
		b := newBridge(cfg, newLogger(cfg))

		stop := func() {}
		if !execJSON {
			stop = startInlineSpinner(os.Stderr, "running query", spinnerFrames, 100*time.Millisecond)
		}
		res := b.Execute(cmd.Context(), sql)
		stop()

		if execJSON {
			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			if res.Failed() {
				return res.Err()
			}
			return nil
		}
		return printResult(res, cfg.Bridge.Endpoint)
	},
}

func printResult(res model.Result, endpoint string) error {
	if res.Failed() {
		if res.Kind == sberrors.TransportFailed {
			return httperrors.Show(res.Err(), "running query", endpoint)
		}
		return res.Err()
	}

	switch {
	case res.Command != "":
		status := "succeeded"
		if res.Success != nil && !*res.Success {
			status = "reported failure"
		}
		pterm.Success.Printf("%s %s\n", res.Command, status)
	case len(res.Raw) > 0:
		pterm.Warning.Println("Unrecognized executor response:")
		pterm.Println(string(res.Raw))
	default:
		pterm.Print(console.RenderRows(res.Rows, execMaxRows))
		pterm.Println(pterm.NewStyle(pterm.FgGray).Sprintf("%d rows", len(res.Rows)))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().BoolVar(&execJSON, "json", false, "Print the normalized result as JSON")
	execCmd.Flags().IntVar(&execMaxRows, "max-rows", 100, "Maximum rows to print (0 for all)")
}
