// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for sqlbridge.
// It runs single statements through the bridge, gathers dashboard snapshots,
// serves both over HTTP and runs a local reference executor, using the Cobra
// CLI framework and pterm for terminal output.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sqlbridge/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	showVersion  bool
	flagEndpoint string
	flagFunction string
	flagLogLevel string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sqlbridge",
	Short: "Run SQL through a remote executor and aggregate dashboard snapshots",
	Long: `sqlbridge forwards SQL statements to a remote executor over HTTP, normalizes its
nested responses and gathers batches of labelled queries into snapshots.

Settings come from ~/.config/sqlbridge/config.json, a .env file, SQLBRIDGE_*
environment variables and the flags below, in increasing precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("sqlbridge %s\n", Version)
			if cfg, err := loadConfig(cmd); err == nil {
				fmt.Printf("executor %s (%s)\n", logging.Mask(cfg.Bridge.Endpoint), cfg.Bridge.FunctionName)
			}
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application. SIGINT and SIGTERM cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(logging.PresentError("", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version and the configured executor")
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "Executor URL invocations are posted to")
	rootCmd.PersistentFlags().StringVar(&flagFunction, "function", "", "Remote routine that runs the statement")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error, off")
}
