// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"net"
	"time"

	"sqlbridge/cli/internal/config"
	"sqlbridge/cli/internal/dsn"
	"sqlbridge/cli/internal/keychain"
	"sqlbridge/cli/internal/server"
	"sqlbridge/cli/internal/sqlexec"

	"github.com/gin-gonic/gin"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	executorListen   string
	executorFunction string
)

// executorCmd runs the local reference executor.
var executorCmd = &cobra.Command{
	Use:   "executor",
	Short: "Run a local executor backed by PostgreSQL",
	Long: `The executor command runs a local stand-in for the remote SQL executor. It
accepts the same invocation envelope on POST /invoke and answers with the
same nested, double-encoded response, running statements on PostgreSQL.

The database is taken from SQLBRIDGE_DSN, DATABASE_URL or the connection
saved with 'sqlbridge connect', in that order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd, &cfg)
		if cmd.Flags().Changed("listen") {
			cfg.Executor.Listen = executorListen
		}
		if cmd.Flags().Changed("executor-function") {
			cfg.Executor.FunctionName = executorFunction
		}

		var saved sqlexec.DSNSource
		if km, err := keychain.GetManager(); err == nil {
			saved = km
		}
		rawDSN, source, err := sqlexec.ResolveDSN(saved)
		if err != nil {
			return err
		}
		info, err := dsn.Parse(rawDSN)
		if err != nil {
			return fmt.Errorf("DSN from %s: %w", source, err)
		}

		ctx := cmd.Context()
		log := newLogger(cfg)
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := sqlexec.Open(openCtx, info.String())
		cancel()
		if err != nil {
			pterm.Error.Println("Connection failed. Please check your database credentials and network connection.")
			return err
		}
		defer pool.Close()

		gin.SetMode(gin.ReleaseMode)
		h := sqlexec.NewHandler(sqlexec.New(pool, log), cfg.Executor.FunctionName)
		return server.Run(ctx, cfg.Executor.Listen, sqlexec.NewRouter(h, log), log, func(addr net.Addr) {
			pterm.Info.Printf("Executor on http://%s/invoke (function %s)\n", addr, cfg.Executor.FunctionName)
			pterm.Info.Printf("Database %s (from %s)\n", info.Redacted(), source)
		})
	},
}

func init() {
	rootCmd.AddCommand(executorCmd)
	executorCmd.Flags().StringVar(&executorListen, "listen", "", "Listen address (default from config, 127.0.0.1:8090)")
	executorCmd.Flags().StringVar(&executorFunction, "executor-function", "", "Function name to answer to (default sql-executor)")
}
