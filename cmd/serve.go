// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"net"

	"sqlbridge/cli/internal/console"
	"sqlbridge/cli/internal/gather"
	"sqlbridge/cli/internal/logging"
	"sqlbridge/cli/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	serveListen  string
	serveRefresh string
	serveBatch   string
)

// serveCmd exposes the bridge and the snapshot over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the bridge and the latest snapshot over HTTP",
	Long: `The serve command starts an HTTP server with:

  POST /api/bridge             run {"query": "..."} through the executor
  GET  /api/snapshot           latest snapshot (503 until the first refresh)
  POST /api/snapshot/refresh   gather the batch now
  GET  /healthz                liveness

With --refresh (a cron spec such as "@every 1m") the snapshot is refreshed on
a schedule; overlapping refreshes are skipped. The server shuts down gracefully
on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("listen") {
			cfg.Server.Listen = serveListen
		}
		if cmd.Flags().Changed("refresh") {
			cfg.Server.RefreshSchedule = serveRefresh
		}
		path := serveBatch
		if path == "" {
			path = cfg.BatchFile
		}
		batch, err := console.LoadBatch(path)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		log := newLogger(cfg)
		b := newBridge(cfg, log)
		store := gather.NewStore(b, log)

		if cfg.Server.RefreshSchedule != "" {
			sched, err := gather.Schedule(ctx, cfg.Server.RefreshSchedule, store, batch, log, nil)
			if err != nil {
				return err
			}
			sched.Start()
			defer func() { <-sched.Stop().Done() }()

			go func() {
				if _, err := store.Refresh(ctx, batch); err != nil && ctx.Err() == nil {
					log.Error("initial refresh failed", log.Args("error", logging.Mask(err.Error())))
				}
			}()
		}

		gin.SetMode(gin.ReleaseMode)
		router := server.NewRouter(server.NewHandler(b, store, batch), log)
		return server.Run(ctx, cfg.Server.Listen, router, log, func(addr net.Addr) {
			pterm.Info.Printf("Serving on http://%s (executor %s)\n", addr, logging.Mask(cfg.Bridge.Endpoint))
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().StringVar(&serveRefresh, "refresh", "", `Cron spec for scheduled snapshot refreshes, e.g. "@every 1m"`)
	serveCmd.Flags().StringVar(&serveBatch, "batch", "", "YAML batch file (default: built-in dashboard)")
}
