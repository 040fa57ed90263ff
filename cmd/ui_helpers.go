// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"sqlbridge/cli/internal/bridge"
	"sqlbridge/cli/internal/config"
	"sqlbridge/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// loadConfig layers the persistent flags over the loaded configuration and validates it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Bridge.Endpoint = flagEndpoint
	}
	if flags.Changed("function") {
		cfg.Bridge.FunctionName = flagFunction
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
}

// newBridge builds the HTTP bridge for cfg, logging to log.
func newBridge(cfg config.Config, log *pterm.Logger) *bridge.HTTP {
	return bridge.New(bridge.Config{
		Endpoint:     cfg.Bridge.Endpoint,
		FunctionName: cfg.Bridge.FunctionName,
	}, log)
}

// newLogger writes structured logs to stderr at the configured level.
func newLogger(cfg config.Config) *pterm.Logger {
	return logging.New(cfg.LogLevel, nil)
}

// startInlineSpinner starts a simple inline spinner animation on a single line.
// It displays rotating animation frames followed by text, updating the same
// line in w until the returned function is called; that function clears the
// line before returning.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
			if len(line) > 2000 {
				line = line[:2000]
			}
			select {
			case <-stop:
				fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", len(line)))
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s", line)
				i++
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
		})
	}
}
