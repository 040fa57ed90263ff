// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/robfig/cron/v3"
)

// ParseLevel maps a configured level name to a pterm log level.
func ParseLevel(level string) (pterm.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return pterm.LogLevelTrace, nil
	case "debug":
		return pterm.LogLevelDebug, nil
	case "", "info":
		return pterm.LogLevelInfo, nil
	case "warn", "warning":
		return pterm.LogLevelWarn, nil
	case "error":
		return pterm.LogLevelError, nil
	case "off", "disabled":
		return pterm.LogLevelDisabled, nil
	}
	return pterm.LogLevelInfo, fmt.Errorf("unknown log level %q", level)
}

// New returns a structured logger writing to w (stderr when nil).
// Unknown levels fall back to info.
func New(level string, w io.Writer) *pterm.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, _ := ParseLevel(level)
	return pterm.DefaultLogger.WithLevel(lvl).WithWriter(w)
}

// cronLogger adapts a pterm logger to cron's logging interface.
type cronLogger struct {
	log *pterm.Logger
}

// CronLogger returns a cron.Logger that writes through log.
// cron's routine scheduling chatter goes to debug; job errors go to error.
func CronLogger(log *pterm.Logger) cron.Logger {
	return cronLogger{log: log}
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug("cron: "+msg, c.log.Args(keysAndValues...))
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error("cron: "+msg, c.log.Args(append(keysAndValues, "error", Mask(err.Error()))...))
}
