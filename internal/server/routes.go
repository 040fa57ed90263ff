// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pterm/pterm"
)

// NewRouter registers the bridge, snapshot and health routes.
func NewRouter(h *Handler, log *pterm.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log))

	router.GET("/healthz", h.Health)

	api := router.Group("/api")
	api.POST("/bridge", h.Execute)
	api.GET("/snapshot", h.Snapshot)
	api.POST("/snapshot/refresh", h.Refresh)

	return router
}

// RequestLogger logs every request at debug level, and 5xx responses at warn.
func RequestLogger(log *pterm.Logger) gin.HandlerFunc {
	if log == nil {
		log = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := log.Args(
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start).Round(time.Millisecond).String(),
		)
		if c.Writer.Status() >= 500 {
			log.Warn("request failed", args)
			return
		}
		log.Debug("request", args)
	}
}
