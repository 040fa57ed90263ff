// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlexec

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"sqlbridge/cli/internal/bridge/model"
	"sqlbridge/cli/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/pterm/pterm"
)

// DefaultFunctionName is the routine name the local executor answers to.
const DefaultFunctionName = "sql-executor"

// Runner runs one statement. *Executor satisfies it.
type Runner interface {
	Run(ctx context.Context, sql string) Response
}

// invokeResult mirrors the remote service's {result: {statusCode, body}} wrapper.
type invokeResult struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Handler answers invocations for a single function name.
type Handler struct {
	runner       Runner
	functionName string
}

func NewHandler(r Runner, functionName string) *Handler {
	if functionName == "" {
		functionName = DefaultFunctionName
	}
	return &Handler{runner: r, functionName: functionName}
}

// Invoke runs the envelope's statement. Statement failures answer 200 with a
// top-level error, the way the remote service reports them.
func (h *Handler) Invoke(c *gin.Context) {
	var env model.InvocationEnvelope
	if err := c.ShouldBindJSON(&env); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invocation: " + err.Error()})
		return
	}
	if env.FunctionName != h.functionName {
		c.JSON(http.StatusNotFound, gin.H{"error": "Function not found: " + env.FunctionName})
		return
	}
	if strings.TrimSpace(env.Payload.SQL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload.sql is required"})
		return
	}

	resp := h.runner.Run(c.Request.Context(), env.Payload.SQL)
	if !resp.Success {
		c.JSON(http.StatusOK, gin.H{"error": resp.Error})
		return
	}
	body, err := json.Marshal(resp)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "encode result: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": invokeResult{StatusCode: http.StatusOK, Body: string(body)}})
}

// NewRouter serves POST /invoke and GET /healthz.
func NewRouter(h *Handler, log *pterm.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), server.RequestLogger(log))
	router.POST("/invoke", h.Invoke)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}
