// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"
	"net/http"
	"strings"

	"sqlbridge/cli/internal/bridge"
	"sqlbridge/cli/internal/bridge/model"
	"sqlbridge/cli/internal/gather"

	"github.com/gin-gonic/gin"
)

// errorBody is the JSON shape of every failure response.
type errorBody struct {
	Error string `json:"error"`
}

// Handler serves the bridge and the snapshot of a fixed batch.
type Handler struct {
	bridge bridge.Bridge
	store  *gather.Store
	batch  gather.Batch
}

func NewHandler(b bridge.Bridge, store *gather.Store, batch gather.Batch) *Handler {
	return &Handler{bridge: b, store: store, batch: batch}
}

// Execute runs the posted statement through the bridge.
// Bridge failures of any kind answer 500 with the failure message.
func (h *Handler) Execute(c *gin.Context) {
	var req model.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, errorBody{Error: "query is required"})
		return
	}

	res := h.bridge.Execute(c.Request.Context(), req.Query)
	if res.Failed() {
		c.JSON(http.StatusInternalServerError, errorBody{Error: res.Error})
		return
	}
	c.JSON(http.StatusOK, res)
}

// Snapshot returns the current snapshot, or 503 before the first refresh.
func (h *Handler) Snapshot(c *gin.Context) {
	snap := h.store.Current()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, errorBody{Error: "no snapshot available yet"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Refresh gathers the batch now and returns the new snapshot. The gather
// outlives a client that disconnects mid-refresh.
func (h *Handler) Refresh(c *gin.Context) {
	snap, err := h.store.Refresh(context.WithoutCancel(c.Request.Context()), h.batch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
