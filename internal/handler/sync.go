package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shortsboard/shorts-analytics/internal/service/statsync"
	"github.com/shortsboard/shorts-analytics/pkg/logger"
)

// SyncRunner executes one statistics sync.
type SyncRunner interface {
	Run(ctx context.Context) (*statsync.Summary, error)
}

// SyncHandler triggers sync runs.
type SyncHandler struct {
	runner SyncRunner
}

// NewSyncHandler creates a new SyncHandler instance.
func NewSyncHandler(runner SyncRunner) *SyncHandler {
	return &SyncHandler{runner: runner}
}

// TriggerSync runs a sync synchronously and returns its summary. The run
// keeps the request context, so a client disconnect aborts pending API
// calls.
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	summary, err := h.runner.Run(c.Request.Context())
	if err != nil {
		logger.L().Error("Sync run failed", zap.Error(err))
		respondError(c, http.StatusBadGateway, "Sync failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, summary)
}
