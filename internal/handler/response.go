package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shortsboard/shorts-analytics/internal/models"
	"github.com/shortsboard/shorts-analytics/internal/service"
	"github.com/shortsboard/shorts-analytics/pkg/logger"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, models.ErrorResponse{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(c *gin.Context, err error) {
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		logger.L().Warn("Validation error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmbeddingNotFound), errors.Is(err, service.ErrVideoNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrVideoAlreadyAssigned):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrChatDisabled):
		respondError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, service.ErrChatFailed):
		logger.L().Error("Chat completion failed", zap.Error(err))
		respondError(c, http.StatusBadGateway, service.ErrChatFailed.Error())
	default:
		logger.L().Error("Unexpected error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func parseOffset(c *gin.Context) int {
	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// The repository falls back to published_at for unknown columns.
func orderDir(c *gin.Context) string {
	if strings.EqualFold(c.Query("order"), "asc") {
		return "ASC"
	}
	return "DESC"
}
