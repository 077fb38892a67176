package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shortsboard/shorts-analytics/internal/db"
	dbmodels "github.com/shortsboard/shorts-analytics/internal/db/models"
	"github.com/shortsboard/shorts-analytics/internal/db/repository"
	"github.com/shortsboard/shorts-analytics/internal/models"
	"github.com/shortsboard/shorts-analytics/internal/validation"
	"github.com/shortsboard/shorts-analytics/pkg/logger"
)

// VideoEmbeddings lazily creates the embedding of a video.
type VideoEmbeddings interface {
	GetOrCreateForVideo(ctx context.Context, videoID string) (*dbmodels.ScriptEmbedding, bool, error)
}

// VideoHandler serves the stored videos of the configured channel.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoHandler struct {
	channelID  string
	videos     repository.VideoRepository
	history    repository.StatsHistoryRepository
	embeddings VideoEmbeddings
	validator  *validation.Validator
}

// NewVideoHandler creates a new VideoHandler instance.
func NewVideoHandler(
	channelID string,
	videos repository.VideoRepository,
	history repository.StatsHistoryRepository,
	embeddings VideoEmbeddings,
) *VideoHandler {
	return &VideoHandler{
		channelID:  channelID,
		videos:     videos,
		history:    history,
		embeddings: embeddings,
		validator:  validation.New(0),
	}
}

// ListVideos returns a page of videos ordered by a whitelisted column.
func (h *VideoHandler) ListVideos(c *gin.Context) {
	filters := &repository.VideoFilters{
		ChannelID: h.channelID,
		OrderBy:   c.DefaultQuery("order_by", "published_at"),
		OrderDir:  orderDir(c),
		Limit:     parseLimit(c),
		Offset:    parseOffset(c),
	}

	videos, total, err := h.videos.List(c.Request.Context(), filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.VideoListResponseDTO{
		Videos: videos,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}

// GetVideo returns one video.
func (h *VideoHandler) GetVideo(c *gin.Context) {
	videoID, ok := h.videoID(c)
	if !ok {
		return
	}

	video, err := h.videos.GetVideoByID(c.Request.Context(), videoID)
	if err != nil {
		h.handleLookupError(c, err, videoID)
		return
	}

	c.JSON(http.StatusOK, video)
}

// GetHistory returns the growth snapshots of a video, oldest first.
func (h *VideoHandler) GetHistory(c *gin.Context) {
	videoID, ok := h.videoID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.videos.GetVideoByID(ctx, videoID); err != nil {
		h.handleLookupError(c, err, videoID)
		return
	}

	snapshots, err := h.history.ListByVideoID(ctx, videoID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.VideoHistoryResponseDTO{
		VideoID:   videoID,
		Snapshots: snapshots,
	})
}

// GetEmbedding returns the script embedding of a video, creating an
// empty one on first access.
func (h *VideoHandler) GetEmbedding(c *gin.Context) {
	videoID, ok := h.videoID(c)
	if !ok {
		return
	}

	embedding, created, err := h.embeddings.GetOrCreateForVideo(c.Request.Context(), videoID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, embedding)
}

func (h *VideoHandler) videoID(c *gin.Context) (string, bool) {
	videoID := c.Param("video_id")
	if !h.validator.IsValidVideoID(videoID) {
		respondError(c, http.StatusBadRequest, "Invalid video id: "+videoID)
		return "", false
	}
	return videoID, true
}

func (h *VideoHandler) handleLookupError(c *gin.Context, err error, videoID string) {
	if db.IsNotFound(err) {
		respondError(c, http.StatusNotFound, "Video not found: "+videoID)
		return
	}
	logger.L().Error("Failed to load video", zap.Error(err), zap.String("videoId", videoID))
	respondError(c, http.StatusInternalServerError, "An unexpected error occurred")
}
