package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	dbmodels "github.com/shortsboard/shorts-analytics/internal/db/models"
	"github.com/shortsboard/shorts-analytics/internal/db/repository"
	"github.com/shortsboard/shorts-analytics/internal/models"
)

// EmbeddingManager is the script embedding service used by the handler.
type EmbeddingManager interface {
	CreatePending(ctx context.Context, content dbmodels.ScriptContent) (*dbmodels.ScriptEmbedding, error)
	CreateForVideo(ctx context.Context, videoID string, content dbmodels.ScriptContent) (*dbmodels.ScriptEmbedding, error)
	Get(ctx context.Context, id uuid.UUID) (*dbmodels.ScriptEmbedding, error)
	List(ctx context.Context, status repository.EmbeddingStatus) ([]*dbmodels.ScriptEmbedding, error)
	Update(ctx context.Context, id uuid.UUID, content dbmodels.ScriptContent) (*dbmodels.ScriptEmbedding, error)
	Assign(ctx context.Context, id uuid.UUID, videoID string) (*dbmodels.ScriptEmbedding, error)
	Unassign(ctx context.Context, id uuid.UUID) (*dbmodels.ScriptEmbedding, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EmbeddingHandler handles script embedding CRUD and assignment.
type EmbeddingHandler struct {
	embeddings EmbeddingManager
}

// NewEmbeddingHandler creates a new EmbeddingHandler instance.
func NewEmbeddingHandler(embeddings EmbeddingManager) *EmbeddingHandler {
	return &EmbeddingHandler{embeddings: embeddings}
}

// ListEmbeddings returns embeddings, optionally filtered by ?status=pending|assigned.
func (h *EmbeddingHandler) ListEmbeddings(c *gin.Context) {
	embeddings, err := h.embeddings.List(c.Request.Context(), repository.EmbeddingStatus(c.Query("status")))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.EmbeddingListResponseDTO{
		Embeddings: embeddings,
		Count:      len(embeddings),
	})
}

// CreateEmbedding stores a new embedding. Without video_id it is created
// pending, for a short that is not published yet.
func (h *EmbeddingHandler) CreateEmbedding(c *gin.Context) {
	var req models.ScriptContentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	var (
		embedding *dbmodels.ScriptEmbedding
		err       error
	)
	if req.VideoID != nil && *req.VideoID != "" {
		embedding, err = h.embeddings.CreateForVideo(c.Request.Context(), *req.VideoID, req.Content())
	} else {
		embedding, err = h.embeddings.CreatePending(c.Request.Context(), req.Content())
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, embedding)
}

// GetEmbedding returns one embedding.
func (h *EmbeddingHandler) GetEmbedding(c *gin.Context) {
	id, ok := embeddingID(c)
	if !ok {
		return
	}

	embedding, err := h.embeddings.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, embedding)
}

// UpdateEmbedding replaces the creative fields. video_id in the body is
// ignored; assignment has its own endpoint.
func (h *EmbeddingHandler) UpdateEmbedding(c *gin.Context) {
	id, ok := embeddingID(c)
	if !ok {
		return
	}

	var req models.ScriptContentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	embedding, err := h.embeddings.Update(c.Request.Context(), id, req.Content())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, embedding)
}

// DeleteEmbedding removes an embedding.
func (h *EmbeddingHandler) DeleteEmbedding(c *gin.Context) {
	id, ok := embeddingID(c)
	if !ok {
		return
	}

	if err := h.embeddings.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignEmbedding links an embedding to a published video.
func (h *EmbeddingHandler) AssignEmbedding(c *gin.Context) {
	id, ok := embeddingID(c)
	if !ok {
		return
	}

	var req models.AssignmentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	embedding, err := h.embeddings.Assign(c.Request.Context(), id, req.VideoID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, embedding)
}

// UnassignEmbedding returns an embedding to pending.
func (h *EmbeddingHandler) UnassignEmbedding(c *gin.Context) {
	id, ok := embeddingID(c)
	if !ok {
		return
	}

	embedding, err := h.embeddings.Unassign(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, embedding)
}

func embeddingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid embedding id: "+c.Param("id"))
		return uuid.Nil, false
	}
	return id, true
}
