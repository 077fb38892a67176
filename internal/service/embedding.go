package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shortsboard/shorts-analytics/internal/db"
	"github.com/shortsboard/shorts-analytics/internal/db/models"
	"github.com/shortsboard/shorts-analytics/internal/db/repository"
	"github.com/shortsboard/shorts-analytics/internal/validation"
	"github.com/shortsboard/shorts-analytics/pkg/logger"
)

// EmbeddingService manages script embeddings and their one-to-one link
// with published videos.
type EmbeddingService struct {
	embeddings repository.ScriptEmbeddingRepository
	videos     repository.VideoRepository
	validator  *validation.Validator
	logger     *zap.Logger
}

// NewEmbeddingService creates a new EmbeddingService.
func NewEmbeddingService(
	embeddings repository.ScriptEmbeddingRepository,
	videos repository.VideoRepository,
	validator *validation.Validator,
) *EmbeddingService {
	if validator == nil {
		validator = validation.New(0)
	}
	return &EmbeddingService{
		embeddings: embeddings,
		videos:     videos,
		validator:  validator,
		logger:     logger.L(),
	}
}

// GetOrCreateForVideo returns the embedding assigned to videoID, creating
// an empty one on first access. created reports whether a row was added.
func (s *EmbeddingService) GetOrCreateForVideo(ctx context.Context, videoID string) (embedding *models.ScriptEmbedding, created bool, err error) {
	existing, err := s.embeddings.GetByVideoID(ctx, videoID)
	if err == nil {
		return existing, false, nil
	}
	if !db.IsNotFound(err) {
		return nil, false, fmt.Errorf("get embedding for video: %w", err)
	}

	if err := s.requireVideo(ctx, videoID); err != nil {
		return nil, false, err
	}

	embedding = models.NewScriptEmbedding(models.AssignedTo(videoID), models.ScriptContent{})
	if err := s.embeddings.Create(ctx, embedding); err != nil {
		return nil, false, fmt.Errorf("create embedding for video: %w", err)
	}

	s.logger.Info("Created empty script embedding",
		zap.String("embeddingId", embedding.ID.String()),
		zap.String("videoId", videoID))

	return embedding, true, nil
}

// CreatePending stores creative metadata that is not linked to a video yet.
func (s *EmbeddingService) CreatePending(ctx context.Context, content models.ScriptContent) (*models.ScriptEmbedding, error) {
	if err := s.validate(content); err != nil {
		return nil, err
	}

	embedding := models.NewScriptEmbedding(models.Unassigned(), content)
	if err := s.embeddings.Create(ctx, embedding); err != nil {
		return nil, fmt.Errorf("create pending embedding: %w", err)
	}

	s.logger.Info("Created pending script embedding", zap.String("embeddingId", embedding.ID.String()))
	return embedding, nil
}

// CreateForVideo stores creative metadata already linked to videoID.
func (s *EmbeddingService) CreateForVideo(ctx context.Context, videoID string, content models.ScriptContent) (*models.ScriptEmbedding, error) {
	if err := s.validate(content); err != nil {
		return nil, err
	}

	assignment, err := s.checkAssignable(ctx, videoID, uuid.Nil)
	if err != nil {
		return nil, err
	}

	embedding := models.NewScriptEmbedding(assignment, content)
	if err := s.embeddings.Create(ctx, embedding); err != nil {
		return nil, fmt.Errorf("create embedding for video: %w", err)
	}

	s.logger.Info("Created script embedding",
		zap.String("embeddingId", embedding.ID.String()),
		zap.String("videoId", videoID))

	return embedding, nil
}

// Get returns one embedding.
func (s *EmbeddingService) Get(ctx context.Context, id uuid.UUID) (*models.ScriptEmbedding, error) {
	embedding, err := s.embeddings.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrEmbeddingNotFound)
	}
	return embedding, nil
}

// List returns embeddings filtered by assignment status.
func (s *EmbeddingService) List(ctx context.Context, status repository.EmbeddingStatus) ([]*models.ScriptEmbedding, error) {
	switch status {
	case repository.EmbeddingStatusAll, repository.EmbeddingStatusPending, repository.EmbeddingStatusAssigned:
	default:
		return nil, &ValidationError{Field: "status", Message: "must be one of pending, assigned"}
	}

	embeddings, err := s.embeddings.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}
	return embeddings, nil
}

// Update replaces every creative field. The assignment is unchanged.
func (s *EmbeddingService) Update(ctx context.Context, id uuid.UUID, content models.ScriptContent) (*models.ScriptEmbedding, error) {
	if err := s.validate(content); err != nil {
		return nil, err
	}

	embedding, err := s.embeddings.UpdateContent(ctx, id, content)
	if err != nil {
		return nil, notFoundAs(err, ErrEmbeddingNotFound)
	}
	return embedding, nil
}

// Assign links the embedding to videoID. A video can hold at most one
// embedding; reassigning an embedding to its current video is a no-op.
func (s *EmbeddingService) Assign(ctx context.Context, id uuid.UUID, videoID string) (*models.ScriptEmbedding, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	assignment, err := s.checkAssignable(ctx, videoID, id)
	if err != nil {
		return nil, err
	}

	embedding, err := s.embeddings.SetAssignment(ctx, id, assignment)
	if err != nil {
		return nil, notFoundAs(err, ErrEmbeddingNotFound)
	}

	s.logger.Info("Assigned script embedding",
		zap.String("embeddingId", id.String()),
		zap.String("videoId", videoID))

	return embedding, nil
}

// Unassign returns the embedding to the pending state.
func (s *EmbeddingService) Unassign(ctx context.Context, id uuid.UUID) (*models.ScriptEmbedding, error) {
	embedding, err := s.embeddings.SetAssignment(ctx, id, models.Unassigned())
	if err != nil {
		return nil, notFoundAs(err, ErrEmbeddingNotFound)
	}
	return embedding, nil
}

// Delete removes the embedding.
func (s *EmbeddingService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.embeddings.Delete(ctx, id); err != nil {
		return notFoundAs(err, ErrEmbeddingNotFound)
	}
	s.logger.Info("Deleted script embedding", zap.String("embeddingId", id.String()))
	return nil
}

// checkAssignable verifies videoID exists and no embedding other than
// self holds it.
func (s *EmbeddingService) checkAssignable(ctx context.Context, videoID string, self uuid.UUID) (models.Assignment, error) {
	assignment := models.AssignedTo(videoID)
	id, ok := assignment.VideoID()
	if !ok {
		return assignment, &ValidationError{Field: "video_id", Message: "must name a published video"}
	}

	if err := s.requireVideo(ctx, id); err != nil {
		return assignment, err
	}

	taken, err := s.embeddings.IsVideoAssigned(ctx, id, self)
	if err != nil {
		return assignment, fmt.Errorf("check video assignment: %w", err)
	}
	if taken {
		return assignment, ErrVideoAlreadyAssigned
	}

	return assignment, nil
}

func (s *EmbeddingService) requireVideo(ctx context.Context, videoID string) error {
	if _, err := s.videos.GetVideoByID(ctx, videoID); err != nil {
		return notFoundAs(err, ErrVideoNotFound)
	}
	return nil
}

func (s *EmbeddingService) validate(content models.ScriptContent) error {
	if err := s.validator.ValidateScriptContent(content); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

// notFoundAs replaces a repository not-found error with sentinel.
func notFoundAs(err, sentinel error) error {
	if db.IsNotFound(err) {
		return sentinel
	}
	return err
}
