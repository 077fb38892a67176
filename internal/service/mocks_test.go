package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/shortsboard/shorts-analytics/internal/db/models"
	"github.com/shortsboard/shorts-analytics/internal/db/repository"
)

type mockEmbeddingRepo struct {
	mock.Mock
}

func (m *mockEmbeddingRepo) Create(ctx context.Context, e *models.ScriptEmbedding) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEmbeddingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ScriptEmbedding, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScriptEmbedding), args.Error(1)
}

func (m *mockEmbeddingRepo) GetByVideoID(ctx context.Context, videoID string) (*models.ScriptEmbedding, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScriptEmbedding), args.Error(1)
}

func (m *mockEmbeddingRepo) IsVideoAssigned(ctx context.Context, videoID string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, videoID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockEmbeddingRepo) List(ctx context.Context, status repository.EmbeddingStatus) ([]*models.ScriptEmbedding, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScriptEmbedding), args.Error(1)
}

func (m *mockEmbeddingRepo) UpdateContent(ctx context.Context, id uuid.UUID, content models.ScriptContent) (*models.ScriptEmbedding, error) {
	args := m.Called(ctx, id, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScriptEmbedding), args.Error(1)
}

func (m *mockEmbeddingRepo) SetAssignment(ctx context.Context, id uuid.UUID, assignment models.Assignment) (*models.ScriptEmbedding, error) {
	args := m.Called(ctx, id, assignment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScriptEmbedding), args.Error(1)
}

func (m *mockEmbeddingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockVideoRepo struct {
	mock.Mock
}

func (m *mockVideoRepo) GetVideoByID(ctx context.Context, videoID string) (*models.Video, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}

func (m *mockVideoRepo) CreateVideo(ctx context.Context, video *models.Video) error {
	return m.Called(ctx, video).Error(0)
}

func (m *mockVideoRepo) UpdateVideo(ctx context.Context, video *models.Video) error {
	return m.Called(ctx, video).Error(0)
}

func (m *mockVideoRepo) List(ctx context.Context, filters *repository.VideoFilters) ([]*models.Video, int, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Video), args.Int(1), args.Error(2)
}

func (m *mockVideoRepo) Count(ctx context.Context, channelID string) (int, error) {
	args := m.Called(ctx, channelID)
	return args.Int(0), args.Error(1)
}
