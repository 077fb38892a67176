package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	dbmodels "github.com/shortsboard/shorts-analytics/internal/db/models"
	"github.com/shortsboard/shorts-analytics/internal/db/repository"
	"github.com/shortsboard/shorts-analytics/internal/service/llm"
	"github.com/shortsboard/shorts-analytics/internal/service/statsync"
)

type mockSyncRunner struct {
	mock.Mock
}

func (m *mockSyncRunner) Run(ctx context.Context) (*statsync.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*statsync.Summary), args.Error(1)
}

type mockVideoRepo struct {
	mock.Mock
}

func (m *mockVideoRepo) GetVideoByID(ctx context.Context, videoID string) (*dbmodels.Video, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.Video), args.Error(1)
}

func (m *mockVideoRepo) CreateVideo(ctx context.Context, video *dbmodels.Video) error {
	return m.Called(ctx, video).Error(0)
}

func (m *mockVideoRepo) UpdateVideo(ctx context.Context, video *dbmodels.Video) error {
	return m.Called(ctx, video).Error(0)
}

func (m *mockVideoRepo) List(ctx context.Context, filters *repository.VideoFilters) ([]*dbmodels.Video, int, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*dbmodels.Video), args.Int(1), args.Error(2)
}

func (m *mockVideoRepo) Count(ctx context.Context, channelID string) (int, error) {
	args := m.Called(ctx, channelID)
	return args.Int(0), args.Error(1)
}

type mockHistoryRepo struct {
	mock.Mock
}

func (m *mockHistoryRepo) CreateSnapshot(ctx context.Context, snapshot *dbmodels.StatsSnapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

func (m *mockHistoryRepo) GetLatestSnapshot(ctx context.Context, videoID string) (*dbmodels.StatsSnapshot, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.StatsSnapshot), args.Error(1)
}

func (m *mockHistoryRepo) ListByVideoID(ctx context.Context, videoID string) ([]*dbmodels.StatsSnapshot, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dbmodels.StatsSnapshot), args.Error(1)
}

type mockEmbeddings struct {
	mock.Mock
}

func (m *mockEmbeddings) embedding(args mock.Arguments) (*dbmodels.ScriptEmbedding, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.ScriptEmbedding), args.Error(1)
}

func (m *mockEmbeddings) GetOrCreateForVideo(ctx context.Context, videoID string) (*dbmodels.ScriptEmbedding, bool, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*dbmodels.ScriptEmbedding), args.Bool(1), args.Error(2)
}

func (m *mockEmbeddings) CreatePending(ctx context.Context, content dbmodels.ScriptContent) (*dbmodels.ScriptEmbedding, error) {
	return m.embedding(m.Called(ctx, content))
}

func (m *mockEmbeddings) CreateForVideo(ctx context.Context, videoID string, content dbmodels.ScriptContent) (*dbmodels.ScriptEmbedding, error) {
	return m.embedding(m.Called(ctx, videoID, content))
}

func (m *mockEmbeddings) Get(ctx context.Context, id uuid.UUID) (*dbmodels.ScriptEmbedding, error) {
	return m.embedding(m.Called(ctx, id))
}

func (m *mockEmbeddings) List(ctx context.Context, status repository.EmbeddingStatus) ([]*dbmodels.ScriptEmbedding, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dbmodels.ScriptEmbedding), args.Error(1)
}

func (m *mockEmbeddings) Update(ctx context.Context, id uuid.UUID, content dbmodels.ScriptContent) (*dbmodels.ScriptEmbedding, error) {
	return m.embedding(m.Called(ctx, id, content))
}

func (m *mockEmbeddings) Assign(ctx context.Context, id uuid.UUID, videoID string) (*dbmodels.ScriptEmbedding, error) {
	return m.embedding(m.Called(ctx, id, videoID))
}

func (m *mockEmbeddings) Unassign(ctx context.Context, id uuid.UUID) (*dbmodels.ScriptEmbedding, error) {
	return m.embedding(m.Called(ctx, id))
}

func (m *mockEmbeddings) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockAssistant struct {
	mock.Mock
}

func (m *mockAssistant) BuildPrompt(ctx context.Context, videoIDs []string, question string) (string, int, error) {
	args := m.Called(ctx, videoIDs, question)
	return args.String(0), args.Int(1), args.Error(2)
}

func (m *mockAssistant) Chat(ctx context.Context, videoIDs []string, conversation []llm.Message) (string, string, error) {
	args := m.Called(ctx, videoIDs, conversation)
	return args.String(0), args.String(1), args.Error(2)
}

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(context.Context) error {
	return m.err
}

type mockHealthChecker bool

func (m mockHealthChecker) IsHealthy() bool {
	return bool(m)
}
