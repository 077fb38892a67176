package statsync

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/shortsboard/shorts-analytics/internal/db/models"
	"github.com/shortsboard/shorts-analytics/internal/db/repository"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ResolveChannelName(ctx context.Context, channelID string) string {
	return m.Called(ctx, channelID).String(0)
}

func (m *mockSource) ListShortVideoIDs(ctx context.Context, channelID string) ([]string, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockSource) FetchDetails(ctx context.Context, videoIDs []string) []*ytapi.Video {
	args := m.Called(ctx, videoIDs)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*ytapi.Video)
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

type mockHistoryRepo struct {
	mock.Mock
}

func (m *mockHistoryRepo) CreateSnapshot(ctx context.Context, snapshot *models.StatsSnapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

func (m *mockHistoryRepo) GetLatestSnapshot(ctx context.Context, videoID string) (*models.StatsSnapshot, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StatsSnapshot), args.Error(1)
}

func (m *mockHistoryRepo) ListByVideoID(ctx context.Context, videoID string) ([]*models.StatsSnapshot, error) {
	args := m.Called(ctx, videoID)
	return args.Get(0).([]*models.StatsSnapshot), args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordRun(status string, duration time.Duration) {
	m.Called(status, duration)
}

func (m *mockRecorder) RecordVideo(outcome string) {
	m.Called(outcome)
}

func (m *mockRecorder) RecordArchive(outcome string) {
	m.Called(outcome)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishSyncRun(ctx context.Context, summary *Summary) error {
	return m.Called(ctx, summary).Error(0)
}
