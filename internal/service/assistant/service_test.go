package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shortsboard/shorts-analytics/internal/db"
	"github.com/shortsboard/shorts-analytics/internal/db/models"
	"github.com/shortsboard/shorts-analytics/internal/db/repository"
	"github.com/shortsboard/shorts-analytics/internal/service"
	"github.com/shortsboard/shorts-analytics/internal/service/llm"
)

type mockVideos struct {
	repository.VideoRepository
	mock.Mock
}

func (m *mockVideos) GetVideoByID(ctx context.Context, videoID string) (*models.Video, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}

func (m *mockVideos) List(ctx context.Context, filters *repository.VideoFilters) ([]*models.Video, int, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Video), args.Int(1), args.Error(2)
}

type mockHistory struct {
	repository.StatsHistoryRepository
	mock.Mock
}

func (m *mockHistory) ListByVideoID(ctx context.Context, videoID string) ([]*models.StatsSnapshot, error) {
	args := m.Called(ctx, videoID)
	return args.Get(0).([]*models.StatsSnapshot), args.Error(1)
}

type mockEmbeddings struct {
	repository.ScriptEmbeddingRepository
	mock.Mock
}

func (m *mockEmbeddings) GetByVideoID(ctx context.Context, videoID string) (*models.ScriptEmbedding, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScriptEmbedding), args.Error(1)
}

type mockChat struct {
	mock.Mock
}

func (m *mockChat) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

func (m *mockChat) Model() string {
	return "test-model"
}

func notFound() error {
	return db.WrapError(db.ErrNotFound, "lookup")
}

type fixture struct {
	videos     *mockVideos
	history    *mockHistory
	embeddings *mockEmbeddings
}

func newFixture(videos ...*models.Video) *fixture {
	f := &fixture{videos: new(mockVideos), history: new(mockHistory), embeddings: new(mockEmbeddings)}
	f.videos.On("List", mock.Anything, mock.MatchedBy(func(fl *repository.VideoFilters) bool {
		return fl.ChannelID == "UC1" && fl.OrderBy == "view_count"
	})).Return(videos, len(videos), nil)
	f.history.On("ListByVideoID", mock.Anything, mock.Anything).Return([]*models.StatsSnapshot{}, nil)
	return f
}

func (f *fixture) service(chat ChatCompleter) *Service {
	return NewService("UC1", f.videos, f.history, f.embeddings, chat)
}

func TestService_BuildPrompt(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to top videos", func(t *testing.T) {
		videos := make([]*models.Video, 7)
		for i := range videos {
			videos[i] = &models.Video{VideoID: string(rune('a' + i)), Title: "Short", ChannelName: "Coffee Lab"}
		}
		f := newFixture(videos...)
		f.embeddings.On("GetByVideoID", mock.Anything, mock.Anything).Return(nil, notFound())

		prompt, n, err := f.service(nil).BuildPrompt(ctx, nil, "")
		require.NoError(t, err)
		assert.Equal(t, defaultSelection, n)
		assert.Contains(t, prompt, "Name: Coffee Lab (UC1)")
		assert.Contains(t, prompt, "Shorts tracked: 7")
		assert.Contains(t, prompt, "## Video 5")
		assert.NotContains(t, prompt, "## Video 6")
		f.history.AssertNumberOfCalls(t, "ListByVideoID", defaultSelection)
	})

	t.Run("selected videos with embedding", func(t *testing.T) {
		f := newFixture()
		f.videos.On("GetVideoByID", mock.Anything, "abc123").Return(&models.Video{VideoID: "abc123", Title: "Latte art"}, nil)
		f.embeddings.On("GetByVideoID", mock.Anything, "abc123").
			Return(&models.ScriptEmbedding{ID: uuid.New(), ScriptContent: models.ScriptContent{Topic: "latte"}}, nil)

		prompt, n, err := f.service(nil).BuildPrompt(ctx, []string{"abc123"}, "Why did it work?")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Contains(t, prompt, "Title: Latte art")
		assert.Contains(t, prompt, "  Topic: latte")
		assert.Contains(t, prompt, "Why did it work?")
	})

	t.Run("unknown video", func(t *testing.T) {
		f := newFixture()
		f.videos.On("GetVideoByID", mock.Anything, "ghost").Return(nil, notFound())

		_, _, err := f.service(nil).BuildPrompt(ctx, []string{"ghost"}, "")
		assert.ErrorIs(t, err, service.ErrVideoNotFound)
	})
}

func TestService_Chat(t *testing.T) {
	ctx := context.Background()
	conversation := []llm.Message{{Role: llm.RoleUser, Content: "What should I post next?"}}

	t.Run("disabled without client", func(t *testing.T) {
		svc := newFixture().service(nil)
		assert.False(t, svc.ChatEnabled())

		_, _, err := svc.Chat(ctx, nil, conversation)
		assert.ErrorIs(t, err, service.ErrChatDisabled)
	})

	t.Run("prepends system context", func(t *testing.T) {
		chat := new(mockChat)
		chat.On("Complete", mock.Anything, mock.MatchedBy(func(msgs []llm.Message) bool {
			return len(msgs) == 2 && msgs[0].Role == llm.RoleSystem && msgs[1].Content == "What should I post next?"
		})).Return("A coffee myth buster.", nil)

		reply, model, err := newFixture().service(chat).Chat(ctx, nil, conversation)
		require.NoError(t, err)
		assert.Equal(t, "A coffee myth buster.", reply)
		assert.Equal(t, "test-model", model)
		chat.AssertExpectations(t)
	})

	t.Run("completion failure", func(t *testing.T) {
		chat := new(mockChat)
		chat.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("status 429"))

		_, _, err := newFixture().service(chat).Chat(ctx, nil, conversation)
		assert.ErrorIs(t, err, service.ErrChatFailed)
		assert.ErrorContains(t, err, "status 429")
	})
}
