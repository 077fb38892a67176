package assistant

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shortsboard/shorts-analytics/internal/db"
	"github.com/shortsboard/shorts-analytics/internal/db/models"
	"github.com/shortsboard/shorts-analytics/internal/db/repository"
	"github.com/shortsboard/shorts-analytics/internal/service"
	"github.com/shortsboard/shorts-analytics/internal/service/llm"
	"github.com/shortsboard/shorts-analytics/pkg/logger"
)

const (
	// summaryLimit caps how many videos feed the channel summary.
	summaryLimit = 1000

	// defaultSelection is how many top videos are described when the
	// caller selects none.
	defaultSelection = 5
)

// ChatCompleter sends a conversation to a language model.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
	Model() string
}

// Service loads the data a prompt describes and runs chatbot turns.
type Service struct {
	channelID  string
	videos     repository.VideoRepository
	history    repository.StatsHistoryRepository
	embeddings repository.ScriptEmbeddingRepository
	chat       ChatCompleter
	logger     *zap.Logger
}

// NewService creates a new assistant Service. chat may be nil, which
// disables Chat.
func NewService(
	channelID string,
	videos repository.VideoRepository,
	history repository.StatsHistoryRepository,
	embeddings repository.ScriptEmbeddingRepository,
	chat ChatCompleter,
) *Service {
	return &Service{
		channelID:  channelID,
		videos:     videos,
		history:    history,
		embeddings: embeddings,
		chat:       chat,
		logger:     logger.L(),
	}
}

// ChatEnabled reports whether a language model is configured.
func (s *Service) ChatEnabled() bool {
	return s.chat != nil
}

// BuildPrompt returns the prompt text and how many videos it describes.
func (s *Service) BuildPrompt(ctx context.Context, videoIDs []string, question string) (string, int, error) {
	summary, selected, err := s.load(ctx, videoIDs)
	if err != nil {
		return "", 0, err
	}
	return BuildPrompt(summary, selected, question), len(selected), nil
}

// Chat answers the conversation with the selected videos as system
// context and returns the reply and the model that produced it.
func (s *Service) Chat(ctx context.Context, videoIDs []string, conversation []llm.Message) (string, string, error) {
	if s.chat == nil {
		return "", "", service.ErrChatDisabled
	}

	summary, selected, err := s.load(ctx, videoIDs)
	if err != nil {
		return "", "", err
	}

	messages := make([]llm.Message, 0, len(conversation)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: SystemPrompt(summary, selected)})
	messages = append(messages, conversation...)

	reply, err := s.chat.Complete(ctx, messages)
	if err != nil {
		s.logger.Error("Chat completion failed", zap.Int("turns", len(conversation)), zap.Error(err))
		return "", "", fmt.Errorf("%w: %v", service.ErrChatFailed, err)
	}

	return reply, s.chat.Model(), nil
}

// SystemPrompt is the context block without a trailing question.
func SystemPrompt(summary ChannelSummary, videos []VideoContext) string {
	return BuildPrompt(summary, videos, "Answer the user's questions about this channel.")
}

func (s *Service) load(ctx context.Context, videoIDs []string) (ChannelSummary, []VideoContext, error) {
	all, total, err := s.videos.List(ctx, &repository.VideoFilters{
		ChannelID: s.channelID,
		OrderBy:   "view_count",
		OrderDir:  "DESC",
		Limit:     summaryLimit,
	})
	if err != nil {
		return ChannelSummary{}, nil, fmt.Errorf("list videos: %w", err)
	}
	summary := Summarize(s.channelID, "", total, all)

	var picked []*models.Video
	if len(videoIDs) == 0 {
		picked = all[:min(defaultSelection, len(all))]
	} else {
		for _, id := range videoIDs {
			v, err := s.videos.GetVideoByID(ctx, id)
			if err != nil {
				if db.IsNotFound(err) {
					return ChannelSummary{}, nil, fmt.Errorf("%w: %s", service.ErrVideoNotFound, id)
				}
				return ChannelSummary{}, nil, fmt.Errorf("get video: %w", err)
			}
			picked = append(picked, v)
		}
	}

	contexts := make([]VideoContext, 0, len(picked))
	for _, v := range picked {
		vc := VideoContext{Video: v}

		if vc.History, err = s.history.ListByVideoID(ctx, v.VideoID); err != nil {
			return ChannelSummary{}, nil, fmt.Errorf("list history: %w", err)
		}

		embedding, err := s.embeddings.GetByVideoID(ctx, v.VideoID)
		switch {
		case err == nil:
			vc.Embedding = embedding
		case !db.IsNotFound(err):
			return ChannelSummary{}, nil, fmt.Errorf("get embedding: %w", err)
		}

		contexts = append(contexts, vc)
	}

	return summary, contexts, nil
}
