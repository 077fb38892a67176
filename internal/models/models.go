// Package models contains the request and response DTOs of the HTTP API.
package models

import (
	"time"

	dbmodels "github.com/shortsboard/shorts-analytics/internal/db/models"
)

// ScriptContentDTO is the body of embedding create and update requests.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ScriptContentDTO struct {
	VideoID       *string `json:"video_id"`
	Topic         string  `json:"topic"`
	Format        string  `json:"format"`
	Hook          string  `json:"hook"`
	Style         string  `json:"style"`
	Gimmick       string  `json:"gimmick"`
	EndCTA        string  `json:"end_cta"`
	Script        string  `json:"script"`
	EmbeddingText string  `json:"embedding_text"`
}

// Content returns the creative fields of the request.
func (d *ScriptContentDTO) Content() dbmodels.ScriptContent {
	return dbmodels.ScriptContent{
		Topic:         d.Topic,
		Format:        d.Format,
		Hook:          d.Hook,
		Style:         d.Style,
		Gimmick:       d.Gimmick,
		EndCTA:        d.EndCTA,
		Script:        d.Script,
		EmbeddingText: d.EmbeddingText,
	}
}

// AssignmentDTO is the body of PUT /embeddings/:id/assignment.
type AssignmentDTO struct {
	VideoID string `json:"video_id" binding:"required,max=32"`
}

// VideoListResponseDTO is a page of videos.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type VideoListResponseDTO struct {
	Videos []*dbmodels.Video `json:"videos"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// VideoHistoryResponseDTO is the growth history of one video.
type VideoHistoryResponseDTO struct {
	VideoID   string                    `json:"video_id"`
	Snapshots []*dbmodels.StatsSnapshot `json:"snapshots"`
}

// EmbeddingListResponseDTO is the result of GET /embeddings.
type EmbeddingListResponseDTO struct {
	Embeddings []*dbmodels.ScriptEmbedding `json:"embeddings"`
	Count      int                         `json:"count"`
}

// PromptRequestDTO selects the videos the assistant prompt describes.
type PromptRequestDTO struct {
	VideoIDs []string `json:"video_ids" binding:"max=20"`
	Question string   `json:"question" binding:"max=4000"`
}

// PromptResponseDTO carries the formatted prompt text.
type PromptResponseDTO struct {
	Prompt     string `json:"prompt"`
	VideoCount int    `json:"video_count"`
}

// ChatMessageDTO is one turn of a chatbot conversation.
type ChatMessageDTO struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatRequestDTO is the body of POST /chat.
type ChatRequestDTO struct {
	Messages []ChatMessageDTO `json:"messages" binding:"required,min=1,max=50,dive"`
	VideoIDs []string         `json:"video_ids" binding:"max=20"`
}

// ChatResponseDTO is the assistant reply.
type ChatResponseDTO struct {
	Reply string `json:"reply"`
	Model string `json:"model"`
}

// HealthResponseDTO is returned by the health endpoints.
type HealthResponseDTO struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// ErrorResponse represents an error response.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}
