package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Older rows marked unassigned embeddings with this video_id prefix
// instead of NULL.
const legacyPendingPrefix = "PENDING_"

// Assignment is either Unassigned or Assigned to exactly one video.
// The zero value is Unassigned.
type Assignment struct {
	videoID string
}

// Unassigned returns the pending assignment.
func Unassigned() Assignment {
	return Assignment{}
}

// AssignedTo returns an assignment to videoID. Empty and legacy pending
// ids yield Unassigned.
func AssignedTo(videoID string) Assignment {
	return AssignmentFromColumn(&videoID)
}

// AssignmentFromColumn decodes the nullable video_id column.
func AssignmentFromColumn(videoID *string) Assignment {
	if videoID == nil {
		return Unassigned()
	}
	id := strings.TrimSpace(*videoID)
	if id == "" || strings.HasPrefix(id, legacyPendingPrefix) {
		return Unassigned()
	}
	return Assignment{videoID: id}
}

// VideoID returns the assigned video id and whether there is one.
func (a Assignment) VideoID() (string, bool) {
	return a.videoID, a.videoID != ""
}

// IsAssigned reports whether the embedding is linked to a video.
func (a Assignment) IsAssigned() bool {
	return a.videoID != ""
}

// Column encodes the assignment for the nullable video_id column.
func (a Assignment) Column() *string {
	if a.videoID == "" {
		return nil
	}
	id := a.videoID
	return &id
}

func (a Assignment) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Column())
}

func (a *Assignment) UnmarshalJSON(data []byte) error {
	var id *string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*a = AssignmentFromColumn(id)
	return nil
}

// ScriptContent is the user-authored creative metadata of an embedding.
type ScriptContent struct {
	Topic         string `db:"topic" json:"topic"`
	Format        string `db:"format" json:"format"`
	Hook          string `db:"hook" json:"hook"`
	Style         string `db:"style" json:"style"`
	Gimmick       string `db:"gimmick" json:"gimmick"`
	EndCTA        string `db:"end_cta" json:"end_cta"`
	Script        string `db:"script" json:"script"`
	EmbeddingText string `db:"embedding_text" json:"embedding_text"`
}

// ScriptEmbedding links creative metadata to a published short, or holds
// it pending until the short is published.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ScriptEmbedding struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Assignment Assignment `db:"video_id" json:"video_id"`
	ScriptContent
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewScriptEmbedding creates an embedding with a fresh id.
func NewScriptEmbedding(assignment Assignment, content ScriptContent) *ScriptEmbedding {
	now := time.Now()
	return &ScriptEmbedding{
		ID:            uuid.New(),
		Assignment:    assignment,
		ScriptContent: content,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
