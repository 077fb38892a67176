package validation

import (
	"strings"
	"testing"

	"github.com/shortsboard/shorts-analytics/internal/db/models"
)

func TestNew(t *testing.T) {
	if v := New(0); v.maxFieldLength != DefaultMaxFieldLength {
		t.Errorf("maxFieldLength = %d, want %d", v.maxFieldLength, DefaultMaxFieldLength)
	}
	if v := New(10); v.maxFieldLength != 10 {
		t.Errorf("maxFieldLength = %d, want 10", v.maxFieldLength)
	}
}

func TestValidator_ValidateScriptContent(t *testing.T) {
	tests := []struct {
		name    string
		content models.ScriptContent
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty content",
			content: models.ScriptContent{},
		},
		{
			name:    "typical content",
			content: models.ScriptContent{Topic: "coffee", Hook: "Stop!", Script: strings.Repeat("a", 5000)},
		},
		{
			name:    "hook too long",
			content: models.ScriptContent{Hook: strings.Repeat("h", 21)},
			wantErr: true,
			errMsg:  "hook exceeds",
		},
		{
			name:    "multibyte runes counted once",
			content: models.ScriptContent{Topic: strings.Repeat("☕", 20)},
		},
		{
			name:    "script too long",
			content: models.ScriptContent{Script: strings.Repeat("s", MaxScriptLength+1)},
			wantErr: true,
			errMsg:  "script exceeds",
		},
		{
			name:    "embedding text too long",
			content: models.ScriptContent{EmbeddingText: strings.Repeat("e", MaxScriptLength+1)},
			wantErr: true,
			errMsg:  "embedding_text exceeds",
		},
	}

	v := New(20)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateScriptContent(tt.content)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScriptContent() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("ValidateScriptContent() error = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestValidator_IsValidVideoID(t *testing.T) {
	v := New(0)
	tests := []struct {
		videoID string
		want    bool
	}{
		{"dQw4w9WgXcQ", true},
		{"abc-DEF_123", true},
		{"short", false},
		{"dQw4w9WgXcQX", false},
		{"dQw4w9WgX!Q", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := v.IsValidVideoID(tt.videoID); got != tt.want {
			t.Errorf("IsValidVideoID(%q) = %v, want %v", tt.videoID, got, tt.want)
		}
	}
}

func TestValidator_IsValidChannelID(t *testing.T) {
	v := New(0)
	tests := []struct {
		channelID string
		want      bool
	}{
		{"UCuAXFkgsw1L7xaCfnd5JJOw", true},
		{"UCuAXFkgsw1L7xaCfnd5JJO", false},
		{"XXuAXFkgsw1L7xaCfnd5JJOw", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := v.IsValidChannelID(tt.channelID); got != tt.want {
			t.Errorf("IsValidChannelID(%q) = %v, want %v", tt.channelID, got, tt.want)
		}
	}
}
