// Package validation checks identifiers and user-authored text before
// they reach the services.
package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/shortsboard/shorts-analytics/internal/db/models"
)

var (
	videoIDRegex   = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	channelIDRegex = regexp.MustCompile(`^UC[a-zA-Z0-9_-]{22}$`)
)

// DefaultMaxFieldLength bounds each short creative field; the script and
// embedding text get MaxScriptLength.
const (
	DefaultMaxFieldLength = 2000
	MaxScriptLength       = 20000
)

type Validator struct {
	maxFieldLength int
}

func New(maxFieldLength int) *Validator {
	if maxFieldLength <= 0 {
		maxFieldLength = DefaultMaxFieldLength
	}
	return &Validator{maxFieldLength: maxFieldLength}
}

// ValidateScriptContent rejects fields longer than the configured limits.
func (v *Validator) ValidateScriptContent(c models.ScriptContent) error {
	short := map[string]string{
		"topic":   c.Topic,
		"format":  c.Format,
		"hook":    c.Hook,
		"style":   c.Style,
		"gimmick": c.Gimmick,
		"end_cta": c.EndCTA,
	}
	for name, value := range short {
		if utf8.RuneCountInString(value) > v.maxFieldLength {
			return fmt.Errorf("%s exceeds maximum length of %d characters", name, v.maxFieldLength)
		}
	}

	if utf8.RuneCountInString(c.Script) > MaxScriptLength {
		return fmt.Errorf("script exceeds maximum length of %d characters", MaxScriptLength)
	}
	if utf8.RuneCountInString(c.EmbeddingText) > MaxScriptLength {
		return fmt.Errorf("embedding_text exceeds maximum length of %d characters", MaxScriptLength)
	}

	return nil
}

func (v *Validator) IsValidVideoID(videoID string) bool {
	return videoIDRegex.MatchString(videoID)
}

func (v *Validator) IsValidChannelID(channelID string) bool {
	return channelIDRegex.MatchString(channelID)
}
