// Package assistant formats channel and video context for language-model
// conversations, both as copyable prompt text and as a chatbot system
// message.
package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/shortsboard/shorts-analytics/internal/db/models"
)

// ChannelSummary aggregates the stored videos of the channel.
type ChannelSummary struct {
	ChannelID     string
	ChannelName   string
	VideoCount    int
	TotalViews    int64
	AvgEngagement *float64
	LastSyncedAt  *time.Time
}

// VideoContext is everything the prompt says about one video.
type VideoContext struct {
	Video     *models.Video
	History   []*models.StatsSnapshot
	Embedding *models.ScriptEmbedding
}

// BuildPrompt renders the context block followed by the question. An
// empty question leaves the prompt open-ended.
func BuildPrompt(channel ChannelSummary, videos []VideoContext, question string) string {
	var b strings.Builder

	b.WriteString("You are a strategist for short-form video content. Use the channel data below to answer.\n\n")
	writeChannel(&b, channel)

	for i, vc := range videos {
		fmt.Fprintf(&b, "\n## Video %d\n", i+1)
		writeVideo(&b, vc)
	}

	b.WriteString("\n## Question\n")
	if q := strings.TrimSpace(question); q != "" {
		b.WriteString(q)
	} else {
		b.WriteString("What patterns explain the best performers, and what should the next short try?")
	}
	b.WriteString("\n")

	return b.String()
}

func writeChannel(b *strings.Builder, c ChannelSummary) {
	b.WriteString("## Channel\n")
	fmt.Fprintf(b, "Name: %s (%s)\n", c.ChannelName, c.ChannelID)
	fmt.Fprintf(b, "Shorts tracked: %d\n", c.VideoCount)
	fmt.Fprintf(b, "Total views: %d\n", c.TotalViews)
	fmt.Fprintf(b, "Average engagement rate: %s\n", formatRate(c.AvgEngagement))
	if c.LastSyncedAt != nil {
		fmt.Fprintf(b, "Last synced: %s\n", c.LastSyncedAt.UTC().Format(time.RFC3339))
	}
}

func writeVideo(b *strings.Builder, vc VideoContext) {
	v := vc.Video
	fmt.Fprintf(b, "Title: %s\n", v.Title)
	fmt.Fprintf(b, "Video ID: %s\n", v.VideoID)
	fmt.Fprintf(b, "Published: %s (%d days ago)\n", v.PublishedAt.UTC().Format("2006-01-02"), v.DaysSincePublished)
	fmt.Fprintf(b, "Duration: %ds\n", v.DurationSeconds)
	fmt.Fprintf(b, "Views: %d | Likes: %d | Comments: %d\n", v.ViewCount, v.LikeCount, v.CommentCount)
	fmt.Fprintf(b, "Engagement rate: %s | Views per day: %.1f\n", formatRate(v.EngagementRate), v.ViewsPerDay)
	if len(v.Tags) > 0 {
		fmt.Fprintf(b, "Tags: %s\n", strings.Join(v.Tags, ", "))
	}

	if n := len(vc.History); n > 0 {
		latest := vc.History[n-1]
		fmt.Fprintf(b, "Growth since previous sync: +%d views, +%d likes, +%d comments",
			latest.ViewGrowth, latest.LikeGrowth, latest.CommentGrowth)
		if latest.ViewsPerHour != nil {
			fmt.Fprintf(b, " (%.1f views/hour)", *latest.ViewsPerHour)
		}
		fmt.Fprintf(b, "\nHistory points: %d\n", n)
	}

	if e := vc.Embedding; e != nil {
		writeScript(b, e.ScriptContent)
	}
}

func writeScript(b *strings.Builder, c models.ScriptContent) {
	fields := []struct{ label, value string }{
		{"Topic", c.Topic},
		{"Format", c.Format},
		{"Hook", c.Hook},
		{"Style", c.Style},
		{"Gimmick", c.Gimmick},
		{"End CTA", c.EndCTA},
		{"Script", c.Script},
		{"Notes", c.EmbeddingText},
	}

	header := false
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		if !header {
			b.WriteString("Creative:\n")
			header = true
		}
		fmt.Fprintf(b, "  %s: %s\n", f.label, f.value)
	}
}

func formatRate(rate *float64) string {
	if rate == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", *rate*100)
}

// Summarize aggregates videos into a ChannelSummary.
func Summarize(channelID, channelName string, total int, videos []*models.Video) ChannelSummary {
	s := ChannelSummary{ChannelID: channelID, ChannelName: channelName, VideoCount: total}

	var rateSum float64
	var rated int
	for _, v := range videos {
		s.TotalViews += v.ViewCount
		if v.EngagementRate != nil {
			rateSum += *v.EngagementRate
			rated++
		}
		if s.LastSyncedAt == nil || v.LastSyncedAt.After(*s.LastSyncedAt) {
			synced := v.LastSyncedAt
			s.LastSyncedAt = &synced
		}
		if s.ChannelName == "" {
			s.ChannelName = v.ChannelName
		}
	}

	if rated > 0 {
		avg := rateSum / float64(rated)
		s.AvgEngagement = &avg
	}

	return s
}
