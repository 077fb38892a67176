package models

import (
	"math"
	"time"
)

// Video is the current state of one short on the synced channel.
// Metric fields are overwritten on every sync; FirstSyncedAt is set once.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Video struct {
	VideoID            string    `db:"video_id" json:"video_id"`
	ChannelID          string    `db:"channel_id" json:"channel_id"`
	ChannelName        string    `db:"channel_name" json:"channel_name"`
	Title              string    `db:"title" json:"title"`
	Description        string    `db:"description" json:"description"`
	PublishedAt        time.Time `db:"published_at" json:"published_at"`
	DurationSeconds    int       `db:"duration_seconds" json:"duration_seconds"`
	CategoryID         string    `db:"category_id" json:"category_id"`
	Tags               []string  `db:"tags" json:"tags"`
	ThumbnailURL       string    `db:"thumbnail_url" json:"thumbnail_url"`
	DefaultLanguage    string    `db:"default_language" json:"default_language"`
	ViewCount          int64     `db:"view_count" json:"view_count"`
	LikeCount          int64     `db:"like_count" json:"like_count"`
	CommentCount       int64     `db:"comment_count" json:"comment_count"`
	FavoriteCount      int64     `db:"favorite_count" json:"favorite_count"`
	EngagementRate     *float64  `db:"engagement_rate" json:"engagement_rate"`
	ViewsPerDay        float64   `db:"views_per_day" json:"views_per_day"`
	DaysSincePublished int       `db:"days_since_published" json:"days_since_published"`
	FirstSyncedAt      time.Time `db:"first_synced_at" json:"first_synced_at"`
	LastSyncedAt       time.Time `db:"last_synced_at" json:"last_synced_at"`
	SyncCount          int       `db:"sync_count" json:"sync_count"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// MarkFirstSync prepares a freshly fetched video for insertion.
func (v *Video) MarkFirstSync(now time.Time) {
	v.FirstSyncedAt = now
	v.LastSyncedAt = now
	v.SyncCount = 1
	v.CreatedAt = now
	v.UpdatedAt = now
}

// CarryForward prepares a freshly fetched video to overwrite previous,
// keeping the lifecycle fields that must survive across syncs.
func (v *Video) CarryForward(previous *Video, now time.Time) {
	v.FirstSyncedAt = previous.FirstSyncedAt
	v.CreatedAt = previous.CreatedAt
	v.SyncCount = previous.SyncCount + 1
	v.LastSyncedAt = now
	v.UpdatedAt = now
}

// EngagementRate returns (likes+comments)/views, or nil when there are no views.
func EngagementRate(likes, comments, views int64) *float64 {
	if views <= 0 {
		return nil
	}
	rate := float64(likes+comments) / float64(views)
	return &rate
}

// DaysSincePublished returns whole days elapsed since publishedAt, never negative.
func DaysSincePublished(publishedAt, now time.Time) int {
	days := int(math.Floor(now.Sub(publishedAt).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// ViewsPerDay averages views over the days since publishing. Same-day
// videos report their raw view count.
func ViewsPerDay(views int64, days int) float64 {
	if days <= 0 {
		return float64(views)
	}
	return float64(views) / float64(days)
}
