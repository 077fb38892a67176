package models

import "time"

// StatsSnapshot is one archived point of a video's growth history.
// Counts are the values the video held before the sync that wrote the
// row; rows are never updated or deleted.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type StatsSnapshot struct {
	ID                 int64     `db:"id" json:"id"`
	VideoID            string    `db:"video_id" json:"video_id"`
	RecordedAt         time.Time `db:"recorded_at" json:"recorded_at"`
	ViewCount          int64     `db:"view_count" json:"view_count"`
	LikeCount          int64     `db:"like_count" json:"like_count"`
	CommentCount       int64     `db:"comment_count" json:"comment_count"`
	FavoriteCount      int64     `db:"favorite_count" json:"favorite_count"`
	ViewGrowth         int64     `db:"view_growth" json:"view_growth"`
	LikeGrowth         int64     `db:"like_growth" json:"like_growth"`
	CommentGrowth      int64     `db:"comment_growth" json:"comment_growth"`
	EngagementRate     *float64  `db:"engagement_rate" json:"engagement_rate"`
	ViewsPerHour       *float64  `db:"views_per_hour" json:"views_per_hour"`
	DaysSincePublished int       `db:"days_since_published" json:"days_since_published"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}
