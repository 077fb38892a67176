package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shortsboard/shorts-analytics/internal/db"
	"github.com/shortsboard/shorts-analytics/internal/db/models"
)

// VideoRepository defines operations on the current-state videos table.
type VideoRepository interface {
	// GetVideoByID retrieves a single video by its platform id.
	GetVideoByID(ctx context.Context, videoID string) (*models.Video, error)

	// CreateVideo inserts a video seen for the first time.
	CreateVideo(ctx context.Context, video *models.Video) error

	// UpdateVideo overwrites the mutable fields of an existing video.
	// first_synced_at and created_at are never touched.
	UpdateVideo(ctx context.Context, video *models.Video) error

	// List retrieves videos with filtering, ordering and pagination.
	List(ctx context.Context, filters *VideoFilters) ([]*models.Video, int, error)

	// Count returns the number of stored videos, optionally for one channel.
	Count(ctx context.Context, channelID string) (int, error)
}

// VideoFilters holds the list parameters for videos.
type VideoFilters struct {
	ChannelID string
	OrderBy   string
	OrderDir  string
	Limit     int
	Offset    int
}

var videoOrderColumns = map[string]string{
	"published_at":    "published_at",
	"view_count":      "view_count",
	"like_count":      "like_count",
	"comment_count":   "comment_count",
	"engagement_rate": "engagement_rate",
	"views_per_day":   "views_per_day",
	"last_synced_at":  "last_synced_at",
	"title":           "title",
}

const videoColumns = `video_id, channel_id, channel_name, title, description, published_at,
	duration_seconds, category_id, tags, thumbnail_url, default_language,
	view_count, like_count, comment_count, favorite_count,
	engagement_rate, views_per_day, days_since_published,
	first_synced_at, last_synced_at, sync_count, created_at, updated_at`

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

func (r *videoRepository) GetVideoByID(ctx context.Context, videoID string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE video_id = $1`

	video, err := scanVideo(r.pool.QueryRow(ctx, query, videoID))
	if err != nil {
		return nil, db.WrapError(err, "get video by id")
	}

	return video, nil
}

func (r *videoRepository) CreateVideo(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (` + videoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23)
	`

	_, err := r.pool.Exec(ctx, query,
		video.VideoID,
		video.ChannelID,
		video.ChannelName,
		video.Title,
		video.Description,
		video.PublishedAt,
		video.DurationSeconds,
		video.CategoryID,
		nonNilTags(video.Tags),
		video.ThumbnailURL,
		video.DefaultLanguage,
		video.ViewCount,
		video.LikeCount,
		video.CommentCount,
		video.FavoriteCount,
		video.EngagementRate,
		video.ViewsPerDay,
		video.DaysSincePublished,
		video.FirstSyncedAt,
		video.LastSyncedAt,
		video.SyncCount,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		return db.WrapError(err, "create video")
	}

	return nil
}

func (r *videoRepository) UpdateVideo(ctx context.Context, video *models.Video) error {
	query := `
		UPDATE videos
		SET channel_id = $2,
		    channel_name = $3,
		    title = $4,
		    description = $5,
		    published_at = $6,
		    duration_seconds = $7,
		    category_id = $8,
		    tags = $9,
		    thumbnail_url = $10,
		    default_language = $11,
		    view_count = $12,
		    like_count = $13,
		    comment_count = $14,
		    favorite_count = $15,
		    engagement_rate = $16,
		    views_per_day = $17,
		    days_since_published = $18,
		    last_synced_at = $19,
		    sync_count = $20,
		    updated_at = $21
		WHERE video_id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		video.VideoID,
		video.ChannelID,
		video.ChannelName,
		video.Title,
		video.Description,
		video.PublishedAt,
		video.DurationSeconds,
		video.CategoryID,
		nonNilTags(video.Tags),
		video.ThumbnailURL,
		video.DefaultLanguage,
		video.ViewCount,
		video.LikeCount,
		video.CommentCount,
		video.FavoriteCount,
		video.EngagementRate,
		video.ViewsPerDay,
		video.DaysSincePublished,
		video.LastSyncedAt,
		video.SyncCount,
		video.UpdatedAt,
	)
	if err != nil {
		return db.WrapError(err, "update video")
	}

	if tag.RowsAffected() == 0 {
		return db.WrapError(pgx.ErrNoRows, "update video")
	}

	return nil
}

func (r *videoRepository) List(ctx context.Context, filters *VideoFilters) ([]*models.Video, int, error) {
	where := ""
	args := []interface{}{}
	if filters.ChannelID != "" {
		args = append(args, filters.ChannelID)
		where = fmt.Sprintf(" WHERE channel_id = $%d", len(args))
	}

	total, err := r.Count(ctx, filters.ChannelID)
	if err != nil {
		return nil, 0, err
	}

	orderBy, ok := videoOrderColumns[filters.OrderBy]
	if !ok {
		orderBy = "published_at"
	}
	orderDir := "DESC"
	if filters.OrderDir == "ASC" {
		orderDir = "ASC"
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	args = append(args, limit, filters.Offset)
	query := fmt.Sprintf(
		`SELECT %s FROM videos%s ORDER BY %s %s NULLS LAST, video_id LIMIT $%d OFFSET $%d`,
		videoColumns, where, orderBy, orderDir, len(args)-1, len(args),
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, db.WrapError(err, "list videos")
	}
	defer rows.Close()

	videos, err := scanVideos(rows)
	if err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

func (r *videoRepository) Count(ctx context.Context, channelID string) (int, error) {
	query := `SELECT COUNT(*) FROM videos`
	args := []interface{}{}
	if channelID != "" {
		query += ` WHERE channel_id = $1`
		args = append(args, channelID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, db.WrapError(err, "count videos")
	}

	return total, nil
}

func scanVideo(row pgx.Row) (*models.Video, error) {
	video := &models.Video{}
	err := row.Scan(
		&video.VideoID,
		&video.ChannelID,
		&video.ChannelName,
		&video.Title,
		&video.Description,
		&video.PublishedAt,
		&video.DurationSeconds,
		&video.CategoryID,
		&video.Tags,
		&video.ThumbnailURL,
		&video.DefaultLanguage,
		&video.ViewCount,
		&video.LikeCount,
		&video.CommentCount,
		&video.FavoriteCount,
		&video.EngagementRate,
		&video.ViewsPerDay,
		&video.DaysSincePublished,
		&video.FirstSyncedAt,
		&video.LastSyncedAt,
		&video.SyncCount,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return video, nil
}

func scanVideos(rows pgx.Rows) ([]*models.Video, error) {
	videos := []*models.Video{}

	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
