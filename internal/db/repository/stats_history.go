package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shortsboard/shorts-analytics/internal/db"
	"github.com/shortsboard/shorts-analytics/internal/db/models"
)

// StatsHistoryRepository defines operations on the append-only
// video_stats_history table.
type StatsHistoryRepository interface {
	// CreateSnapshot appends a snapshot row and fills in its id.
	CreateSnapshot(ctx context.Context, snapshot *models.StatsSnapshot) error

	// GetLatestSnapshot returns the most recent snapshot for a video,
	// or an ErrNotFound error when the video has no history.
	GetLatestSnapshot(ctx context.Context, videoID string) (*models.StatsSnapshot, error)

	// ListByVideoID returns the growth history of a video, oldest first.
	ListByVideoID(ctx context.Context, videoID string) ([]*models.StatsSnapshot, error)
}

const snapshotColumns = `id, video_id, recorded_at, view_count, like_count, comment_count,
	favorite_count, view_growth, like_growth, comment_growth, engagement_rate,
	views_per_hour, days_since_published, created_at`

type statsHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewStatsHistoryRepository creates a new StatsHistoryRepository.
func NewStatsHistoryRepository(pool *pgxpool.Pool) StatsHistoryRepository {
	return &statsHistoryRepository{pool: pool}
}

func (r *statsHistoryRepository) CreateSnapshot(ctx context.Context, snapshot *models.StatsSnapshot) error {
	query := `
		INSERT INTO video_stats_history (
			video_id, recorded_at, view_count, like_count, comment_count, favorite_count,
			view_growth, like_growth, comment_growth, engagement_rate, views_per_hour,
			days_since_published
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		snapshot.VideoID,
		snapshot.RecordedAt,
		snapshot.ViewCount,
		snapshot.LikeCount,
		snapshot.CommentCount,
		snapshot.FavoriteCount,
		snapshot.ViewGrowth,
		snapshot.LikeGrowth,
		snapshot.CommentGrowth,
		snapshot.EngagementRate,
		snapshot.ViewsPerHour,
		snapshot.DaysSincePublished,
	).Scan(&snapshot.ID, &snapshot.CreatedAt)
	if err != nil {
		return db.WrapError(err, "create stats snapshot")
	}

	return nil
}

func (r *statsHistoryRepository) GetLatestSnapshot(ctx context.Context, videoID string) (*models.StatsSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM video_stats_history
		WHERE video_id = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1
	`

	snapshot, err := scanSnapshot(r.pool.QueryRow(ctx, query, videoID))
	if err != nil {
		return nil, db.WrapError(err, "get latest stats snapshot")
	}

	return snapshot, nil
}

func (r *statsHistoryRepository) ListByVideoID(ctx context.Context, videoID string) ([]*models.StatsSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM video_stats_history
		WHERE video_id = $1
		ORDER BY recorded_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, videoID)
	if err != nil {
		return nil, db.WrapError(err, "list stats history")
	}
	defer rows.Close()

	snapshots := []*models.StatsSnapshot{}
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stats snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats history: %w", err)
	}

	return snapshots, nil
}

func scanSnapshot(row pgx.Row) (*models.StatsSnapshot, error) {
	s := &models.StatsSnapshot{}
	err := row.Scan(
		&s.ID,
		&s.VideoID,
		&s.RecordedAt,
		&s.ViewCount,
		&s.LikeCount,
		&s.CommentCount,
		&s.FavoriteCount,
		&s.ViewGrowth,
		&s.LikeGrowth,
		&s.CommentGrowth,
		&s.EngagementRate,
		&s.ViewsPerHour,
		&s.DaysSincePublished,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
