package statsync

import (
	"context"
	"time"

	"github.com/shortsboard/shorts-analytics/internal/db"
	"github.com/shortsboard/shorts-analytics/internal/db/models"
	"github.com/shortsboard/shorts-analytics/internal/db/repository"
)

// Differ builds the history row that archives a video's state before it
// is overwritten.
type Differ struct {
	history repository.StatsHistoryRepository
}

// NewDiffer creates a Differ reading prior snapshots from history.
func NewDiffer(history repository.StatsHistoryRepository) *Differ {
	return &Differ{history: history}
}

// BuildSnapshot looks up the latest snapshot of previous.VideoID and
// computes the snapshot recorded at now. A video without history is not
// an error.
func (d *Differ) BuildSnapshot(ctx context.Context, previous *models.Video, now time.Time) (*models.StatsSnapshot, error) {
	prior, err := d.history.GetLatestSnapshot(ctx, previous.VideoID)
	if err != nil {
		if !db.IsNotFound(err) {
			return nil, err
		}
		prior = nil
	}

	return ComputeSnapshot(previous, prior, now), nil
}

// ComputeSnapshot archives the counts of previous, with growth measured
// against prior. prior may be nil.
func ComputeSnapshot(previous *models.Video, prior *models.StatsSnapshot, now time.Time) *models.StatsSnapshot {
	snapshot := &models.StatsSnapshot{
		VideoID:            previous.VideoID,
		RecordedAt:         now,
		ViewCount:          previous.ViewCount,
		LikeCount:          previous.LikeCount,
		CommentCount:       previous.CommentCount,
		FavoriteCount:      previous.FavoriteCount,
		EngagementRate:     previous.EngagementRate,
		DaysSincePublished: previous.DaysSincePublished,
	}

	if prior == nil {
		perHour := previous.ViewsPerDay / 24
		snapshot.ViewsPerHour = &perHour
		return snapshot
	}

	snapshot.ViewGrowth = previous.ViewCount - prior.ViewCount
	snapshot.LikeGrowth = previous.LikeCount - prior.LikeCount
	snapshot.CommentGrowth = previous.CommentCount - prior.CommentCount

	if elapsed := now.Sub(prior.RecordedAt).Hours(); elapsed > 0 {
		perHour := float64(snapshot.ViewGrowth) / elapsed
		snapshot.ViewsPerHour = &perHour
	}

	return snapshot
}
