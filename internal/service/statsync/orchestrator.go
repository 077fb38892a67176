// Package statsync refreshes stored short-video statistics from YouTube
// and archives the superseded values as growth history.
package statsync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/shortsboard/shorts-analytics/internal/db"
	"github.com/shortsboard/shorts-analytics/internal/db/models"
	"github.com/shortsboard/shorts-analytics/internal/db/repository"
	"github.com/shortsboard/shorts-analytics/internal/service/youtube"
	"github.com/shortsboard/shorts-analytics/pkg/logger"
)

// ChannelNameResolver returns a display name for a channel. It never fails.
type ChannelNameResolver interface {
	ResolveChannelName(ctx context.Context, channelID string) string
}

// VideoSource is the subset of the YouTube client a sync run needs.
type VideoSource interface {
	ChannelNameResolver
	ListShortVideoIDs(ctx context.Context, channelID string) ([]string, error)
	FetchDetails(ctx context.Context, videoIDs []string) []*ytapi.Video
}

// Recorder receives run statistics, typically for Prometheus.
type Recorder interface {
	RecordRun(status string, duration time.Duration)
	RecordVideo(outcome string)
	RecordArchive(outcome string)
}

// Publisher announces finished runs to downstream consumers.
type Publisher interface {
	PublishSyncRun(ctx context.Context, summary *Summary) error
}

// Run statuses passed to Recorder.RecordRun.
const (
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// Summary reports the counters of one sync run.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Summary struct {
	VideosProcessed int       `json:"videos_processed"`
	VideosInserted  int       `json:"videos_inserted"`
	VideosUpdated   int       `json:"videos_updated"`
	StatsArchived   int       `json:"stats_archived"`
	ArchiveErrors   int       `json:"archive_errors"`
	Errors          int       `json:"errors"`
	ChannelID       string    `json:"channel_id"`
	ChannelName     string    `json:"channel_name"`
	RecordedAt      time.Time `json:"recorded_at"`
	DurationMs      int64     `json:"duration_ms"`
}

// Orchestrator runs a full statistics refresh for one channel.
type Orchestrator interface {
	// Run executes one sync. Only a failure to list the channel's videos
	// is returned as an error; per-video failures are counted in the
	// summary.
	Run(ctx context.Context) (*Summary, error)

	// SetChannelNames overrides how the channel name is resolved (optional).
	SetChannelNames(names ChannelNameResolver)

	// SetRecorder registers a metrics recorder (optional).
	SetRecorder(recorder Recorder)

	// SetPublisher registers a run-event publisher (optional).
	SetPublisher(publisher Publisher)
}

type orchestrator struct {
	channelID string
	source    VideoSource
	names     ChannelNameResolver
	videos    repository.VideoRepository
	history   repository.StatsHistoryRepository
	differ    *Differ
	recorder  Recorder
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrchestrator creates an Orchestrator bound to channelID.
func NewOrchestrator(
	channelID string,
	source VideoSource,
	videos repository.VideoRepository,
	history repository.StatsHistoryRepository,
	log *zap.Logger,
) Orchestrator {
	if log == nil {
		log = logger.L()
	}
	return &orchestrator{
		channelID: channelID,
		source:    source,
		names:     source,
		videos:    videos,
		history:   history,
		differ:    NewDiffer(history),
		logger:    log,
		now:       time.Now,
	}
}

func (o *orchestrator) SetChannelNames(names ChannelNameResolver) {
	if names != nil {
		o.names = names
	}
}

func (o *orchestrator) SetRecorder(recorder Recorder) {
	o.recorder = recorder
}

func (o *orchestrator) SetPublisher(publisher Publisher) {
	o.publisher = publisher
}

func (o *orchestrator) Run(ctx context.Context) (*Summary, error) {
	now := o.now().UTC()
	summary := &Summary{ChannelID: o.channelID, RecordedAt: now}
	log := o.logger.With(zap.String("channelId", o.channelID))

	summary.ChannelName = o.names.ResolveChannelName(ctx, o.channelID)
	log.Info("Starting stats sync", zap.String("channelName", summary.ChannelName))

	ids, err := o.source.ListShortVideoIDs(ctx, o.channelID)
	if err != nil {
		o.recordRun(RunStatusFailed, now)
		return nil, fmt.Errorf("list short videos: %w", err)
	}

	if len(ids) == 0 {
		log.Info("No short videos found")
		o.finish(ctx, summary, now)
		return summary, nil
	}

	items := o.source.FetchDetails(ctx, ids)
	log.Info("Fetched video details",
		zap.Int("requested", len(ids)),
		zap.Int("received", len(items)))

	for _, item := range items {
		summary.VideosProcessed++

		record := youtube.Normalize(item, o.channelID, summary.ChannelName, now)
		result := o.syncVideo(ctx, record, now)

		switch result.archive.status {
		case archiveStored:
			summary.StatsArchived++
		case archiveFailed:
			summary.ArchiveErrors++
			log.Warn("Failed to archive stats snapshot",
				zap.String("videoId", record.VideoID),
				zap.Error(result.archive.err))
		}
		if result.archive.status != archiveSkipped {
			o.recordArchive(string(result.archive.status))
		}

		if result.err != nil {
			summary.Errors++
			o.recordVideo(outcomeError)
			log.Error("Failed to sync video",
				zap.String("videoId", record.VideoID),
				zap.Error(result.err))
			continue
		}

		switch result.outcome {
		case outcomeInserted:
			summary.VideosInserted++
		case outcomeUpdated:
			summary.VideosUpdated++
		}
		o.recordVideo(result.outcome)
	}

	o.finish(ctx, summary, now)
	return summary, nil
}

// finish stamps the duration, logs the run and notifies the optional
// collaborators. Neither can fail the run.
func (o *orchestrator) finish(ctx context.Context, summary *Summary, started time.Time) {
	summary.DurationMs = o.now().Sub(started).Milliseconds()
	o.recordRun(RunStatusSuccess, started)

	o.logger.Info("Stats sync finished",
		zap.String("channelId", summary.ChannelID),
		zap.Int("processed", summary.VideosProcessed),
		zap.Int("inserted", summary.VideosInserted),
		zap.Int("updated", summary.VideosUpdated),
		zap.Int("archived", summary.StatsArchived),
		zap.Int("archiveErrors", summary.ArchiveErrors),
		zap.Int("errors", summary.Errors),
		zap.Int64("durationMs", summary.DurationMs))

	if o.publisher != nil {
		if err := o.publisher.PublishSyncRun(ctx, summary); err != nil {
			o.logger.Warn("Failed to publish sync run event", zap.Error(err))
		}
	}
}

// syncVideo performs the read-then-branch upsert for one record. A panic
// in any step is reported as the record's error.
func (o *orchestrator) syncVideo(ctx context.Context, record *models.Video, now time.Time) (result videoResult) {
	defer func() {
		if r := recover(); r != nil {
			result.outcome = ""
			result.err = fmt.Errorf("panic while syncing video: %v", r)
		}
	}()

	previous, err := o.videos.GetVideoByID(ctx, record.VideoID)
	if err != nil && !db.IsNotFound(err) {
		return videoResult{err: fmt.Errorf("look up video: %w", err)}
	}

	if previous == nil {
		record.MarkFirstSync(now)
		if err := o.videos.CreateVideo(ctx, record); err != nil {
			return videoResult{err: fmt.Errorf("insert video: %w", err)}
		}
		return videoResult{outcome: outcomeInserted}
	}

	result.archive = o.archive(ctx, previous, now)

	record.CarryForward(previous, now)
	if err := o.videos.UpdateVideo(ctx, record); err != nil {
		result.err = fmt.Errorf("update video: %w", err)
		return result
	}
	result.outcome = outcomeUpdated
	return result
}

// archive writes the snapshot of previous. Its outcome never becomes the
// record's error.
func (o *orchestrator) archive(ctx context.Context, previous *models.Video, now time.Time) archiveOutcome {
	snapshot, err := o.differ.BuildSnapshot(ctx, previous, now)
	if err != nil {
		return archiveOutcome{status: archiveFailed, err: fmt.Errorf("build snapshot: %w", err)}
	}

	if err := o.history.CreateSnapshot(ctx, snapshot); err != nil {
		return archiveOutcome{status: archiveFailed, err: fmt.Errorf("store snapshot: %w", err)}
	}

	return archiveOutcome{status: archiveStored}
}

func (o *orchestrator) recordRun(status string, started time.Time) {
	if o.recorder != nil {
		o.recorder.RecordRun(status, o.now().Sub(started))
	}
}

func (o *orchestrator) recordVideo(outcome string) {
	if o.recorder != nil {
		o.recorder.RecordVideo(outcome)
	}
}

func (o *orchestrator) recordArchive(outcome string) {
	if o.recorder != nil {
		o.recorder.RecordArchive(outcome)
	}
}
