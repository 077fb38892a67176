// Package youtube wraps the YouTube Data API v3 calls used by the stats sync.
package youtube

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/shortsboard/shorts-analytics/internal/db/models"
	"github.com/shortsboard/shorts-analytics/pkg/logger"
)

const (
	// UnknownChannel is returned by ResolveChannelName when the lookup fails.
	UnknownChannel = "Unknown Channel"

	// MaxBatchSize is the per-request id limit of videos.list and the
	// page size of search.list.
	MaxBatchSize = 50

	// ShortMaxSeconds is the longest duration that still counts as a short.
	ShortMaxSeconds = 60
)

// Approximate quota units per call.
const (
	searchQuotaCost = 100
	listQuotaCost   = 1
)

// QuotaObserver is told about every API call and its approximate quota cost.
type QuotaObserver func(method string, units int)

// Client wraps the YouTube Data API v3 client.
type Client struct {
	service *youtube.Service
	logger  *zap.Logger
	onQuota QuotaObserver
}

// NewClient creates a new YouTube API client. Extra options are passed to
// the underlying service, which lets tests point it at a local endpoint.
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{
		service: service,
		logger:  logger.L(),
		onQuota: func(string, int) {},
	}, nil
}

// WithLogger replaces the client's logger.
func (c *Client) WithLogger(l *zap.Logger) *Client {
	if l != nil {
		c.logger = l
	}
	return c
}

// WithQuotaObserver registers fn to be called after every API request.
func (c *Client) WithQuotaObserver(fn QuotaObserver) *Client {
	if fn != nil {
		c.onQuota = fn
	}
	return c
}

// ResolveChannelName returns the channel title. It never fails: any error
// or empty result yields UnknownChannel.
func (c *Client) ResolveChannelName(ctx context.Context, channelID string) string {
	resp, err := c.service.Channels.List([]string{"snippet"}).Id(channelID).Context(ctx).Do()
	c.onQuota("channels.list", listQuotaCost)
	if err != nil {
		c.logger.Warn("Failed to resolve channel name",
			zap.String("channelId", channelID),
			zap.Error(err))
		return UnknownChannel
	}

	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil || resp.Items[0].Snippet.Title == "" {
		c.logger.Warn("Channel not found", zap.String("channelId", channelID))
		return UnknownChannel
	}

	return resp.Items[0].Snippet.Title
}

// ListShortVideoIDs pages through every video of the channel and keeps
// the ones no longer than ShortMaxSeconds. Any API error is returned.
func (c *Client) ListShortVideoIDs(ctx context.Context, channelID string) ([]string, error) {
	var (
		ids       []string
		pageToken string
		pages     int
	)

	for {
		call := c.service.Search.List([]string{"id"}).
			ChannelId(channelID).
			Type("video").
			MaxResults(MaxBatchSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		c.onQuota("search.list", searchQuotaCost)
		if err != nil {
			return nil, fmt.Errorf("search channel videos (page %d): %w", pages+1, err)
		}
		pages++

		for _, item := range resp.Items {
			if item.Id != nil && item.Id.VideoId != "" {
				ids = append(ids, item.Id.VideoId)
			}
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	c.logger.Info("Listed channel videos",
		zap.String("channelId", channelID),
		zap.Int("pages", pages),
		zap.Int("videos", len(ids)))

	if len(ids) == 0 {
		return []string{}, nil
	}

	return c.FilterShorts(ctx, ids)
}

// FilterShorts returns the ids whose duration is at most ShortMaxSeconds,
// preserving input order. A duration that cannot be parsed counts as zero.
func (c *Client) FilterShorts(ctx context.Context, videoIDs []string) ([]string, error) {
	shorts := make([]string, 0, len(videoIDs))

	for _, batch := range BatchVideoIDs(videoIDs, MaxBatchSize) {
		resp, err := c.service.Videos.List([]string{"contentDetails"}).Id(batch...).Context(ctx).Do()
		c.onQuota("videos.list", listQuotaCost)
		if err != nil {
			return nil, fmt.Errorf("fetch video durations: %w", err)
		}

		for _, item := range resp.Items {
			var raw string
			if item.ContentDetails != nil {
				raw = item.ContentDetails.Duration
			}

			seconds, err := ParseVideoDuration(raw)
			if err != nil {
				c.logger.Warn("Unparseable duration, treating as 0s",
					zap.String("videoId", item.Id),
					zap.String("duration", raw),
					zap.Error(err))
				seconds = 0
			}

			if seconds <= ShortMaxSeconds {
				shorts = append(shorts, item.Id)
			}
		}
	}

	return shorts, nil
}

// FetchDetails retrieves snippet, statistics and contentDetails for the
// given ids. Failed batches are logged and skipped.
func (c *Client) FetchDetails(ctx context.Context, videoIDs []string) []*youtube.Video {
	parts := []string{"snippet", "statistics", "contentDetails"}
	videos := make([]*youtube.Video, 0, len(videoIDs))

	for i, batch := range BatchVideoIDs(videoIDs, MaxBatchSize) {
		resp, err := c.service.Videos.List(parts).Id(batch...).Context(ctx).Do()
		c.onQuota("videos.list", listQuotaCost)
		if err != nil {
			c.logger.Error("Failed to fetch video batch, skipping",
				zap.Int("batch", i),
				zap.Int("size", len(batch)),
				zap.Error(err))
			continue
		}
		videos = append(videos, resp.Items...)
	}

	return videos
}

// Normalize maps an API item onto a video record with derived metrics
// computed at now. Lifecycle fields are left for the caller.
func Normalize(item *youtube.Video, channelID, channelName string, now time.Time) *models.Video {
	v := &models.Video{
		VideoID:     item.Id,
		ChannelID:   channelID,
		ChannelName: channelName,
		PublishedAt: now,
		Tags:        []string{},
	}

	if s := item.Snippet; s != nil {
		v.Title = s.Title
		v.Description = s.Description
		v.CategoryID = s.CategoryId
		v.DefaultLanguage = s.DefaultLanguage
		v.ThumbnailURL = bestThumbnail(s.Thumbnails)
		if s.Tags != nil {
			v.Tags = s.Tags
		}
		if t, err := time.Parse(time.RFC3339, s.PublishedAt); err == nil {
			v.PublishedAt = t
		}
	}

	if cd := item.ContentDetails; cd != nil {
		if seconds, err := ParseVideoDuration(cd.Duration); err == nil {
			v.DurationSeconds = seconds
		}
	}

	if st := item.Statistics; st != nil {
		v.ViewCount = int64(st.ViewCount)
		v.LikeCount = int64(st.LikeCount)
		v.CommentCount = int64(st.CommentCount)
		v.FavoriteCount = int64(st.FavoriteCount)
	}

	v.EngagementRate = models.EngagementRate(v.LikeCount, v.CommentCount, v.ViewCount)
	v.DaysSincePublished = models.DaysSincePublished(v.PublishedAt, now)
	v.ViewsPerDay = models.ViewsPerDay(v.ViewCount, v.DaysSincePublished)

	return v
}

func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, thumb := range []*youtube.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}

// BatchVideoIDs splits a large list of video IDs into batches of at most 50.
func BatchVideoIDs(videoIDs []string, batchSize int) [][]string {
	if batchSize <= 0 || batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}

	var batches [][]string
	for i := 0; i < len(videoIDs); i += batchSize {
		end := min(i+batchSize, len(videoIDs))
		batches = append(batches, videoIDs[i:end])
	}

	return batches
}

// ParseVideoDuration converts an ISO 8601 duration to seconds.
// Example: "PT4M13S" -> 253 seconds
func ParseVideoDuration(duration string) (int, error) {
	if !strings.HasPrefix(duration, "PT") {
		return 0, fmt.Errorf("invalid duration format: %q", duration)
	}

	rest := strings.TrimPrefix(duration, "PT")
	if rest == "" {
		return 0, fmt.Errorf("empty duration: %q", duration)
	}

	total := 0
	for _, unit := range []struct {
		designator string
		seconds    int
	}{{"H", 3600}, {"M", 60}, {"S", 1}} {
		idx := strings.Index(rest, unit.designator)
		if idx == -1 {
			continue
		}
		n, err := strconv.Atoi(rest[:idx])
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", duration, err)
		}
		total += n * unit.seconds
		rest = rest[idx+1:]
	}

	if rest != "" {
		return 0, fmt.Errorf("invalid duration %q: unexpected %q", duration, rest)
	}

	return total, nil
}
