package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shortsboard/shorts-analytics/internal/service/statsync"
	"github.com/shortsboard/shorts-analytics/internal/service/youtube"
	"github.com/shortsboard/shorts-analytics/pkg/logger"
)

const channelNameKeyPrefix = "channel_name:"

// ChannelNameCache keeps resolved channel titles in Redis so repeated sync
// runs skip the channels.list call. The UnknownChannel fallback is never
// cached and Redis errors fall through to the resolver.
type ChannelNameCache struct {
	redisClient *redis.Client
	resolver    statsync.ChannelNameResolver
	ttl         time.Duration
	logger      *zap.Logger
}

// NewChannelNameCache creates a new ChannelNameCache.
func NewChannelNameCache(redisClient *redis.Client, resolver statsync.ChannelNameResolver, ttl time.Duration) *ChannelNameCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ChannelNameCache{
		redisClient: redisClient,
		resolver:    resolver,
		ttl:         ttl,
		logger:      logger.L(),
	}
}

// ResolveChannelName returns the cached title or asks the resolver.
func (c *ChannelNameCache) ResolveChannelName(ctx context.Context, channelID string) string {
	key := channelNameKeyPrefix + channelID

	name, err := c.redisClient.Get(ctx, key).Result()
	switch {
	case err == nil && name != "":
		return name
	case err != nil && !errors.Is(err, redis.Nil):
		c.logger.Warn("Channel name cache read failed",
			zap.String("channelId", channelID),
			zap.Error(err))
	}

	name = c.resolver.ResolveChannelName(ctx, channelID)
	if name == youtube.UnknownChannel {
		return name
	}

	if err := c.redisClient.Set(ctx, key, name, c.ttl).Err(); err != nil {
		c.logger.Warn("Channel name cache write failed",
			zap.String("channelId", channelID),
			zap.Error(err))
	}

	return name
}

// Invalidate drops the cached title of channelID.
func (c *ChannelNameCache) Invalidate(ctx context.Context, channelID string) error {
	return c.redisClient.Del(ctx, channelNameKeyPrefix+channelID).Err()
}

// Ping reports whether Redis is reachable.
func (c *ChannelNameCache) Ping(ctx context.Context) error {
	return c.redisClient.Ping(ctx).Err()
}
