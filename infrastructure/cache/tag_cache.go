package cache

import (
	"context"
	"encoding/json"
	"time"

	"panorama-api/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

const (
	tagListKey = "tags:all"
	tagListTTL = 5 * time.Minute
)

// TagCache is a read-through cache for the ordered tag-name list. All
// operations are best-effort: a cache failure is logged and treated as a
// miss, never surfaced to the caller.
type TagCache struct {
	client *redis.Client
}

func NewTagCache(client *redis.Client) *TagCache { return &TagCache{client: client} }

// GetNames returns the cached list, or ok=false on miss/disabled cache.
func (c *TagCache) GetNames(ctx context.Context) ([]string, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, tagListKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.GetLogger().WithField("error", err).Warn("tag cache read failed")
		}
		return nil, false
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		logger.GetLogger().WithField("error", err).Warn("tag cache payload corrupt")
		return nil, false
	}
	return names, true
}

func (c *TagCache) SetNames(ctx context.Context, names []string) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, tagListKey, raw, tagListTTL).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("tag cache write failed")
	}
}

// Invalidate drops the cached list; called after any tag-set rewrite.
func (c *TagCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, tagListKey).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("tag cache invalidate failed")
	}
}
