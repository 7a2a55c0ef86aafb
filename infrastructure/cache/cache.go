package cache

import (
	"context"

	"panorama-api/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// NewCache connects to Redis. A failed ping is reported to the caller, who
// may continue without caching; the read paths all tolerate a nil client.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not reachable")
		return nil, err
	}
	return client, nil
}
