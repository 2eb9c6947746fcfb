package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"notifier/internal/init/cache"
	gouser "notifier/internal/modules/user"
)

// UserCache keeps display names in Redis so fan-outs don't hit the DB per recipient.
type UserCache struct {
	rdb *redis.Client
	log *slog.Logger
	ttl time.Duration
}

func NewUserCache(appCache *cache.Cache, log *slog.Logger) *UserCache {
	return &UserCache{
		rdb: appCache.Client,
		log: log,
		ttl: appCache.DisplayNameTtl,
	}
}

func displayNameKey(userID string) string {
	return fmt.Sprintf("user:%s:display_name", userID)
}

func (c *UserCache) GetDisplayName(ctx context.Context, userID string) (string, error) {
	op := "UserCache.GetDisplayName"
	key := displayNameKey(userID)
	log := c.log.With(slog.String("op", op), slog.String("key", key))

	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", gouser.ErrCacheMiss
		}
		log.Error("failed to get display name from cache", "error", err)
		return "", gouser.ErrInternal
	}
	return val, nil
}

func (c *UserCache) SaveDisplayName(ctx context.Context, userID, name string) error {
	op := "UserCache.SaveDisplayName"
	key := displayNameKey(userID)
	log := c.log.With(slog.String("op", op), slog.String("key", key))

	if err := c.rdb.Set(ctx, key, name, c.ttl).Err(); err != nil {
		log.Error("failed to save display name to cache", "error", err)
		return gouser.ErrInternal
	}
	return nil
}
