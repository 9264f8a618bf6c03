package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// UnreadCache keeps per-user unread counts in Redis so the websocket gateway's
// get_unread_count requests do not hit Postgres on every poll. All methods are
// safe on a nil receiver; a nil cache is simply a permanent miss.
type UnreadCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewUnreadCache(addr, password string, ttl time.Duration, logger *slog.Logger) (*UnreadCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &UnreadCache{client: rdb, ttl: ttl, logger: logger}, nil
}

func unreadKey(userID string) string {
	return "notifyhub:unread:" + userID
}

func (c *UnreadCache) Get(ctx context.Context, userID string) (int64, bool) {
	if c == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, unreadKey(userID)).Result()
	if err == redis.Nil {
		return 0, false
	}
	if err != nil {
		c.logger.Warn("unread cache get failed", "user_id", userID, "error", err)
		return 0, false
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (c *UnreadCache) Set(ctx context.Context, userID string, count int64) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, unreadKey(userID), count, c.ttl).Err(); err != nil {
		c.logger.Warn("unread cache set failed", "user_id", userID, "error", err)
	}
}

// Invalidate drops the cached count; called on any transition that changes
// what counts as unread for the user.
func (c *UnreadCache) Invalidate(ctx context.Context, userID string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, unreadKey(userID)).Err(); err != nil {
		c.logger.Warn("unread cache invalidate failed", "user_id", userID, "error", err)
	}
}

func (c *UnreadCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
