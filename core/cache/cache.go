package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stagecrew-api/core/config"
	"stagecrew-api/core/logger"
)

// Cache wraps the redis client for short-lived derived values.
type Cache struct {
	client *redis.Client
}

// Init connects to redis and verifies the connection.
func Init(cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis", err)
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("redis initialized", "addr", cfg.Addr)
	return &Cache{client: client}, nil
}

const unreadCountTTL = 5 * time.Minute

func unreadCountKey(recipientID string) string {
	return "notifications:unread:" + recipientID
}

// GetUnreadCount returns the cached unread count, or -1 on a miss.
func (c *Cache) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	count, err := c.client.Get(ctx, unreadCountKey(recipientID)).Int()
	if err == redis.Nil {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return count, nil
}

// SetUnreadCount caches the unread count for a recipient.
func (c *Cache) SetUnreadCount(ctx context.Context, recipientID string, count int) error {
	return c.client.Set(ctx, unreadCountKey(recipientID), count, unreadCountTTL).Err()
}

// InvalidateUnreadCount drops the cached count after any write touching
// the recipient's notifications.
func (c *Cache) InvalidateUnreadCount(ctx context.Context, recipientID string) error {
	return c.client.Del(ctx, unreadCountKey(recipientID)).Err()
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}
