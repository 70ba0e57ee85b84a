package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/b2bportal/backend/internal/domain/order"
)

// RedisStatusLabelCache caches the status-definition list in Redis so all
// portal instances share one refresh cadence.
type RedisStatusLabelCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisStatusLabelCache connects to Redis and returns a status label
// cache. The connection is verified up front so a misconfigured Redis fails
// at startup, not on first request.
func NewRedisStatusLabelCache(cfg RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisStatusLabelCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStatusLabelCacheWithClient(client, ttl, logger), nil
}

// NewRedisStatusLabelCacheWithClient creates a cache over an existing Redis
// client, useful for testing or sharing a client across components.
func NewRedisStatusLabelCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStatusLabelCache {
	if ttl <= 0 {
		ttl = defaultStatusTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStatusLabelCache{
		client: client,
		key:    "portal:order-statuses",
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached status list if present. Redis errors degrade to a
// cache miss; the caller falls through to the upstream.
func (c *RedisStatusLabelCache) Get(ctx context.Context) ([]order.StatusDefinition, bool) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Status cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var defs []order.StatusDefinition
	if err := json.Unmarshal(data, &defs); err != nil {
		c.logger.Warn("Status cache entry corrupt, dropping", zap.Error(err))
		_ = c.client.Del(ctx, c.key).Err()
		return nil, false
	}
	return defs, true
}

// Set stores the status list with a fresh TTL. Write failures are logged
// and otherwise ignored; the cache is an optimization, not a dependency.
func (c *RedisStatusLabelCache) Set(ctx context.Context, defs []order.StatusDefinition) {
	data, err := json.Marshal(defs)
	if err != nil {
		c.logger.Warn("Failed to encode status definitions", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Status cache write failed", zap.Error(err))
	}
}

// Close closes the Redis client.
func (c *RedisStatusLabelCache) Close() error {
	return c.client.Close()
}
