package cache

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/b2bportal/backend/internal/application/orderdetail"
)

// StatusCacheFactory creates status label caches based on configuration.
type StatusCacheFactory struct {
	redisConfig      RedisConfig
	ttl              time.Duration
	logger           *zap.Logger
	allowMemFallback bool
}

// StatusCacheFactoryOption is a functional option for configuring the factory.
type StatusCacheFactoryOption func(*StatusCacheFactory)

// WithLogger sets the logger for the factory.
func WithLogger(logger *zap.Logger) StatusCacheFactoryOption {
	return func(f *StatusCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) StatusCacheFactoryOption {
	return func(f *StatusCacheFactory) {
		f.allowMemFallback = allow
	}
}

// NewStatusCacheFactory creates a new factory.
func NewStatusCacheFactory(cfg RedisConfig, ttl time.Duration, opts ...StatusCacheFactoryOption) *StatusCacheFactory {
	f := &StatusCacheFactory{
		redisConfig:      cfg,
		ttl:              ttl,
		logger:           zap.NewNop(),
		allowMemFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache creates a status label cache, preferring Redis and falling
// back to in-memory when allowed. In-memory caches do not share refreshes
// across instances, so a multi-instance deployment behind a failed Redis
// will hit the upstream once per instance per TTL.
func (f *StatusCacheFactory) CreateCache() (orderdetail.StatusLabelCache, error) {
	if f.redisConfig.Host == "" {
		f.logger.Info("Redis not configured, using in-memory status cache")
		return NewInMemoryStatusLabelCache(f.ttl, f.logger), nil
	}

	store, err := NewRedisStatusLabelCache(f.redisConfig, f.ttl, f.logger)
	if err == nil {
		f.logger.Info("Using Redis status cache")
		return store, nil
	}

	if !f.allowMemFallback {
		return nil, fmt.Errorf("Redis required for status cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory status cache", zap.Error(err))
	return NewInMemoryStatusLabelCache(f.ttl, f.logger), nil
}
