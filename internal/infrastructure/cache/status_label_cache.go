package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/b2bportal/backend/internal/domain/order"
)

// defaultStatusTTL bounds how long status labels are served without a
// refresh. Merchants rename statuses rarely, so minutes is plenty.
const defaultStatusTTL = 5 * time.Minute

// InMemoryStatusLabelCache caches the upstream status-definition list in
// process memory. Suitable for single-instance deployments; distributed
// deployments should use the Redis implementation so every instance refreshes
// at the same cadence.
type InMemoryStatusLabelCache struct {
	mu        sync.RWMutex
	defs      []order.StatusDefinition
	expiresAt time.Time
	ttl       time.Duration
	logger    *zap.Logger
}

// NewInMemoryStatusLabelCache creates an in-memory status label cache. A
// non-positive ttl falls back to the default.
func NewInMemoryStatusLabelCache(ttl time.Duration, logger *zap.Logger) *InMemoryStatusLabelCache {
	if ttl <= 0 {
		ttl = defaultStatusTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryStatusLabelCache{ttl: ttl, logger: logger}
}

// Get returns the cached status list if present and unexpired.
func (c *InMemoryStatusLabelCache) Get(_ context.Context) ([]order.StatusDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.defs == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}
	return c.defs, true
}

// Set stores the status list with a fresh TTL.
func (c *InMemoryStatusLabelCache) Set(_ context.Context, defs []order.StatusDefinition) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.defs = defs
	c.expiresAt = time.Now().Add(c.ttl)
	c.logger.Debug("Cached status definitions",
		zap.Int("count", len(defs)),
		zap.Duration("ttl", c.ttl),
	)
}

// Invalidate drops the cached list so the next read refreshes upstream.
func (c *InMemoryStatusLabelCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defs = nil
}
