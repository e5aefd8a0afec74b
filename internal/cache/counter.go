// Package cache keeps volatile per-session counters in Redis so live
// dashboards do not hammer the database. Storage stays authoritative: every
// read path falls back to a COUNT query when the cache is cold or absent.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/seyi/unimark/internal/pkg/logger"
)

const counterTTL = 2 * time.Hour

// LiveCounter tracks how many students have marked per session. All methods
// are safe to call with a nil client; the counter then reports no data and
// callers use storage instead.
type LiveCounter struct {
	client *redis.Client
}

// NewLiveCounter creates a LiveCounter. client may be nil when Redis is not
// configured.
func NewLiveCounter(client *redis.Client) *LiveCounter {
	return &LiveCounter{client: client}
}

func (c *LiveCounter) key(sessionID string) string {
	return "unimark:session:" + sessionID + ":count"
}

// Incr bumps the counter for a session. Errors are logged and swallowed;
// the cache is never allowed to fail a mark.
func (c *LiveCounter) Incr(ctx context.Context, sessionID string) {
	if c.client == nil {
		return
	}
	key := c.key(sessionID)
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		logger.Warn().Err(err).Str("sessionId", sessionID).Msg("Failed to bump live counter")
		return
	}
	c.client.Expire(ctx, key, counterTTL)
}

// Get returns the cached count for a session. The second return value is
// false when the cache is unavailable or has no entry.
func (c *LiveCounter) Get(ctx context.Context, sessionID string) (int64, bool) {
	if c.client == nil {
		return 0, false
	}
	count, err := c.client.Get(ctx, c.key(sessionID)).Int64()
	if err != nil {
		if err != redis.Nil {
			logger.Warn().Err(err).Str("sessionId", sessionID).Msg("Failed to read live counter")
		}
		return 0, false
	}
	return count, true
}

// Forget drops the counter for a session, typically when it closes.
func (c *LiveCounter) Forget(ctx context.Context, sessionID string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, c.key(sessionID)).Err(); err != nil {
		logger.Warn().Err(err).Str("sessionId", sessionID).Msg("Failed to drop live counter")
	}
}
