// Package cache provides the Redis-backed match result cache. The cache is
// optional; a nil cache means every match recomputes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"companymatch/internal/match/models"
	platformredis "companymatch/internal/platform/redis"
)

// Redis stores fused match results keyed by a digest of the input record.
type Redis struct {
	client *platformredis.Client
	logger *slog.Logger
}

// New wraps a platform Redis client. Returns nil when the client is nil
// (cache not configured).
func New(client *platformredis.Client, logger *slog.Logger) *Redis {
	if client == nil {
		return nil
	}
	return &Redis{client: client, logger: logger}
}

// Key derives the cache key for an input record from its canonical JSON form.
func Key(rec models.InputRecord) string {
	raw, err := json.Marshal(rec)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return "match:" + hex.EncodeToString(sum[:])
}

// cachedHit keeps the identity key alongside the wire form, which omits it.
type cachedHit struct {
	Key string           `json:"key"`
	Hit models.ScoredHit `json:"hit"`
}

// Get returns the cached matches for key, or (nil, false) on any miss or
// error. Cache failures never fail a match.
func (c *Redis) Get(ctx context.Context, key string) ([]models.ScoredHit, bool) {
	if c == nil || key == "" {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var cached []cachedHit
	if err := json.Unmarshal(raw, &cached); err != nil {
		if c.logger != nil {
			c.logger.WarnContext(ctx, "discarding undecodable cached match", "key", key, "error", err)
		}
		return nil, false
	}
	hits := make([]models.ScoredHit, len(cached))
	for i, ch := range cached {
		hits[i] = ch.Hit
		hits[i].IdentityKey = ch.Key
	}
	return hits, true
}

// Set stores matches under key with the given TTL. Best effort.
func (c *Redis) Set(ctx context.Context, key string, matches []models.ScoredHit, ttl time.Duration) {
	if c == nil || key == "" {
		return
	}
	cached := make([]cachedHit, len(matches))
	for i, hit := range matches {
		cached[i] = cachedHit{Key: hit.IdentityKey, Hit: hit}
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "failed to cache match result", "key", key, "error", err)
	}
}
