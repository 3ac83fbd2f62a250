// Package cache provides the optional Redis-backed read cache for the
// leaderboard aggregation. Every Redis failure degrades to a cache miss so
// the aggregation query stays the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lockedin/internal/models"
	"lockedin/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

// Connect initialises a Redis client and validates connectivity with a ping.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// LeaderboardCache stores serialized leaderboard results per timeframe under
// a short TTL. Key format: leaderboard:<timeframe>
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeaderboardCache creates a LeaderboardCache wrapping the given client.
func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, ttl: ttl}
}

// Get returns the cached entries for the timeframe, reporting whether the
// lookup hit. Missing keys, Redis errors and corrupt payloads all read as
// misses.
func (c *LeaderboardCache) Get(ctx context.Context, timeframe string) ([]models.LeaderboardEntry, bool) {
	raw, err := c.client.Get(ctx, c.key(timeframe)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Get().Warn().Err(err).Msg("leaderboard cache read failed")
		}
		return nil, false
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		logger.Get().Warn().Err(err).Msg("leaderboard cache payload corrupt")
		return nil, false
	}
	return entries, true
}

// Set stores the entries for the timeframe. Failures are logged and dropped.
func (c *LeaderboardCache) Set(ctx context.Context, timeframe string, entries []models.LeaderboardEntry) {
	raw, err := json.Marshal(entries)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("failed to marshal leaderboard entries")
		return
	}
	if err := c.client.Set(ctx, c.key(timeframe), raw, c.ttl).Err(); err != nil {
		logger.Get().Warn().Err(err).Msg("leaderboard cache write failed")
	}
}

func (c *LeaderboardCache) key(timeframe string) string {
	return "leaderboard:" + timeframe
}
