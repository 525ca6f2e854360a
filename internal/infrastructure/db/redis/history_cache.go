package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bloodlaac/fabricat/internal/core/ports"
)

const recentGamesTTL = 5 * time.Minute

// RecentGamesCache caches recent-games query results per user, keyed by
// user id and requested limit. Key format: history:recent:<user_id>:<limit>
type RecentGamesCache struct {
	client *redis.Client
}

// NewRecentGamesCache creates a RecentGamesCache wrapping the given client.
func NewRecentGamesCache(client *redis.Client) *RecentGamesCache {
	return &RecentGamesCache{client: client}
}

// Get returns the cached result for (userID, limit), or false on a miss.
// Redis errors count as misses; the caller falls through to the repository.
func (c *RecentGamesCache) Get(ctx context.Context, userID string, limit int) ([]ports.PlayerGameStats, bool) {
	raw, err := c.client.Get(ctx, c.key(userID, limit)).Bytes()
	if err != nil {
		return nil, false
	}

	var items []ports.PlayerGameStats
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

// Set stores a query result (expires after recentGamesTTL).
func (c *RecentGamesCache) Set(ctx context.Context, userID string, limit int, items []ports.PlayerGameStats) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal recent games: %w", err)
	}
	return c.client.Set(ctx, c.key(userID, limit), raw, recentGamesTTL).Err()
}

// Invalidate drops every cached entry for the user, whatever the limit.
func (c *RecentGamesCache) Invalidate(ctx context.Context, userID string) error {
	iter := c.client.Scan(ctx, 0, fmt.Sprintf("history:recent:%s:*", userID), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("invalidate recent games: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan recent games keys: %w", err)
	}
	return nil
}

func (c *RecentGamesCache) key(userID string, limit int) string {
	return fmt.Sprintf("history:recent:%s:%d", userID, limit)
}
