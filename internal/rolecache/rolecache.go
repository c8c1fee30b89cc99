// Package rolecache keeps a short-lived Redis copy of each user's current
// role so role-store authorization sees role changes quickly without a
// database round trip per request. Entries are invalidated whenever a
// role is mutated.
package rolecache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

func key(userID int64) string {
	return fmt.Sprintf("role:%d", userID)
}

// Get returns the cached role and whether it was present. A Redis error
// is returned as a miss so callers fall through to the database.
func (c *Cache) Get(ctx context.Context, userID int64) (string, bool) {
	role, err := c.client.Get(ctx, key(userID)).Result()
	if err != nil {
		return "", false
	}
	return role, true
}

func (c *Cache) Set(ctx context.Context, userID int64, role string) error {
	return c.client.Set(ctx, key(userID), role, c.ttl).Err()
}

// Invalidate drops the cached role after a role change so the next
// authorization check re-reads the store.
func (c *Cache) Invalidate(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, key(userID)).Err()
}
