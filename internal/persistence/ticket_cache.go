package persistence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const ticketCachePrefix = "ticket:detail:"

// TicketCache is a read-through cache for serialized ticket detail
// responses. Misses and Redis outages are soft failures: callers fall back
// to the database.
type TicketCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTicketCache builds a cache over the shared Redis client. A nil client
// or non-positive TTL disables caching.
func NewTicketCache(r *Redis, ttl time.Duration) *TicketCache {
	if r == nil || r.Client == nil || ttl <= 0 {
		return &TicketCache{}
	}
	return &TicketCache{client: r.Client, ttl: ttl}
}

// Get returns the cached payload for a ticket ID, or (nil, false) on miss.
func (c *TicketCache) Get(ctx context.Context, ticketID string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, ticketCachePrefix+ticketID).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores the payload for a ticket ID.
func (c *TicketCache) Set(ctx context.Context, ticketID string, payload []byte) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, ticketCachePrefix+ticketID, payload, c.ttl).Err()
}

// Invalidate drops the cached payload after a ticket mutation.
func (c *TicketCache) Invalidate(ctx context.Context, ticketID string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, ticketCachePrefix+ticketID).Err()
}
