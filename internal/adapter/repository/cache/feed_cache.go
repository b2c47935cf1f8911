package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"automarket/internal/listing/domain"
)

const (
	feedKey = "feed:all"
	feedTTL = 30 * time.Second
)

// FeedCache keeps the public feed in Redis for a short window. Listings are
// refetched on navigation anyway, so a stale feed only lasts seconds.
type FeedCache struct {
	client *redis.Client
}

func NewFeedCache(client *redis.Client) *FeedCache {
	return &FeedCache{client: client}
}

func (c *FeedCache) GetFeed(ctx context.Context) ([]*domain.Listing, error) {
	data, err := c.client.Get(ctx, feedKey).Bytes()
	if err == redis.Nil {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, err
	}
	var listings []*domain.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *FeedCache) SetFeed(ctx context.Context, listings []*domain.Listing) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, feedKey, data, feedTTL).Err()
}

func (c *FeedCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, feedKey).Err()
}
