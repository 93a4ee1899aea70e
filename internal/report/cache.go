package report

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-bar/internal/events"
)

// CacheInvalidator drops the cached report whenever an event changes the
// ledger, so a reset or sale is visible immediately instead of after the
// cache TTL runs out.
type CacheInvalidator struct {
	R *redis.Client
}

// Notify implements events.Notifier.
func (n CacheInvalidator) Notify(ctx context.Context, event events.Event) error {
	switch event.Topic {
	case events.TopicSaleRecorded, events.TopicOrderCreated, events.TopicPricesReset, events.TopicDrinkDeleted:
	default:
		return nil
	}
	if n.R == nil {
		return nil
	}
	return n.R.Del(ctx, cacheKey).Err()
}
