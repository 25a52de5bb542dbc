package cms

import (
	"context"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// invalidateChannel carries cross-instance invalidation signals.
const invalidateChannel = "cms:invalidate"

// Broker fans out cache invalidation across portal instances through redis
// pub/sub. With a nil redis client it degrades to local-only invalidation,
// which is correct for single-instance deployments.
type Broker struct {
	rdb   *redis.Client
	cache *Cache
}

// NewBroker constructs a broker over the given cache. rdb may be nil.
func NewBroker(rdb *redis.Client, cache *Cache) *Broker {
	return &Broker{rdb: rdb, cache: cache}
}

// InvalidateAll flushes the local cache and signals other instances.
func (b *Broker) InvalidateAll(ctx context.Context) {
	if b == nil {
		return
	}
	if b.cache != nil {
		b.cache.InvalidateAll()
	}
	if b.rdb == nil {
		return
	}
	if errPublish := b.rdb.Publish(ctx, invalidateChannel, "all").Err(); errPublish != nil {
		log.WithError(errPublish).Warn("publish cache invalidation failed")
	}
}

// Listen subscribes to invalidation signals and flushes the local cache on
// each message. It returns immediately; the subscription runs until ctx is
// cancelled.
func (b *Broker) Listen(ctx context.Context) {
	if b == nil || b.rdb == nil || b.cache == nil {
		return
	}
	sub := b.rdb.Subscribe(ctx, invalidateChannel)
	go func() {
		defer func() { _ = sub.Close() }()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				log.WithField("payload", msg.Payload).Debug("cache invalidation received")
				b.cache.InvalidateAll()
			}
		}
	}()
}
