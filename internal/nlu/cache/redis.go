package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"atom-nlu/internal/common/database"
	"atom-nlu/internal/common/logger"
	"atom-nlu/internal/models"
)

// RedisCache stores resolved intents as JSON with a per-key TTL. Backend
// failures are logged and reported as misses so resolution never blocks on
// the cache tier.
type RedisCache struct {
	client *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisCache(client *database.RedisClient, ttl time.Duration, log logger.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttlOrDefault(ttl),
		logger: log.WithFields(map[string]interface{}{"component": "cache"}),
	}
}

func (r *RedisCache) Get(ctx context.Context, key string) (*models.ResolvedIntent, bool) {
	raw, err := r.client.Get(ctx, key)
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("cache get failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}

	var intent models.ResolvedIntent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		r.logger.Warn("cache entry is not a valid resolved intent, evicting", map[string]interface{}{
			"error": err.Error(),
		})
		_ = r.client.Del(ctx, key)
		return nil, false
	}
	return &intent, true
}

func (r *RedisCache) Set(ctx context.Context, key string, intent *models.ResolvedIntent) {
	if intent == nil {
		return
	}
	raw, err := json.Marshal(intent)
	if err != nil {
		r.logger.Warn("cache marshal failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := r.client.Set(ctx, key, raw, r.ttl); err != nil {
		r.logger.Warn("cache set failed", map[string]interface{}{"error": err.Error()})
	}
}

var _ Cache = (*RedisCache)(nil)
