// Package cache stores resolved intents keyed by message plus conversation
// context. Entries expire by TTL only; a changed context yields a different
// key, so stale entries age out rather than being invalidated.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"atom-nlu/internal/models"
)

// Cache is the lookup contract the resolver depends on. A backend error is a
// miss from the caller's point of view; implementations log and degrade.
type Cache interface {
	Get(ctx context.Context, key string) (*models.ResolvedIntent, bool)
	Set(ctx context.Context, key string, intent *models.ResolvedIntent)
}

// Key derives the cache key from the message and the serialized conversation
// context. Two sessions with identical context state share entries.
func Key(message string, convCtx *models.ConversationContext) string {
	h := sha256.New()
	h.Write([]byte(message))
	h.Write([]byte{0})
	if convCtx != nil {
		// Field-order marshaling of a struct is deterministic, and map keys
		// are sorted, so equal contexts hash equally.
		raw, err := json.Marshal(convCtx)
		if err == nil {
			h.Write(raw)
		}
	}
	return "nlu:resolve:" + hex.EncodeToString(h.Sum(nil))
}

// NoOpCache satisfies Cache without storing anything. Used when caching is
// disabled.
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache { return &NoOpCache{} }

func (n *NoOpCache) Get(ctx context.Context, key string) (*models.ResolvedIntent, bool) {
	return nil, false
}

func (n *NoOpCache) Set(ctx context.Context, key string, intent *models.ResolvedIntent) {}

var _ Cache = (*NoOpCache)(nil)

// ttlOrDefault guards against zero TTLs that would make entries immortal.
func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 5 * time.Minute
	}
	return ttl
}
