package cache

import (
	"context"
	"sync"
	"time"

	"atom-nlu/internal/models"
)

type memoryEntry struct {
	intent    *models.ResolvedIntent
	expiresAt time.Time
}

// MemoryCache is the in-process fallback backend. Expired entries are dropped
// lazily on read and swept opportunistically on write.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttlOrDefault(ttl),
		now:     time.Now,
	}
}

func (m *MemoryCache) Get(ctx context.Context, key string) (*models.ResolvedIntent, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return cloneIntent(entry.intent), true
}

func (m *MemoryCache) Set(ctx context.Context, key string, intent *models.ResolvedIntent) {
	if intent == nil {
		return
	}
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	m.entries[key] = memoryEntry{
		intent:    cloneIntent(intent),
		expiresAt: now.Add(m.ttl),
	}
}

// Len reports the live entry count, counting not-yet-swept expired entries.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

var _ Cache = (*MemoryCache)(nil)

func cloneIntent(in *models.ResolvedIntent) *models.ResolvedIntent {
	if in == nil {
		return nil
	}
	out := *in
	if in.Entities != nil {
		out.Entities = make(map[string]interface{}, len(in.Entities))
		for k, v := range in.Entities {
			out.Entities[k] = v
		}
	}
	if in.Parameters != nil {
		out.Parameters = make(map[string]interface{}, len(in.Parameters))
		for k, v := range in.Parameters {
			out.Parameters[k] = v
		}
	}
	out.Platforms = append([]string(nil), in.Platforms...)
	out.SuggestedFollowUps = append([]string(nil), in.SuggestedFollowUps...)
	out.DataIntegration = in.DataIntegration.Clone()
	return &out
}
