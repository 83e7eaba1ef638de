package graphql

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// FetchPolicy controls how a query uses the cache
type FetchPolicy int

const (
	// NetworkOnly always asks the API and never reads the cache
	NetworkOnly FetchPolicy = iota
	// CacheAndNetwork asks the API first, stores the response, and falls
	// back to the cached response when the API is unreachable
	CacheAndNetwork
)

func (p FetchPolicy) String() string {
	if p == CacheAndNetwork {
		return "cache-and-network"
	}
	return "network-only"
}

// Cache stores query responses keyed by operation and variables
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Purge(ctx context.Context)
}

// CacheKey identifies an operation's response in the cache
func CacheKey(op *Operation) string {
	vars, _ := json.Marshal(op.Variables) // map keys are marshalled in sorted order
	sum := sha256.Sum256(append([]byte(op.Query), vars...))
	name := op.Name
	if name == "" {
		name = "anonymous"
	}
	return name + ":" + hex.EncodeToString(sum[:8])
}

// MergeData merges an incoming response into the cached one. Objects are
// merged field by field; lists and scalars from incoming replace what was
// cached, so list fields never accumulate stale or duplicate entries.
func MergeData(existing, incoming json.RawMessage) json.RawMessage {
	var prev, next map[string]json.RawMessage
	if json.Unmarshal(existing, &prev) != nil || prev == nil {
		return incoming
	}
	if json.Unmarshal(incoming, &next) != nil || next == nil {
		return incoming
	}

	for key, value := range next {
		if old, ok := prev[key]; ok {
			prev[key] = MergeData(old, value)
			continue
		}
		prev[key] = value
	}

	merged, err := json.Marshal(prev)
	if err != nil {
		return incoming
	}
	return merged
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a process-local cache with a fixed TTL
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryCache creates a cache whose entries expire after ttl (0 = never)
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) {
	entry := memoryEntry{value: value}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

func (c *MemoryCache) Purge(_ context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
}
