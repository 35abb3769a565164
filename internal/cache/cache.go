// Package cache provides the retrieval-result cache.
package cache

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrCacheMiss indicates the key is not cached.
var ErrCacheMiss = errors.New("cache miss")

// Client is the cache contract shared by the memory and redis drivers.
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key joins parts into a cache key.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// GenerationKey scopes a key to one catalog generation, so a reload
// naturally invalidates everything cached for the previous generation.
func GenerationKey(seq uint64, parts ...string) string {
	return Key(append([]string{"g", strconv.FormatUint(seq, 10)}, parts...)...)
}

// MemoryClient is an in-process cache for development and tests.
type MemoryClient struct {
	mu      sync.RWMutex
	data    map[string]memoryEntry
	maxSize int
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryClient creates an in-memory cache holding at most maxSize entries.
func NewMemoryClient(maxSize int) *MemoryClient {
	if maxSize <= 0 {
		maxSize = 10000
	}
	c := &MemoryClient{
		data:    make(map[string]memoryEntry),
		maxSize: maxSize,
	}
	go c.cleanup()
	return c
}

// Get retrieves a value, honoring expiry.
func (c *MemoryClient) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores a value with a TTL, evicting the soonest-expiring entry when
// full.
func (c *MemoryClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.data) >= c.maxSize {
		c.evictOldest()
	}
	c.data[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Delete removes a key.
func (c *MemoryClient) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// Close is a no-op for the memory cache.
func (c *MemoryClient) Close() error { return nil }

func (c *MemoryClient) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range c.data {
		if oldestKey == "" || entry.expiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.expiresAt
		}
	}
	if oldestKey != "" {
		delete(c.data, oldestKey)
	}
}

func (c *MemoryClient) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.data {
			if now.After(entry.expiresAt) {
				delete(c.data, key)
			}
		}
		c.mu.Unlock()
	}
}
