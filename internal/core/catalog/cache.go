package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"media-tracker/internal/infrastructure/config"
	"media-tracker/internal/pkg/common"

	"go.uber.org/zap"
)

// ResultCache keeps verification outcomes in memory so repeated candidate
// titles skip the catalog round-trip. Empty results are cached too: a
// title that failed verification once keeps failing for the TTL.
type ResultCache struct {
	config *config.CacheConfig
	mu     sync.RWMutex
	store  map[string]cacheEntry
	stats  cacheStats
}

type cacheEntry struct {
	links       []common.Link
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
	errors    int64
}

// NewResultCache creates the cache. Returns nil when caching is disabled.
func NewResultCache(cfg *config.CacheConfig) *ResultCache {
	if !cfg.Enabled {
		common.LogInfo("verification cache disabled")
		return nil
	}

	c := &ResultCache{
		config: cfg,
		store:  make(map[string]cacheEntry),
		stats:  cacheStats{},
	}

	go c.startCleanup()

	common.LogInfo("verification cache initialized",
		zap.Int("max_size", cfg.MaxSize),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
	)

	return c
}

// Get returns the cached links for (contentType, title). The second return
// is false on a miss or expired entry.
func (c *ResultCache) Get(contentType common.ContentType, title string) ([]common.Link, bool) {
	key := cacheKey(contentType, title)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.store[key]
	if !exists {
		c.stats.misses++
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		delete(c.store, key)
		c.stats.evictions++
		c.stats.misses++
		return nil, false
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	c.store[key] = entry
	c.stats.hits++
	return entry.links, true
}

// Set stores the links for (contentType, title).
func (c *ResultCache) Set(contentType common.ContentType, title string, links []common.Link) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= c.config.MaxSize {
		evicted := c.cleanupLocked()
		if evicted > 0 {
			common.LogDebug("verification cache cleanup",
				zap.Int("evicted", evicted),
			)
		}

		if len(c.store) >= c.config.MaxSize {
			c.evictLRULocked()
		}

		if len(c.store) >= c.config.MaxSize {
			c.stats.errors++
			common.LogWarn("verification cache full",
				zap.Int("size", len(c.store)),
			)
			return common.ErrCacheFull
		}
	}

	now := time.Now()
	c.store[cacheKey(contentType, title)] = cacheEntry{
		links:       links,
		expiresAt:   now.Add(c.config.TTL),
		createdAt:   now,
		lastAccess:  now,
		accessCount: 0,
	}
	return nil
}

func cacheKey(contentType common.ContentType, title string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(title))))
	return fmt.Sprintf("%s:%s", contentType, hex.EncodeToString(hash[:]))
}

func (c *ResultCache) startCleanup() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		c.cleanupLocked()
		c.mu.Unlock()
	}
}

func (c *ResultCache) cleanupLocked() int {
	now := time.Now()
	count := 0
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
			count++
			c.stats.evictions++
		}
	}
	return count
}

func (c *ResultCache) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range c.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(c.store, oldestKey)
		c.stats.evictions++
	}
}

// Stats reports cache counters.
func (c *ResultCache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.stats.hits + c.stats.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(c.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"size":      len(c.store),
		"max_size":  c.config.MaxSize,
		"hits":      c.stats.hits,
		"misses":    c.stats.misses,
		"evictions": c.stats.evictions,
		"errors":    c.stats.errors,
		"hit_ratio": hitRatio,
	}
}

// Close drops all entries.
func (c *ResultCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]cacheEntry)
	common.LogInfo("verification cache closed",
		zap.Int64("hits", c.stats.hits),
		zap.Int64("misses", c.stats.misses),
		zap.Int64("evictions", c.stats.evictions),
	)
	return nil
}
