package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	appinventory "github.com/stockledger/backend/internal/application/inventory"
)

type levelEntry struct {
	level     int64
	version   int64
	expiresAt time.Time
}

// InMemoryLevelCache caches projected stock levels in a process-local
// map. Suitable for single-instance deployments and testing.
type InMemoryLevelCache struct {
	mu        sync.RWMutex
	entries   map[levelCacheKey]levelEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type levelCacheKey struct {
	storeID   uuid.UUID
	productID uuid.UUID
}

// NewInMemoryLevelCache creates an in-memory level cache. It starts a
// background goroutine to clean up expired entries; call Close to stop
// it.
func NewInMemoryLevelCache() *InMemoryLevelCache {
	c := &InMemoryLevelCache{
		entries:  make(map[levelCacheKey]levelEntry),
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the cached level for a key and whether it was present
func (c *InMemoryLevelCache) Get(ctx context.Context, storeID, productID uuid.UUID) (int64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[levelCacheKey{storeID, productID}]
	if !ok || time.Now().After(e.expiresAt) {
		return 0, false, nil
	}
	return e.level, true, nil
}

// Set populates the entry for a key with a bounded time-to-live. The
// write is dropped when a live entry already carries an equal or newer
// version, so a delayed write-through cannot shadow a later commit.
func (c *InMemoryLevelCache) Set(ctx context.Context, storeID, productID uuid.UUID, level, version int64, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := levelCacheKey{storeID, productID}
	if existing, ok := c.entries[key]; ok && !time.Now().After(existing.expiresAt) && existing.version >= version {
		return nil
	}
	c.entries[key] = levelEntry{
		level:     level,
		version:   version,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Invalidate drops the entry for a key
func (c *InMemoryLevelCache) Invalidate(ctx context.Context, storeID, productID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, levelCacheKey{storeID, productID})
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryLevelCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemoryLevelCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *InMemoryLevelCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

var _ appinventory.LevelCache = (*InMemoryLevelCache)(nil)
