package store

import (
	"context"
	"sync"
	"time"

	"travelgate/internal/travel/models"
)

type memoryEntry struct {
	profile   *models.TravelProfile
	expiresAt time.Time
}

// MemoryCache is a process-local Cache for single-instance deployments and
// tests.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, loginID string) (*models.TravelProfile, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[loginID]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, loginID)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.profile, true, nil
}

func (c *MemoryCache) Set(_ context.Context, loginID string, profile *models.TravelProfile, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[loginID] = memoryEntry{profile: profile, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, loginID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, loginID)
	return nil
}
