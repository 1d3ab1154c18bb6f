// Package store provides the read-through cache for travel profiles. The
// vendor profile read is the slowest call in the system, so hot reads are
// served from a TTL cache invalidated on every write.
package store

import (
	"context"
	"time"

	"travelgate/internal/travel/models"
)

// Cache stores decoded travel profiles by login id.
type Cache interface {
	// Get returns the cached profile and whether it was present.
	Get(ctx context.Context, loginID string) (*models.TravelProfile, bool, error)
	// Set stores a profile for ttl.
	Set(ctx context.Context, loginID string, profile *models.TravelProfile, ttl time.Duration) error
	// Delete drops a cached profile. Missing entries are not an error.
	Delete(ctx context.Context, loginID string) error
}
