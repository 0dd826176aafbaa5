package redis

import (
	"context"
	"errors"

	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
)

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT CACHE
// Keeps a warm copy of the persisted study-log document so a restart
// can skip the database round trip. PostgreSQL remains the source of
// truth; a stale or missing cache entry is never an error.
// ══════════════════════════════════════════════════════════════════════════════

// SnapshotCache caches study-log snapshots in Redis.
type SnapshotCache struct {
	cache *Cache
}

// NewSnapshotCache creates a new SnapshotCache.
func NewSnapshotCache(cache *Cache) *SnapshotCache {
	return &SnapshotCache{cache: cache}
}

// Get reads the cached snapshot for an account. A miss maps to
// shared.ErrSnapshotNotFound so callers fall back to the repository.
func (c *SnapshotCache) Get(ctx context.Context, accountID string) (tracker.Snapshot, error) {
	var snapshot tracker.Snapshot
	err := c.cache.Get(ctx, SnapshotKey(accountID), &snapshot)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return tracker.Snapshot{}, shared.ErrSnapshotNotFound
		}
		return tracker.Snapshot{}, err
	}
	return snapshot, nil
}

// Set stores the snapshot with the default TTL.
func (c *SnapshotCache) Set(ctx context.Context, accountID string, snapshot tracker.Snapshot) error {
	return c.cache.Set(ctx, SnapshotKey(accountID), snapshot, TTLSnapshot)
}
