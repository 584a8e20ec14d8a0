package domain

import (
	"context"
	"time"
)

// CacheEntry is a stored month result and the time it was fetched.
type CacheEntry struct {
	StoredAt time.Time   `json:"storedAt"`
	Result   MonthResult `json:"result"`
}

// Fresh reports whether the entry is younger than ttl at now.
func (e CacheEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.StoredAt) < ttl
}

// Store keeps cache entries by query key. Entries are overwritten, never deleted.
type Store interface {
	Get(ctx context.Context, key string) (CacheEntry, bool, error)
	Set(ctx context.Context, key string, entry CacheEntry) error
}
