package adapter

import (
	"context"
	"encoding/json"
	"time"

	cacheport "go-parley/internal/infrastructure/cache/port"
	"go-parley/internal/pkg/listing/port"
)

// CachedDirectory is a read-through cache in front of another Directory.
// Listing ownership changes rarely, so a short TTL keeps the hot
// send/getOrCreate path off the catalog table. Negative results are not
// cached: a missing listing should become visible as soon as it exists.
type CachedDirectory struct {
	next  port.Directory
	cache cacheport.Cache
	ttl   time.Duration
}

func NewCachedDirectory(next port.Directory, cache cacheport.Cache, ttl time.Duration) *CachedDirectory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedDirectory{next: next, cache: cache, ttl: ttl}
}

var _ port.Directory = (*CachedDirectory)(nil)

func (d *CachedDirectory) Lookup(ctx context.Context, listingID string) (*port.Listing, error) {
	key := "listing:" + listingID

	// Any cache failure, miss included, falls through to the source.
	if raw, err := d.cache.Get(ctx, key); err == nil {
		var l port.Listing
		if json.Unmarshal([]byte(raw), &l) == nil {
			return &l, nil
		}
	}

	l, err := d.next.Lookup(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(l); err == nil {
		_ = d.cache.Set(ctx, key, string(raw), d.ttl)
	}
	return l, nil
}
