package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mentorlink/mentorlink-api/pkg/metrics"
)

// RevokedSessionCache short-circuits validation of tokens that are already
// known to be revoked. Only revocations are cached: a revocation is
// permanent, so a hit can never be wrong, and a miss falls through to the
// session store which stays the source of truth. This keeps logout
// immediately effective while sparing the store one read per rejected retry.
type RevokedSessionCache struct {
	cache *gocache.Cache
}

// NewRevokedSessionCache creates the cache. Entries expire after ttl; an
// expired entry just means the next check reads the store again.
func NewRevokedSessionCache(ttlSeconds int) *RevokedSessionCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &RevokedSessionCache{
		cache: gocache.New(ttl, cacheCheckPeriod),
	}
}

// MarkRevoked records a token id as revoked
func (rc *RevokedSessionCache) MarkRevoked(tokenID string) {
	rc.cache.SetDefault(tokenID, struct{}{})
}

// IsRevoked reports whether the token id is known to be revoked
func (rc *RevokedSessionCache) IsRevoked(tokenID string) bool {
	_, found := rc.cache.Get(tokenID)
	if found {
		metrics.CacheHits.WithLabelValues("revoked_sessions").Inc()
	} else {
		metrics.CacheMisses.WithLabelValues("revoked_sessions").Inc()
	}
	return found
}
