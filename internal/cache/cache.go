// Package cache provides the result cache used to memoize per-day
// locked-value sums. The cache is advisory: a miss or a failed backend
// always falls back to live computation, so correctness never depends on
// cache state.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Cache is a TTL-bounded key/value store. An expired entry behaves
// identically to an absent one. Implementations must be safe for concurrent
// use.
type Cache interface {
	// Get returns the cached value for key, or ok=false on miss.
	Get(ctx context.Context, key string) (decimal.Decimal, bool)

	// Put stores value under key, expiring once ttl elapses.
	Put(ctx context.Context, key string, value decimal.Decimal, ttl time.Duration)
}

// LockedValueKey builds the composite key for a per-day locked-value sum.
func LockedValueKey(ts int64, token string) string {
	return fmt.Sprintf("tvl:%d:%s", ts, token)
}
