// Package fanz holds the clients for the fanz-token side of the platform:
// the Redis holdings cache populated by the wallet sync pipeline, the token
// minting service and the vote notarization service.
package fanz

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fanzhub/fanzhub/utils"
)

// RedisHoldings reads cached fan-token balances. The cache is written by the
// wallet sync pipeline, not by this service; a missing key simply means the
// balance is unknown.
type RedisHoldings struct {
	rc *redis.Client
}

// NewRedisHoldings creates a holdings source over the given client.
func NewRedisHoldings(rc *redis.Client) *RedisHoldings {
	return &RedisHoldings{rc: rc}
}

// Balance returns the cached balance for (entity, wallet). The second return
// is false on a miss or any Redis error, so the weight resolver degrades to
// unit weight instead of failing the vote.
func (h *RedisHoldings) Balance(ctx context.Context, entitySlug, wallet string) (int64, bool) {
	if h == nil || h.rc == nil {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	key := fmt.Sprintf("fanz:holdings:%s:%s", entitySlug, wallet)
	n, err := h.rc.Get(ctx, key).Int64()
	if err != nil {
		if err != redis.Nil && utils.Sugar != nil {
			utils.Sugar.Debugf("holdings lookup failed key=%s: %v", key, err)
		}
		return 0, false
	}
	return n, true
}
