// Package denylist tracks access tokens that were revoked before their
// natural expiry, typically at logout. Entries live in redis with a TTL
// matching the access-token lifetime, so the set stays small on its own.
package denylist

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "denylist:"

// opTimeout bounds every redis round-trip so a slow redis cannot stall
// request handling.
const opTimeout = 2 * time.Second

type Denylist struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Denylist {
	return &Denylist{rdb: rdb}
}

// Add marks the token as revoked for ttl. After ttl the token has expired
// on its own and no longer needs tracking.
func (d *Denylist) Add(ctx context.Context, token string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return d.rdb.Set(ctx, keyPrefix+token, "1", ttl).Err()
}

// Contains reports whether the token has been revoked.
func (d *Denylist) Contains(ctx context.Context, token string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	n, err := d.rdb.Exists(ctx, keyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ping verifies the backing redis is reachable; used by readiness checks.
func (d *Denylist) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return d.rdb.Ping(ctx).Err()
}
