// Package cache short-circuits repeated transaction submissions. A request
// carrying an idempotency key returns the stored result instead of hitting
// the processor a second time.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"paybridge/internal/gateway"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "paybridge:idem:"

// Idempotency stores transaction results keyed by gateway and caller key.
type Idempotency struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewIdempotency connects an idempotency cache to Redis.
func NewIdempotency(addr string, ttl time.Duration) *Idempotency {
	return &Idempotency{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

// Get looks up a previously stored result. A cache miss is (nil, false, nil).
func (i *Idempotency) Get(ctx context.Context, gw, key string) (*gateway.TransactionResult, bool, error) {
	raw, err := i.rdb.Get(ctx, cacheKey(gw, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var res gateway.TransactionResult
	if err := json.Unmarshal(raw, &res); err != nil {
		// A corrupt entry should not block the transaction; treat as a miss.
		log.Warn().Str("gateway", gw).Err(err).Msg("dropping unreadable idempotency entry")
		i.rdb.Del(ctx, cacheKey(gw, key))
		return nil, false, nil
	}
	return &res, true, nil
}

// Put stores a result under the caller's idempotency key.
func (i *Idempotency) Put(ctx context.Context, gw, key string, res *gateway.TransactionResult) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return i.rdb.Set(ctx, cacheKey(gw, key), raw, i.ttl).Err()
}

// Close releases the Redis connection.
func (i *Idempotency) Close() error {
	return i.rdb.Close()
}

func cacheKey(gw, key string) string {
	return keyPrefix + gw + ":" + key
}
