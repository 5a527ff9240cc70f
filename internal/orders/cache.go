package orders

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/redis"
)

// generationTTL bounds every counts entry, so an entry written before the
// generation key expired is gone by the time the key falls back to "0".
const generationTTL = 24 * time.Hour

// CacheStore is the subset of the redis client used for the counts cache.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// CountsCache keeps per-user status counts for a short TTL so that clients
// polling the order badges do not hit the database every time.
//
// Entries are keyed by a per-user generation. Invalidate bumps the
// generation instead of deleting, so a read that loaded counts before a
// write committed stores them under a generation nobody reads anymore.
type CountsCache struct {
	store CacheStore
	ttl   time.Duration
}

// CountsGeneration identifies the cache generation a read observed.
type CountsGeneration string

// NewCountsCache returns nil when store is nil or ttl is not positive, which
// disables caching.
func NewCountsCache(store CacheStore, ttl time.Duration) *CountsCache {
	if store == nil || ttl <= 0 {
		return nil
	}
	if ttl > generationTTL {
		ttl = generationTTL
	}
	return &CountsCache{store: store, ttl: ttl}
}

func (c *CountsCache) generationKey(userID uuid.UUID) string {
	return c.store.CacheKey("order_counts_gen", userID.String())
}

func (c *CountsCache) key(userID uuid.UUID, gen CountsGeneration) string {
	return c.store.CacheKey("order_counts", userID.String(), string(gen))
}

func (c *CountsCache) generation(ctx context.Context, userID uuid.UUID) (CountsGeneration, error) {
	raw, err := c.store.Get(ctx, c.generationKey(userID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "0", nil
		}
		return "", err
	}
	return CountsGeneration(raw), nil
}

// Get returns the cached counts, whether they were present and the
// generation the lookup ran against. Pass the generation to Put.
func (c *CountsCache) Get(ctx context.Context, userID uuid.UUID) (StatusCounts, CountsGeneration, bool, error) {
	if c == nil {
		return nil, "", false, nil
	}
	gen, err := c.generation(ctx, userID)
	if err != nil {
		return nil, "", false, err
	}
	raw, err := c.store.Get(ctx, c.key(userID, gen))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gen, false, nil
		}
		return nil, gen, false, err
	}
	var counts StatusCounts
	if err := json.Unmarshal([]byte(raw), &counts); err != nil {
		return nil, gen, false, err
	}
	return counts, gen, true, nil
}

// Put stores counts under gen for the configured TTL. An empty generation
// means the lookup failed and nothing is stored.
func (c *CountsCache) Put(ctx context.Context, userID uuid.UUID, gen CountsGeneration, counts StatusCounts) error {
	if c == nil || gen == "" {
		return nil
	}
	payload, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.key(userID, gen), payload, c.ttl)
}

// Invalidate moves userID to a fresh, never reused generation.
func (c *CountsCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if c == nil {
		return nil
	}
	return c.store.Set(ctx, c.generationKey(userID), uuid.NewString(), generationTTL)
}
