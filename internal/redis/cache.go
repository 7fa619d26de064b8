package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tripdesk/internal/domain"
)

const (
	tripCachePrefix = "trip:"

	// TripCacheTTL is how long a confirmed trip stays cached. Trips are
	// immutable once written, so the TTL only bounds memory.
	TripCacheTTL = 1 * time.Hour
)

// CacheStore caches confirmed trips so receipt views after checkout do not
// hit PostgreSQL.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// SetTrip stores a confirmed trip in cache.
func (s *CacheStore) SetTrip(ctx context.Context, trip *domain.Trip) error {
	data, err := json.Marshal(trip)
	if err != nil {
		return err
	}

	key := tripCachePrefix + trip.ID
	return s.client.Set(ctx, key, data, TripCacheTTL).Err()
}

// GetTrip retrieves a trip from cache. Returns nil without error on a miss.
func (s *CacheStore) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	key := tripCachePrefix + tripID

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var trip domain.Trip
	if err := json.Unmarshal(data, &trip); err != nil {
		return nil, fmt.Errorf("corrupt trip cache entry: %w", err)
	}

	return &trip, nil
}
