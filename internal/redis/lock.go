package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireCheckoutLock attempts to acquire the checkout latch for a booking
// attempt. Returns true if the latch was acquired, false if a checkout for
// the same attempt is already in flight.
func (s *LockStore) AcquireCheckoutLock(ctx context.Context, attemptID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:checkout:%s", attemptID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseCheckoutLock releases the checkout latch for an attempt.
func (s *LockStore) ReleaseCheckoutLock(ctx context.Context, attemptID string) error {
	key := fmt.Sprintf("lock:checkout:%s", attemptID)

	return s.client.Del(ctx, key).Err()
}
