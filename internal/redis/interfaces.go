package redis

import (
	"context"
	"time"

	"tripdesk/internal/domain"
)

// LockStoreInterface defines the interface for the checkout latch.
type LockStoreInterface interface {
	AcquireCheckoutLock(ctx context.Context, attemptID string, ttl time.Duration) (bool, error)
	ReleaseCheckoutLock(ctx context.Context, attemptID string) error
}

// CacheStoreInterface defines the interface for trip caching.
type CacheStoreInterface interface {
	SetTrip(ctx context.Context, trip *domain.Trip) error
	GetTrip(ctx context.Context, tripID string) (*domain.Trip, error)
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)
