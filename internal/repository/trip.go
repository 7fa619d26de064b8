package repository

import (
	"context"

	"tripdesk/internal/domain"
)

// TripRepository defines the persistence operations for confirmed trips.
// This is the server boundary the checkout reconciler submits carts through.
type TripRepository interface {
	// Create persists a trip and its ordered item list atomically.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip with its items.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetByBuyerID retrieves all trips submitted by a buyer, newest first.
	GetByBuyerID(ctx context.Context, buyerID string) ([]*domain.Trip, error)
}
