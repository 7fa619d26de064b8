package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"tripdesk/internal/domain"
	"tripdesk/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create persists a trip and its items in a single transaction.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO trips (id, buyer_id, guest, total, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, trip.ID, trip.BuyerID, trip.Guest, trip.Total, trip.Currency, trip.Status, trip.CreatedAt)
	if err != nil {
		return err
	}

	for pos, item := range trip.Items {
		details := item.Details
		if details == nil {
			details = json.RawMessage("{}")
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO trip_items (id, trip_id, position, item_type, price, details, added_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, item.ID, trip.ID, pos, item.Type, item.Price, []byte(details), item.AddedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves a trip with its ordered item list.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `
		SELECT id, buyer_id, guest, total, currency, status, created_at
		FROM trips WHERE id = $1
	`

	var trip domain.Trip
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&trip.ID,
		&trip.BuyerID,
		&trip.Guest,
		&trip.Total,
		&trip.Currency,
		&trip.Status,
		&trip.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	trip.Items, err = r.itemsForTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	return &trip, nil
}

// GetByBuyerID retrieves all trips for a buyer, newest first.
func (r *TripRepository) GetByBuyerID(ctx context.Context, buyerID string) ([]*domain.Trip, error) {
	query := `
		SELECT id, buyer_id, guest, total, currency, status, created_at
		FROM trips WHERE buyer_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		var trip domain.Trip
		if err := rows.Scan(
			&trip.ID,
			&trip.BuyerID,
			&trip.Guest,
			&trip.Total,
			&trip.Currency,
			&trip.Status,
			&trip.CreatedAt,
		); err != nil {
			return nil, err
		}
		trips = append(trips, &trip)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, trip := range trips {
		trip.Items, err = r.itemsForTrip(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
	}

	return trips, nil
}

func (r *TripRepository) itemsForTrip(ctx context.Context, tripID string) ([]domain.TripItem, error) {
	query := `
		SELECT id, item_type, price, details, added_at
		FROM trip_items WHERE trip_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.TripItem
	for rows.Next() {
		var item domain.TripItem
		var details []byte
		if err := rows.Scan(&item.ID, &item.Type, &item.Price, &details, &item.AddedAt); err != nil {
			return nil, err
		}
		item.Details = json.RawMessage(details)
		items = append(items, item)
	}

	return items, rows.Err()
}
