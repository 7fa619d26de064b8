package domain

import (
	"encoding/json"
	"time"
)

// ItemType identifies the kind of service a cart item books.
type ItemType string

const (
	ItemTypeFlight     ItemType = "FLIGHT"
	ItemTypeHotel      ItemType = "HOTEL"
	ItemTypeShuttle    ItemType = "SHUTTLE"
	ItemTypeConference ItemType = "CONFERENCE"
)

// ValidItemType reports whether t is a known bookable item type.
func ValidItemType(t ItemType) bool {
	switch t {
	case ItemTypeFlight, ItemTypeHotel, ItemTypeShuttle, ItemTypeConference:
		return true
	}
	return false
}

// TripItem is one bookable entry in a session's trip cart.
// Details is an opaque provider snapshot; the cart never validates it.
type TripItem struct {
	ID      string
	Type    ItemType
	Price   float64
	Details json.RawMessage
	AddedAt time.Time
}

// TripStatus represents the settlement status of a confirmed trip.
type TripStatus string

const (
	TripStatusConfirmed TripStatus = "CONFIRMED"
	TripStatusPending   TripStatus = "PENDING"
)

// Trip is the durable record produced by a successful checkout: the buyer
// plus the exact ordered item list that was submitted.
type Trip struct {
	ID        string
	BuyerID   string
	Guest     bool
	Items     []TripItem
	Total     float64
	Currency  string
	Status    TripStatus
	CreatedAt time.Time
}
