package domain

import "time"

// Step represents the current step of a booking attempt.
type Step string

const (
	StepForm    Step = "FORM"
	StepPayment Step = "PAYMENT"
	StepReceipt Step = "RECEIPT"
)

// Contact holds the buyer details captured in the form step.
// Immutable once the attempt enters the payment step.
type Contact struct {
	Name  string
	Email string
	Phone string
	Date  string // optional service date, YYYY-MM-DD
}

// BookingStatus represents the state of a confirmed booking.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusPending   BookingStatus = "Pending"
)

// ConfirmedBooking is constructed only after the checkout reconciler has
// received a durable trip id for a paid attempt. Immutable thereafter.
type ConfirmedBooking struct {
	ID         string
	ClientName string
	Email      string
	Service    string
	Date       string
	Amount     float64
	Currency   string
	Status     BookingStatus
	CreatedAt  time.Time
}
