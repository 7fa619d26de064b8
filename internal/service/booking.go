package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"tripdesk/internal/auth"
	"tripdesk/internal/domain"
	"tripdesk/internal/validate"
)

// Reconciler flushes the cart through the server boundary once payment has
// succeeded for an attempt. Implemented by CheckoutService.
type Reconciler interface {
	Checkout(ctx context.Context, attempt *Attempt, identity *auth.Identity) (*domain.ConfirmedBooking, error)
}

// Attempt is one run of the booking step machine for a single service
// instance. Created when the booking modal opens, discarded when it closes.
// Amount, currency and the item snapshot are fixed at creation; contact is
// frozen once the attempt enters the payment step.
type Attempt struct {
	mu sync.Mutex

	ID        string
	SessionID string
	Step      domain.Step

	// What is being booked, captured at creation time.
	Service        string
	ItemType       domain.ItemType
	ExternalItemID string
	Amount         float64
	Currency       string
	Details        json.RawMessage

	// RequireBuyer marks products that cannot be bought anonymously.
	RequireBuyer bool

	Contact *domain.Contact

	// Set by the reconciler. A non-empty TripID means this attempt already
	// produced a durable trip; a second checkout must reuse it.
	TripID  string
	Booking *domain.ConfirmedBooking

	checkoutInFlight bool
	CreatedAt        time.Time
}

// ContactInfo returns a copy of the captured contact. Nil until the form
// step succeeds.
func (a *Attempt) ContactInfo() *domain.Contact {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Contact == nil {
		return nil
	}
	c := *a.Contact
	return &c
}

// CurrentStep returns the attempt's step.
func (a *Attempt) CurrentStep() domain.Step {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Step
}

// TripRef returns the durable trip id recorded by checkout, empty before.
func (a *Attempt) TripRef() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.TripID
}

// ConfirmedBooking returns the booking attached at receipt time, nil before.
func (a *Attempt) ConfirmedBooking() *domain.ConfirmedBooking {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Booking
}

// BookingService drives booking attempts through form → payment → receipt.
// The only backward edge is payment → form on explicit cancel; every other
// transition is rejected.
type BookingService struct {
	mu       sync.Mutex
	attempts map[string]*Attempt

	reconciler Reconciler
}

// NewBookingService creates a new BookingService.
func NewBookingService(reconciler Reconciler) *BookingService {
	return &BookingService{
		attempts:   make(map[string]*Attempt),
		reconciler: reconciler,
	}
}

// OpenAttemptRequest contains the parameters for opening a booking attempt.
type OpenAttemptRequest struct {
	SessionID      string
	Service        string
	ItemType       domain.ItemType
	ExternalItemID string
	Amount         float64
	Currency       string
	Details        json.RawMessage
	RequireBuyer   bool
}

// Open creates a new attempt in the form step. Amount and currency are
// frozen here, not at form submission.
func (s *BookingService) Open(req OpenAttemptRequest) (*Attempt, error) {
	if req.SessionID == "" {
		return nil, ErrInvalidSessionID
	}
	if !domain.ValidItemType(req.ItemType) {
		return nil, ErrInvalidItemType
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.Currency == "" {
		return nil, ErrInvalidCurrency
	}

	attempt := &Attempt{
		ID:             uuid.New().String(),
		SessionID:      req.SessionID,
		Step:           domain.StepForm,
		Service:        req.Service,
		ItemType:       req.ItemType,
		ExternalItemID: req.ExternalItemID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Details:        req.Details,
		RequireBuyer:   req.RequireBuyer,
		CreatedAt:      time.Now(),
	}

	s.mu.Lock()
	s.attempts[attempt.ID] = attempt
	s.mu.Unlock()

	return attempt, nil
}

// Get returns an open attempt by id.
func (s *BookingService) Get(attemptID string) (*Attempt, error) {
	if attemptID == "" {
		return nil, ErrInvalidAttemptID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[attemptID]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	return attempt, nil
}

// SubmitForm validates the contact and, on success, freezes it and moves
// the attempt to the payment step. Field errors keep the attempt in form
// with nothing mutated. An identified-buyer product with no authenticated
// user refuses the transition with ErrAuthenticationRequired.
func (s *BookingService) SubmitForm(attemptID string, contact domain.Contact, identity *auth.Identity) ([]validate.FieldError, error) {
	attempt, err := s.Get(attemptID)
	if err != nil {
		return nil, err
	}

	attempt.mu.Lock()
	defer attempt.mu.Unlock()

	if attempt.Step != domain.StepForm {
		return nil, ErrNotInForm
	}

	if attempt.RequireBuyer && identity == nil {
		return nil, ErrAuthenticationRequired
	}

	if fieldErrs := validate.Contact(contact); len(fieldErrs) > 0 {
		return fieldErrs, nil
	}

	frozen := contact
	attempt.Contact = &frozen
	attempt.Step = domain.StepPayment

	return nil, nil
}

// CancelPayment rewinds payment → form. Contact values are preserved so
// the user can retry without retyping.
func (s *BookingService) CancelPayment(attemptID string) error {
	attempt, err := s.Get(attemptID)
	if err != nil {
		return err
	}

	attempt.mu.Lock()
	defer attempt.mu.Unlock()

	if attempt.Step != domain.StepPayment {
		return ErrNotInPayment
	}

	attempt.Step = domain.StepForm
	return nil
}

// CompletePayment is the single entry point the payment dispatcher calls
// once a payment outcome is known. It runs the reconciler synchronously;
// only a durable trip id advances the attempt to the receipt step. A
// reconciler failure keeps the attempt in payment and bubbles loudly.
func (s *BookingService) CompletePayment(ctx context.Context, attemptID string, identity *auth.Identity) (*domain.ConfirmedBooking, error) {
	attempt, err := s.Get(attemptID)
	if err != nil {
		return nil, err
	}

	attempt.mu.Lock()
	if attempt.Step == domain.StepReceipt {
		// Already completed; return the existing booking.
		booking := attempt.Booking
		attempt.mu.Unlock()
		return booking, nil
	}
	if attempt.Step != domain.StepPayment {
		attempt.mu.Unlock()
		return nil, ErrNotInPayment
	}
	attempt.mu.Unlock()

	booking, err := s.reconciler.Checkout(ctx, attempt, identity)
	if err != nil {
		return nil, err
	}

	attempt.mu.Lock()
	attempt.Step = domain.StepReceipt
	attempt.Booking = booking
	attempt.mu.Unlock()

	return booking, nil
}

// Close discards the attempt. Safe to call from any step. An already paid
// attempt stays paid server-side; only the local state is dropped.
func (s *BookingService) Close(attemptID string) error {
	if attemptID == "" {
		return ErrInvalidAttemptID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[attemptID]
	if !ok {
		return nil
	}

	attempt.mu.Lock()
	attempt.Step = domain.StepForm
	attempt.Contact = nil
	attempt.mu.Unlock()

	delete(s.attempts, attemptID)
	return nil
}
