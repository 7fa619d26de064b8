package service

import (
	"context"
	"encoding/json"
	"time"

	"tripdesk/internal/auth"
	"tripdesk/internal/domain"
	"tripdesk/internal/validate"
)

// SettlementGateway settles a local-rail payment. The production contract
// is a pending → confirmed transition driven by a gateway callback; the
// shipped simulator resolves after a fixed delay. Either way the dispatcher
// sees exactly one asynchronous outcome.
type SettlementGateway interface {
	Settle(ctx context.Context, rail domain.Rail, amount float64, currency string) (bool, error)
}

// SimulatedGateway is a stand-in settlement gateway that approves every
// shape-valid payment after a fixed delay.
type SimulatedGateway struct {
	Delay time.Duration
}

// NewSimulatedGateway creates a simulated gateway.
func NewSimulatedGateway(delay time.Duration) *SimulatedGateway {
	return &SimulatedGateway{Delay: delay}
}

// Settle waits out the settlement window and approves.
func (g *SimulatedGateway) Settle(ctx context.Context, rail domain.Rail, amount float64, currency string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-time.After(g.Delay):
		return true, nil
	}
}

// CardSessionRequest is the payload sent to the external card processor's
// session-creation endpoint.
type CardSessionRequest struct {
	BookingType    string          `json:"bookingType"`
	Source         string          `json:"source"`
	ExternalItemID string          `json:"externalItemId"`
	DisplayedPrice float64         `json:"displayedPrice"`
	Currency       string          `json:"currency"`
	Snapshot       json.RawMessage `json:"external_snapshot"`
}

// CardSession is a successful session-creation response: either a
// ready-to-navigate URL or a session handle for the processor client.
type CardSession struct {
	URL       string
	SessionID string
}

// CardSessionClient creates checkout sessions at the card processor.
type CardSessionClient interface {
	CreateSession(ctx context.Context, bearer string, req CardSessionRequest) (*CardSession, error)
}

// RailRequest is the tagged union over payment rails. Each variant carries
// only the fields its rail needs, so no field leaks across rails.
type RailRequest interface {
	Rail() domain.Rail
}

// MobileMoneyRequest pays through the local mobile-money rail.
type MobileMoneyRequest struct {
	Phone string
}

func (MobileMoneyRequest) Rail() domain.Rail { return domain.RailMobileMoney }

// BankTransferRequest pays through the local bank-transfer rail.
type BankTransferRequest struct {
	AccountNumber string
}

func (BankTransferRequest) Rail() domain.Rail { return domain.RailBankTransfer }

// CardRequest pays through the international card processor.
type CardRequest struct{}

func (CardRequest) Rail() domain.Rail { return domain.RailCard }

// OutcomeKind classifies the dispatcher's single success signal.
type OutcomeKind string

const (
	// OutcomeSettled means the rail resolved on-page and checkout completed.
	OutcomeSettled OutcomeKind = "SETTLED"
	// OutcomeRedirect means the browser must leave for the card processor.
	// The attempt stays in the payment step; completion is out-of-band.
	OutcomeRedirect OutcomeKind = "REDIRECT"
)

// PayOutcome is the normalized result of a successful dispatch.
type PayOutcome struct {
	Kind OutcomeKind

	// Settled outcome.
	TripID  string
	Booking *domain.ConfirmedBooking

	// Redirect outcome: exactly one of URL or SessionID is set.
	URL       string
	SessionID string
}

// PaymentService dispatches a payment over the chosen rail and normalizes
// both rails into a single payment-succeeded signal.
type PaymentService struct {
	booking      *BookingService
	gateway      SettlementGateway
	cards        CardSessionClient
	notification *NotificationService

	// source tags card-session requests with this storefront's provenance.
	source string
}

// NewPaymentService creates a new PaymentService. notification may be nil.
func NewPaymentService(booking *BookingService, gateway SettlementGateway, cards CardSessionClient, notification *NotificationService, source string) *PaymentService {
	return &PaymentService{
		booking:      booking,
		gateway:      gateway,
		cards:        cards,
		notification: notification,
		source:       source,
	}
}

// Pay validates the rail-specific fields and executes the rail.
//
// Local rails: a shape failure returns a FieldError without touching any
// backend; a shape-valid request settles through the gateway and, on
// success, completes the payment (which runs checkout synchronously).
//
// Card rail: fails closed for anonymous users, then creates a checkout
// session with a fresh bearer credential. A redirect outcome never calls
// CompletePayment; the attempt remains in payment.
func (s *PaymentService) Pay(ctx context.Context, attemptID string, req RailRequest, identity *auth.Identity) (*PayOutcome, error) {
	attempt, err := s.booking.Get(attemptID)
	if err != nil {
		return nil, err
	}

	if attempt.CurrentStep() != domain.StepPayment {
		return nil, ErrNotInPayment
	}

	switch r := req.(type) {
	case MobileMoneyRequest:
		if !validate.EthiopianMobile(r.Phone) {
			return nil, validate.FieldError{Field: "phone", Message: "enter a valid mobile money number"}
		}
		return s.settleLocal(ctx, attempt, domain.RailMobileMoney, identity)

	case BankTransferRequest:
		if !validate.AccountNumber(r.AccountNumber) {
			return nil, validate.FieldError{Field: "account_number", Message: "enter a valid account number"}
		}
		return s.settleLocal(ctx, attempt, domain.RailBankTransfer, identity)

	case CardRequest:
		return s.createCardSession(ctx, attempt, identity)

	default:
		return nil, ErrNotInPayment
	}
}

func (s *PaymentService) settleLocal(ctx context.Context, attempt *Attempt, rail domain.Rail, identity *auth.Identity) (*PayOutcome, error) {
	ok, err := s.gateway.Settle(ctx, rail, attempt.Amount, attempt.Currency)
	if err != nil || !ok {
		if s.notification != nil {
			if contact := attempt.ContactInfo(); contact != nil {
				s.notification.NotifyPaymentFailed(ctx, contact.Email, rail)
			}
		}
		return nil, ErrGatewayUnavailable
	}

	booking, err := s.booking.CompletePayment(ctx, attempt.ID, identity)
	if err != nil {
		return nil, err
	}

	return &PayOutcome{Kind: OutcomeSettled, TripID: attempt.TripRef(), Booking: booking}, nil
}

func (s *PaymentService) createCardSession(ctx context.Context, attempt *Attempt, identity *auth.Identity) (*PayOutcome, error) {
	// Fails closed: no network call without an identified buyer.
	if identity == nil {
		return nil, ErrAuthenticationRequired
	}

	session, err := s.cards.CreateSession(ctx, identity.Token, CardSessionRequest{
		BookingType:    string(attempt.ItemType),
		Source:         s.source,
		ExternalItemID: attempt.ExternalItemID,
		DisplayedPrice: attempt.Amount,
		Currency:       attempt.Currency,
		Snapshot:       attempt.Details,
	})
	if err != nil {
		return nil, err
	}

	outcome := &PayOutcome{Kind: OutcomeRedirect}
	switch {
	case session.URL != "":
		outcome.URL = session.URL
	case session.SessionID != "":
		outcome.SessionID = session.SessionID
	default:
		return nil, ErrGatewayUnavailable
	}

	return outcome, nil
}
