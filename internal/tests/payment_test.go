package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"tripdesk/internal/auth"
	"tripdesk/internal/domain"
	"tripdesk/internal/service"
	"tripdesk/internal/validate"
)

// ──────────────────────────────────────────────
// 3. PAYMENT DISPATCHER
// ──────────────────────────────────────────────

// toPayment opens an attempt and drives it into the payment step.
func toPayment(t *testing.T, f *fixture, sessionID string) *service.Attempt {
	t.Helper()

	attempt, err := f.openAttempt(sessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fieldErrs, err := f.Booking.SubmitForm(attempt.ID, validContact(), nil)
	if err != nil || len(fieldErrs) != 0 {
		t.Fatalf("form submit failed: %v %v", err, fieldErrs)
	}
	return attempt
}

func TestPay_MobileMoneyShapeFailureIsFieldScoped(t *testing.T) {
	t.Parallel()

	f := newFixture()
	attempt := toPayment(t, f, "session-1")

	_, err := f.Payment.Pay(context.Background(), attempt.ID, service.MobileMoneyRequest{Phone: "123"}, nil)

	var fieldErr validate.FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected a field error, got %v", err)
	}
	if fieldErr.Field != "phone" {
		t.Errorf("expected phone field error, got %q", fieldErr.Field)
	}
	if got := attempt.CurrentStep(); got != domain.StepPayment {
		t.Errorf("attempt must stay in %s, got %s", domain.StepPayment, got)
	}
	if f.Gateway.SettleCallCount != 0 {
		t.Error("shape failure must not reach the gateway")
	}
}

func TestPay_MobileMoneySettlesAndConfirms(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.Gateway.Delay = 10 * time.Millisecond // simulated settlement window
	attempt := toPayment(t, f, "session-1")

	outcome, err := f.Payment.Pay(context.Background(), attempt.ID, service.MobileMoneyRequest{Phone: "0912345678"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Kind != service.OutcomeSettled {
		t.Fatalf("expected settled outcome, got %s", outcome.Kind)
	}
	if got := attempt.CurrentStep(); got != domain.StepReceipt {
		t.Errorf("expected %s after settlement, got %s", domain.StepReceipt, got)
	}

	booking := attempt.ConfirmedBooking()
	if booking == nil {
		t.Fatal("receipt step must hold a confirmed booking")
	}
	if booking.Amount != 500 || booking.Currency != "ETB" {
		t.Errorf("booking amount mismatch: %.2f %s", booking.Amount, booking.Currency)
	}
	if booking.Status != domain.BookingStatusConfirmed {
		t.Errorf("expected Confirmed status, got %s", booking.Status)
	}
}

func TestPay_BankTransferAccountShapeChecked(t *testing.T) {
	t.Parallel()

	f := newFixture()
	attempt := toPayment(t, f, "session-1")

	_, err := f.Payment.Pay(context.Background(), attempt.ID, service.BankTransferRequest{AccountNumber: "12ab"}, nil)

	var fieldErr validate.FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected a field error, got %v", err)
	}
	if fieldErr.Field != "account_number" {
		t.Errorf("expected account_number field error, got %q", fieldErr.Field)
	}

	// A valid account number settles.
	outcome, err := f.Payment.Pay(context.Background(), attempt.ID, service.BankTransferRequest{AccountNumber: "1000234567891"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Kind != service.OutcomeSettled {
		t.Errorf("expected settled outcome, got %s", outcome.Kind)
	}
}

func TestPay_GatewayFailureKeepsAttemptInPayment(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.Gateway.SettleError = errors.New("gateway timeout")
	attempt := toPayment(t, f, "session-1")

	_, err := f.Payment.Pay(context.Background(), attempt.ID, service.MobileMoneyRequest{Phone: "0912345678"}, nil)
	if !errors.Is(err, service.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
	if got := attempt.CurrentStep(); got != domain.StepPayment {
		t.Errorf("attempt must stay in %s for retry, got %s", domain.StepPayment, got)
	}

	// Retry after the gateway recovers succeeds.
	f.Gateway.SettleError = nil
	outcome, err := f.Payment.Pay(context.Background(), attempt.ID, service.MobileMoneyRequest{Phone: "0912345678"}, nil)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if outcome.Kind != service.OutcomeSettled {
		t.Errorf("expected settled outcome on retry, got %s", outcome.Kind)
	}
}

func TestPay_CardUnauthenticatedFailsClosedWithoutNetwork(t *testing.T) {
	t.Parallel()

	f := newFixture()
	attempt := toPayment(t, f, "session-1")

	_, err := f.Payment.Pay(context.Background(), attempt.ID, service.CardRequest{}, nil)
	if !errors.Is(err, service.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
	if f.Cards.CallCount != 0 {
		t.Error("unauthenticated card pay must not contact the processor")
	}
	if got := attempt.CurrentStep(); got != domain.StepPayment {
		t.Errorf("attempt must stay in %s, got %s", domain.StepPayment, got)
	}
}

func TestPay_CardURLRedirectDoesNotAdvance(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.Cards.Session = &service.CardSession{URL: "https://pay.example/session/abc"}
	attempt := toPayment(t, f, "session-1")
	identity := &auth.Identity{UserID: "user-7", Token: "bearer-token"}

	outcome, err := f.Payment.Pay(context.Background(), attempt.ID, service.CardRequest{}, identity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Kind != service.OutcomeRedirect {
		t.Fatalf("expected redirect outcome, got %s", outcome.Kind)
	}
	if outcome.URL != "https://pay.example/session/abc" {
		t.Errorf("unexpected redirect url %q", outcome.URL)
	}

	// The redirect is terminal success-pending: no receipt on this page load.
	if got := attempt.CurrentStep(); got != domain.StepPayment {
		t.Errorf("attempt must remain in %s, got %s", domain.StepPayment, got)
	}
	if f.TripRepo.CountTrips() != 0 {
		t.Error("redirect must not run checkout")
	}
}

func TestPay_CardSessionHandleRedirect(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.Cards.Session = &service.CardSession{SessionID: "cs_test_123"}
	attempt := toPayment(t, f, "session-1")
	identity := &auth.Identity{UserID: "user-7", Token: "bearer-token"}

	outcome, err := f.Payment.Pay(context.Background(), attempt.ID, service.CardRequest{}, identity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Kind != service.OutcomeRedirect || outcome.SessionID != "cs_test_123" {
		t.Errorf("expected session handle redirect, got %+v", outcome)
	}
}

func TestPay_CardSessionRequestCarriesAttemptSnapshot(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.Cards.Session = &service.CardSession{URL: "https://pay.example/s/1"}
	attempt := toPayment(t, f, "session-1")
	identity := &auth.Identity{UserID: "user-7", Token: "bearer-token"}

	if _, err := f.Payment.Pay(context.Background(), attempt.ID, service.CardRequest{}, identity); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := f.Cards.LastRequest
	if req.BookingType != string(domain.ItemTypeFlight) {
		t.Errorf("bookingType = %q", req.BookingType)
	}
	if req.DisplayedPrice != 500 || req.Currency != "ETB" {
		t.Errorf("price/currency = %.2f %s", req.DisplayedPrice, req.Currency)
	}
	if req.Source != "storefront-test" {
		t.Errorf("source = %q", req.Source)
	}
	if len(req.Snapshot) == 0 {
		t.Error("snapshot must carry the attempt details")
	}
	if f.Cards.LastBearer != "bearer-token" {
		t.Errorf("bearer = %q", f.Cards.LastBearer)
	}
}

func TestPay_CardStaleCredentialIsDistinct(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.Cards.Err = service.ErrReauthenticate
	attempt := toPayment(t, f, "session-1")
	identity := &auth.Identity{UserID: "user-7", Token: "stale"}

	_, err := f.Payment.Pay(context.Background(), attempt.ID, service.CardRequest{}, identity)
	if !errors.Is(err, service.ErrReauthenticate) {
		t.Fatalf("expected ErrReauthenticate, got %v", err)
	}
	if got := attempt.CurrentStep(); got != domain.StepPayment {
		t.Errorf("attempt must stay in %s, got %s", domain.StepPayment, got)
	}
}
