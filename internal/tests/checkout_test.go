package tests

import (
	"context"
	"errors"
	"testing"

	"tripdesk/internal/auth"
	"tripdesk/internal/domain"
	"tripdesk/internal/service"
)

// ──────────────────────────────────────────────
// 4. CHECKOUT RECONCILER
// ──────────────────────────────────────────────

func TestCheckout_EmptyCartSubmitsExactlyTheAttemptItem(t *testing.T) {
	t.Parallel()

	f := newFixture()
	attempt := toPayment(t, f, "session-1")

	// Single-item "Book Now" flow: nothing was ever added to the cart.
	if f.Carts.Get("session-1").Len() != 0 {
		t.Fatal("precondition: cart must be empty")
	}

	booking, err := f.Booking.CompletePayment(context.Background(), attempt.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trip := f.TripRepo.LastTrip()
	if trip == nil {
		t.Fatal("expected a submitted trip")
	}
	if len(trip.Items) != 1 {
		t.Fatalf("expected exactly one item, got %d", len(trip.Items))
	}
	item := trip.Items[0]
	if item.Price != attempt.Amount || item.Type != attempt.ItemType {
		t.Errorf("item does not match frozen attempt: %.2f %s", item.Price, item.Type)
	}
	if string(item.Details) != string(attempt.Details) {
		t.Errorf("item snapshot mismatch: %s", item.Details)
	}
	if booking.ID != trip.ID {
		t.Errorf("booking id %s != trip id %s", booking.ID, trip.ID)
	}
}

func TestCheckout_SubmitsFullCartAndClearsPurchasedItems(t *testing.T) {
	t.Parallel()

	f := newFixture()
	cart := f.Carts.Get("session-1")
	cart.AddItem(domain.ItemTypeHotel, 1200, []byte(`{"hotel":"Skylight"}`))
	cart.AddItem(domain.ItemTypeShuttle, 50, nil)

	attempt := toPayment(t, f, "session-1")

	if _, err := f.Booking.CompletePayment(context.Background(), attempt.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trip := f.TripRepo.LastTrip()
	if len(trip.Items) != 2 {
		t.Fatalf("expected the 2 cart items, got %d", len(trip.Items))
	}
	if trip.Total != 1250 {
		t.Errorf("expected total 1250, got %.2f", trip.Total)
	}
	if trip.Items[0].Type != domain.ItemTypeHotel || trip.Items[1].Type != domain.ItemTypeShuttle {
		t.Error("cart order must be preserved in the submitted trip")
	}

	// Everything purchased was cleared.
	if cart.Len() != 0 {
		t.Errorf("cart should be empty after checkout, has %d items", cart.Len())
	}
}

func TestCheckout_DoubleSubmitYieldsOneTripID(t *testing.T) {
	t.Parallel()

	f := newFixture()
	attempt := toPayment(t, f, "session-1")

	first, err := f.Booking.CompletePayment(context.Background(), attempt.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Simulated double-click after success.
	second, err := f.Booking.CompletePayment(context.Background(), attempt.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error on replay: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("double submit produced two trips: %s and %s", first.ID, second.ID)
	}
	if f.TripRepo.CountTrips() != 1 {
		t.Errorf("expected 1 trip, got %d", f.TripRepo.CountTrips())
	}
}

func TestCheckout_GuestGetsFreshIdentifierPerAttempt(t *testing.T) {
	t.Parallel()

	f := newFixture()

	attempt1 := toPayment(t, f, "session-1")
	if _, err := f.Booking.CompletePayment(context.Background(), attempt1.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	trip1 := f.TripRepo.LastTrip()

	attempt2 := toPayment(t, f, "session-2")
	if _, err := f.Booking.CompletePayment(context.Background(), attempt2.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	trip2 := f.TripRepo.LastTrip()

	if !trip1.Guest || !trip2.Guest {
		t.Error("anonymous checkouts must be marked guest")
	}
	if trip1.BuyerID == "" || trip1.BuyerID == trip2.BuyerID {
		t.Errorf("guest ids must not be reused: %s vs %s", trip1.BuyerID, trip2.BuyerID)
	}
}

func TestCheckout_AuthenticatedBuyerIDOnTrip(t *testing.T) {
	t.Parallel()

	f := newFixture()
	attempt := toPayment(t, f, "session-1")
	identity := &auth.Identity{UserID: "user-42", Token: "tok"}

	if _, err := f.Booking.CompletePayment(context.Background(), attempt.ID, identity); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trip := f.TripRepo.LastTrip()
	if trip.BuyerID != "user-42" || trip.Guest {
		t.Errorf("expected buyer user-42, got %s (guest=%v)", trip.BuyerID, trip.Guest)
	}
}

func TestCheckout_ServerFailureIsLoudAndKeepsPaymentStep(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.TripRepo.CreateError = errors.New("database down")
	attempt := toPayment(t, f, "session-1")

	_, err := f.Booking.CompletePayment(context.Background(), attempt.ID, nil)
	if !errors.Is(err, service.ErrCheckoutNotRecorded) {
		t.Fatalf("expected ErrCheckoutNotRecorded, got %v", err)
	}

	// The user has paid; the attempt must not pretend it reached receipt.
	if got := attempt.CurrentStep(); got != domain.StepPayment {
		t.Errorf("expected %s, got %s", domain.StepPayment, got)
	}
	if attempt.ConfirmedBooking() != nil {
		t.Error("no confirmed booking may exist without a durable trip")
	}
}

func TestEndToEnd_LocalRailScenario(t *testing.T) {
	t.Parallel()

	// Scenario: phone 0912345678, amount 500 ETB → settle → receipt holds
	// a confirmed booking with amount 500.
	f := newFixture()
	attempt := toPayment(t, f, "session-1")

	outcome, err := f.Payment.Pay(context.Background(), attempt.ID, service.MobileMoneyRequest{Phone: "0912345678"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Kind != service.OutcomeSettled {
		t.Fatalf("expected settled, got %s", outcome.Kind)
	}

	if got := attempt.CurrentStep(); got != domain.StepReceipt {
		t.Fatalf("expected %s, got %s", domain.StepReceipt, got)
	}
	booking := attempt.ConfirmedBooking()
	if booking == nil || booking.Amount != 500 {
		t.Fatalf("expected confirmed booking with amount 500, got %+v", booking)
	}
	if f.TripRepo.CountTrips() != 1 {
		t.Errorf("expected exactly one trip, got %d", f.TripRepo.CountTrips())
	}
}
