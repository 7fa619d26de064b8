package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"tripdesk/internal/domain"
	"tripdesk/internal/repository"
	"tripdesk/internal/service"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of repository.TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip
	order []string

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{trips: make(map[string]*domain.Trip)}
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	m.order = append(m.order, trip.ID)
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return trip, nil
}

func (m *MockTripRepository) GetByBuyerID(ctx context.Context, buyerID string) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Trip
	for i := len(m.order) - 1; i >= 0; i-- {
		trip := m.trips[m.order[i]]
		if trip.BuyerID == buyerID {
			out = append(out, trip)
		}
	}
	return out, nil
}

// CountTrips returns the number of stored trips.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

// LastTrip returns the most recently created trip, or nil.
func (m *MockTripRepository) LastTrip() *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.order) == 0 {
		return nil
	}
	return m.trips[m.order[len(m.order)-1]]
}

var _ repository.TripRepository = (*MockTripRepository)(nil)

// ──────────────────────────────────────────────
// MOCK SETTLEMENT GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a settlement gateway with injectable behavior. The zero
// value settles instantly with success.
type MockGateway struct {
	SettleCallCount int32

	// Error injection
	SettleError error
	DeclineAll  bool
	Delay       time.Duration
}

func (g *MockGateway) Settle(ctx context.Context, rail domain.Rail, amount float64, currency string) (bool, error) {
	atomic.AddInt32(&g.SettleCallCount, 1)
	if g.Delay > 0 {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(g.Delay):
		}
	}
	if g.SettleError != nil {
		return false, g.SettleError
	}
	return !g.DeclineAll, nil
}

var _ service.SettlementGateway = (*MockGateway)(nil)

// ──────────────────────────────────────────────
// MOCK CARD SESSION CLIENT
// ──────────────────────────────────────────────

// MockCardClient is a card processor client with scripted responses.
type MockCardClient struct {
	mu sync.Mutex

	CallCount   int32
	LastBearer  string
	LastRequest service.CardSessionRequest

	// Scripted response
	Session *service.CardSession
	Err     error
}

func (c *MockCardClient) CreateSession(ctx context.Context, bearer string, req service.CardSessionRequest) (*service.CardSession, error) {
	atomic.AddInt32(&c.CallCount, 1)
	c.mu.Lock()
	c.LastBearer = bearer
	c.LastRequest = req
	c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Session, nil
}

var _ service.CardSessionClient = (*MockCardClient)(nil)

// ──────────────────────────────────────────────
// FIXTURE WIRING
// ──────────────────────────────────────────────

// fixture wires the full orchestrator over mocks: cart manager, checkout
// reconciler, booking step machine and payment dispatcher.
type fixture struct {
	Carts    *service.CartManager
	TripRepo *MockTripRepository
	Gateway  *MockGateway
	Cards    *MockCardClient
	Checkout *service.CheckoutService
	Booking  *service.BookingService
	Payment  *service.PaymentService
}

func newFixture() *fixture {
	f := &fixture{
		Carts:    service.NewCartManager(),
		TripRepo: NewMockTripRepository(),
		Gateway:  &MockGateway{},
		Cards:    &MockCardClient{},
	}
	f.Checkout = service.NewCheckoutService(f.Carts, f.TripRepo, nil, nil, nil)
	f.Booking = service.NewBookingService(f.Checkout)
	f.Payment = service.NewPaymentService(f.Booking, f.Gateway, f.Cards, nil, "storefront-test")
	return f
}

// openAttempt opens a standard single-item attempt in the form step.
func (f *fixture) openAttempt(sessionID string) (*service.Attempt, error) {
	return f.Booking.Open(service.OpenAttemptRequest{
		SessionID: sessionID,
		Service:   "Addis Ababa - Nairobi flight",
		ItemType:  domain.ItemTypeFlight,
		Amount:    500,
		Currency:  "ETB",
		Details:   []byte(`{"provider":"fixture","route":"ADD-NBO"}`),
	})
}

// validContact is a contact that passes form validation.
func validContact() domain.Contact {
	return domain.Contact{
		Name:  "Abebe Bekele",
		Email: "abebe@example.com",
		Phone: "0912345678",
		Date:  "2026-10-01",
	}
}
