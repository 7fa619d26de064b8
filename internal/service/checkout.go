package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"tripdesk/internal/auth"
	"tripdesk/internal/domain"
	internalRedis "tripdesk/internal/redis"
	"tripdesk/internal/repository"
)

// checkoutLockTTL bounds how long an attempt's checkout latch can stay held
// if the process dies mid-checkout.
const checkoutLockTTL = 2 * time.Minute

// CheckoutService reconciles a client-held cart with a server-confirmed
// trip. It is called exactly once per successful payment; the latch and the
// per-attempt trip id memo guard against double-submits.
type CheckoutService struct {
	carts        *CartManager
	tripRepo     repository.TripRepository
	locks        internalRedis.LockStoreInterface
	cache        internalRedis.CacheStoreInterface
	notification *NotificationService
}

// NewCheckoutService creates a new CheckoutService. locks and cache may be
// nil; the in-memory latch still applies.
func NewCheckoutService(
	carts *CartManager,
	tripRepo repository.TripRepository,
	locks internalRedis.LockStoreInterface,
	cache internalRedis.CacheStoreInterface,
	notification *NotificationService,
) *CheckoutService {
	return &CheckoutService{
		carts:        carts,
		tripRepo:     tripRepo,
		locks:        locks,
		cache:        cache,
		notification: notification,
	}
}

// Checkout submits the session's full cart as one trip and returns the
// confirmed booking carrying the durable trip id.
//
// The single-item "Book Now" flow never calls AddItem, so an empty cart is
// first seeded with the attempt's frozen amount and snapshot — the cart
// always faithfully represents what is being purchased. Guest buyers get a
// fresh generated id so checkout never blocks on identity.
func (s *CheckoutService) Checkout(ctx context.Context, attempt *Attempt, identity *auth.Identity) (*domain.ConfirmedBooking, error) {
	attempt.mu.Lock()
	if attempt.TripID != "" {
		// This attempt already produced a trip. Idempotent replay.
		booking := attempt.Booking
		attempt.mu.Unlock()
		return booking, nil
	}
	if attempt.checkoutInFlight {
		attempt.mu.Unlock()
		return nil, ErrCheckoutInFlight
	}
	attempt.checkoutInFlight = true
	attempt.mu.Unlock()

	defer func() {
		attempt.mu.Lock()
		attempt.checkoutInFlight = false
		attempt.mu.Unlock()
	}()

	if s.locks != nil {
		acquired, err := s.locks.AcquireCheckoutLock(ctx, attempt.ID, checkoutLockTTL)
		if err != nil {
			log.Printf("checkout latch unavailable for attempt %s: %v", attempt.ID, err)
		} else if !acquired {
			return nil, ErrCheckoutInFlight
		} else {
			defer func() {
				if err := s.locks.ReleaseCheckoutLock(ctx, attempt.ID); err != nil {
					log.Printf("failed to release checkout latch for attempt %s: %v", attempt.ID, err)
				}
			}()
		}
	}

	cart := s.carts.Get(attempt.SessionID)
	if cart.Len() == 0 {
		cart.AddItem(attempt.ItemType, attempt.Amount, attempt.Details)
	}

	items := cart.List()
	var total float64
	purchased := make([]string, 0, len(items))
	for _, item := range items {
		total += item.Price
		purchased = append(purchased, item.ID)
	}

	buyerID, guest := s.buyerID(identity)

	trip := &domain.Trip{
		ID:        uuid.New().String(),
		BuyerID:   buyerID,
		Guest:     guest,
		Items:     items,
		Total:     total,
		Currency:  attempt.Currency,
		Status:    domain.TripStatusConfirmed,
		CreatedAt: time.Now(),
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		// Payment has already succeeded at this point. Never swallow this.
		if s.notification != nil {
			s.notification.NotifyCheckoutNotRecorded(ctx, buyerID, attempt.ID, attempt.Amount, attempt.Currency)
		}
		return nil, fmt.Errorf("%w: %v", ErrCheckoutNotRecorded, err)
	}

	if s.cache != nil {
		if err := s.cache.SetTrip(ctx, trip); err != nil {
			log.Printf("failed to cache trip %s: %v", trip.ID, err)
		}
	}

	booking := s.confirmBooking(trip, attempt)

	attempt.mu.Lock()
	attempt.TripID = trip.ID
	attempt.Booking = booking
	attempt.mu.Unlock()

	// Clear only the items that were part of this checkout.
	cart.RemoveItems(purchased)

	if s.notification != nil {
		s.notification.NotifyTripConfirmed(ctx, booking)
	}

	return booking, nil
}

// buyerID resolves the buyer identifier. Guest ids are generated per
// checkout and never reused across attempts.
func (s *CheckoutService) buyerID(identity *auth.Identity) (string, bool) {
	if identity != nil && identity.UserID != "" {
		return identity.UserID, false
	}
	return "guest-" + uuid.New().String(), true
}

func (s *CheckoutService) confirmBooking(trip *domain.Trip, attempt *Attempt) *domain.ConfirmedBooking {
	contact := attempt.ContactInfo()

	booking := &domain.ConfirmedBooking{
		ID:        trip.ID,
		Service:   attempt.Service,
		Amount:    attempt.Amount,
		Currency:  attempt.Currency,
		Status:    domain.BookingStatusConfirmed,
		CreatedAt: trip.CreatedAt,
	}

	if contact != nil {
		booking.ClientName = contact.Name
		booking.Email = contact.Email
		booking.Date = contact.Date
	}
	if booking.Date == "" {
		booking.Date = trip.CreatedAt.Format("2006-01-02")
	}

	return booking
}
