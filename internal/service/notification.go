package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"tripdesk/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationTripConfirmed        NotificationType = "TRIP_CONFIRMED"
	NotificationPaymentFailed        NotificationType = "PAYMENT_FAILED"
	NotificationCheckoutNotRecorded  NotificationType = "CHECKOUT_NOT_RECORDED"
	NotificationReceiptReady         NotificationType = "RECEIPT_READY"
)

// Notification represents a notification to be sent.
type Notification struct {
	ID          string
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	CreatedAt   time.Time
}

// NotificationService is the single user-visible channel network and server
// failures bubble to.
type NotificationService struct {
	// In a real system, this would have:
	// - Push notification client (FCM, APNS)
	// - SMS client for mobile-money confirmations
	// - Email client (SendGrid)
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyTripConfirmed tells the buyer their trip is booked.
func (s *NotificationService) NotifyTripConfirmed(ctx context.Context, booking *domain.ConfirmedBooking) {
	s.send(Notification{
		Type:        NotificationTripConfirmed,
		RecipientID: booking.Email,
		Title:       "Trip confirmed",
		Message:     fmt.Sprintf("Booking %s for %s is confirmed (%.2f %s).", booking.ID, booking.Service, booking.Amount, booking.Currency),
	})
}

// NotifyPaymentFailed tells the buyer a payment did not go through and a
// retry is safe.
func (s *NotificationService) NotifyPaymentFailed(ctx context.Context, recipient string, rail domain.Rail) {
	s.send(Notification{
		Type:        NotificationPaymentFailed,
		RecipientID: recipient,
		Title:       "Payment failed",
		Message:     fmt.Sprintf("Your %s payment could not be completed. You can retry safely.", rail),
	})
}

// NotifyCheckoutNotRecorded is the loud path: the buyer has been charged
// but the trip was not durably recorded.
func (s *NotificationService) NotifyCheckoutNotRecorded(ctx context.Context, recipient, attemptID string, amount float64, currency string) {
	s.send(Notification{
		Type:        NotificationCheckoutNotRecorded,
		RecipientID: recipient,
		Title:       "We received your payment but could not record your trip",
		Message: fmt.Sprintf(
			"A payment of %.2f %s was taken for booking attempt %s but the trip could not be saved. Support has been alerted; do not pay again.",
			amount, currency, attemptID,
		),
	})
}

// NotifyReceiptReady tells the buyer their receipt is available.
func (s *NotificationService) NotifyReceiptReady(ctx context.Context, booking *domain.ConfirmedBooking) {
	s.send(Notification{
		Type:        NotificationReceiptReady,
		RecipientID: booking.Email,
		Title:       "Receipt ready",
		Message:     fmt.Sprintf("Your receipt for booking %s is ready.", booking.ID),
	})
}

// send delivers a notification. Mock implementation: logs it.
func (s *NotificationService) send(n Notification) {
	n.ID = uuid.New().String()
	n.CreatedAt = time.Now()
	log.Printf("[NOTIFICATION] type=%s recipient=%s title=%q message=%q", n.Type, n.RecipientID, n.Title, n.Message)
}
