package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"tripdesk/internal/domain"
)

// ReceiptArtifact is the shareable confirmation for a booked trip: a
// human-readable summary plus a compact machine-verifiable payload rendered
// as a scannable code.
type ReceiptArtifact struct {
	Booking *domain.ConfirmedBooking
	Summary string

	// VerifyPayload is the compact structured encoding behind the code.
	VerifyPayload []byte

	// Code is the QR PNG of VerifyPayload.
	Code []byte
}

// verifyPayload is the machine-verifiable subset of a confirmed booking.
type verifyPayload struct {
	ID      string `json:"id"`
	Client  string `json:"client"`
	Service string `json:"service"`
	Date    string `json:"date"`
}

// ReceiptService turns confirmed bookings into durable artifacts.
type ReceiptService struct {
	notification *NotificationService
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(notification *NotificationService) *ReceiptService {
	return &ReceiptService{notification: notification}
}

// Render produces the receipt artifact for a confirmed booking. The booking
// is already durable server-side; rendering failures do not undo it.
func (s *ReceiptService) Render(ctx context.Context, booking *domain.ConfirmedBooking) (*ReceiptArtifact, error) {
	if booking == nil {
		return nil, ErrAttemptNotFound
	}

	payload, err := json.Marshal(verifyPayload{
		ID:      booking.ID,
		Client:  booking.ClientName,
		Service: booking.Service,
		Date:    booking.Date,
	})
	if err != nil {
		return nil, err
	}

	code, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to render verification code: %w", err)
	}

	artifact := &ReceiptArtifact{
		Booking:       booking,
		Summary:       s.formatSummary(booking),
		VerifyPayload: payload,
		Code:          code,
	}

	if s.notification != nil {
		s.notification.NotifyReceiptReady(ctx, booking)
	}

	return artifact, nil
}

// formatSummary formats the receipt as a string (for email/print).
func (s *ReceiptService) formatSummary(b *domain.ConfirmedBooking) string {
	return `
=====================================
        BOOKING RECEIPT
=====================================
Booking ID: ` + b.ID + `
Date: ` + b.CreatedAt.Format("Jan 02, 2006 3:04 PM") + `

BOOKING DETAILS
-------------------------------------
Client:   ` + b.ClientName + `
Email:    ` + b.Email + `
Service:  ` + b.Service + `
Date:     ` + b.Date + `

PAYMENT
-------------------------------------
Amount: ` + fmt.Sprintf("%.2f %s", b.Amount, b.Currency) + `
Status: ` + string(b.Status) + `

=====================================
    Thank you for booking with us!
=====================================
`
}

// ExportPDF rasterizes the receipt into a portable document. Export
// failures are reported to the caller and never affect the booking.
func (s *ReceiptService) ExportPDF(artifact *ReceiptArtifact, w io.Writer) error {
	if artifact == nil || artifact.Booking == nil {
		return ErrAttemptNotFound
	}
	b := artifact.Booking

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "Booking Receipt")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Booking ID", b.ID},
		{"Client", b.ClientName},
		{"Email", b.Email},
		{"Service", b.Service},
		{"Date", b.Date},
		{"Amount", fmt.Sprintf("%.2f %s", b.Amount, b.Currency)},
		{"Status", string(b.Status)},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}

	if len(artifact.Code) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("verify-code", opts, bytes.NewReader(artifact.Code))
		pdf.Ln(6)
		pdf.ImageOptions("verify-code", 20, pdf.GetY(), 50, 50, false, opts, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("receipt export failed: %w", err)
	}
	return nil
}
