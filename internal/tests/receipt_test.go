package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"tripdesk/internal/domain"
	"tripdesk/internal/service"
)

// ──────────────────────────────────────────────
// 5. RECEIPT EMITTER
// ──────────────────────────────────────────────

func confirmedBooking() *domain.ConfirmedBooking {
	return &domain.ConfirmedBooking{
		ID:         "trip-123",
		ClientName: "Abebe Bekele",
		Email:      "abebe@example.com",
		Service:    "Addis Ababa - Nairobi flight",
		Date:       "2026-10-01",
		Amount:     500,
		Currency:   "ETB",
		Status:     domain.BookingStatusConfirmed,
		CreatedAt:  time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRender_SummaryHoldsBookingFacts(t *testing.T) {
	t.Parallel()

	svc := service.NewReceiptService(nil)
	artifact, err := svc.Render(context.Background(), confirmedBooking())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"trip-123", "Abebe Bekele", "Addis Ababa - Nairobi flight", "500.00 ETB", "Confirmed"} {
		if !strings.Contains(artifact.Summary, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestRender_VerifyPayloadIsCompactAndComplete(t *testing.T) {
	t.Parallel()

	svc := service.NewReceiptService(nil)
	artifact, err := svc.Render(context.Background(), confirmedBooking())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload map[string]string
	if err := json.Unmarshal(artifact.VerifyPayload, &payload); err != nil {
		t.Fatalf("verify payload is not valid JSON: %v", err)
	}

	want := map[string]string{
		"id":      "trip-123",
		"client":  "Abebe Bekele",
		"service": "Addis Ababa - Nairobi flight",
		"date":    "2026-10-01",
	}
	for key, value := range want {
		if payload[key] != value {
			t.Errorf("payload[%q] = %q, want %q", key, payload[key], value)
		}
	}
	if len(payload) != len(want) {
		t.Errorf("payload must stay compact, has %d fields", len(payload))
	}
}

func TestRender_CodeIsPNG(t *testing.T) {
	t.Parallel()

	svc := service.NewReceiptService(nil)
	artifact, err := svc.Render(context.Background(), confirmedBooking())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pngMagic := []byte{0x89, 'P', 'N', 'G'}
	if len(artifact.Code) < 4 || !bytes.Equal(artifact.Code[:4], pngMagic) {
		t.Error("code must be a PNG image")
	}
}

func TestExportPDF_WritesDocument(t *testing.T) {
	t.Parallel()

	svc := service.NewReceiptService(nil)
	artifact, err := svc.Render(context.Background(), confirmedBooking())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportPDF(artifact, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("export must produce a PDF document")
	}
}

func TestExportPDF_NilArtifactReported(t *testing.T) {
	t.Parallel()

	svc := service.NewReceiptService(nil)

	var buf bytes.Buffer
	if err := svc.ExportPDF(nil, &buf); err == nil {
		t.Error("expected an error for a missing artifact")
	}
}
