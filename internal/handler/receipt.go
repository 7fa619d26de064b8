package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripdesk/internal/domain"
	"tripdesk/internal/service"
)

// ReceiptHandler handles HTTP requests for booking receipts.
type ReceiptHandler struct {
	bookingService *service.BookingService
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(bookingService *service.BookingService, receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{
		bookingService: bookingService,
		receiptService: receiptService,
	}
}

// ReceiptResponse is the HTTP view of a receipt artifact.
type ReceiptResponse struct {
	Booking *BookingResponse `json:"booking"`
	Summary string           `json:"summary"`
	Verify  string           `json:"verify_payload"`
	CodePNG string           `json:"code_png"` // base64
}

func (h *ReceiptHandler) confirmedBooking(c *gin.Context) (*domain.ConfirmedBooking, bool) {
	attempt, err := h.bookingService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	booking := attempt.ConfirmedBooking()
	if booking == nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "attempt has no confirmed booking yet"})
		return nil, false
	}
	return booking, true
}

// Get handles GET /v1/bookings/:id/receipt
func (h *ReceiptHandler) Get(c *gin.Context) {
	booking, ok := h.confirmedBooking(c)
	if !ok {
		return
	}

	artifact, err := h.receiptService.Render(c.Request.Context(), booking)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, ReceiptResponse{
		Booking: bookingResponse(booking),
		Summary: artifact.Summary,
		Verify:  string(artifact.VerifyPayload),
		CodePNG: base64.StdEncoding.EncodeToString(artifact.Code),
	})
}

// Export handles GET /v1/bookings/:id/receipt.pdf
//
// The booking is confirmed server-side regardless of export success, so an
// export failure is reported without touching booking state.
func (h *ReceiptHandler) Export(c *gin.Context) {
	booking, ok := h.confirmedBooking(c)
	if !ok {
		return
	}

	artifact, err := h.receiptService.Render(c.Request.Context(), booking)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="receipt-`+booking.ID+`.pdf"`)
	if err := h.receiptService.ExportPDF(artifact, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "receipt export failed, your booking is still confirmed"})
		return
	}
}
