package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripdesk/internal/middleware"
	"tripdesk/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// PayRequest is the HTTP request body for dispatching a payment.
// Exactly the fields for the chosen rail are read; the rest are ignored.
type PayRequest struct {
	Rail          string `json:"rail"`
	Phone         string `json:"phone,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
}

// PayResponse is the HTTP response for a successful dispatch.
type PayResponse struct {
	Outcome   string           `json:"outcome"`
	TripID    string           `json:"trip_id,omitempty"`
	Booking   *BookingResponse `json:"booking,omitempty"`
	URL       string           `json:"url,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
}

// Pay handles POST /v1/bookings/:id/pay
func (h *PaymentHandler) Pay(c *gin.Context) {
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var railReq service.RailRequest
	switch req.Rail {
	case "mobile_money":
		railReq = service.MobileMoneyRequest{Phone: req.Phone}
	case "bank_transfer":
		railReq = service.BankTransferRequest{AccountNumber: req.AccountNumber}
	case "card":
		railReq = service.CardRequest{}
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown payment rail"})
		return
	}

	outcome, err := h.paymentService.Pay(c.Request.Context(), c.Param("id"), railReq, middleware.IdentityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := PayResponse{Outcome: string(outcome.Kind)}
	switch outcome.Kind {
	case service.OutcomeSettled:
		resp.TripID = outcome.TripID
		resp.Booking = bookingResponse(outcome.Booking)
	case service.OutcomeRedirect:
		resp.URL = outcome.URL
		resp.SessionID = outcome.SessionID
	}

	respondJSON(c, http.StatusOK, resp)
}
