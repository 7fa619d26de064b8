package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripdesk/internal/domain"
	"tripdesk/internal/middleware"
	"tripdesk/internal/service"
)

// BookingHandler handles HTTP requests for booking attempts.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// OpenAttemptRequest is the HTTP request body for opening a booking attempt.
type OpenAttemptRequest struct {
	Service        string          `json:"service"`
	ItemType       string          `json:"item_type"`
	ExternalItemID string          `json:"external_item_id"`
	Amount         float64         `json:"amount"`
	Currency       string          `json:"currency"`
	Details        json.RawMessage `json:"details"`
	RequireBuyer   bool            `json:"require_buyer"`
}

// SubmitFormRequest is the HTTP request body for the form step.
type SubmitFormRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Date  string `json:"date"`
}

// AttemptResponse is the HTTP view of a booking attempt.
type AttemptResponse struct {
	AttemptID string           `json:"attempt_id"`
	Step      string           `json:"step"`
	Service   string           `json:"service"`
	Amount    float64          `json:"amount"`
	Currency  string           `json:"currency"`
	Booking   *BookingResponse `json:"booking,omitempty"`
}

// BookingResponse is the HTTP view of a confirmed booking.
type BookingResponse struct {
	ID         string  `json:"id"`
	ClientName string  `json:"client_name"`
	Email      string  `json:"email"`
	Service    string  `json:"service"`
	Date       string  `json:"date"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Status     string  `json:"status"`
}

func attemptResponse(a *service.Attempt) AttemptResponse {
	resp := AttemptResponse{
		AttemptID: a.ID,
		Step:      string(a.CurrentStep()),
		Service:   a.Service,
		Amount:    a.Amount,
		Currency:  a.Currency,
	}
	if booking := a.ConfirmedBooking(); booking != nil {
		resp.Booking = bookingResponse(booking)
	}
	return resp
}

func bookingResponse(b *domain.ConfirmedBooking) *BookingResponse {
	return &BookingResponse{
		ID:         b.ID,
		ClientName: b.ClientName,
		Email:      b.Email,
		Service:    b.Service,
		Date:       b.Date,
		Amount:     b.Amount,
		Currency:   b.Currency,
		Status:     string(b.Status),
	}
}

// Open handles POST /v1/bookings
func (h *BookingHandler) Open(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}

	var req OpenAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	attempt, err := h.bookingService.Open(service.OpenAttemptRequest{
		SessionID:      session,
		Service:        req.Service,
		ItemType:       domain.ItemType(req.ItemType),
		ExternalItemID: req.ExternalItemID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Details:        req.Details,
		RequireBuyer:   req.RequireBuyer,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, attemptResponse(attempt))
}

// Get handles GET /v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	attempt, err := h.bookingService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, attemptResponse(attempt))
}

// SubmitForm handles POST /v1/bookings/:id/form
func (h *BookingHandler) SubmitForm(c *gin.Context) {
	var req SubmitFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	contact := domain.Contact{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Date:  req.Date,
	}

	fieldErrs, err := h.bookingService.SubmitForm(c.Param("id"), contact, middleware.IdentityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(fieldErrs) > 0 {
		resp := FieldErrorsResponse{}
		for _, fe := range fieldErrs {
			resp.Errors = append(resp.Errors, FieldErrorInfo{Field: fe.Field, Message: fe.Message})
		}
		respondJSON(c, http.StatusUnprocessableEntity, resp)
		return
	}

	attempt, err := h.bookingService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, attemptResponse(attempt))
}

// CancelPayment handles POST /v1/bookings/:id/payment/cancel
func (h *BookingHandler) CancelPayment(c *gin.Context) {
	if err := h.bookingService.CancelPayment(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	attempt, err := h.bookingService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, attemptResponse(attempt))
}

// Close handles POST /v1/bookings/:id/close
func (h *BookingHandler) Close(c *gin.Context) {
	if err := h.bookingService.Close(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
