package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripdesk/internal/domain"
	"tripdesk/internal/service"
)

// CartHandler handles HTTP requests for the session trip cart.
type CartHandler struct {
	carts *service.CartManager
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *service.CartManager) *CartHandler {
	return &CartHandler{carts: carts}
}

// AddItemRequest is the HTTP request body for adding a cart item.
type AddItemRequest struct {
	Type    string          `json:"type"`
	Price   float64         `json:"price"`
	Details json.RawMessage `json:"details"`
}

// CartItemResponse is one cart entry in HTTP responses.
type CartItemResponse struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Price   float64         `json:"price"`
	Details json.RawMessage `json:"details,omitempty"`
	AddedAt string          `json:"added_at"`
}

// CartResponse is the full cart in insertion order.
type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total float64            `json:"total"`
}

// AddItem handles POST /v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	itemType := domain.ItemType(req.Type)
	if !domain.ValidItemType(itemType) {
		respondError(c, service.ErrInvalidItemType)
		return
	}
	if req.Price < 0 {
		respondError(c, service.ErrInvalidAmount)
		return
	}

	id := h.carts.Get(session).AddItem(itemType, req.Price, req.Details)

	respondJSON(c, http.StatusCreated, gin.H{"item_id": id})
}

// RemoveItem handles DELETE /v1/cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}

	h.carts.Get(session).RemoveItem(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// List handles GET /v1/cart
func (h *CartHandler) List(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}

	items := h.carts.Get(session).List()
	resp := CartResponse{Items: make([]CartItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Total += item.Price
		resp.Items = append(resp.Items, CartItemResponse{
			ID:      item.ID,
			Type:    string(item.Type),
			Price:   item.Price,
			Details: item.Details,
			AddedAt: item.AddedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	respondJSON(c, http.StatusOK, resp)
}
