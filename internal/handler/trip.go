package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripdesk/internal/domain"
	internalRedis "tripdesk/internal/redis"
	"tripdesk/internal/repository"
)

// TripHandler handles HTTP requests for confirmed trips.
type TripHandler struct {
	tripRepo repository.TripRepository
	cache    internalRedis.CacheStoreInterface
}

// NewTripHandler creates a new TripHandler. cache may be nil.
func NewTripHandler(tripRepo repository.TripRepository, cache internalRedis.CacheStoreInterface) *TripHandler {
	return &TripHandler{tripRepo: tripRepo, cache: cache}
}

// TripResponse is the HTTP view of a confirmed trip.
type TripResponse struct {
	TripID    string             `json:"trip_id"`
	BuyerID   string             `json:"buyer_id"`
	Guest     bool               `json:"guest"`
	Items     []CartItemResponse `json:"items"`
	Total     float64            `json:"total"`
	Currency  string             `json:"currency"`
	Status    string             `json:"status"`
	CreatedAt string             `json:"created_at"`
}

func tripResponse(trip *domain.Trip) TripResponse {
	resp := TripResponse{
		TripID:    trip.ID,
		BuyerID:   trip.BuyerID,
		Guest:     trip.Guest,
		Total:     trip.Total,
		Currency:  trip.Currency,
		Status:    string(trip.Status),
		CreatedAt: trip.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Items:     make([]CartItemResponse, 0, len(trip.Items)),
	}
	for _, item := range trip.Items {
		resp.Items = append(resp.Items, CartItemResponse{
			ID:      item.ID,
			Type:    string(item.Type),
			Price:   item.Price,
			Details: json.RawMessage(item.Details),
			AddedAt: item.AddedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return resp
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID := c.Param("id")
	ctx := c.Request.Context()

	if h.cache != nil {
		trip, err := h.cache.GetTrip(ctx, tripID)
		if err != nil {
			log.Printf("trip cache read failed for %s: %v", tripID, err)
		} else if trip != nil {
			respondJSON(c, http.StatusOK, tripResponse(trip))
			return
		}
	}

	trip, err := h.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// ListTrips handles GET /v1/trips?buyer_id=
func (h *TripHandler) ListTrips(c *gin.Context) {
	buyerID := c.Query("buyer_id")
	if buyerID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing buyer_id"})
		return
	}

	trips, err := h.tripRepo.GetByBuyerID(c.Request.Context(), buyerID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		resp = append(resp, tripResponse(trip))
	}

	respondJSON(c, http.StatusOK, gin.H{"trips": resp})
}
