package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"tripdesk/internal/auth"
	"tripdesk/internal/handler"
	"tripdesk/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	CartHandler    *handler.CartHandler
	BookingHandler *handler.BookingHandler
	PaymentHandler *handler.PaymentHandler
	TripHandler    *handler.TripHandler
	ReceiptHandler *handler.ReceiptHandler
	TokenService   *auth.TokenService
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.OptionalAuth(deps.TokenService))
	router.Use(middleware.Idempotency(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Trip cart routes (session-scoped).
		cart := v1.Group("/cart")
		{
			cart.GET("", deps.CartHandler.List)
			cart.POST("/items", deps.CartHandler.AddItem)
			cart.DELETE("/items/:id", deps.CartHandler.RemoveItem)
		}

		// Booking attempt routes.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", deps.BookingHandler.Open)
			bookings.GET("/:id", deps.BookingHandler.Get)
			bookings.POST("/:id/form", deps.BookingHandler.SubmitForm)
			bookings.POST("/:id/payment/cancel", deps.BookingHandler.CancelPayment)
			bookings.POST("/:id/close", deps.BookingHandler.Close)
			bookings.POST("/:id/pay", deps.PaymentHandler.Pay)
			bookings.GET("/:id/receipt", deps.ReceiptHandler.Get)
			bookings.GET("/:id/receipt.pdf", deps.ReceiptHandler.Export)
		}

		// Confirmed trip routes.
		trips := v1.Group("/trips")
		{
			trips.GET("", deps.TripHandler.ListTrips)
			trips.GET("/:id", deps.TripHandler.GetTrip)
		}
	}

	return router
}
