package api

import (
	"log"
	stdhttp "net/http"

	intconfig "quickrail/internal/config"
	h "quickrail/internal/http/handlers"
	"quickrail/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	parse := func(tok string) (string, error) { return h.AuthService(nil).ParseToken(tok) }
	r.Use(
		middleware.RequestID(),
		middleware.CORS(env.CORSOrigins),
		middleware.AuthOptional(parse),
		middleware.Logger(),
		gin.Recovery(),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Home data
		api.GET("/stations", h.GetStations)
		api.POST("/stations/swap", h.SwapStations)
		api.GET("/schedules", h.GetSchedules)
		api.GET("/seats", h.GetSeatMap)
		api.GET("/discounts", h.GetDiscounts)
		api.POST("/quote", h.PostQuote)

		// Saved routes, profiles and history rows
		qb := api.Group("/quick-bookings")
		qb.GET("", h.GetQuickBookings)
		qb.POST("", h.CreateQuickBooking)
		qb.GET("/recent", h.GetRecentQuickBookings)
		qb.POST("/bulk-delete", h.BulkDeleteQuickBookings)
		qb.PUT("/order", h.ReorderQuickBookings)
		qb.GET("/:id", h.GetQuickBookingByID)
		qb.PUT("/:id", h.UpdateQuickBooking)
		qb.DELETE("/:id", h.DeleteQuickBooking)
		qb.PUT("/:id/quick-purchase", h.SetQuickPurchaseFlag)

		// Quick purchase
		qp := api.Group("/quick-purchases")
		qp.POST("", h.RegisterQuickPurchase)
		qp.POST("/:id/purchase", h.PurchaseFromProfile)

		// Payments & history
		api.POST("/payments", h.CompletePayment)
		bookings := api.Group("/bookings")
		bookings.GET("/history", h.GetBookingHistory)
		bookings.GET("/:id/ticket", h.GetBookingTicketPDF)
		bookings.GET("/:id/receipt", h.GetBookingReceiptPDF)
	}

	return r
}
