package handlers

import (
	"net/http"

	"quickrail/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/quick-purchases registers a one-tap purchase profile.
func RegisterQuickPurchase(c *gin.Context) {
	var in services.RouteInput
	if !BindJSONOrError(c, &in) {
		return
	}
	rec, err := bookingService(c).RegisterQuickPurchase(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toView(rec))
}

// POST /api/quick-purchases/:id/purchase buys the profile's next departure.
func PurchaseFromProfile(c *gin.Context) {
	var in services.RepurchaseInput
	if c.Request.ContentLength > 0 {
		if !BindJSONOrError(c, &in) {
			return
		}
	}
	receipt, err := paymentService(c).Repurchase(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receiptResponse(receipt))
}
