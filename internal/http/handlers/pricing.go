package handlers

import (
	"net/http"

	"quickrail/internal/domain"
	"quickrail/internal/services"
	"quickrail/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/discounts
func GetDiscounts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"base_fare":       utils.BaseFare,
		"base_fare_label": utils.FormatWon(utils.BaseFare),
		"discounts":       utils.Discounts(),
		"payment_methods": domain.PaymentMethods,
	})
}

type quoteRequest struct {
	domain.Passengers
	DiscountID string `json:"discount_id"`
}

// POST /api/quote
func PostQuote(c *gin.Context) {
	var req quoteRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := req.Passengers.Validate(); err != nil {
		RespondDomainError(c, err)
		return
	}
	q, err := services.QuoteFor(req.Passengers.Total(), req.DiscountID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"quote":          q,
		"subtotal_label": utils.FormatWon(q.Subtotal),
		"discount_label": utils.FormatWon(q.Discount),
		"total_label":    utils.FormatWon(q.Total),
	})
}
