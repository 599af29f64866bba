package handlers

import (
	"net/http"

	"quickrail/internal/services"
	"quickrail/internal/utils"

	"github.com/gin-gonic/gin"
)

func receiptResponse(r services.Receipt) gin.H {
	return gin.H{
		"message":     "결제가 완료되었습니다",
		"booking":     toView(r.Booking),
		"quote":       r.Quote,
		"total_label": utils.FormatWon(r.Quote.Total),
	}
}

// POST /api/payments records a successful payment as a history entry.
func CompletePayment(c *gin.Context) {
	var in services.PaymentInput
	if !BindJSONOrError(c, &in) {
		return
	}
	receipt, err := paymentService(c).Complete(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receiptResponse(receipt))
}
