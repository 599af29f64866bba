package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/bookings/history?limit
func GetBookingHistory(c *gin.Context) {
	rows, err := bookingService(c).RecentHistory(c.Request.Context(), queryInt(c, "limit", 10))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toViews(rows))
}

// GET /api/bookings/:id/ticket returns the e-ticket PDF (inline).
func GetBookingTicketPDF(c *gin.Context) {
	pdfBytes, filename, err := ticketService(c).GenerateTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GET /api/bookings/:id/receipt returns the payment receipt PDF (inline).
func GetBookingReceiptPDF(c *gin.Context) {
	pdfBytes, filename, err := ticketService(c).GenerateReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
