package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/seats?train_no&date&car
func GetSeatMap(c *gin.Context) {
	m, err := seatService(c).SeatMap(c.Request.Context(), c.Query("train_no"), c.Query("date"), queryInt(c, "car", 1))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"seat_map":        m,
		"available_count": m.AvailableCount(),
	})
}
