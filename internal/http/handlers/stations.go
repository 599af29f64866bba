package handlers

import (
	"net/http"
	"strings"

	"quickrail/internal/domain"

	"github.com/gin-gonic/gin"
)

// GET /api/stations?exclude=
func GetStations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stations":    domain.Stations(strings.TrimSpace(c.Query("exclude"))),
		"train_types": domain.TrainTypes,
	})
}

// POST /api/stations/swap
func SwapStations(c *gin.Context) {
	var r domain.Route
	if !BindJSONOrError(c, &r) {
		return
	}
	c.JSON(http.StatusOK, r.Swap())
}
