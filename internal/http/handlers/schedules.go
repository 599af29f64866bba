package handlers

import (
	"net/http"

	"quickrail/internal/http/middleware"
	"quickrail/internal/services"
	"quickrail/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/schedules?departure&arrival&date&train_type
func GetSchedules(c *gin.Context) {
	var q services.ScheduleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondError(c, http.StatusBadRequest, "query tidak valid", err)
		return
	}
	if q.Date == "" {
		q.Date = utils.FormatDate(utils.NowKST())
	}
	svc := services.ScheduleService{RequestID: middleware.GetRequestID(c)}
	rows, err := svc.Search(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	d, _ := utils.ParseDate(q.Date)
	c.JSON(http.StatusOK, gin.H{
		"date":       utils.FormatDate(d),
		"date_label": utils.FormatDateLabel(d),
		"prev_date":  utils.FormatDate(d.AddDate(0, 0, -1)),
		"next_date":  utils.FormatDate(d.AddDate(0, 0, 1)),
		"schedules":  rows,
	})
}
