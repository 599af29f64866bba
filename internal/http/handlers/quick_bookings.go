package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"quickrail/internal/domain"
	"quickrail/internal/domain/models"
	"quickrail/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/quick-bookings?quick_purchase&status
func GetQuickBookings(c *gin.Context) {
	f := domain.Filter{
		QuickPurchase: queryBool(c, "quick_purchase"),
		Status:        strings.TrimSpace(c.Query("status")),
	}
	rows := bookingService(c).ListRoutes(c.Request.Context(), f)
	c.JSON(http.StatusOK, toViews(rows))
}

// GET /api/quick-bookings/recent?limit&quick_purchase
func GetRecentQuickBookings(c *gin.Context) {
	f := domain.Filter{QuickPurchase: queryBool(c, "quick_purchase")}
	rows, err := bookingService(c).Recent(c.Request.Context(), f, queryInt(c, "limit", 10))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toViews(rows))
}

// GET /api/quick-bookings/:id
func GetQuickBookingByID(c *gin.Context) {
	rec, err := bookingService(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toView(rec))
}

// POST /api/quick-bookings
func CreateQuickBooking(c *gin.Context) {
	var in services.RouteInput
	if !BindJSONOrError(c, &in) {
		return
	}
	rec, err := bookingService(c).AddRoute(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toView(rec))
}

// PUT /api/quick-bookings/:id
func UpdateQuickBooking(c *gin.Context) {
	var p models.QuickBookingPatch
	if !BindJSONOrError(c, &p) {
		return
	}
	rec, err := bookingService(c).UpdateRoute(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toView(rec))
}

// DELETE /api/quick-bookings/:id
func DeleteQuickBooking(c *gin.Context) {
	if err := bookingService(c).DeleteRoute(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted", "id": c.Param("id")})
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

// POST /api/quick-bookings/bulk-delete
func BulkDeleteQuickBookings(c *gin.Context) {
	var req idsRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	n, err := bookingService(c).DeleteRoutes(c.Request.Context(), req.IDs)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted", "deleted": n})
}

// PUT /api/quick-bookings/order
func ReorderQuickBookings(c *gin.Context) {
	var req idsRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := bookingService(c)
	if err := svc.Reorder(c.Request.Context(), req.IDs); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toViews(svc.ListRoutes(c.Request.Context(), domain.Filter{})))
}

// PUT /api/quick-bookings/:id/quick-purchase toggles, or sets {"value": bool}.
func SetQuickPurchaseFlag(c *gin.Context) {
	var req struct {
		Value *bool `json:"value"`
	}
	if c.Request.Body != nil {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "payload tidak valid", err)
			return
		}
		if len(strings.TrimSpace(string(raw))) > 0 {
			if err := json.Unmarshal(raw, &req); err != nil {
				RespondError(c, http.StatusBadRequest, "payload tidak valid", err)
				return
			}
		}
	}

	svc := bookingService(c)
	var (
		rec models.QuickBooking
		err error
	)
	if req.Value != nil {
		rec, err = svc.SetQuickPurchase(c.Request.Context(), c.Param("id"), *req.Value)
	} else {
		rec, err = svc.ToggleQuickPurchase(c.Request.Context(), c.Param("id"))
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toView(rec))
}
