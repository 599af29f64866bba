package handlers

import (
	"quickrail/internal/domain"
	"quickrail/internal/domain/models"
	"quickrail/internal/utils"
)

// QuickBookingView is a record plus the display strings the UI shows.
type QuickBookingView struct {
	models.QuickBooking
	Kind              string `json:"kind"`
	DepartureLabel    string `json:"departure_label"`
	PassengerSummary  string `json:"passenger_summary"`
	DaysSummary       string `json:"days_summary"`
	SeatLabel         string `json:"seat_label"`
	PriceLabel        string `json:"price_label"`
	PaymentMethodName string `json:"payment_method_name,omitempty"`
}

func toView(q models.QuickBooking) QuickBookingView {
	v := QuickBookingView{
		QuickBooking:      q,
		Kind:              q.Kind(),
		PassengerSummary:  utils.PassengerSummary(q.Adults, q.Children, q.Infants),
		DaysSummary:       utils.DaysSummary(q.DaysOfWeek),
		SeatLabel:         utils.SeatLabel(q.CarNumber, q.SeatNumbers),
		PaymentMethodName: domain.PaymentMethods[q.PaymentMethod],
	}
	if t, err := utils.ParseDepartureLabel(q.DepartureTime); err == nil {
		v.DepartureLabel = utils.FormatDepartureLabel(t)
	} else if h, err := utils.ParseHourSlot(q.DepartureTime); err == nil {
		v.DepartureLabel = utils.FormatHourSlot(h)
	}
	if q.TotalPrice > 0 {
		v.PriceLabel = utils.FormatWon(q.TotalPrice)
	}
	return v
}

func toViews(rows []models.QuickBooking) []QuickBookingView {
	out := make([]QuickBookingView, 0, len(rows))
	for _, q := range rows {
		out = append(out, toView(q))
	}
	return out
}
