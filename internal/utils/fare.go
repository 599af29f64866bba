package utils

import (
	"math"
	"strings"
)

// BaseFare is the flat per-passenger fare in won.
const BaseFare int64 = 59800

// FirstClassFare is only shown on search results; payment uses BaseFare.
const FirstClassFare int64 = 83700

// Discount is one selectable discount category. Only one applies per booking.
type Discount struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

var discounts = []Discount{
	{ID: "veteran", Name: "국가유공자", Rate: 0.3},
	{ID: "senior", Name: "경로 (만 65세 이상)", Rate: 0.3},
	{ID: "disabled", Name: "장애인", Rate: 0.5},
	{ID: "military", Name: "군인 (의무복무)", Rate: 0.5},
	{ID: "child", Name: "어린이 (만 6~12세)", Rate: 0.5},
	{ID: "youth", Name: "청소년 (만 13~18세)", Rate: 0.2},
}

func Discounts() []Discount {
	return append([]Discount(nil), discounts...)
}

// FindDiscount looks up a category by id. Empty id means no discount.
func FindDiscount(id string) (Discount, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, d := range discounts {
		if d.ID == id {
			return d, true
		}
	}
	return Discount{}, false
}

// Quote is the price breakdown shown on the payment screen.
type Quote struct {
	Passengers   int     `json:"passengers"`
	UnitFare     int64   `json:"unit_fare"`
	Subtotal     int64   `json:"subtotal"`
	DiscountID   string  `json:"discount_id,omitempty"`
	DiscountName string  `json:"discount_name,omitempty"`
	DiscountRate float64 `json:"discount_rate"`
	Discount     int64   `json:"discount"`
	Total        int64   `json:"total"`
}

// ComputeQuote prices passengers at BaseFare minus one discount rate.
// The discount amount is rounded half away from zero to whole won.
func ComputeQuote(passengers int, d Discount) Quote {
	if passengers < 0 {
		passengers = 0
	}
	subtotal := BaseFare * int64(passengers)
	off := roundMoney(float64(subtotal) * d.Rate)
	return Quote{
		Passengers:   passengers,
		UnitFare:     BaseFare,
		Subtotal:     subtotal,
		DiscountID:   d.ID,
		DiscountName: d.Name,
		DiscountRate: d.Rate,
		Discount:     off,
		Total:        subtotal - off,
	}
}

func roundMoney(x float64) int64 {
	return int64(math.Round(x))
}
