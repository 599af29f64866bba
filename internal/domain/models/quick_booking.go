package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// QuickBooking is one row of quick_bookings: a saved route, a quick-purchase
// profile, a completed booking (history) or a mix of those.
type QuickBooking struct {
	ID              string     `db:"id" json:"id"`
	UserID          string     `db:"user_id" json:"user_id,omitempty"`
	Label           string     `db:"label" json:"label"`
	Departure       string     `db:"departure" json:"departure"`
	Arrival         string     `db:"arrival" json:"arrival"`
	TrainType       string     `db:"train_type" json:"train_type"`
	Adults          int        `db:"adults" json:"adults"`
	Children        int        `db:"children" json:"children"`
	Infants         int        `db:"infants" json:"infants"`
	DepartureTime   string     `db:"departure_time" json:"departure_time,omitempty"`
	DaysOfWeek      Weekdays   `db:"days_of_week" json:"days_of_week"`
	SeatClass       string     `db:"seat_class" json:"seat_class,omitempty"`
	SeatPosition    string     `db:"seat_position" json:"seat_position,omitempty"`
	SeatDirection   string     `db:"seat_direction" json:"seat_direction,omitempty"`
	CarNumber       int        `db:"car_number" json:"car_number,omitempty"`
	SeatNumbers     string     `db:"seat_numbers" json:"seat_numbers,omitempty"`
	PaymentMethod   string     `db:"payment_method" json:"payment_method,omitempty"`
	IsQuickPurchase bool       `db:"is_quick_purchase" json:"is_quick_purchase"`
	BookingStatus   string     `db:"booking_status" json:"booking_status,omitempty"`
	TotalPrice      int64      `db:"total_price" json:"total_price,omitempty"`
	PaymentDate     *time.Time `db:"payment_date" json:"payment_date,omitempty"`
	OrderIndex      int        `db:"order_index" json:"order_index"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	KindRoute         = "route"
	KindHistory       = "history"
	KindQuickPurchase = "quick_purchase"
	KindBoth          = "history+quick_purchase"
)

// Kind infers the record type from which fields are present.
func (q QuickBooking) Kind() string {
	history := q.BookingStatus != ""
	switch {
	case history && q.IsQuickPurchase:
		return KindBoth
	case history:
		return KindHistory
	case q.IsQuickPurchase:
		return KindQuickPurchase
	default:
		return KindRoute
	}
}

func (q QuickBooking) PassengerTotal() int {
	return q.Adults + q.Children + q.Infants
}

// QuickBookingPatch supports PATCH-style updates via key presence.
type QuickBookingPatch struct {
	Label           *string    `json:"label"`
	Departure       *string    `json:"departure"`
	Arrival         *string    `json:"arrival"`
	TrainType       *string    `json:"train_type"`
	Adults          *int       `json:"adults"`
	Children        *int       `json:"children"`
	Infants         *int       `json:"infants"`
	DepartureTime   *string    `json:"departure_time"`
	DaysOfWeek      *Weekdays  `json:"days_of_week"`
	SeatClass       *string    `json:"seat_class"`
	SeatPosition    *string    `json:"seat_position"`
	SeatDirection   *string    `json:"seat_direction"`
	CarNumber       *int       `json:"car_number"`
	SeatNumbers     *string    `json:"seat_numbers"`
	PaymentMethod   *string    `json:"payment_method"`
	IsQuickPurchase *bool      `json:"is_quick_purchase"`
	BookingStatus   *string    `json:"booking_status"`
	TotalPrice      *int64     `json:"total_price"`
	PaymentDate     *time.Time `json:"payment_date"`
	OrderIndex      *int       `json:"order_index"`
}

// Empty reports a patch without any key.
func (p QuickBookingPatch) Empty() bool {
	return p.Label == nil && p.Departure == nil && p.Arrival == nil && p.TrainType == nil &&
		p.Adults == nil && p.Children == nil && p.Infants == nil &&
		p.DepartureTime == nil && p.DaysOfWeek == nil &&
		p.SeatClass == nil && p.SeatPosition == nil && p.SeatDirection == nil &&
		p.CarNumber == nil && p.SeatNumbers == nil && p.PaymentMethod == nil &&
		p.IsQuickPurchase == nil && p.BookingStatus == nil && p.TotalPrice == nil &&
		p.PaymentDate == nil && p.OrderIndex == nil
}

// Apply copies present keys onto q. Used by the memory store and for echoing.
func (p QuickBookingPatch) Apply(q *QuickBooking) {
	setS := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setI := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setS(&q.Label, p.Label)
	setS(&q.Departure, p.Departure)
	setS(&q.Arrival, p.Arrival)
	setS(&q.TrainType, p.TrainType)
	setI(&q.Adults, p.Adults)
	setI(&q.Children, p.Children)
	setI(&q.Infants, p.Infants)
	setS(&q.DepartureTime, p.DepartureTime)
	if p.DaysOfWeek != nil {
		q.DaysOfWeek = append(Weekdays{}, (*p.DaysOfWeek)...)
	}
	setS(&q.SeatClass, p.SeatClass)
	setS(&q.SeatPosition, p.SeatPosition)
	setS(&q.SeatDirection, p.SeatDirection)
	setI(&q.CarNumber, p.CarNumber)
	setS(&q.SeatNumbers, p.SeatNumbers)
	setS(&q.PaymentMethod, p.PaymentMethod)
	if p.IsQuickPurchase != nil {
		q.IsQuickPurchase = *p.IsQuickPurchase
	}
	setS(&q.BookingStatus, p.BookingStatus)
	if p.TotalPrice != nil {
		q.TotalPrice = *p.TotalPrice
	}
	if p.PaymentDate != nil {
		t := *p.PaymentDate
		q.PaymentDate = &t
	}
	setI(&q.OrderIndex, p.OrderIndex)
}

// Weekdays is stored as a comma-joined list of Korean weekday letters.
type Weekdays []string

func (w Weekdays) Value() (driver.Value, error) {
	if len(w) == 0 {
		return nil, nil
	}
	return strings.Join(w, ","), nil
}

func (w *Weekdays) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*w = Weekdays{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("days_of_week: tipe %T tidak didukung", src)
	}
	out := Weekdays{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	*w = out
	return nil
}
