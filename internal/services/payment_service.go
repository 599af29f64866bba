package services

import (
	"context"
	"fmt"
	"strings"

	"quickrail/internal/domain"
	"quickrail/internal/domain/models"
	"quickrail/internal/events"
	"quickrail/internal/utils"
)

// PaymentService turns a confirmed payment into a completed history entry.
type PaymentService struct {
	Bookings  QuickBookingService
	Seats     SeatService
	Events    events.Publisher
	RequestID string
}

// PaymentInput is the payment screen payload.
type PaymentInput struct {
	Label               string   `json:"label"`
	Departure           string   `json:"departure"`
	Arrival             string   `json:"arrival"`
	TrainType           string   `json:"train_type"`
	TrainNo             string   `json:"train_no"`
	DepartureTime       string   `json:"departure_time"`
	Adults              *int     `json:"adults"`
	Children            *int     `json:"children"`
	Infants             *int     `json:"infants"`
	DiscountID          string   `json:"discount_id"`
	PaymentMethod       string   `json:"payment_method"`
	SaveAsQuickPurchase bool     `json:"save_as_quick_purchase"`
	DaysOfWeek          []string `json:"days_of_week"`
	SeatProfile
}

// RepurchaseInput overrides parts of a profile for one purchase.
type RepurchaseInput struct {
	TrainNo       string `json:"train_no"`
	DiscountID    string `json:"discount_id"`
	PaymentMethod string `json:"payment_method"`
}

// Receipt is what the success screen shows.
type Receipt struct {
	Booking models.QuickBooking `json:"booking"`
	Quote   utils.Quote         `json:"quote"`
}

// QuoteFor prices a passenger count with an optional discount id.
func QuoteFor(passengers int, discountID string) (utils.Quote, error) {
	if passengers <= 0 {
		return utils.Quote{}, domain.ValidationError{Field: "passengers", Msg: "minimal satu penumpang"}
	}
	d := utils.Discount{}
	if strings.TrimSpace(discountID) != "" {
		var ok bool
		if d, ok = utils.FindDiscount(discountID); !ok {
			return utils.Quote{}, domain.ValidationError{Field: "discount_id", Msg: "tidak dikenal"}
		}
	}
	return utils.ComputeQuote(passengers, d), nil
}

func (s PaymentService) publisher() events.Publisher {
	if s.Events == nil {
		return events.Noop{}
	}
	return s.Events
}

// Complete records a paid booking and publishes booking.completed.
func (s PaymentService) Complete(ctx context.Context, in PaymentInput) (Receipt, error) {
	s.Bookings.RequestID = s.RequestID
	s.Seats.RequestID = s.RequestID

	if strings.TrimSpace(in.DepartureTime) == "" {
		return Receipt{}, domain.ValidationError{Field: "departure_time", Msg: "wajib diisi"}
	}
	method := in.PaymentMethod
	if strings.TrimSpace(method) == "" {
		method = domain.DefaultPaymentMethod
	}
	rec, err := s.Bookings.build(RouteInput{
		Label:         in.Label,
		Departure:     in.Departure,
		Arrival:       in.Arrival,
		TrainType:     in.TrainType,
		Adults:        in.Adults,
		Children:      in.Children,
		Infants:       in.Infants,
		DepartureTime: in.DepartureTime,
		DaysOfWeek:    in.DaysOfWeek,
		PaymentMethod: method,
		SeatProfile:   in.SeatProfile,
	}, false)
	if err != nil {
		return Receipt{}, err
	}

	total := rec.PassengerTotal()
	quote, err := QuoteFor(total, in.DiscountID)
	if err != nil {
		return Receipt{}, err
	}

	seats, _ := utils.SplitSeatNumbers(rec.SeatNumbers)
	if len(seats) > 0 && len(seats) != total {
		return Receipt{}, domain.ValidationError{
			Field: "seat_numbers",
			Msg:   fmt.Sprintf("jumlah kursi %d tidak sama dengan penumpang %d", len(seats), total),
		}
	}
	dt, err := utils.ParseDepartureLabel(rec.DepartureTime)
	if err != nil {
		return Receipt{}, domain.ValidationError{Field: "departure_time", Msg: "tanggal keberangkatan wajib diisi"}
	}
	travelDate := utils.FormatDate(dt)
	trainNo := strings.TrimSpace(in.TrainNo)
	checkSeats := trainNo != "" && rec.CarNumber > 0 && len(seats) > 0
	if checkSeats {
		if err := s.Seats.CheckSeats(ctx, trainNo, travelDate, rec.CarNumber, seats); err != nil {
			return Receipt{}, err
		}
	}

	paidAt := s.Bookings.now()
	rec.BookingStatus = domain.StatusCompleted
	rec.TotalPrice = quote.Total
	rec.PaymentDate = &paidAt
	rec.IsQuickPurchase = in.SaveAsQuickPurchase

	rec, err = s.Bookings.create(ctx, rec)
	if err != nil {
		utils.LogFailure(s.RequestID, "payment", "complete", err)
		return Receipt{}, err
	}
	if checkSeats {
		if err := s.Seats.Occupy(ctx, trainNo, travelDate, rec.CarNumber, seats); err != nil {
			utils.LogFailure(s.RequestID, "payment", "occupy_seats", err)
		}
	}

	ev := events.BookingCompleted{
		BookingID:     rec.ID,
		UserID:        rec.UserID,
		Departure:     rec.Departure,
		Arrival:       rec.Arrival,
		DepartureTime: rec.DepartureTime,
		Passengers:    total,
		TotalPrice:    rec.TotalPrice,
		PaymentMethod: rec.PaymentMethod,
		QuickPurchase: rec.IsQuickPurchase,
		PaidAt:        paidAt,
	}
	if err := s.publisher().PublishBookingCompleted(ctx, ev); err != nil {
		utils.LogFailure(s.RequestID, "payment", "publish", err)
	}
	utils.LogEvent(s.RequestID, "payment", "complete", fmt.Sprintf("id=%s total=%d method=%s", rec.ID, rec.TotalPrice, rec.PaymentMethod))
	return Receipt{Booking: rec, Quote: quote}, nil
}

// profileHour reads the hour of a profile's departure_time, 6 when unset.
func profileHour(p models.QuickBooking) int {
	if strings.TrimSpace(p.DepartureTime) == "" {
		return 6
	}
	if t, err := utils.ParseDepartureLabel(p.DepartureTime); err == nil {
		return t.Hour()
	}
	if h, err := utils.ParseHourSlot(p.DepartureTime); err == nil {
		return h
	}
	return 6
}

// Repurchase buys the next departure of a quick-purchase profile in one step.
func (s PaymentService) Repurchase(ctx context.Context, profileID string, in RepurchaseInput) (Receipt, error) {
	s.Bookings.RequestID = s.RequestID
	profile, err := s.Bookings.Get(ctx, profileID)
	if err != nil {
		return Receipt{}, err
	}
	if !profile.IsQuickPurchase {
		return Receipt{}, domain.ConflictError{Resource: "quick booking", Msg: "bukan profil quick purchase"}
	}

	next, err := utils.NextDeparture(s.Bookings.now(), profile.DaysOfWeek, profileHour(profile))
	if err != nil {
		return Receipt{}, domain.ValidationError{Field: "days_of_week", Msg: err.Error()}
	}
	method := profile.PaymentMethod
	if strings.TrimSpace(in.PaymentMethod) != "" {
		method = in.PaymentMethod
	}
	adults, children, infants := profile.Adults, profile.Children, profile.Infants

	return s.Complete(ctx, PaymentInput{
		Label:         profile.Label,
		Departure:     profile.Departure,
		Arrival:       profile.Arrival,
		TrainType:     profile.TrainType,
		TrainNo:       in.TrainNo,
		DepartureTime: utils.FormatCanonical(next),
		Adults:        &adults,
		Children:      &children,
		Infants:       &infants,
		DiscountID:    in.DiscountID,
		PaymentMethod: method,
		SeatProfile: SeatProfile{
			SeatClass:     profile.SeatClass,
			SeatPosition:  profile.SeatPosition,
			SeatDirection: profile.SeatDirection,
			CarNumber:     profile.CarNumber,
			SeatNumbers:   profile.SeatNumbers,
		},
	})
}
