package services

import (
	"context"
	"errors"
	"testing"

	"quickrail/internal/cache"
	"quickrail/internal/domain"
	"quickrail/internal/domain/models"
	"quickrail/internal/events"
	"quickrail/internal/utils"
)

type recordingPublisher struct {
	got []events.BookingCompleted
	err error
}

func (p *recordingPublisher) PublishBookingCompleted(_ context.Context, ev events.BookingCompleted) error {
	p.got = append(p.got, ev)
	return p.err
}

func newPaymentService(pub events.Publisher) PaymentService {
	return PaymentService{
		Bookings: newBookingService(),
		Seats:    SeatService{Cache: cache.NewLocal(), Draw: func() float64 { return 0.99 }},
		Events:   pub,
	}
}

func TestCompletePaymentRecordsHistory(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newPaymentService(pub)

	receipt, err := svc.Complete(context.Background(), PaymentInput{
		Departure:     "서울",
		Arrival:       "부산",
		TrainNo:       "101",
		DepartureTime: "2025.11.20(목) 10시 이후",
		Adults:        intPtr(1),
		Children:      intPtr(1),
		DiscountID:    "youth",
		PaymentMethod: "toss",
		SeatProfile:   SeatProfile{SeatClass: "general", CarNumber: 3, SeatNumbers: "6,5"},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	rec := receipt.Booking
	if rec.BookingStatus != domain.StatusCompleted || rec.Kind() != models.KindHistory {
		t.Fatalf("not a history record: %+v", rec)
	}
	if rec.TotalPrice != 95680 || receipt.Quote.Discount != 23920 {
		t.Fatalf("unexpected price %d / %+v", rec.TotalPrice, receipt.Quote)
	}
	if rec.DepartureTime != "2025-11-20 10:00" || rec.SeatNumbers != "5,6" || rec.PaymentMethod != "toss" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.PaymentDate == nil || !rec.PaymentDate.Equal(fixedNow) {
		t.Fatalf("payment_date not stamped: %v", rec.PaymentDate)
	}
	if len(pub.got) != 1 || pub.got[0].BookingID != rec.ID || pub.got[0].TotalPrice != 95680 {
		t.Fatalf("event not published: %+v", pub.got)
	}

	history, _ := svc.Bookings.RecentHistory(context.Background(), 10)
	if len(history) != 1 || history[0].ID != rec.ID {
		t.Fatalf("history listing got %+v", history)
	}
}

func TestCompletePaymentOccupiesSeats(t *testing.T) {
	svc := newPaymentService(nil)
	in := PaymentInput{
		Departure:     "서울",
		Arrival:       "대전",
		TrainNo:       "103",
		DepartureTime: "2025-11-20 08:00",
		SeatProfile:   SeatProfile{CarNumber: 2, SeatNumbers: "9"},
	}
	if _, err := svc.Complete(context.Background(), in); err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	if _, err := svc.Complete(context.Background(), in); !domain.IsConflict(err) {
		t.Fatalf("second purchase of the same seat should conflict, got %v", err)
	}
}

func TestCompletePaymentValidation(t *testing.T) {
	svc := newPaymentService(nil)
	base := PaymentInput{Departure: "서울", Arrival: "부산", DepartureTime: "2025-11-20 08:00"}

	noDate := base
	noDate.DepartureTime = "10시 이후"
	seatMismatch := base
	seatMismatch.Adults = intPtr(2)
	seatMismatch.SeatProfile = SeatProfile{CarNumber: 1, SeatNumbers: "1"}
	badDiscount := base
	badDiscount.DiscountID = "student"
	badMethod := base
	badMethod.PaymentMethod = "cash"
	empty := base
	empty.DepartureTime = ""

	for name, in := range map[string]PaymentInput{
		"no date": noDate, "seat mismatch": seatMismatch, "discount": badDiscount,
		"method": badMethod, "empty": empty,
	} {
		if _, err := svc.Complete(context.Background(), in); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestCompletePaymentIgnoresPublisherFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newPaymentService(pub)
	_, err := svc.Complete(context.Background(), PaymentInput{Departure: "서울", Arrival: "부산", DepartureTime: "2025-11-20 08:00"})
	if err != nil {
		t.Fatalf("publisher failure should not fail the payment: %v", err)
	}
}

func TestCompletePaymentSaveAsQuickPurchase(t *testing.T) {
	svc := newPaymentService(nil)
	receipt, err := svc.Complete(context.Background(), PaymentInput{
		Departure: "서울", Arrival: "부산", DepartureTime: "2025-11-20 08:00", SaveAsQuickPurchase: true,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if receipt.Booking.Kind() != models.KindBoth {
		t.Fatalf("expected history+quick_purchase, got %s", receipt.Booking.Kind())
	}
}

func TestRepurchaseUsesNextMatchingDay(t *testing.T) {
	svc := newPaymentService(nil)
	profile, err := svc.Bookings.RegisterQuickPurchase(context.Background(), RouteInput{
		Departure:     "용산",
		Arrival:       "광명",
		Adults:        intPtr(2),
		DepartureTime: "14시 이후",
		DaysOfWeek:    []string{"화"},
		PaymentMethod: "naverpay",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	receipt, err := svc.Repurchase(context.Background(), profile.ID, RepurchaseInput{DiscountID: "senior"})
	if err != nil {
		t.Fatalf("repurchase: %v", err)
	}
	rec := receipt.Booking
	// today is Tuesday, so the next Tuesday is a week away
	if rec.DepartureTime != "2025-11-25 14:00" {
		t.Fatalf("unexpected departure %q", rec.DepartureTime)
	}
	wantTotal := utils.BaseFare*2 - utils.BaseFare*2*3/10
	if rec.TotalPrice != wantTotal || rec.PaymentMethod != "naverpay" || rec.Adults != 2 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.IsQuickPurchase {
		t.Fatalf("repurchase entry should not become a second profile")
	}
}

func TestRepurchaseRequiresProfile(t *testing.T) {
	svc := newPaymentService(nil)
	plain, _ := svc.Bookings.AddRoute(context.Background(), route("r", "서울", "부산"))
	if _, err := svc.Repurchase(context.Background(), plain.ID, RepurchaseInput{}); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := svc.Repurchase(context.Background(), "ghost", RepurchaseInput{}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRepurchaseOnlyOwnProfile(t *testing.T) {
	owner := newPaymentService(nil)
	owner.Bookings.UserID = "alice"
	profile, err := owner.Bookings.RegisterQuickPurchase(context.Background(), route("", "서울", "부산"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	other := owner
	other.Bookings.UserID = "bob"
	if _, err := other.Repurchase(context.Background(), profile.ID, RepurchaseInput{}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found for another user's profile, got %v", err)
	}
	receipt, err := owner.Repurchase(context.Background(), profile.ID, RepurchaseInput{})
	if err != nil || receipt.Booking.UserID != "alice" {
		t.Fatalf("owner repurchase got %+v, %v", receipt.Booking, err)
	}
}

func TestQuoteFor(t *testing.T) {
	q, err := QuoteFor(3, "")
	if err != nil || q.Total != 179400 {
		t.Fatalf("got %+v, %v", q, err)
	}
	if _, err := QuoteFor(0, ""); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
