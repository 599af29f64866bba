package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"quickrail/internal/domain"
)

func TestTicketOnlyForCompletedBookings(t *testing.T) {
	pay := newPaymentService(nil)
	receipt, err := pay.Complete(context.Background(), PaymentInput{
		Departure:     "서울",
		Arrival:       "김천(구미)",
		DepartureTime: "2025-11-20 08:00",
		SeatProfile:   SeatProfile{SeatClass: "special", CarNumber: 2, SeatNumbers: "4"},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	svc := TicketService{Store: pay.Bookings.Store}

	pdf, name, err := svc.GenerateTicket(context.Background(), receipt.Booking.ID)
	if err != nil {
		t.Fatalf("ticket: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) || !strings.HasPrefix(name, "ETICKET_TCK-") || strings.ContainsAny(name, "()") {
		t.Fatalf("unexpected ticket %q (%d bytes)", name, len(pdf))
	}

	rcpt, name, err := svc.GenerateReceipt(context.Background(), receipt.Booking.ID)
	if err != nil || !bytes.HasPrefix(rcpt, []byte("%PDF")) || !strings.HasPrefix(name, "RECEIPT_") {
		t.Fatalf("receipt got %q, %v", name, err)
	}

	route, _ := pay.Bookings.AddRoute(context.Background(), route("r", "서울", "부산"))
	if _, _, err := svc.GenerateTicket(context.Background(), route.ID); !domain.IsConflict(err) {
		t.Fatalf("expected conflict for unpaid record, got %v", err)
	}
	if _, _, err := svc.GenerateTicket(context.Background(), "ghost"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	svc.UserID = "someone-else"
	if _, _, err := svc.GenerateReceipt(context.Background(), receipt.Booking.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected not found for another user, got %v", err)
	}
}

func TestLatinTransliteration(t *testing.T) {
	if latin("특실") != "First class" || latin("부산") != "Busan" || latin("Jeonju") != "Jeonju" {
		t.Fatalf("unexpected transliteration")
	}
	if got := formatKRW(59800); got != "KRW 59,800" {
		t.Fatalf("formatKRW got %q", got)
	}
}
