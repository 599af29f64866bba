package services

import (
	"context"
	"reflect"
	"testing"

	"quickrail/internal/cache"
	"quickrail/internal/domain"
)

// sequence cycles through vals so every call to draw differs from the last.
func sequence(vals ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := vals[i%len(vals)]
		i++
		return v
	}
}

func TestGenerateSeatMapLayout(t *testing.T) {
	m := GenerateSeatMap("101", "2025-11-20", 1, func() float64 { return 0.5 })
	if len(m.Seats) != SeatsPerCar || m.TotalCars != TotalCars {
		t.Fatalf("unexpected layout: %d seats, %d cars", len(m.Seats), m.TotalCars)
	}
	windows := []int{}
	for _, s := range m.Seats[:8] {
		if s.Window {
			windows = append(windows, s.Number)
		}
	}
	if !reflect.DeepEqual(windows, []int{1, 4, 5, 8}) {
		t.Fatalf("window seats %v", windows)
	}
	last := m.Seats[SeatsPerCar-1]
	if last.Number != 63 || last.Row != 16 || last.Column != 2 || last.Side != "right" {
		t.Fatalf("unexpected last seat %+v", last)
	}
	if m.AvailableCount() != SeatsPerCar {
		t.Fatalf("draw 0.5 should leave every seat available")
	}
}

func TestGenerateSeatMapThreshold(t *testing.T) {
	m := GenerateSeatMap("101", "2025-11-20", 1, sequence(0.2, 0.3, 0.31))
	if m.Seats[0].Available || m.Seats[1].Available || !m.Seats[2].Available {
		t.Fatalf("availability should require draw > 0.3: %+v", m.Seats[:3])
	}
}

func TestSeatMapStableWithinCache(t *testing.T) {
	svc := SeatService{Cache: cache.NewLocal(), Draw: sequence(0.1, 0.9, 0.5, 0.2, 0.7)}
	first, err := svc.SeatMap(context.Background(), "101", "2025-11-20", 3)
	if err != nil {
		t.Fatalf("seat map: %v", err)
	}
	second, _ := svc.SeatMap(context.Background(), "101", "2025-11-20", 3)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached map changed between calls")
	}
	other, _ := svc.SeatMap(context.Background(), "101", "2025-11-20", 4)
	if other.Car != 4 {
		t.Fatalf("wrong car %d", other.Car)
	}
}

func TestSeatMapValidation(t *testing.T) {
	svc := SeatService{}
	for _, tc := range []struct {
		train, date string
		car         int
	}{
		{"", "2025-11-20", 1},
		{"101", "20251120", 1},
		{"101", "2025-11-20", 0},
		{"101", "2025-11-20", 11},
	} {
		if _, err := svc.SeatMap(context.Background(), tc.train, tc.date, tc.car); !domain.IsValidation(err) {
			t.Fatalf("%+v: expected validation error, got %v", tc, err)
		}
	}
}

func TestCheckSeats(t *testing.T) {
	svc := SeatService{Cache: cache.NewLocal(), Draw: sequence(0.9, 0.1)}
	// odd seats available, even seats taken
	if err := svc.CheckSeats(context.Background(), "101", "2025-11-20", 1, []int{1, 3}); err != nil {
		t.Fatalf("free seats rejected: %v", err)
	}
	if err := svc.CheckSeats(context.Background(), "101", "2025-11-20", 1, []int{1, 2}); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := svc.CheckSeats(context.Background(), "101", "2025-11-20", 1, []int{64}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
