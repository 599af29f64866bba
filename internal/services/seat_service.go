package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"quickrail/internal/cache"
	"quickrail/internal/domain"
	"quickrail/internal/domain/models"
	"quickrail/internal/utils"
)

const (
	TotalCars    = 10
	SeatsPerCar  = 63
	SeatsPerRow  = 4
	availableP   = 0.7
	seatCacheTTL = 15 * time.Minute
)

// SeatService draws demo seat maps and keeps them stable per train/date/car.
type SeatService struct {
	Cache     cache.Cache
	TTL       time.Duration
	RequestID string

	// Draw returns a value in [0,1); nil uses math/rand/v2.
	Draw func() float64
}

var drawMu sync.Mutex

func (s SeatService) draw() float64 {
	if s.Draw != nil {
		drawMu.Lock()
		defer drawMu.Unlock()
		return s.Draw()
	}
	return rand.Float64()
}

func seatMapKey(trainNo, date string, car int) string {
	return fmt.Sprintf("seatmap:%s:%s:%d", trainNo, date, car)
}

func validateSeatQuery(trainNo, date string, car int) (string, string, error) {
	trainNo = strings.TrimSpace(trainNo)
	if trainNo == "" {
		return "", "", domain.ValidationError{Field: "train_no", Msg: "wajib diisi"}
	}
	d, err := utils.ParseDate(date)
	if err != nil {
		return "", "", domain.ValidationError{Field: "date", Msg: "format harus YYYY-MM-DD"}
	}
	if car < 1 || car > TotalCars {
		return "", "", domain.ValidationError{Field: "car", Msg: "di luar rentang"}
	}
	return trainNo, utils.FormatDate(d), nil
}

// GenerateSeatMap lays out SeatsPerCar seats, four per row around one aisle.
// Each seat is available when draw() > 1-availableP.
func GenerateSeatMap(trainNo, date string, car int, draw func() float64) models.SeatMap {
	m := models.SeatMap{TrainNo: trainNo, Date: date, Car: car, TotalCars: TotalCars}
	m.Seats = make([]models.Seat, 0, SeatsPerCar)
	for n := 1; n <= SeatsPerCar; n++ {
		col := (n - 1) % SeatsPerRow
		side := "left"
		if col >= SeatsPerRow/2 {
			side = "right"
		}
		m.Seats = append(m.Seats, models.Seat{
			Number:    n,
			Row:       (n-1)/SeatsPerRow + 1,
			Column:    col,
			Side:      side,
			Window:    col == 0 || col == SeatsPerRow-1,
			Available: draw() > 1-availableP,
		})
	}
	return m
}

// SeatMap returns the cached map for a car, drawing a new one on miss.
func (s SeatService) SeatMap(ctx context.Context, trainNo, date string, car int) (models.SeatMap, error) {
	trainNo, date, err := validateSeatQuery(trainNo, date, car)
	if err != nil {
		return models.SeatMap{}, err
	}
	key := seatMapKey(trainNo, date, car)

	if s.Cache != nil {
		raw, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			utils.LogFailure(s.RequestID, "seat", "cache_get", err)
		}
		if ok {
			var m models.SeatMap
			if err := json.Unmarshal(raw, &m); err == nil {
				return m, nil
			}
		}
	}

	m := GenerateSeatMap(trainNo, date, car, s.draw)
	if s.Cache != nil {
		ttl := s.TTL
		if ttl <= 0 {
			ttl = seatCacheTTL
		}
		raw, _ := json.Marshal(m)
		if err := s.Cache.Set(ctx, key, raw, ttl); err != nil {
			utils.LogFailure(s.RequestID, "seat", "cache_set", err)
		}
	}
	return m, nil
}

// CheckSeats requires every seat to exist and be free on the car's map.
func (s SeatService) CheckSeats(ctx context.Context, trainNo, date string, car int, seats []int) error {
	m, err := s.SeatMap(ctx, trainNo, date, car)
	if err != nil {
		return err
	}
	for _, n := range seats {
		if n < 1 || n > len(m.Seats) {
			return domain.ValidationError{Field: "seat_numbers", Msg: fmt.Sprintf("kursi %d tidak ada", n)}
		}
		if !m.Seats[n-1].Available {
			return domain.ConflictError{Resource: "seat", Msg: fmt.Sprintf("kursi %d sudah terisi", n)}
		}
	}
	return nil
}

// Occupy marks seats as taken on the cached map after a purchase.
func (s SeatService) Occupy(ctx context.Context, trainNo, date string, car int, seats []int) error {
	m, err := s.SeatMap(ctx, trainNo, date, car)
	if err != nil {
		return err
	}
	for _, n := range seats {
		if n >= 1 && n <= len(m.Seats) {
			m.Seats[n-1].Available = false
		}
	}
	if s.Cache == nil {
		return nil
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = seatCacheTTL
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.Cache.Set(ctx, seatMapKey(m.TrainNo, m.Date, car), raw, ttl)
}
