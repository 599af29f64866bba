package services

import (
	"fmt"
	"strings"

	"quickrail/internal/domain"
	"quickrail/internal/utils"
)

// SeatProfile is the seat preference part of a quick-purchase profile or booking.
type SeatProfile struct {
	SeatClass     string `json:"seat_class"`
	SeatPosition  string `json:"seat_position"`
	SeatDirection string `json:"seat_direction"`
	CarNumber     int    `json:"car_number"`
	SeatNumbers   string `json:"seat_numbers"`
}

var (
	seatClassAliases = map[string]string{
		"":                      "",
		"general":               domain.SeatClassGeneral,
		"일반":                    domain.SeatClassGeneral,
		domain.SeatClassGeneral: domain.SeatClassGeneral,
		"special":               domain.SeatClassSpecial,
		"first":                 domain.SeatClassSpecial,
		domain.SeatClassSpecial: domain.SeatClassSpecial,
	}
	seatDirectionAliases = map[string]string{
		"":                           "",
		"forward":                    domain.SeatDirectionForward,
		domain.SeatDirectionForward:  domain.SeatDirectionForward,
		"backward":                   domain.SeatDirectionBackward,
		domain.SeatDirectionBackward: domain.SeatDirectionBackward,
	}
	seatPositionAliases = map[string]string{
		"":                        "",
		"window":                  domain.SeatPositionWindow,
		domain.SeatPositionWindow: domain.SeatPositionWindow,
		"aisle":                   domain.SeatPositionAisle,
		domain.SeatPositionAisle:  domain.SeatPositionAisle,
	}
)

// Normalize maps UI aliases to stored values and checks car/seat ranges.
func (p SeatProfile) Normalize() (SeatProfile, []int, error) {
	var ok bool
	out := p
	if out.SeatClass, ok = seatClassAliases[strings.ToLower(strings.TrimSpace(p.SeatClass))]; !ok {
		return out, nil, domain.ValidationError{Field: "seat_class", Msg: "tidak dikenal"}
	}
	if out.SeatDirection, ok = seatDirectionAliases[strings.ToLower(strings.TrimSpace(p.SeatDirection))]; !ok {
		return out, nil, domain.ValidationError{Field: "seat_direction", Msg: "tidak dikenal"}
	}
	if out.SeatPosition, ok = seatPositionAliases[strings.ToLower(strings.TrimSpace(p.SeatPosition))]; !ok {
		return out, nil, domain.ValidationError{Field: "seat_position", Msg: "tidak dikenal"}
	}
	if p.CarNumber < 0 || p.CarNumber > TotalCars {
		return out, nil, domain.ValidationError{Field: "car_number", Msg: "di luar rentang"}
	}

	seats, err := utils.SplitSeatNumbers(p.SeatNumbers)
	if err != nil {
		return out, nil, domain.ValidationError{Field: "seat_numbers", Msg: err.Error()}
	}
	for _, n := range seats {
		if n > SeatsPerCar {
			return out, nil, domain.ValidationError{Field: "seat_numbers", Msg: "nomor kursi di luar rentang"}
		}
	}
	if len(seats) > 0 && p.CarNumber == 0 {
		return out, nil, domain.ValidationError{Field: "car_number", Msg: "wajib diisi bila ada nomor kursi"}
	}
	out.SeatNumbers = utils.JoinSeatNumbers(seats)
	return out, seats, nil
}

func normalizePaymentMethod(m string) (string, error) {
	m = strings.ToLower(strings.TrimSpace(m))
	if m == "" {
		return "", nil
	}
	if _, ok := domain.PaymentMethods[m]; !ok {
		return "", domain.ValidationError{Field: "payment_method", Msg: "tidak dikenal"}
	}
	return m, nil
}

func normalizeDays(days []string) ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	// keep Monday-first order like the picker
	order := []string{"월", "화", "수", "목", "금", "토", "일"}
	for _, d := range days {
		wd, ok := utils.ParseWeekday(d)
		if !ok {
			return nil, domain.ValidationError{Field: "days_of_week", Msg: "hari tidak dikenal: " + d}
		}
		seen[utils.WeekdayLetter(wd)] = true
	}
	for _, l := range order {
		if seen[l] {
			out = append(out, l)
		}
	}
	return out, nil
}

func normalizeTrainType(t string) string {
	t = strings.ToUpper(strings.TrimSpace(t))
	if t == "" {
		return domain.DefaultTrainType
	}
	return t
}

// normalizeDepartureTime stores full dates as "YYYY-MM-DD HH:MM" and bare
// time slots of recurring profiles as "HH:00".
func normalizeDepartureTime(s string) (string, error) {
	v, err := utils.NormalizeDepartureTime(s)
	if err == nil {
		return v, nil
	}
	if h, herr := utils.ParseHourSlot(s); herr == nil {
		return fmt.Sprintf("%02d:00", h), nil
	}
	return "", domain.ValidationError{Field: "departure_time", Msg: err.Error()}
}
