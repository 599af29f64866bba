package models

// Seat is one position on a car map.
type Seat struct {
	Number    int    `json:"number"`
	Row       int    `json:"row"`
	Column    int    `json:"column"`
	Side      string `json:"side"` // left / right of the aisle
	Window    bool   `json:"window"`
	Available bool   `json:"available"`
}

// SeatMap is the generated layout of one car for one train on one date.
type SeatMap struct {
	TrainNo   string `json:"train_no"`
	Date      string `json:"date"`
	Car       int    `json:"car"`
	TotalCars int    `json:"total_cars"`
	Seats     []Seat `json:"seats"`
}

func (m SeatMap) AvailableCount() int {
	n := 0
	for _, s := range m.Seats {
		if s.Available {
			n++
		}
	}
	return n
}

// TrainSchedule is one row of the search results.
type TrainSchedule struct {
	TrainNo         string `json:"train_no"`
	TrainType       string `json:"train_type"`
	Departure       string `json:"departure"`
	Arrival         string `json:"arrival"`
	TravelDate      string `json:"travel_date"`
	DepartureTime   string `json:"departure_time"`
	ArrivalTime     string `json:"arrival_time"`
	DurationMinutes int    `json:"duration_minutes"`
	RegularPrice    int64  `json:"regular_price"`
	FirstClassPrice int64  `json:"first_class_price,omitempty"`
	HasRegular      bool   `json:"has_regular_seats"`
	HasFirstClass   bool   `json:"has_first_class_seats"`
}
