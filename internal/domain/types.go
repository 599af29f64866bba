package domain

import "strings"

// Route is a departure/arrival station pair.
type Route struct {
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
}

// Swap exchanges both ends of the route.
func (r Route) Swap() Route {
	return Route{Departure: r.Arrival, Arrival: r.Departure}
}

// Validate requires both stations and rejects a route onto itself.
func (r Route) Validate() error {
	dep := strings.TrimSpace(r.Departure)
	arr := strings.TrimSpace(r.Arrival)
	if dep == "" {
		return ValidationError{Field: "departure", Msg: "wajib diisi"}
	}
	if arr == "" {
		return ValidationError{Field: "arrival", Msg: "wajib diisi"}
	}
	if dep == arr {
		return ValidationError{Field: "arrival", Msg: "harus berbeda dengan departure"}
	}
	return nil
}

// Passengers counts travellers by fare category.
type Passengers struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

func (p Passengers) Total() int {
	return p.Adults + p.Children + p.Infants
}

func (p Passengers) Validate() error {
	if p.Adults < 0 || p.Children < 0 || p.Infants < 0 {
		return ValidationError{Field: "passengers", Msg: "jumlah tidak boleh negatif"}
	}
	if p.Total() == 0 {
		return ValidationError{Field: "passengers", Msg: "minimal satu penumpang"}
	}
	if p.Total() > MaxPassengers {
		return ValidationError{Field: "passengers", Msg: "melebihi batas penumpang"}
	}
	return nil
}

// MaxPassengers caps a single booking (one car row block).
const MaxPassengers = 9

// Filter narrows a quick booking listing. Nil pointers mean "any".
type Filter struct {
	QuickPurchase *bool
	Status        string
	UserID        string

	// Anonymous limits to records without an owner; ignored when UserID is set.
	Anonymous bool
}
