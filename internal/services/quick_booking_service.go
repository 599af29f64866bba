package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"quickrail/internal/domain"
	"quickrail/internal/domain/models"
	"quickrail/internal/utils"

	"github.com/google/uuid"
)

// orderMu serializes the max(order_index)+1 read and the insert within one process.
var orderMu sync.Mutex

// QuickBookingService owns saved routes, quick-purchase profiles and history rows.
type QuickBookingService struct {
	Store     QuickBookingStore
	RequestID string
	UserID    string
	Now       func() time.Time
}

// RouteInput is the create payload shared by saved routes and profiles.
type RouteInput struct {
	Label           string   `json:"label"`
	Departure       string   `json:"departure"`
	Arrival         string   `json:"arrival"`
	TrainType       string   `json:"train_type"`
	Adults          *int     `json:"adults"`
	Children        *int     `json:"children"`
	Infants         *int     `json:"infants"`
	DepartureTime   string   `json:"departure_time"`
	DaysOfWeek      []string `json:"days_of_week"`
	PaymentMethod   string   `json:"payment_method"`
	IsQuickPurchase bool     `json:"is_quick_purchase"`
	SeatProfile
}

func (s QuickBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// filter scopes f to the caller: a user sees only their records, an anonymous
// caller only unowned ones.
func (s QuickBookingService) filter(f domain.Filter) domain.Filter {
	f.UserID = s.UserID
	f.Anonymous = s.UserID == ""
	return f
}

// ListRoutes never fails: a store error is logged and yields an empty list.
func (s QuickBookingService) ListRoutes(ctx context.Context, f domain.Filter) []models.QuickBooking {
	rows, err := s.Store.List(ctx, s.filter(f))
	if err != nil {
		utils.LogFailure(s.RequestID, "quick_booking", "list", err)
		return []models.QuickBooking{}
	}
	return rows
}

func (s QuickBookingService) Get(ctx context.Context, id string) (models.QuickBooking, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.QuickBooking{}, domain.ValidationError{Field: "id", Msg: "wajib diisi"}
	}
	rec, err := s.Store.GetByID(ctx, id)
	if err != nil {
		return models.QuickBooking{}, err
	}
	// someone else's record looks the same as a missing one
	if rec.UserID != s.UserID {
		return models.QuickBooking{}, domain.NotFoundError{Resource: "quick booking"}
	}
	return rec, nil
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// build validates input and fills defaults. The returned record has no id or order yet.
func (s QuickBookingService) build(in RouteInput, requireLabel bool) (models.QuickBooking, error) {
	route := domain.Route{Departure: strings.TrimSpace(in.Departure), Arrival: strings.TrimSpace(in.Arrival)}
	label := utils.NormalizeSpace(in.Label)
	if label == "" {
		if requireLabel {
			return models.QuickBooking{}, domain.ValidationError{Field: "label", Msg: "wajib diisi"}
		}
		label = route.Departure + " → " + route.Arrival
	}
	if err := route.Validate(); err != nil {
		return models.QuickBooking{}, err
	}
	pax := domain.Passengers{
		Adults:   intOr(in.Adults, 1),
		Children: intOr(in.Children, 0),
		Infants:  intOr(in.Infants, 0),
	}
	if err := pax.Validate(); err != nil {
		return models.QuickBooking{}, err
	}

	rec := models.QuickBooking{
		UserID:          s.UserID,
		Label:           label,
		Departure:       route.Departure,
		Arrival:         route.Arrival,
		TrainType:       normalizeTrainType(in.TrainType),
		Adults:          pax.Adults,
		Children:        pax.Children,
		Infants:         pax.Infants,
		IsQuickPurchase: in.IsQuickPurchase,
		DaysOfWeek:      models.Weekdays{},
	}

	var err error
	if strings.TrimSpace(in.DepartureTime) != "" {
		if rec.DepartureTime, err = normalizeDepartureTime(in.DepartureTime); err != nil {
			return rec, err
		}
	}
	days, err := normalizeDays(in.DaysOfWeek)
	if err != nil {
		return rec, err
	}
	rec.DaysOfWeek = days
	seat, _, err := in.SeatProfile.Normalize()
	if err != nil {
		return rec, err
	}
	rec.SeatClass = seat.SeatClass
	rec.SeatPosition = seat.SeatPosition
	rec.SeatDirection = seat.SeatDirection
	rec.CarNumber = seat.CarNumber
	rec.SeatNumbers = seat.SeatNumbers
	if rec.PaymentMethod, err = normalizePaymentMethod(in.PaymentMethod); err != nil {
		return rec, err
	}
	return rec, nil
}

// create assigns id, order_index and timestamps, then inserts.
func (s QuickBookingService) create(ctx context.Context, rec models.QuickBooking) (models.QuickBooking, error) {
	orderMu.Lock()
	defer orderMu.Unlock()

	max, err := s.Store.MaxOrderIndex(ctx)
	if err != nil {
		return rec, fmt.Errorf("order index: %w", err)
	}
	now := s.now()
	rec.ID = uuid.NewString()
	rec.OrderIndex = max + 1
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if err := s.Store.Insert(ctx, rec); err != nil {
		return rec, err
	}
	utils.LogEvent(s.RequestID, "quick_booking", "create", "id="+rec.ID+" kind="+rec.Kind())
	return rec, nil
}

// AddRoute saves a route with defaults KTX and one adult, appended to the end.
func (s QuickBookingService) AddRoute(ctx context.Context, in RouteInput) (models.QuickBooking, error) {
	rec, err := s.build(in, true)
	if err != nil {
		return rec, err
	}
	return s.create(ctx, rec)
}

// RegisterQuickPurchase stores a one-tap purchase profile.
func (s QuickBookingService) RegisterQuickPurchase(ctx context.Context, in RouteInput) (models.QuickBooking, error) {
	in.IsQuickPurchase = true
	rec, err := s.build(in, false)
	if err != nil {
		return rec, err
	}
	if rec.PaymentMethod == "" {
		rec.PaymentMethod = domain.DefaultPaymentMethod
	}
	return s.create(ctx, rec)
}

// UpdateRoute applies a partial update after validating the merged result.
func (s QuickBookingService) UpdateRoute(ctx context.Context, id string, p models.QuickBookingPatch) (models.QuickBooking, error) {
	if p.Empty() {
		return models.QuickBooking{}, domain.ValidationError{Msg: "tidak ada field yang diubah"}
	}
	cur, err := s.Get(ctx, id)
	if err != nil {
		return cur, err
	}
	if err := normalizePatch(&p); err != nil {
		return cur, err
	}

	merged := cur
	p.Apply(&merged)
	if strings.TrimSpace(merged.Label) == "" {
		return cur, domain.ValidationError{Field: "label", Msg: "wajib diisi"}
	}
	if err := (domain.Route{Departure: merged.Departure, Arrival: merged.Arrival}).Validate(); err != nil {
		return cur, err
	}
	pax := domain.Passengers{Adults: merged.Adults, Children: merged.Children, Infants: merged.Infants}
	if err := pax.Validate(); err != nil {
		return cur, err
	}
	if merged.SeatNumbers != "" && merged.CarNumber == 0 {
		return cur, domain.ValidationError{Field: "car_number", Msg: "wajib diisi bila ada nomor kursi"}
	}

	out, err := s.Store.Update(ctx, cur.ID, p, s.now())
	if err != nil {
		return out, err
	}
	utils.LogEvent(s.RequestID, "quick_booking", "update", "id="+cur.ID)
	return out, nil
}

func normalizePatch(p *models.QuickBookingPatch) error {
	if p.Label != nil {
		v := utils.NormalizeSpace(*p.Label)
		p.Label = &v
	}
	if p.TrainType != nil {
		v := normalizeTrainType(*p.TrainType)
		p.TrainType = &v
	}
	if p.DepartureTime != nil && strings.TrimSpace(*p.DepartureTime) != "" {
		v, err := normalizeDepartureTime(*p.DepartureTime)
		if err != nil {
			return err
		}
		p.DepartureTime = &v
	}
	if p.DaysOfWeek != nil {
		days, err := normalizeDays(*p.DaysOfWeek)
		if err != nil {
			return err
		}
		w := models.Weekdays(days)
		p.DaysOfWeek = &w
	}

	seat := SeatProfile{}
	if p.SeatClass != nil {
		seat.SeatClass = *p.SeatClass
	}
	if p.SeatPosition != nil {
		seat.SeatPosition = *p.SeatPosition
	}
	if p.SeatDirection != nil {
		seat.SeatDirection = *p.SeatDirection
	}
	if p.CarNumber != nil {
		seat.CarNumber = *p.CarNumber
	}
	if p.SeatNumbers != nil {
		seat.SeatNumbers = *p.SeatNumbers
		if seat.CarNumber == 0 {
			// range check only; car presence is checked on the merged record
			seat.CarNumber = 1
		}
	}
	norm, _, err := seat.Normalize()
	if err != nil {
		return err
	}
	if p.SeatClass != nil {
		p.SeatClass = &norm.SeatClass
	}
	if p.SeatPosition != nil {
		p.SeatPosition = &norm.SeatPosition
	}
	if p.SeatDirection != nil {
		p.SeatDirection = &norm.SeatDirection
	}
	if p.SeatNumbers != nil {
		p.SeatNumbers = &norm.SeatNumbers
	}

	if p.PaymentMethod != nil {
		v, err := normalizePaymentMethod(*p.PaymentMethod)
		if err != nil {
			return err
		}
		p.PaymentMethod = &v
	}
	if p.BookingStatus != nil {
		v := strings.ToLower(strings.TrimSpace(*p.BookingStatus))
		p.BookingStatus = &v
	}
	if p.TotalPrice != nil && *p.TotalPrice < 0 {
		return domain.ValidationError{Field: "total_price", Msg: "tidak boleh negatif"}
	}
	return nil
}

func (s QuickBookingService) DeleteRoute(ctx context.Context, id string) error {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, cur.ID); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "quick_booking", "delete", "id="+cur.ID)
	return nil
}

// DeleteRoutes removes exactly the given ids and reports the deleted count.
func (s QuickBookingService) DeleteRoutes(ctx context.Context, ids []string) (int64, error) {
	clean := uniqueIDs(ids)
	if len(clean) == 0 {
		return 0, domain.ValidationError{Field: "ids", Msg: "wajib diisi"}
	}
	n, err := s.Store.DeleteMany(ctx, s.filter(domain.Filter{}), clean)
	if err != nil {
		return 0, err
	}
	utils.LogEvent(s.RequestID, "quick_booking", "bulk_delete", fmt.Sprintf("requested=%d deleted=%d", len(clean), n))
	return n, nil
}

// ToggleQuickPurchase flips is_quick_purchase.
func (s QuickBookingService) ToggleQuickPurchase(ctx context.Context, id string) (models.QuickBooking, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return cur, err
	}
	return s.SetQuickPurchase(ctx, cur.ID, !cur.IsQuickPurchase)
}

func (s QuickBookingService) SetQuickPurchase(ctx context.Context, id string, value bool) (models.QuickBooking, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return cur, err
	}
	out, err := s.Store.Update(ctx, cur.ID, models.QuickBookingPatch{IsQuickPurchase: &value}, s.now())
	if err != nil {
		return out, err
	}
	utils.LogEvent(s.RequestID, "quick_booking", "quick_purchase", fmt.Sprintf("id=%s value=%t", out.ID, value))
	return out, nil
}

// Reorder puts ids first, in the given order, and the caller's remaining
// records after them in their current order, renumbering all of them 1..n.
func (s QuickBookingService) Reorder(ctx context.Context, ids []string) error {
	clean := uniqueIDs(ids)
	if len(clean) == 0 {
		return domain.ValidationError{Field: "ids", Msg: "wajib diisi"}
	}
	if len(clean) != len(ids) {
		return domain.ValidationError{Field: "ids", Msg: "id ganda"}
	}
	orderMu.Lock()
	defer orderMu.Unlock()

	rows, err := s.Store.List(ctx, s.filter(domain.Filter{}))
	if err != nil {
		return err
	}
	mine := make(map[string]bool, len(rows))
	for _, r := range rows {
		mine[r.ID] = true
	}
	listed := make(map[string]bool, len(clean))
	for _, id := range clean {
		if !mine[id] {
			return domain.NotFoundError{Resource: "quick booking " + id}
		}
		listed[id] = true
	}
	full := append([]string{}, clean...)
	for _, r := range rows {
		if !listed[r.ID] {
			full = append(full, r.ID)
		}
	}
	if err := s.Store.SetOrder(ctx, full, s.now()); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "quick_booking", "reorder", fmt.Sprintf("listed=%d total=%d", len(clean), len(full)))
	return nil
}

// RecentHistory lists completed bookings, newest first.
func (s QuickBookingService) RecentHistory(ctx context.Context, limit int) ([]models.QuickBooking, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.Store.Recent(ctx, s.filter(domain.Filter{Status: domain.StatusCompleted}), limit)
}

// Recent lists any records newest first.
func (s QuickBookingService) Recent(ctx context.Context, f domain.Filter, limit int) ([]models.QuickBooking, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.Store.Recent(ctx, s.filter(f), limit)
}

func uniqueIDs(ids []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
