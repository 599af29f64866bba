package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intconfig "quickrail/internal/config"
	intdb "quickrail/internal/db"
	"quickrail/internal/domain"
	"quickrail/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const quickBookingTable = "quick_bookings"

// nullable columns are coalesced so models stay free of sql.Null* wrappers.
const quickBookingColumns = `
	id,
	COALESCE(user_id, '') AS user_id,
	label, departure, arrival, train_type,
	adults, children, infants,
	COALESCE(departure_time, '') AS departure_time,
	COALESCE(days_of_week, '') AS days_of_week,
	COALESCE(seat_class, '') AS seat_class,
	COALESCE(seat_position, '') AS seat_position,
	COALESCE(seat_direction, '') AS seat_direction,
	COALESCE(car_number, 0) AS car_number,
	COALESCE(seat_numbers, '') AS seat_numbers,
	COALESCE(payment_method, '') AS payment_method,
	is_quick_purchase,
	COALESCE(booking_status, '') AS booking_status,
	COALESCE(total_price, 0) AS total_price,
	payment_date,
	order_index, created_at, updated_at`

// QuickBookingRepository is the SQL backend of quick_bookings (MySQL or Postgres).
type QuickBookingRepository struct {
	DB *sqlx.DB
}

func (r QuickBookingRepository) db() (*sqlx.DB, error) {
	if r.DB != nil {
		return r.DB, nil
	}
	if intconfig.DB != nil {
		return intconfig.DB, nil
	}
	return nil, fmt.Errorf("db tidak tersedia")
}

func filterConds(f domain.Filter) ([]string, []any) {
	conds := []string{}
	args := []any{}
	if f.QuickPurchase != nil {
		conds = append(conds, "is_quick_purchase = ?")
		args = append(args, *f.QuickPurchase)
	}
	if s := strings.TrimSpace(f.Status); s != "" {
		conds = append(conds, "booking_status = ?")
		args = append(args, s)
	}
	if u := strings.TrimSpace(f.UserID); u != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, u)
	} else if f.Anonymous {
		conds = append(conds, "user_id IS NULL")
	}
	return conds, args
}

func whereFilter(f domain.Filter) (string, []any) {
	conds, args := filterConds(f)
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns records in manual order.
func (r QuickBookingRepository) List(ctx context.Context, f domain.Filter) ([]models.QuickBooking, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	where, args := whereFilter(f)
	query := `SELECT ` + quickBookingColumns + ` FROM ` + quickBookingTable + where +
		` ORDER BY order_index ASC, created_at ASC`

	out := []models.QuickBooking{}
	if err := db.SelectContext(ctx, &out, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list quick bookings: %w", err)
	}
	return out, nil
}

// Recent returns the newest records first.
func (r QuickBookingRepository) Recent(ctx context.Context, f domain.Filter, limit int) ([]models.QuickBooking, error) {
	db, err := r.db()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	where, args := whereFilter(f)
	args = append(args, limit)
	query := `SELECT ` + quickBookingColumns + ` FROM ` + quickBookingTable + where +
		` ORDER BY created_at DESC LIMIT ?`

	out := []models.QuickBooking{}
	if err := db.SelectContext(ctx, &out, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("recent quick bookings: %w", err)
	}
	return out, nil
}

func (r QuickBookingRepository) GetByID(ctx context.Context, id string) (models.QuickBooking, error) {
	var out models.QuickBooking
	db, err := r.db()
	if err != nil {
		return out, err
	}
	query := `SELECT ` + quickBookingColumns + ` FROM ` + quickBookingTable + ` WHERE id = ? LIMIT 1`
	if err := db.GetContext(ctx, &out, db.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return out, domain.NotFoundError{Resource: "quick booking", Err: err}
		}
		return out, fmt.Errorf("get quick booking: %w", err)
	}
	return out, nil
}

// MaxOrderIndex returns the highest order_index, 0 for an empty table.
func (r QuickBookingRepository) MaxOrderIndex(ctx context.Context) (int, error) {
	db, err := r.db()
	if err != nil {
		return 0, err
	}
	var max int
	if err := db.GetContext(ctx, &max, `SELECT COALESCE(MAX(order_index), 0) FROM `+quickBookingTable); err != nil {
		return 0, fmt.Errorf("max order_index: %w", err)
	}
	return max, nil
}

func (r QuickBookingRepository) Insert(ctx context.Context, q models.QuickBooking) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	days, _ := q.DaysOfWeek.Value()

	var car, price any
	if q.CarNumber > 0 {
		car = q.CarNumber
	}
	if q.TotalPrice > 0 {
		price = q.TotalPrice
	}

	query := `INSERT INTO ` + quickBookingTable + ` (
		id, user_id, label, departure, arrival, train_type,
		adults, children, infants,
		departure_time, days_of_week,
		seat_class, seat_position, seat_direction, car_number, seat_numbers,
		payment_method, is_quick_purchase, booking_status, total_price, payment_date,
		order_index, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = db.ExecContext(ctx, db.Rebind(query),
		q.ID, intdb.NullIfEmpty(q.UserID), q.Label, q.Departure, q.Arrival, q.TrainType,
		q.Adults, q.Children, q.Infants,
		intdb.NullIfEmpty(q.DepartureTime), days,
		intdb.NullIfEmpty(q.SeatClass), intdb.NullIfEmpty(q.SeatPosition), intdb.NullIfEmpty(q.SeatDirection), car, intdb.NullIfEmpty(q.SeatNumbers),
		intdb.NullIfEmpty(q.PaymentMethod), q.IsQuickPurchase, intdb.NullIfEmpty(q.BookingStatus), price, q.PaymentDate,
		q.OrderIndex, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quick booking: %w", err)
	}
	return nil
}

// Update performs PATCH-style updates based on key presence and stamps updated_at.
func (r QuickBookingRepository) Update(ctx context.Context, id string, p models.QuickBookingPatch, now time.Time) (models.QuickBooking, error) {
	db, err := r.db()
	if err != nil {
		return models.QuickBooking{}, err
	}

	sets := []string{}
	args := []any{}
	str := func(col string, v *string, nullable bool) {
		if v == nil {
			return
		}
		sets = append(sets, col+" = ?")
		val := strings.TrimSpace(*v)
		if nullable {
			args = append(args, intdb.NullIfEmpty(val))
			return
		}
		args = append(args, val)
	}
	num := func(col string, v *int) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
		}
	}

	str("label", p.Label, false)
	str("departure", p.Departure, false)
	str("arrival", p.Arrival, false)
	str("train_type", p.TrainType, false)
	num("adults", p.Adults)
	num("children", p.Children)
	num("infants", p.Infants)
	str("departure_time", p.DepartureTime, true)
	if p.DaysOfWeek != nil {
		days, _ := p.DaysOfWeek.Value()
		sets = append(sets, "days_of_week = ?")
		args = append(args, days)
	}
	str("seat_class", p.SeatClass, true)
	str("seat_position", p.SeatPosition, true)
	str("seat_direction", p.SeatDirection, true)
	if p.CarNumber != nil {
		sets = append(sets, "car_number = ?")
		if *p.CarNumber > 0 {
			args = append(args, *p.CarNumber)
		} else {
			args = append(args, nil)
		}
	}
	str("seat_numbers", p.SeatNumbers, true)
	str("payment_method", p.PaymentMethod, true)
	if p.IsQuickPurchase != nil {
		sets = append(sets, "is_quick_purchase = ?")
		args = append(args, *p.IsQuickPurchase)
	}
	str("booking_status", p.BookingStatus, true)
	if p.TotalPrice != nil {
		sets = append(sets, "total_price = ?")
		args = append(args, *p.TotalPrice)
	}
	if p.PaymentDate != nil {
		sets = append(sets, "payment_date = ?")
		args = append(args, *p.PaymentDate)
	}
	num("order_index", p.OrderIndex)

	sets = append(sets, "updated_at = ?")
	args = append(args, now)
	args = append(args, id)

	query := `UPDATE ` + quickBookingTable + ` SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	if _, err := db.ExecContext(ctx, db.Rebind(query), args...); err != nil {
		return models.QuickBooking{}, fmt.Errorf("update quick booking: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r QuickBookingRepository) Delete(ctx context.Context, id string) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM `+quickBookingTable+` WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete quick booking: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "quick booking"}
	}
	return nil
}

// DeleteMany removes exactly the listed ids that also match f and reports how
// many rows went away.
func (r QuickBookingRepository) DeleteMany(ctx context.Context, f domain.Filter, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db, err := r.db()
	if err != nil {
		return 0, err
	}
	conds, fargs := filterConds(f)
	conds = append([]string{"id IN (?)"}, conds...)
	query, args, err := sqlx.In(`DELETE FROM `+quickBookingTable+` WHERE `+strings.Join(conds, " AND "), append([]any{ids}, fargs...)...)
	if err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}
	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// SetOrder rewrites order_index to 1..n following ids, in one transaction.
func (r QuickBookingRepository) SetOrder(ctx context.Context, ids []string, now time.Time) error {
	db, err := r.db()
	if err != nil {
		return err
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reorder: %w", err)
	}
	stmt := tx.Rebind(`UPDATE ` + quickBookingTable + ` SET order_index = ?, updated_at = ? WHERE id = ?`)
	for i, id := range ids {
		res, err := tx.ExecContext(ctx, stmt, i+1, now, id)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("reorder: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			_ = tx.Rollback()
			return domain.NotFoundError{Resource: "quick booking " + id}
		}
	}
	return tx.Commit()
}
