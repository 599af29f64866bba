package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

const mysqlQuickBookings = `
CREATE TABLE IF NOT EXISTS quick_bookings (
	id CHAR(36) NOT NULL PRIMARY KEY,
	user_id CHAR(36) NULL,
	label VARCHAR(100) NOT NULL,
	departure VARCHAR(100) NOT NULL,
	arrival VARCHAR(100) NOT NULL,
	train_type VARCHAR(20) NOT NULL DEFAULT 'KTX',
	adults INT NOT NULL DEFAULT 1,
	children INT NOT NULL DEFAULT 0,
	infants INT NOT NULL DEFAULT 0,
	departure_time VARCHAR(32) NULL,
	days_of_week VARCHAR(64) NULL,
	seat_class VARCHAR(20) NULL,
	seat_position VARCHAR(20) NULL,
	seat_direction VARCHAR(20) NULL,
	car_number INT NULL,
	seat_numbers VARCHAR(255) NULL,
	payment_method VARCHAR(32) NULL,
	is_quick_purchase TINYINT(1) NOT NULL DEFAULT 0,
	booking_status VARCHAR(32) NULL,
	total_price BIGINT NULL,
	payment_date TIMESTAMP NULL,
	order_index INT NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_order (order_index),
	KEY idx_user (user_id),
	KEY idx_status (booking_status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`

const mysqlUsers = `
CREATE TABLE IF NOT EXISTS users (
	id CHAR(36) NOT NULL PRIMARY KEY,
	email VARCHAR(255) NOT NULL,
	name VARCHAR(255) NOT NULL DEFAULT '',
	password_hash VARCHAR(255) NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`

const postgresQuickBookings = `
CREATE TABLE IF NOT EXISTS quick_bookings (
	id CHAR(36) PRIMARY KEY,
	user_id CHAR(36) NULL,
	label VARCHAR(100) NOT NULL,
	departure VARCHAR(100) NOT NULL,
	arrival VARCHAR(100) NOT NULL,
	train_type VARCHAR(20) NOT NULL DEFAULT 'KTX',
	adults INT NOT NULL DEFAULT 1,
	children INT NOT NULL DEFAULT 0,
	infants INT NOT NULL DEFAULT 0,
	departure_time VARCHAR(32) NULL,
	days_of_week VARCHAR(64) NULL,
	seat_class VARCHAR(20) NULL,
	seat_position VARCHAR(20) NULL,
	seat_direction VARCHAR(20) NULL,
	car_number INT NULL,
	seat_numbers VARCHAR(255) NULL,
	payment_method VARCHAR(32) NULL,
	is_quick_purchase BOOLEAN NOT NULL DEFAULT FALSE,
	booking_status VARCHAR(32) NULL,
	total_price BIGINT NULL,
	payment_date TIMESTAMPTZ NULL,
	order_index INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_quick_bookings_order ON quick_bookings (order_index);
CREATE INDEX IF NOT EXISTS idx_quick_bookings_user ON quick_bookings (user_id);
`

const postgresUsers = `
CREATE TABLE IF NOT EXISTS users (
	id CHAR(36) PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	name VARCHAR(255) NOT NULL DEFAULT '',
	password_hash VARCHAR(255) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates the tables for the connected dialect when missing.
func EnsureSchema(ctx context.Context, q *sqlx.DB) error {
	if q == nil {
		return fmt.Errorf("db tidak tersedia")
	}

	var stmts []string
	switch q.DriverName() {
	case "postgres":
		stmts = []string{postgresQuickBookings, postgresUsers}
	default:
		stmts = []string{mysqlQuickBookings, mysqlUsers}
	}

	// tables created before accounts existed have no owner column
	if HasTable(ctx, q, "quick_bookings") && !HasColumn(ctx, q, "quick_bookings", "user_id") {
		if _, err := q.ExecContext(ctx, `ALTER TABLE quick_bookings ADD COLUMN user_id CHAR(36) NULL`); err != nil {
			return fmt.Errorf("add user_id: %w", err)
		}
		log.Printf("kolom quick_bookings.user_id ditambahkan")
	}

	for _, ddl := range stmts {
		if _, err := q.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	log.Printf("schema siap (%s)", q.DriverName())
	return nil
}
