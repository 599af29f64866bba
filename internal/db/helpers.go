package db

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
)

// NullIfEmpty helps store optional strings without writing "" into nullable columns.
func NullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func currentSchemaExpr(q *sqlx.DB) string {
	if q.DriverName() == "postgres" {
		return "current_schema()"
	}
	return "DATABASE()"
}

// HasTable reports whether table exists in the connected schema.
func HasTable(ctx context.Context, q *sqlx.DB, table string) bool {
	if q == nil {
		return false
	}
	var name string
	err := q.QueryRowxContext(ctx, q.Rebind(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = `+currentSchemaExpr(q)+`
		  AND table_name = ?
		LIMIT 1
	`), table).Scan(&name)
	if err != nil {
		return false
	}
	return name != ""
}

// HasColumn reports whether table.column exists in the connected schema.
func HasColumn(ctx context.Context, q *sqlx.DB, table, column string) bool {
	if q == nil {
		return false
	}
	var name string
	err := q.QueryRowxContext(ctx, q.Rebind(`
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = `+currentSchemaExpr(q)+`
		  AND table_name = ?
		  AND column_name = ?
		LIMIT 1
	`), table, column).Scan(&name)
	if err != nil {
		return false
	}
	return name != ""
}
