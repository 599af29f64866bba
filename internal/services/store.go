package services

import (
	"context"
	"time"

	"quickrail/internal/domain"
	"quickrail/internal/domain/models"
)

// QuickBookingStore is the CRUD surface of the quick_bookings table.
type QuickBookingStore interface {
	List(ctx context.Context, f domain.Filter) ([]models.QuickBooking, error)
	Recent(ctx context.Context, f domain.Filter, limit int) ([]models.QuickBooking, error)
	GetByID(ctx context.Context, id string) (models.QuickBooking, error)
	MaxOrderIndex(ctx context.Context) (int, error)
	Insert(ctx context.Context, q models.QuickBooking) error
	Update(ctx context.Context, id string, p models.QuickBookingPatch, now time.Time) (models.QuickBooking, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, f domain.Filter, ids []string) (int64, error)
	SetOrder(ctx context.Context, ids []string, now time.Time) error
}

type UserStore interface {
	Create(ctx context.Context, u models.User) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
}
