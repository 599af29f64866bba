package handlers

import (
	"sync"
	"time"

	"quickrail/internal/cache"
	"quickrail/internal/events"
	"quickrail/internal/http/middleware"
	"quickrail/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// Deps are the shared backends handlers build their services from.
type Deps struct {
	DB        *sqlx.DB
	Bookings  services.QuickBookingStore
	Users     services.UserStore
	Cache     cache.Cache
	Events    events.Publisher
	SeatTTL   time.Duration
	JWTSecret []byte
}

var (
	depsMu sync.RWMutex
	deps   Deps
)

// Configure installs backends for all handlers. Call before serving.
func Configure(d Deps) {
	depsMu.Lock()
	defer depsMu.Unlock()
	deps = d
}

func current() Deps {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps
}

func bookingService(c *gin.Context) services.QuickBookingService {
	return services.QuickBookingService{
		Store:     current().Bookings,
		RequestID: middleware.GetRequestID(c),
		UserID:    middleware.GetUserID(c),
	}
}

func seatService(c *gin.Context) services.SeatService {
	d := current()
	return services.SeatService{Cache: d.Cache, TTL: d.SeatTTL, RequestID: middleware.GetRequestID(c)}
}

func paymentService(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		Bookings:  bookingService(c),
		Seats:     seatService(c),
		Events:    current().Events,
		RequestID: middleware.GetRequestID(c),
	}
}

func ticketService(c *gin.Context) services.TicketService {
	return services.TicketService{
		Store:     current().Bookings,
		RequestID: middleware.GetRequestID(c),
		UserID:    middleware.GetUserID(c),
	}
}

// AuthService is exported for the router, which needs its token parser.
func AuthService(c *gin.Context) services.AuthService {
	d := current()
	return services.AuthService{Users: d.Users, Secret: d.JWTSecret, RequestID: middleware.GetRequestID(c)}
}
