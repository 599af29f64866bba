package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"quickrail/internal/domain"
	"quickrail/internal/domain/models"
)

// MemoryQuickBookingStore keeps quick_bookings in process memory. Used when no
// database is configured (demo mode) and as a test double.
type MemoryQuickBookingStore struct {
	mu   sync.RWMutex
	rows map[string]models.QuickBooking
}

func NewMemoryQuickBookingStore() *MemoryQuickBookingStore {
	return &MemoryQuickBookingStore{rows: map[string]models.QuickBooking{}}
}

func matches(q models.QuickBooking, f domain.Filter) bool {
	if f.QuickPurchase != nil && q.IsQuickPurchase != *f.QuickPurchase {
		return false
	}
	if s := strings.TrimSpace(f.Status); s != "" && q.BookingStatus != s {
		return false
	}
	if u := strings.TrimSpace(f.UserID); u != "" && q.UserID != u {
		return false
	}
	if strings.TrimSpace(f.UserID) == "" && f.Anonymous && q.UserID != "" {
		return false
	}
	return true
}

func (m *MemoryQuickBookingStore) snapshot(f domain.Filter) []models.QuickBooking {
	out := []models.QuickBooking{}
	for _, q := range m.rows {
		if matches(q, f) {
			out = append(out, q)
		}
	}
	return out
}

func (m *MemoryQuickBookingStore) List(_ context.Context, f domain.Filter) ([]models.QuickBooking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.snapshot(f)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryQuickBookingStore) Recent(_ context.Context, f domain.Filter, limit int) ([]models.QuickBooking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 {
		limit = 10
	}
	out := m.snapshot(f)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryQuickBookingStore) GetByID(_ context.Context, id string) (models.QuickBooking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.rows[id]
	if !ok {
		return models.QuickBooking{}, domain.NotFoundError{Resource: "quick booking"}
	}
	return q, nil
}

func (m *MemoryQuickBookingStore) MaxOrderIndex(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	max := 0
	for _, q := range m.rows {
		if q.OrderIndex > max {
			max = q.OrderIndex
		}
	}
	return max, nil
}

func (m *MemoryQuickBookingStore) Insert(_ context.Context, q models.QuickBooking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rows[q.ID]; exists {
		return domain.ConflictError{Resource: "quick booking", Msg: "id sudah ada"}
	}
	m.rows[q.ID] = q
	return nil
}

func (m *MemoryQuickBookingStore) Update(_ context.Context, id string, p models.QuickBookingPatch, now time.Time) (models.QuickBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.rows[id]
	if !ok {
		return models.QuickBooking{}, domain.NotFoundError{Resource: "quick booking"}
	}
	p.Apply(&q)
	q.UpdatedAt = now
	m.rows[id] = q
	return q, nil
}

func (m *MemoryQuickBookingStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.NotFoundError{Resource: "quick booking"}
	}
	delete(m.rows, id)
	return nil
}

func (m *MemoryQuickBookingStore) DeleteMany(_ context.Context, f domain.Filter, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		if q, ok := m.rows[id]; ok && matches(q, f) {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryQuickBookingStore) SetOrder(_ context.Context, ids []string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if _, ok := m.rows[id]; !ok {
			return domain.NotFoundError{Resource: "quick booking " + id}
		}
	}
	for i, id := range ids {
		q := m.rows[id]
		q.OrderIndex = i + 1
		q.UpdatedAt = now
		m.rows[id] = q
	}
	return nil
}
