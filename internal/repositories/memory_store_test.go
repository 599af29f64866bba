package repositories

import (
	"context"
	"testing"
	"time"

	"quickrail/internal/domain"
	"quickrail/internal/domain/models"
)

func seedMemory(t *testing.T, ids ...string) *MemoryQuickBookingStore {
	t.Helper()
	m := NewMemoryQuickBookingStore()
	base := time.Date(2025, 11, 18, 0, 0, 0, 0, time.UTC)
	for i, id := range ids {
		rec := models.QuickBooking{ID: id, Label: id, OrderIndex: i + 1, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := m.Insert(context.Background(), rec); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}
	return m
}

func TestMemoryStoreListOrder(t *testing.T) {
	m := seedMemory(t, "a", "b", "c")
	if err := m.SetOrder(context.Background(), []string{"c", "a", "b"}, time.Now()); err != nil {
		t.Fatalf("set order: %v", err)
	}
	rows, _ := m.List(context.Background(), domain.Filter{})
	got := []string{rows[0].ID, rows[1].ID, rows[2].ID}
	if got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Fatalf("unexpected order %v", got)
	}
	if max, _ := m.MaxOrderIndex(context.Background()); max != 3 {
		t.Fatalf("max order %d", max)
	}
}

func TestMemoryStoreRecentNewestFirst(t *testing.T) {
	m := seedMemory(t, "a", "b", "c")
	rows, _ := m.Recent(context.Background(), domain.Filter{}, 2)
	if len(rows) != 2 || rows[0].ID != "c" || rows[1].ID != "b" {
		t.Fatalf("unexpected recent rows %+v", rows)
	}
}

func TestMemoryStoreSetOrderUnknownLeavesOrder(t *testing.T) {
	m := seedMemory(t, "a", "b")
	if err := m.SetOrder(context.Background(), []string{"b", "ghost"}, time.Now()); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	rec, _ := m.GetByID(context.Background(), "b")
	if rec.OrderIndex != 2 {
		t.Fatalf("order changed on failed reorder: %d", rec.OrderIndex)
	}
}

func TestMemoryStoreDeleteMany(t *testing.T) {
	m := seedMemory(t, "a", "b", "c")
	n, _ := m.DeleteMany(context.Background(), domain.Filter{}, []string{"a", "c", "ghost"})
	if n != 2 {
		t.Fatalf("deleted %d", n)
	}
	rows, _ := m.List(context.Background(), domain.Filter{})
	if len(rows) != 1 || rows[0].ID != "b" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if err := m.Delete(context.Background(), "a"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryStoreOwnerScoping(t *testing.T) {
	m := NewMemoryQuickBookingStore()
	for _, rec := range []models.QuickBooking{
		{ID: "mine", UserID: "u1", OrderIndex: 1},
		{ID: "theirs", UserID: "u2", OrderIndex: 2},
		{ID: "shared", OrderIndex: 3},
	} {
		_ = m.Insert(context.Background(), rec)
	}

	anon, _ := m.List(context.Background(), domain.Filter{Anonymous: true})
	if len(anon) != 1 || anon[0].ID != "shared" {
		t.Fatalf("anonymous list got %+v", anon)
	}
	n, _ := m.DeleteMany(context.Background(), domain.Filter{UserID: "u1"}, []string{"mine", "theirs", "shared"})
	if n != 1 {
		t.Fatalf("scoped delete removed %d rows", n)
	}
	if _, err := m.GetByID(context.Background(), "theirs"); err != nil {
		t.Fatalf("other owner's row should survive: %v", err)
	}
}

func TestMemoryStoreUpdateStampsTime(t *testing.T) {
	m := seedMemory(t, "a")
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	qp := true
	rec, err := m.Update(context.Background(), "a", models.QuickBookingPatch{IsQuickPurchase: &qp}, now)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !rec.IsQuickPurchase || !rec.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected record %+v", rec)
	}
	if _, err := m.Update(context.Background(), "ghost", models.QuickBookingPatch{}, now); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
