package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"quickrail/internal/cache"
	intconfig "quickrail/internal/config"
	h "quickrail/internal/http/handlers"
	"quickrail/internal/repositories"

	"github.com/gin-gonic/gin"
)

type bookingView struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	Departure       string `json:"departure"`
	Arrival         string `json:"arrival"`
	Kind            string `json:"kind"`
	IsQuickPurchase bool   `json:"is_quick_purchase"`
	BookingStatus   string `json:"booking_status"`
	TotalPrice      int64  `json:"total_price"`
	OrderIndex      int    `json:"order_index"`
	DepartureLabel  string `json:"departure_label"`
	PriceLabel      string `json:"price_label"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h.Configure(h.Deps{
		Bookings:  repositories.NewMemoryQuickBookingStore(),
		Users:     repositories.NewMemoryUserStore(),
		Cache:     cache.NewLocal(),
		SeatTTL:   time.Minute,
		JWTSecret: []byte("router-test"),
	})
	r := NewRouter(intconfig.Env{})
	h.SetRouter(r)
	return r
}

func do(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestQuickBookingLifecycle(t *testing.T) {
	r := newTestRouter(t)

	ids := []string{}
	for _, body := range []string{
		`{"label":"출근","departure":"서울","arrival":"대전","departure_time":"2025-11-20 07:30"}`,
		`{"label":"본가","departure":"서울","arrival":"부산","adults":2}`,
		`{"label":"출장","departure":"용산","arrival":"광명"}`,
	} {
		w := do(r, http.MethodPost, "/api/quick-bookings", body, "")
		if w.Code != http.StatusCreated {
			t.Fatalf("create status %d: %s", w.Code, w.Body.String())
		}
		v := decode[bookingView](t, w)
		if v.Kind != "route" {
			t.Fatalf("kind got %q", v.Kind)
		}
		ids = append(ids, v.ID)
	}

	list := decode[[]bookingView](t, do(r, http.MethodGet, "/api/quick-bookings", "", ""))
	if len(list) != 3 || list[0].Label != "출근" || list[0].DepartureLabel != "2025.11.20(목) 07시 이후" {
		t.Fatalf("unexpected list %+v", list)
	}

	w := do(r, http.MethodPut, "/api/quick-bookings/"+ids[1]+"/quick-purchase", "", "")
	if w.Code != http.StatusOK || !decode[bookingView](t, w).IsQuickPurchase {
		t.Fatalf("toggle status %d: %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPut, "/api/quick-bookings/"+ids[1]+"/quick-purchase", `{"value":true}`, "")
	if !decode[bookingView](t, w).IsQuickPurchase {
		t.Fatalf("explicit set should keep the flag on")
	}
	qp := decode[[]bookingView](t, do(r, http.MethodGet, "/api/quick-bookings?quick_purchase=true", "", ""))
	if len(qp) != 1 || qp[0].ID != ids[1] {
		t.Fatalf("quick purchase filter got %+v", qp)
	}

	w = do(r, http.MethodPut, "/api/quick-bookings/order", `{"ids":["`+ids[2]+`","`+ids[0]+`","`+ids[1]+`"]}`, "")
	ordered := decode[[]bookingView](t, w)
	if len(ordered) != 3 || ordered[0].ID != ids[2] || ordered[2].ID != ids[1] {
		t.Fatalf("reorder got %+v", ordered)
	}

	w = do(r, http.MethodPost, "/api/quick-bookings/bulk-delete", `{"ids":["`+ids[0]+`","`+ids[2]+`"]}`, "")
	if w.Code != http.StatusOK || decode[map[string]any](t, w)["deleted"] != float64(2) {
		t.Fatalf("bulk delete %d: %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodGet, "/api/quick-bookings/"+ids[0], "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("deleted record status %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/quick-bookings/"+ids[1], "", ""); w.Code != http.StatusOK {
		t.Fatalf("delete status %d", w.Code)
	}
	if left := decode[[]bookingView](t, do(r, http.MethodGet, "/api/quick-bookings", "", "")); len(left) != 0 {
		t.Fatalf("expected empty list, got %+v", left)
	}
}

func TestErrorMapping(t *testing.T) {
	r := newTestRouter(t)
	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/api/quick-bookings", "", http.StatusBadRequest},
		{http.MethodPost, "/api/quick-bookings", `{"label":"x","departure":"서울","arrival":"서울"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/quick-bookings", `{"label":`, http.StatusBadRequest},
		{http.MethodPut, "/api/quick-bookings/missing", `{"label":"y"}`, http.StatusNotFound},
		{http.MethodGet, "/api/seats?train_no=101&date=2025-11-20&car=11", "", http.StatusBadRequest},
		{http.MethodGet, "/api/bookings/missing/ticket", "", http.StatusNotFound},
		{http.MethodGet, "/api/nope", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		if w := do(r, tc.method, tc.path, tc.body, ""); w.Code != tc.want {
			t.Fatalf("%s %s: status %d want %d (%s)", tc.method, tc.path, w.Code, tc.want, w.Body.String())
		}
	}
}

func TestPaymentHistoryAndTicket(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/payments",
		`{"departure":"서울","arrival":"부산","departure_time":"2025-11-20 08:00","adults":2,"discount_id":"youth","payment_method":"card"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("payment status %d: %s", w.Code, w.Body.String())
	}
	resp := decode[struct {
		Booking    bookingView `json:"booking"`
		TotalLabel string      `json:"total_label"`
	}](t, w)
	if resp.Booking.Kind != "history" || resp.Booking.TotalPrice != 95680 || resp.TotalLabel != "95,680원" {
		t.Fatalf("unexpected receipt %+v", resp)
	}

	hist := decode[[]bookingView](t, do(r, http.MethodGet, "/api/bookings/history", "", ""))
	if len(hist) != 1 || hist[0].ID != resp.Booking.ID || hist[0].PriceLabel != "95,680원" {
		t.Fatalf("history got %+v", hist)
	}

	w = do(r, http.MethodGet, "/api/bookings/"+resp.Booking.ID+"/ticket", "", "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" || !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("ticket status %d type %q", w.Code, w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "ETICKET_") {
		t.Fatalf("disposition %q", w.Header().Get("Content-Disposition"))
	}
}

func TestQuickPurchaseProfileRepurchase(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/quick-purchases",
		`{"label":"주말 본가","departure":"서울","arrival":"부산","departure_time":"18시 이후","days_of_week":["토","일"]}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register status %d: %s", w.Code, w.Body.String())
	}
	profile := decode[bookingView](t, w)
	if profile.Kind != "quick_purchase" || profile.DepartureLabel != "18시 이후" {
		t.Fatalf("unexpected profile %+v", profile)
	}

	w = do(r, http.MethodPost, "/api/quick-purchases/"+profile.ID+"/purchase", "", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("purchase status %d: %s", w.Code, w.Body.String())
	}
	bought := decode[struct {
		Booking bookingView `json:"booking"`
	}](t, w).Booking
	if bought.ID == profile.ID || bought.Kind != "history" || bought.TotalPrice != 59800 {
		t.Fatalf("unexpected purchase %+v", bought)
	}
}

func TestAuthScopesQuickBookings(t *testing.T) {
	r := newTestRouter(t)

	if w := do(r, http.MethodPost, "/api/auth/register", `{"name":"Kim","email":"kim@example.com","password":"password1"}`, ""); w.Code != http.StatusCreated {
		t.Fatalf("register status %d: %s", w.Code, w.Body.String())
	}
	w := do(r, http.MethodPost, "/api/auth/login", `{"email":"kim@example.com","password":"password1"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", w.Code, w.Body.String())
	}
	token := decode[struct {
		Token string `json:"token"`
	}](t, w).Token

	do(r, http.MethodPost, "/api/quick-bookings", `{"label":"공용","departure":"서울","arrival":"대전"}`, "")
	do(r, http.MethodPost, "/api/quick-bookings", `{"label":"내 경로","departure":"서울","arrival":"부산"}`, token)

	mine := decode[[]bookingView](t, do(r, http.MethodGet, "/api/quick-bookings", "", token))
	if len(mine) != 1 || mine[0].Label != "내 경로" {
		t.Fatalf("scoped list got %+v", mine)
	}
	shared := decode[[]bookingView](t, do(r, http.MethodGet, "/api/quick-bookings", "", ""))
	if len(shared) != 1 || shared[0].Label != "공용" {
		t.Fatalf("anonymous list got %+v", shared)
	}
	if w := do(r, http.MethodGet, "/api/quick-bookings", "", "garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/auth/login", `{"email":"kim@example.com","password":"wrong-pass"}`, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status %d", w.Code)
	}
}

func login(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	if w := do(r, http.MethodPost, "/api/auth/register", `{"email":"`+email+`","password":"password1"}`, ""); w.Code != http.StatusCreated {
		t.Fatalf("register %s status %d: %s", email, w.Code, w.Body.String())
	}
	w := do(r, http.MethodPost, "/api/auth/login", `{"email":"`+email+`","password":"password1"}`, "")
	return decode[struct {
		Token string `json:"token"`
	}](t, w).Token
}

func TestForeignRecordsAreNotFound(t *testing.T) {
	r := newTestRouter(t)
	alice := login(t, r, "alice@example.com")
	bob := login(t, r, "bob@example.com")

	w := do(r, http.MethodPost, "/api/quick-bookings", `{"label":"출근","departure":"서울","arrival":"대전"}`, alice)
	id := decode[bookingView](t, w).ID
	pay := do(r, http.MethodPost, "/api/payments", `{"departure":"서울","arrival":"부산","departure_time":"2025-11-20 08:00"}`, alice)
	paid := decode[struct {
		Booking bookingView `json:"booking"`
	}](t, pay).Booking

	for _, tc := range []struct {
		method, path, body string
	}{
		{http.MethodGet, "/api/quick-bookings/" + id, ""},
		{http.MethodPut, "/api/quick-bookings/" + id, `{"label":"hijacked"}`},
		{http.MethodPut, "/api/quick-bookings/" + id + "/quick-purchase", ""},
		{http.MethodPut, "/api/quick-bookings/order", `{"ids":["` + id + `"]}`},
		{http.MethodDelete, "/api/quick-bookings/" + id, ""},
		{http.MethodGet, "/api/bookings/" + paid.ID + "/ticket", ""},
	} {
		for name, token := range map[string]string{"bob": bob, "anonymous": ""} {
			if w := do(r, tc.method, tc.path, tc.body, token); w.Code != http.StatusNotFound {
				t.Fatalf("%s %s %s: status %d want 404 (%s)", name, tc.method, tc.path, w.Code, w.Body.String())
			}
		}
	}
	w = do(r, http.MethodPost, "/api/quick-bookings/bulk-delete", `{"ids":["`+id+`"]}`, bob)
	if decode[map[string]any](t, w)["deleted"] != float64(0) {
		t.Fatalf("bob bulk-deleted alice's row: %s", w.Body.String())
	}

	mine := decode[[]bookingView](t, do(r, http.MethodGet, "/api/quick-bookings", "", alice))
	if len(mine) != 2 || mine[0].Label != "출근" {
		t.Fatalf("alice's rows changed: %+v", mine)
	}
	if anon := decode[[]bookingView](t, do(r, http.MethodGet, "/api/quick-bookings", "", "")); len(anon) != 0 {
		t.Fatalf("anonymous list shows owned rows: %+v", anon)
	}
}

func TestHomeScreenEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/stations/swap", `{"departure":"서울","arrival":"부산"}`, "")
	swapped := decode[map[string]string](t, w)
	if swapped["departure"] != "부산" || swapped["arrival"] != "서울" {
		t.Fatalf("swap got %v", swapped)
	}

	w = do(r, http.MethodPost, "/api/quote", `{"adults":1,"children":1,"discount_id":"senior"}`, "")
	if w.Code != http.StatusOK || decode[map[string]any](t, w)["total_label"] != "83,720원" {
		t.Fatalf("quote %d: %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/schedules?"+url.Values{"departure": {"서울"}, "arrival": {"부산"}, "date": {"2025-11-20"}}.Encode(), "", "")
	sched := decode[struct {
		PrevDate  string           `json:"prev_date"`
		NextDate  string           `json:"next_date"`
		Schedules []map[string]any `json:"schedules"`
	}](t, w)
	if sched.PrevDate != "2025-11-19" || sched.NextDate != "2025-11-21" || len(sched.Schedules) == 0 {
		t.Fatalf("schedules got %+v", sched)
	}

	first := do(r, http.MethodGet, "/api/seats?train_no=101&date=2025-11-20&car=2", "", "").Body.String()
	second := do(r, http.MethodGet, "/api/seats?train_no=101&date=2025-11-20&car=2", "", "").Body.String()
	if first != second {
		t.Fatalf("seat map should be stable while cached")
	}

	do(r, http.MethodPost, "/api/quick-bookings", `{"label":"x","departure":"서울","arrival":"부산"}`, "")
	if w := do(r, http.MethodGet, "/api/db-check", "", ""); w.Code != http.StatusOK || decode[map[string]any](t, w)["quick_bookings"] != float64(1) {
		t.Fatalf("db-check %d: %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodGet, "/api/health", "", ""); w.Code != http.StatusOK || w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("health status %d", w.Code)
	}
}
