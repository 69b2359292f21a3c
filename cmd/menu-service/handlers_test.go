package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/MikeMC777/ordenes-mesa/internal/catalog"
	"github.com/MikeMC777/ordenes-mesa/internal/httpx"
	"github.com/MikeMC777/ordenes-mesa/internal/kv"
	"github.com/MikeMC777/ordenes-mesa/internal/menu"
	"github.com/MikeMC777/ordenes-mesa/internal/order"
	"github.com/MikeMC777/ordenes-mesa/internal/seed"
)

//
// ===== test app over an in-memory store =====
//

func newTestApp(t *testing.T) (*gin.Engine, *app) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := kv.NewMemoryStore()
	logger := zap.NewNop()
	a := &app{
		store:    store,
		foods:    catalog.NewManager(store, logger),
		sessions: menu.NewRegistry(),
		orders:   order.NewService(order.NewKVLog(store, logger), nil, logger),
		seed:     seed.Options{BcryptCost: bcrypt.MinCost},
		logger:   logger,
	}
	r := httpx.NewEngine(logger, store)
	routes(r, a)
	return r, a
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func openSession(t *testing.T, r *gin.Engine, table string) SessionResponse {
	t.Helper()
	w := do(r, http.MethodPost, "/sessions?table="+table, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("open session: status=%d body=%s", w.Code, w.Body.String())
	}
	var s SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return s
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) menu.View {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var v menu.View
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return v
}

func foodID(t *testing.T, v menu.View, name string) string {
	t.Helper()
	for _, it := range v.Items {
		if it.Name == name {
			return it.ID
		}
	}
	t.Fatalf("%q not on menu", name)
	return ""
}

//
// ===== tests =====
//

func TestCreateSession_SeedsAndDefaultsTable(t *testing.T) {
	r, a := newTestApp(t)

	s := openSession(t, r, "")
	if s.Table != menu.DefaultTable || s.ID == "" {
		t.Fatalf("unexpected session: %+v", s)
	}
	foods, _ := a.foods.List(context.Background())
	if len(foods) != 7 {
		t.Fatalf("catalog not seeded: %d", len(foods))
	}

	v := decodeView(t, do(r, http.MethodGet, "/sessions/"+s.ID+"/menu", ""))
	if len(v.Items) != 7 || v.Category != menu.CategoryAll || !v.Cart.Empty {
		t.Fatalf("initial view: %+v", v)
	}
}

func TestMenu_FilterByQueryAndBody(t *testing.T) {
	r, _ := newTestApp(t)
	s := openSession(t, r, "3")

	// category via query
	{
		v := decodeView(t, do(r, http.MethodGet, "/sessions/"+s.ID+"/menu?category=Drink", ""))
		if len(v.Items) != 1 || v.Items[0].Name != "Coffee" {
			t.Fatalf("Drink filter: %+v", v.Items)
		}
	}

	// filter is kept for later reads without params
	{
		v := decodeView(t, do(r, http.MethodGet, "/sessions/"+s.ID+"/menu", ""))
		if v.Category != "Drink" || len(v.Items) != 1 {
			t.Fatalf("filter not kept: %+v", v)
		}
	}

	// body filter with search
	{
		v := decodeView(t, do(r, http.MethodPut, "/sessions/"+s.ID+"/filter", `{"category":"All","search":" FRI "}`))
		if len(v.Items) != 2 || v.Search != "FRI" {
			t.Fatalf("search filter: %+v", v.Items)
		}
	}

	// bad json ⇒ 400
	{
		w := do(r, http.MethodPut, "/sessions/"+s.ID+"/filter", `{`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", w.Code)
		}
	}
}

func TestCart_IncreaseDecreaseRemove(t *testing.T) {
	r, _ := newTestApp(t)
	s := openSession(t, r, "2")
	v := decodeView(t, do(r, http.MethodGet, "/sessions/"+s.ID+"/menu", ""))
	rice := foodID(t, v, "Fried Rice")
	coffee := foodID(t, v, "Coffee")
	base := "/sessions/" + s.ID + "/cart/"

	do(r, http.MethodPost, base+rice+"/increase", "")
	do(r, http.MethodPost, base+rice+"/increase", "")
	v = decodeView(t, do(r, http.MethodPost, base+coffee+"/increase", ""))
	if v.Cart.Total != "12.00" || len(v.Cart.Lines) != 2 {
		t.Fatalf("cart: %+v", v.Cart)
	}

	v = decodeView(t, do(r, http.MethodPost, base+rice+"/decrease", ""))
	if v.Cart.Total != "7.00" {
		t.Fatalf("after decrease: %+v", v.Cart)
	}

	v = decodeView(t, do(r, http.MethodDelete, base+coffee, ""))
	if v.Cart.Total != "5.00" || len(v.Cart.Lines) != 1 {
		t.Fatalf("after remove: %+v", v.Cart)
	}

	// unknown food is a no-op
	v = decodeView(t, do(r, http.MethodPost, base+"ghost/increase", ""))
	if len(v.Cart.Lines) != 1 {
		t.Fatalf("ghost added: %+v", v.Cart)
	}

	// decrease below zero drops the line
	do(r, http.MethodPost, base+rice+"/decrease", "")
	v = decodeView(t, do(r, http.MethodPost, base+rice+"/decrease", ""))
	if !v.Cart.Empty || v.Cart.Total != "0.00" {
		t.Fatalf("cart should be empty: %+v", v.Cart)
	}
}

func TestSubmitOrder_EmptyCartIs400(t *testing.T) {
	r, a := newTestApp(t)
	s := openSession(t, r, "9")

	w := do(r, http.MethodPost, "/sessions/"+s.ID+"/orders", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d body=%s", w.Code, w.Body.String())
	}
	var e httpx.HTTPError
	_ = json.Unmarshal(w.Body.Bytes(), &e)
	if e.Error != "Please select at least 1 item." {
		t.Fatalf("message=%q", e.Error)
	}
	orders, _ := a.orders.List(context.Background())
	if len(orders) != 0 {
		t.Fatalf("empty cart wrote an order")
	}
}

func TestSubmitOrder_AppendsAndClears(t *testing.T) {
	r, a := newTestApp(t)
	s := openSession(t, r, "12")
	v := decodeView(t, do(r, http.MethodGet, "/sessions/"+s.ID+"/menu", ""))
	burger := foodID(t, v, "Burger")

	do(r, http.MethodPost, "/sessions/"+s.ID+"/cart/"+burger+"/increase", "")
	do(r, http.MethodPost, "/sessions/"+s.ID+"/cart/"+burger+"/increase", "")
	if w := do(r, http.MethodPut, "/sessions/"+s.ID+"/request", `{"request":"draft"}`); w.Code != http.StatusNoContent {
		t.Fatalf("request draft: %d", w.Code)
	}

	w := do(r, http.MethodPost, "/sessions/"+s.ID+"/orders", `{"request":"  well done "}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got order.Order
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Table != "12" || got.Request != "well done" || got.Total.StringFixed(2) != "12.00" || len(got.Items) != 1 {
		t.Fatalf("order: %+v", got)
	}

	orders, _ := a.orders.List(context.Background())
	if len(orders) != 1 || orders[0].ID != got.ID {
		t.Fatalf("log: %+v", orders)
	}

	v = decodeView(t, do(r, http.MethodGet, "/sessions/"+s.ID+"/menu", ""))
	if !v.Cart.Empty || v.Request != "" {
		t.Fatalf("session not cleared: %+v", v)
	}
}

func TestSessions_AreIsolated(t *testing.T) {
	r, _ := newTestApp(t)
	one := openSession(t, r, "1")
	two := openSession(t, r, "2")

	v := decodeView(t, do(r, http.MethodGet, "/sessions/"+one.ID+"/menu", ""))
	do(r, http.MethodPost, "/sessions/"+one.ID+"/cart/"+foodID(t, v, "Beer")+"/increase", "")

	v = decodeView(t, do(r, http.MethodGet, "/sessions/"+two.ID+"/menu", ""))
	if !v.Cart.Empty {
		t.Fatalf("table 2 sees table 1's cart")
	}
}

func TestUnknownSession_404(t *testing.T) {
	r, _ := newTestApp(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/sessions/nope/menu"},
		{http.MethodPost, "/sessions/nope/cart/x/increase"},
		{http.MethodPost, "/sessions/nope/orders"},
		{http.MethodDelete, "/sessions/nope"},
	} {
		if w := do(r, tc.method, tc.path, ""); w.Code != http.StatusNotFound {
			t.Errorf("%s %s: status=%d", tc.method, tc.path, w.Code)
		}
	}
}

func TestCloseSession(t *testing.T) {
	r, _ := newTestApp(t)
	s := openSession(t, r, "4")
	if w := do(r, http.MethodDelete, "/sessions/"+s.ID, ""); w.Code != http.StatusNoContent {
		t.Fatalf("status=%d", w.Code)
	}
	if w := do(r, http.MethodGet, "/sessions/"+s.ID+"/menu", ""); w.Code != http.StatusNotFound {
		t.Fatalf("closed session still served: %d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	r, _ := newTestApp(t)
	if w := do(r, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}
