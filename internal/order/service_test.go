package order

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/ordenes-mesa/internal/apperr"
	"github.com/MikeMC777/ordenes-mesa/internal/catalog"
	"github.com/MikeMC777/ordenes-mesa/internal/kv"
	"github.com/MikeMC777/ordenes-mesa/internal/menu"
)

type recordingNotifier struct {
	got []Order
	err error
}

func (n *recordingNotifier) OrderPlaced(_ context.Context, o Order) error {
	n.got = append(n.got, o)
	return n.err
}

type failingRepo struct{ Repository }

func (failingRepo) Append(context.Context, Order) error { return errors.New("store down") }

func newTestService(repo Repository, n Notifier) *Service {
	s := NewService(repo, n, nil)
	s.now = func() time.Time { return time.Date(2026, 3, 14, 23, 30, 0, 0, time.FixedZone("X", 2*3600)) }
	ids := 0
	s.newID = func() string {
		ids++
		return fmt.Sprintf("ord-%d", ids)
	}
	return s
}

func foods() catalog.Foods {
	n := 0
	return catalog.Starter(func() string {
		n++
		return fmt.Sprintf("f%d", n)
	})
}

func TestSubmit_EmptyCartRejectedWithoutWrite(t *testing.T) {
	store := kv.NewMemoryStore()
	log := NewKVLog(store, nil)
	notifier := &recordingNotifier{}
	svc := newTestService(log, notifier)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "3", nil, "hi")
	if !apperr.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
	if _, err := store.Get(ctx, LogKey); !errors.Is(err, kv.ErrMissing) {
		t.Fatalf("empty cart must not write the log, got %v", err)
	}
	if len(notifier.got) != 0 {
		t.Fatalf("notifier called for rejected order")
	}
}

func TestSubmitSession_AppendsOneOrderAndClearsCart(t *testing.T) {
	store := kv.NewMemoryStore()
	log := NewKVLog(store, nil)
	notifier := &recordingNotifier{}
	svc := newTestService(log, notifier)
	ctx := context.Background()
	fs := foods()

	sess := menu.NewRegistry().Create("5")
	sess.Cart.Increase(fs, fs[0].ID) // 5.00
	sess.Cart.Increase(fs, fs[0].ID)
	sess.Cart.Increase(fs, fs[5].ID) // 2.00
	sess.Request = "  extra spicy  "
	wantTotal := sess.Cart.Total()

	o, err := svc.SubmitSession(ctx, sess)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !o.Total.Equal(wantTotal) || !o.Total.Equal(decimal.RequireFromString("12")) {
		t.Fatalf("total=%s want %s", o.Total, wantTotal)
	}
	if o.ID != "ord-1" || o.Table != "5" || o.Request != "extra spicy" {
		t.Fatalf("unexpected order: %+v", o)
	}
	if o.Date != "2026-03-14" || !o.CreatedAt.Equal(time.Date(2026, 3, 14, 21, 30, 0, 0, time.UTC)) {
		t.Fatalf("date=%s createdAt=%s", o.Date, o.CreatedAt)
	}
	if len(o.Items) != 2 || o.Items[0].Name != "Fried Rice" || o.Items[0].Quantity != 2 {
		t.Fatalf("items: %+v", o.Items)
	}
	if sess.Cart.Len() != 0 || sess.Request != "" {
		t.Fatalf("cart or request not cleared")
	}

	orders, _ := log.List(ctx)
	if len(orders) != 1 || orders[0].ID != "ord-1" || !orders[0].Total.Equal(wantTotal) {
		t.Fatalf("log: %+v", orders)
	}
	if len(notifier.got) != 1 || notifier.got[0].ID != "ord-1" {
		t.Fatalf("notifier: %+v", notifier.got)
	}
}

func TestSubmitSession_StoreFailureKeepsCart(t *testing.T) {
	svc := newTestService(failingRepo{}, nil)
	fs := foods()
	sess := menu.NewRegistry().Create("")
	sess.Cart.Increase(fs, fs[1].ID)
	sess.Request = "keep me"

	if _, err := svc.SubmitSession(context.Background(), sess); err == nil {
		t.Fatalf("want store error")
	}
	if sess.Cart.Len() != 1 || sess.Request != "keep me" {
		t.Fatalf("failed submission must leave cart and request intact")
	}
}

func TestSubmit_NotifierFailureDoesNotFailOrder(t *testing.T) {
	log := NewKVLog(kv.NewMemoryStore(), nil)
	svc := newTestService(log, &recordingNotifier{err: errors.New("telegram down")})
	fs := foods()

	lines := []menu.CartLine{{FoodID: fs[2].ID, Name: fs[2].Name, Price: fs[2].Price, Quantity: 1}}
	if _, err := svc.Submit(context.Background(), "", lines, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}
	orders, _ := log.List(context.Background())
	if len(orders) != 1 || orders[0].Table != menu.DefaultTable {
		t.Fatalf("log: %+v", orders)
	}
}

func TestKVLog_AppendOrderAndClear(t *testing.T) {
	ctx := context.Background()
	log := NewKVLog(kv.NewMemoryStore(), nil)

	for i := 1; i <= 3; i++ {
		if err := log.Append(ctx, Order{ID: fmt.Sprintf("o%d", i), Total: decimal.NewFromInt(int64(i))}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	orders, _ := log.List(ctx)
	if len(orders) != 3 || orders[0].ID != "o1" || orders[2].ID != "o3" {
		t.Fatalf("append order broken: %+v", orders)
	}

	if err := log.Clear(ctx, false); !errors.Is(err, apperr.ErrConfirmationRequired) {
		t.Fatalf("want ErrConfirmationRequired, got %v", err)
	}
	if orders, _ := log.List(ctx); len(orders) != 3 {
		t.Fatalf("unconfirmed clear truncated log")
	}
	if err := log.Clear(ctx, true); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if orders, _ := log.List(ctx); len(orders) != 0 {
		t.Fatalf("log not cleared: %+v", orders)
	}
}

func TestKVLog_CorruptLogReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	_ = store.Set(ctx, LogKey, []byte(`{"not":"a list"}`))

	orders, err := NewKVLog(store, nil).List(ctx)
	if err != nil || len(orders) != 0 {
		t.Fatalf("want empty log, got %+v err=%v", orders, err)
	}
}

func TestSubmit_KeepsValidAndInvalidStoredOrders(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	_ = store.Set(ctx, LogKey, []byte(`[{"id":"keep","total":"3","items":[{"id":"f1","qty":1}]},{"id":"bad","total":"1","items":[{"id":"f2","qty":0}]}]`))
	log := NewKVLog(store, nil)
	svc := newTestService(log, nil)
	fs := foods()

	before, err := log.List(ctx)
	if err != nil || len(before) != 1 || before[0].ID != "keep" {
		t.Fatalf("want only the valid order, got %+v err=%v", before, err)
	}

	lines := []menu.CartLine{{FoodID: fs[0].ID, Name: fs[0].Name, Price: fs[0].Price, Quantity: 1}}
	if _, err := svc.Submit(ctx, "7", lines, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}

	raw, err := kv.Lookup[[]map[string]any](ctx, store, LogKey)
	if err != nil {
		t.Fatalf("read raw log: %v", err)
	}
	if len(raw) != 3 || raw[0]["id"] != "keep" || raw[1]["id"] != "bad" || raw[2]["id"] != "ord-1" {
		t.Fatalf("stored entries lost or reordered: %+v", raw)
	}

	after, _ := log.List(ctx)
	if len(after) != 2 || after[0].ID != "keep" || after[1].ID != "ord-1" {
		t.Fatalf("list after submit: %+v", after)
	}
}
