package seed

import (
	"bytes"
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/MikeMC777/ordenes-mesa/internal/auth"
	"github.com/MikeMC777/ordenes-mesa/internal/catalog"
	"github.com/MikeMC777/ordenes-mesa/internal/kv"
	"github.com/MikeMC777/ordenes-mesa/internal/order"
)

var testOpts = Options{BcryptCost: bcrypt.MinCost}

func TestEnsure_EmptyStore(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	rep, err := Ensure(ctx, store, testOpts)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if !rep.Credential || !rep.Foods || !rep.Orders {
		t.Fatalf("report: %+v", rep)
	}

	foods, err := kv.Lookup[catalog.Foods](ctx, store, catalog.Key)
	if err != nil || len(foods) != 7 || foods[0].Name != "Fried Rice" || foods[6].Name != "Beer" {
		t.Fatalf("foods: %+v %v", foods, err)
	}
	cred, err := kv.Lookup[auth.Credential](ctx, store, auth.CredentialKey)
	if err != nil || cred.Username != "admin" || !auth.CheckPassword(cred.PasswordHash, "1234") {
		t.Fatalf("credential: %+v %v", cred, err)
	}
	raw, _ := store.Get(ctx, order.LogKey)
	if string(raw) != "[]" {
		t.Fatalf("orders=%s", raw)
	}
}

func TestEnsure_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	if _, err := Ensure(ctx, store, testOpts); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	before := map[string][]byte{}
	for _, k := range []string{auth.CredentialKey, catalog.Key, order.LogKey} {
		before[k], _ = store.Get(ctx, k)
	}

	rep, err := Ensure(ctx, store, testOpts)
	if err != nil || rep.Any() {
		t.Fatalf("second run wrote %+v err=%v", rep, err)
	}
	for k, v := range before {
		after, _ := store.Get(ctx, k)
		if !bytes.Equal(v, after) {
			t.Fatalf("%s changed on second run", k)
		}
	}
}

func TestEnsure_RepairsOnlyInvalidKeys(t *testing.T) {
	const food = `[{"id":"1","name":"Tea","price":"1.50"}]`
	tests := []struct {
		name      string
		cred      string
		foods     string
		orders    string
		wantCred  bool
		wantFoods bool
		wantOrder bool
	}{
		{"foods empty list", `{"username":"x","passwordHash":"h"}`, `[]`, `[]`, false, true, false},
		{"foods not a list", `{"username":"x","passwordHash":"h"}`, `{"a":1}`, `[]`, false, true, false},
		{"orders not a list", `{"username":"x","passwordHash":"h"}`, food, `"oops"`, false, false, true},
		{"orders null", `{"username":"x","passwordHash":"h"}`, food, `null`, false, false, true},
		{"plaintext credential", `{"username":"admin","password":"1234"}`, food, `[]`, true, false, false},
		{"numeric username", `{"username":7,"passwordHash":"h"}`, food, `[]`, true, false, false},
		{"credential array", `[]`, food, `[]`, true, false, false},
		{"foods all invalid", `{"username":"x","passwordHash":"h"}`, `[{"id":"1"},{"name":"Tea","price":"1"}]`, `[]`, false, true, false},
		{"foods some invalid", `{"username":"x","passwordHash":"h"}`, `[{"id":"1"},{"id":"2","name":"Tea","price":"1"}]`, `[]`, false, false, false},
		{"foods duplicate ids only", `{"username":"x","passwordHash":"h"}`, `[{"id":"1","name":"Tea","price":"1"},{"id":"1","name":"Tea","price":"1"}]`, `[]`, false, false, false},
		{"garbage everywhere", `{{`, `{{`, `{{`, true, true, true},
		{"all valid", `{"username":"","passwordHash":"h"}`, food, `[{"id":"o"}]`, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := kv.NewMemoryStore()
			_ = store.Set(ctx, auth.CredentialKey, []byte(tt.cred))
			_ = store.Set(ctx, catalog.Key, []byte(tt.foods))
			_ = store.Set(ctx, order.LogKey, []byte(tt.orders))

			rep, err := Ensure(ctx, store, testOpts)
			if err != nil {
				t.Fatalf("ensure: %v", err)
			}
			if rep.Credential != tt.wantCred || rep.Foods != tt.wantFoods || rep.Orders != tt.wantOrder {
				t.Fatalf("report %+v", rep)
			}
			if !tt.wantFoods {
				raw, _ := store.Get(ctx, catalog.Key)
				if string(raw) != tt.foods {
					t.Fatalf("valid foods overwritten: %s", raw)
				}
			}
		})
	}
}
