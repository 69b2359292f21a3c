// Package seed puts first-run data into an empty or damaged store without
// touching anything that is already valid.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MikeMC777/ordenes-mesa/internal/auth"
	"github.com/MikeMC777/ordenes-mesa/internal/catalog"
	"github.com/MikeMC777/ordenes-mesa/internal/kv"
	"github.com/MikeMC777/ordenes-mesa/internal/order"
)

type Options struct {
	BcryptCost int
	NewID      func() string
	Logger     *zap.Logger
}

// Report says which keys Ensure wrote.
type Report struct {
	Credential bool `json:"credential"`
	Foods      bool `json:"foods"`
	Orders     bool `json:"orders"`
}

func (r Report) Any() bool { return r.Credential || r.Foods || r.Orders }

// Ensure is idempotent: a second call on the same store writes nothing.
func Ensure(ctx context.Context, store kv.Store, opts Options) (Report, error) {
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	var rep Report

	raw, ok, err := read(ctx, store, auth.CredentialKey)
	if err != nil {
		return rep, err
	}
	if !ok || !credentialShape(raw) {
		cred, err := auth.Default(opts.BcryptCost)
		if err != nil {
			return rep, fmt.Errorf("seed credential: %w", err)
		}
		if err := kv.Set(ctx, store, auth.CredentialKey, cred); err != nil {
			return rep, fmt.Errorf("seed credential: %w", err)
		}
		rep.Credential = true
	}

	raw, ok, err = read(ctx, store, catalog.Key)
	if err != nil {
		return rep, err
	}
	if !ok || !catalog.Usable(raw) {
		if err := kv.Set(ctx, store, catalog.Key, catalog.Starter(opts.NewID)); err != nil {
			return rep, fmt.Errorf("seed foods: %w", err)
		}
		rep.Foods = true
	}

	raw, ok, err = read(ctx, store, order.LogKey)
	if err != nil {
		return rep, err
	}
	if !ok || !isList(raw) {
		if err := kv.Set(ctx, store, order.LogKey, order.Orders{}); err != nil {
			return rep, fmt.Errorf("seed orders: %w", err)
		}
		rep.Orders = true
	}

	if rep.Any() {
		opts.Logger.Info("store seeded",
			zap.Bool("credential", rep.Credential),
			zap.Bool("foods", rep.Foods),
			zap.Bool("orders", rep.Orders))
	}
	return rep, nil
}

func read(ctx context.Context, store kv.Store, key string) ([]byte, bool, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, kv.ErrMissing) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("seed read %q: %w", key, err)
	}
	return raw, true, nil
}

// credentialShape accepts an object whose username and passwordHash are
// strings and whose hash is not empty.
func credentialShape(raw []byte) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return false
	}
	if _, ok := jsonString(obj["username"]); !ok {
		return false
	}
	hash, ok := jsonString(obj["passwordHash"])
	return ok && hash != ""
}

func jsonString(raw json.RawMessage) (string, bool) {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func isList(raw []byte) bool {
	var v any
	if json.Unmarshal(raw, &v) != nil {
		return false
	}
	_, ok := v.([]any)
	return ok
}
