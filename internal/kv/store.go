// Package kv provides the persistent key-value store that holds the catalog,
// the order log and the admin credential, plus typed JSON helpers over it.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrMissing = errors.New("kv: key not found")

// opTimeout bounds every backend call.
const opTimeout = 5 * time.Second

// Store is a flat mapping from key to raw bytes. Implementations replace the
// whole value on Set; there are no multi-key transactions.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Validator is implemented by records that check themselves after decoding.
type Validator interface {
	Validate() error
}

// DecodeError reports a stored value that could not be turned into a typed record.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("kv: decode %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Lookup reads key and decodes it into T. It returns ErrMissing for an absent
// key and a *DecodeError when the stored bytes are not a valid T.
func Lookup[T any](ctx context.Context, s Store, key string) (T, error) {
	var out T
	raw, err := s.Get(ctx, key)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		var zero T
		return zero, &DecodeError{Key: key, Err: err}
	}
	if v, ok := any(out).(Validator); ok {
		if err := v.Validate(); err != nil {
			var zero T
			return zero, &DecodeError{Key: key, Err: err}
		}
	}
	return out, nil
}

// Get is Lookup that never fails: any error yields fallback unchanged.
func Get[T any](ctx context.Context, s Store, key string, fallback T) T {
	v, err := Lookup[T](ctx, s, key)
	if err != nil {
		return fallback
	}
	return v
}

// Set JSON-encodes v and stores it under key, replacing any prior value.
func Set(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %q: %w", key, err)
	}
	return s.Set(ctx, key, data)
}

// Recoverable reports whether err from Lookup means "use the fallback":
// the key is absent or its value is corrupt. Transport errors are not recoverable.
func Recoverable(err error) bool {
	var de *DecodeError
	return errors.Is(err, ErrMissing) || errors.As(err, &de)
}
