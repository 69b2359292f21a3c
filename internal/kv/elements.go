package kv

import (
	"context"
	"encoding/json"
	"errors"
)

var errNotArray = errors.New("value is not a JSON array")

// Element is one entry of a stored JSON array. Raw always holds the stored
// bytes; Value is meaningful only when OK.
type Element[T any] struct {
	Raw   json.RawMessage
	Value T
	OK    bool
}

// NewElement encodes v as a valid entry.
func NewElement[T any](v T) (Element[T], error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Element[T]{}, err
	}
	return Element[T]{Raw: raw, Value: v, OK: true}, nil
}

// DecodeElements splits a JSON array and decodes each entry into T on its own.
// Entries that fail to decode or validate keep OK=false and their raw bytes,
// so a writer can put them back untouched. A value that is not an array is a
// *DecodeError.
func DecodeElements[T any](key string, raw []byte) ([]Element[T], error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, &DecodeError{Key: key, Err: err}
	}
	if parts == nil {
		return nil, &DecodeError{Key: key, Err: errNotArray}
	}

	out := make([]Element[T], len(parts))
	for i, p := range parts {
		out[i].Raw = p
		var v T
		if json.Unmarshal(p, &v) != nil {
			continue
		}
		if val, ok := any(v).(Validator); ok && val.Validate() != nil {
			continue
		}
		out[i].Value, out[i].OK = v, true
	}
	return out, nil
}

// LookupElements reads key and decodes it with DecodeElements.
func LookupElements[T any](ctx context.Context, s Store, key string) ([]Element[T], error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return DecodeElements[T](key, raw)
}

// SetElements writes elems back as one array, invalid entries included.
func SetElements[T any](ctx context.Context, s Store, key string, elems []Element[T]) error {
	parts := make([]json.RawMessage, len(elems))
	for i, e := range elems {
		parts[i] = e.Raw
	}
	return Set(ctx, s, key, parts)
}

// Valid returns the values of the OK entries in stored order.
func Valid[T any](elems []Element[T]) []T {
	out := make([]T, 0, len(elems))
	for _, e := range elems {
		if e.OK {
			out = append(out, e.Value)
		}
	}
	return out
}
