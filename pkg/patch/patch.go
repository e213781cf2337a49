// Package patch models sparse-update fields that distinguish an absent key
// from an explicit JSON null and from a concrete value.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field is a tri-state request field: absent, null, or a value.
// The zero Field is absent.
type Field[T any] struct {
	set   bool
	null  bool
	value T
}

// Value returns a Field carrying v.
func Value[T any](v T) Field[T] {
	return Field[T]{set: true, value: v}
}

// Null returns a Field explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{set: true, null: true}
}

// UnmarshalJSON is only invoked by encoding/json when the key is present.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.null = true
		f.value = zero
		return nil
	}
	f.null = false
	return json.Unmarshal(data, &f.value)
}

// MarshalJSON writes null for absent and null fields.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set || f.null {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// Present reports whether the key was supplied at all.
func (f Field[T]) Present() bool { return f.set }

// IsNull reports whether the key was supplied as null.
func (f Field[T]) IsNull() bool { return f.set && f.null }

// Get returns the value and true when a non-null value was supplied.
func (f Field[T]) Get() (T, bool) {
	if !f.set || f.null {
		var zero T
		return zero, false
	}
	return f.value, true
}

// Apply overwrites *dst when a non-null value was supplied.
func (f Field[T]) Apply(dst *T) bool {
	v, ok := f.Get()
	if ok {
		*dst = v
	}
	return ok
}

// ApplyNullable overwrites a nullable destination: null clears it, a value sets it.
func (f Field[T]) ApplyNullable(dst **T) bool {
	if !f.set {
		return false
	}
	if f.null {
		*dst = nil
		return true
	}
	v := f.value
	*dst = &v
	return true
}
