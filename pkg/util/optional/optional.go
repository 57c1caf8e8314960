// Package optional carries tri-state JSON fields through update payloads:
// a field can be absent (leave as-is), explicitly null (clear/disconnect)
// or carry a value.
package optional

import "encoding/json"

// Field distinguishes an absent JSON key from an explicit null from a value.
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// Set builds a present field carrying v.
func Set[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: v}
}

// Null builds an explicit-null field.
func Null[T any]() Field[T] {
	return Field[T]{Present: true, Null: true}
}

// UnmarshalJSON is only called for keys present in the payload, so Present
// is true whenever it runs.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if string(data) == "null" {
		f.Null = true
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// Ptr returns a pointer to the value, or nil when the field is absent or null.
func (f Field[T]) Ptr() *T {
	if !f.Present || f.Null {
		return nil
	}
	v := f.Value
	return &v
}

// Apply overwrites *target according to the field: no-op when absent, nil
// when null, the value otherwise.
func (f Field[T]) Apply(target **T) {
	if !f.Present {
		return
	}
	if f.Null {
		*target = nil
		return
	}
	v := f.Value
	*target = &v
}
