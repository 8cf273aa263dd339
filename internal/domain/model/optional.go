package model

import (
	"bytes"
	"encoding/json"
)

// Optional is a field of a partial update. Set reports whether the field was given
// at all; a set field with a nil Value clears the column.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a set Optional that clears the column.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// IsNull reports whether o is set to NULL.
func (o Optional[T]) IsNull() bool {
	return o.Set && o.Value == nil
}

// UnmarshalJSON marks the field as set; a JSON null leaves Value nil.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	o.Value = nil
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON renders the value or null. Pair it with omitzero to skip unset fields.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
