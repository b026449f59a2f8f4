// Package patch различает в частичных обновлениях три случая:
// поле не передано, передано как null и передано со значением.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field — поле частичного обновления.
type Field[T any] struct {
	Set   bool // поле присутствовало в запросе
	Null  bool // поле пришло как null
	Value T
}

// Of возвращает поле со значением.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null возвращает поле, явно обнулённое.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Ptr возвращает nil для null, иначе указатель на значение. Только для Set-полей.
func (f Field[T]) Ptr() *T {
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON пишет null для обнулённого поля. Отсутствующее поле
// выкидывается только вместе с omitzero у включающей структуры.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// IsZero нужен для тега omitzero: не переданное поле не сериализуется.
func (f Field[T]) IsZero() bool { return !f.Set }
