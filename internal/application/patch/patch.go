// Package patch carries partial-update request fields. A Field records
// whether its JSON key appeared at all, so an explicit null (clear the
// value) can be told apart from an omitted key (leave it unchanged).
package patch

import "encoding/json"

// Field is an optionally-present, nullable request field
type Field[T any] struct {
	value   *T
	present bool
}

// Set builds a present field carrying a value
func Set[T any](v T) Field[T] {
	return Field[T]{value: &v, present: true}
}

// Null builds a present field carrying an explicit null
func Null[T any]() Field[T] {
	return Field[T]{present: true}
}

// UnmarshalJSON implements json.Unmarshaler. It only runs when the key is
// present in the body, which is what makes Present meaningful.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.present = true
	if string(data) == "null" {
		f.value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.value = &v
	return nil
}

// Present reports whether the key appeared in the request body
func (f Field[T]) Present() bool {
	return f.present
}

// Ptr returns the decoded value, or nil for an explicit null
func (f Field[T]) Ptr() *T {
	return f.value
}
