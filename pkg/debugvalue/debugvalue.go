// Package debugvalue reduces arbitrary values to a form that is safe to embed
// in log lines and error messages. Primitive values pass through untouched;
// everything else is replaced by a Marker naming its type so large buffers or
// native handles never end up stringified.
package debugvalue

import (
	"fmt"
	"reflect"
)

// Marker stands in for a value whose kind is not whitelisted. Two markers are
// equal when they were produced from values of the same type.
type Marker struct {
	Type string
}

// String renders the marker the way Python prints a type object.
func (m Marker) String() string {
	return fmt.Sprintf("<class '%s'>", m.Type)
}

// NilMarker is produced for untyped nil values.
var NilMarker = Marker{Type: "nil"}

// Sanitize returns a new slice with the same length and order as values.
// Integers, floats, strings and booleans are kept as-is; every other value is
// replaced by its Marker. The input is never modified.
func Sanitize(values ...any) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = sanitizeValue(value)
	}
	return out
}

// MarkerOf returns the marker describing value's type.
func MarkerOf(value any) Marker {
	if value == nil {
		return NilMarker
	}
	return Marker{Type: reflect.TypeOf(value).String()}
}

// Preserved reports whether Sanitize keeps value verbatim.
func Preserved(value any) bool {
	if value == nil {
		return false
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Bool,
		reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func sanitizeValue(value any) any {
	if Preserved(value) {
		return value
	}
	return MarkerOf(value)
}
