package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ValueKind tags the contents of a Value.
type ValueKind uint8

// Value kinds.
const (
	ValueMissing ValueKind = iota
	ValueNumber
	ValueLabel
	ValuePassthrough
)

// Value is a normalized feature value: a number, the missing-value marker,
// a category label, or an unclassified raw value passed through unchanged.
// The zero Value is the missing marker.
type Value struct {
	kind   ValueKind
	number float64
	label  Category
	raw    any
}

// Missing returns the missing-value marker.
func Missing() Value {
	return Value{kind: ValueMissing}
}

// Number returns a numeric value. NaN and infinities become the missing marker.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Missing()
	}
	return Value{kind: ValueNumber, number: f}
}

// Label returns a categorical value.
func Label(c Category) Value {
	return Value{kind: ValueLabel, label: c}
}

// Passthrough wraps a raw value that no rule claims.
func Passthrough(raw any) Value {
	return Value{kind: ValuePassthrough, raw: raw}
}

// Kind returns the value's kind.
func (v Value) Kind() ValueKind { return v.kind }

// IsMissing reports whether v is the missing-value marker.
func (v Value) IsMissing() bool { return v.kind == ValueMissing }

// Float returns the numeric value and true, or 0 and false for non-numbers.
func (v Value) Float() (float64, bool) {
	if v.kind != ValueNumber {
		return 0, false
	}
	return v.number, true
}

// Category returns the label and true, or "" and false for non-labels.
func (v Value) Category() (Category, bool) {
	if v.kind != ValueLabel {
		return "", false
	}
	return v.label, true
}

// Raw returns the passthrough value.
func (v Value) Raw() any { return v.raw }

// String renders the value for display. The missing marker renders as "NaN".
func (v Value) String() string {
	switch v.kind {
	case ValueNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case ValueLabel:
		return string(v.label)
	case ValuePassthrough:
		return fmt.Sprint(v.raw)
	default:
		return "NaN"
	}
}

// Equal reports whether two values have the same kind and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueNumber:
		return v.number == o.number
	case ValueLabel:
		return v.label == o.label
	case ValuePassthrough:
		return fmt.Sprint(v.raw) == fmt.Sprint(o.raw)
	default:
		return true
	}
}

// MarshalJSON encodes numbers as numbers, labels as strings, the missing
// marker as null, and passthrough values as their own JSON encoding.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueNumber:
		return json.Marshal(v.number)
	case ValueLabel:
		return json.Marshal(string(v.label))
	case ValuePassthrough:
		return json.Marshal(v.raw)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes null as missing, numbers as numbers and strings as
// labels. Any other JSON becomes a passthrough value.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = Missing()
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Number(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Label(Category(s))
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding feature value: %w", err)
	}
	*v = Passthrough(raw)
	return nil
}
