package metric

import (
	"bytes"
	"encoding/json"
)

// Optional is a tagged float value that distinguishes "absent" from
// "zero". Absence encodes as JSON null. Every display or delta
// computation must check presence before checking the numeric value;
// the two conditions are never conflated.
type Optional struct {
	value   float64
	present bool
}

// Some wraps a present value.
func Some(v float64) Optional {
	return Optional{value: v, present: true}
}

// None is the absent value.
func None() Optional {
	return Optional{}
}

// Present reports whether a value is carried.
func (o Optional) Present() bool {
	return o.present
}

// Value returns the carried value and whether it is present.
func (o Optional) Value() (float64, bool) {
	return o.value, o.present
}

// IsZero reports whether the value is present and exactly zero. An
// absent value is not zero.
func (o Optional) IsZero() bool {
	return o.present && o.value == 0
}

var nullLiteral = []byte("null")

// MarshalJSON encodes absent values as null.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.present {
		return nullLiteral, nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as absent.
func (o *Optional) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), nullLiteral) {
		*o = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
