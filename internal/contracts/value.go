package contracts

import (
	"encoding/json"
	"fmt"
)

// ValueStatus explains why an indicator value may be absent.
type ValueStatus int

const (
	// StatusInsufficient means too little history existed to compute the
	// value. It is the zero value, so an unset Value is absent, never a
	// silent zero.
	StatusInsufficient ValueStatus = iota
	// StatusPresent means the value was computed normally.
	StatusPresent
	// StatusDegenerate means the input was technically sufficient but
	// numerically meaningless (zero variance, zero-width band, ...).
	StatusDegenerate
)

// String returns the status name.
func (s ValueStatus) String() string {
	switch s {
	case StatusPresent:
		return "present"
	case StatusInsufficient:
		return "insufficient"
	case StatusDegenerate:
		return "degenerate"
	}
	return fmt.Sprintf("ValueStatus(%d)", int(s))
}

// Value is an optional float64. Indicator and risk calculations produce
// Values instead of raw floats so that "not computable" propagates through
// downstream math instead of silently becoming zero.
type Value struct {
	val    float64
	status ValueStatus
}

// Present wraps a computed value.
func Present(v float64) Value {
	return Value{val: v, status: StatusPresent}
}

// Insufficient marks a value that could not be computed from the
// available history.
func Insufficient() Value {
	return Value{status: StatusInsufficient}
}

// Degenerate marks a value whose input was numerically meaningless.
func Degenerate() Value {
	return Value{status: StatusDegenerate}
}

// Float returns the value and whether it is present.
func (v Value) Float() (float64, bool) {
	return v.val, v.status == StatusPresent
}

// IsPresent reports whether the value was computed.
func (v Value) IsPresent() bool {
	return v.status == StatusPresent
}

// Status returns why the value is (or is not) present.
func (v Value) Status() ValueStatus {
	return v.status
}

// Map applies fn to a present value; absent values pass through unchanged.
func (v Value) Map(fn func(float64) float64) Value {
	if v.status != StatusPresent {
		return v
	}
	return Present(fn(v.val))
}

// Combine applies fn to two present values. If either operand is absent the
// result carries the first absent status encountered.
func Combine(a, b Value, fn func(x, y float64) float64) Value {
	if a.status != StatusPresent {
		return a
	}
	if b.status != StatusPresent {
		return b
	}
	return Present(fn(a.val, b.val))
}

// MarshalJSON encodes a present value as a number and an absent one as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.status != StatusPresent {
		return []byte("null"), nil
	}
	return json.Marshal(v.val)
}

// UnmarshalJSON decodes a number as present and null as insufficient.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Insufficient()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Present(f)
	return nil
}
