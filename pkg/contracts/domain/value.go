package domain

import "math"

// Value is a normalized cell value: either a number or explicitly missing.
// The zero value is missing. Missing is never represented as NaN so that
// "could not parse" and "intentionally zero" stay distinguishable.
type Value struct {
	Num   float64 `json:"num"`
	Valid bool    `json:"valid"`
}

// Num creates a present numeric value.
func Num(f float64) Value {
	return Value{Num: f, Valid: true}
}

// Missing creates an explicitly missing value.
func Missing() Value {
	return Value{}
}

// IsMissing reports whether the value is absent.
func (v Value) IsMissing() bool {
	return !v.Valid
}

// Float returns the numeric value and whether it is present.
func (v Value) Float() (float64, bool) {
	return v.Num, v.Valid
}

// Equal compares two values. Two missing values are equal regardless of the
// stored number; present values compare within a small tolerance to absorb
// float round-trips through formatting.
func (v Value) Equal(o Value) bool {
	if v.Valid != o.Valid {
		return false
	}
	if !v.Valid {
		return true
	}
	return math.Abs(v.Num-o.Num) < 1e-9
}
