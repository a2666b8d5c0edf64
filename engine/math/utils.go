package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// UnitToByte converts a normalized [0, 1] channel value into its 8-bit form.
func UnitToByte(v float32) uint8 {
	return uint8(Clamp(v, 0, 1) * 255)
}
