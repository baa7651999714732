package math

import (
	stdmath "math"
	"math/bits"
)

func Add64(a, b uint64) (uint64, bool) {
	sum, overflow := bits.Add64(a, b, 0)
	return sum, overflow > 0
}

func Sub64(a, b uint64) (uint64, bool) {
	diff, borrow := bits.Sub64(a, b, 0)
	return diff, borrow > 0
}

func Mul64(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi > 0
}

// SaturatingAdd64 adds capping at the maximum value.
func SaturatingAdd64(a, b uint64) uint64 {
	sum, overflow := Add64(a, b)
	if overflow {
		return stdmath.MaxUint64
	}
	return sum
}

// SaturatingSub64 subtracts flooring at zero.
func SaturatingSub64(a, b uint64) uint64 {
	diff, borrow := Sub64(a, b)
	if borrow {
		return 0
	}
	return diff
}

// SaturatingMul64 multiplies capping at the maximum value.
func SaturatingMul64(a, b uint64) uint64 {
	prod, overflow := Mul64(a, b)
	if overflow {
		return stdmath.MaxUint64
	}
	return prod
}

// MulDiv64 computes a*b/d with a 128-bit intermediate product.
// The second return value is false when the quotient does not fit
// in 64 bits or d is zero.
func MulDiv64(a, b, d uint64) (uint64, bool) {
	if d == 0 {
		return 0, false
	}

	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		return 0, false
	}

	q, _ := bits.Div64(hi, lo, d)
	return q, true
}

// MulDivCeil64 computes ceil(a*b/d) with a 128-bit intermediate product.
func MulDivCeil64(a, b, d uint64) (uint64, bool) {
	if d == 0 {
		return 0, false
	}

	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		return 0, false
	}

	q, r := bits.Div64(hi, lo, d)
	if r > 0 {
		if q == stdmath.MaxUint64 {
			return 0, false
		}
		q++
	}
	return q, true
}
