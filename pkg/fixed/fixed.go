// Package fixed provides 16.16 fixed-point arithmetic and binary angle
// measurement (BAM) helpers used by the software renderer.
package fixed

import (
	"math"
	"math/bits"
)

// Fixed is a signed 16.16 fixed-point number.
type Fixed int32

// Fixed-point layout.
const (
	FracBits       = 16
	FracUnit Fixed = 1 << FracBits
	MaxFixed Fixed = math.MaxInt32
	MinFixed Fixed = math.MinInt32
	fracMask       = 1<<FracBits - 1
)

// FromInt converts a whole map unit to fixed point.
func FromInt(v int) Fixed {
	return Fixed(v << FracBits)
}

// FromFloat converts a float to fixed point, truncating toward zero.
func FromFloat(v float64) Fixed {
	return Fixed(v * float64(FracUnit))
}

// Int returns the integer part, rounding toward negative infinity.
func (f Fixed) Int() int {
	return int(f >> FracBits)
}

// Float returns f as a float64.
func (f Fixed) Float() float64 {
	return float64(f) / float64(FracUnit)
}

// Frac returns the fractional bits of f.
func (f Fixed) Frac() uint32 {
	return uint32(f) & fracMask
}

// Mul returns a*b.
func Mul(a, b Fixed) Fixed {
	return Fixed((int64(a) * int64(b)) >> FracBits)
}

// Div returns a/b, saturating to MaxFixed or MinFixed when the quotient
// does not fit.
func Div(a, b Fixed) Fixed {
	if (abs32(a) >> 14) >= abs32(b) {
		if (a ^ b) < 0 {
			return MinFixed
		}
		return MaxFixed
	}
	return Fixed((int64(a) << FracBits) / int64(b))
}

func abs32(v Fixed) Fixed {
	if v < 0 {
		return -v
	}
	return v
}

// CompareProducts reports the sign of a*b - c*d computed exactly with
// 128-bit intermediates. It returns -1, 0 or +1.
func CompareProducts(a, b, c, d int64) int {
	lh, ll := mul128(a, b)
	rh, rl := mul128(c, d)
	switch {
	case lh < rh:
		return -1
	case lh > rh:
		return 1
	case ll < rl:
		return -1
	case ll > rl:
		return 1
	}
	return 0
}

// mul128 returns the two's complement 128-bit product of a and b.
func mul128(a, b int64) (hi int64, lo uint64) {
	neg := (a < 0) != (b < 0)
	h, l := bits.Mul64(absU64(a), absU64(b))
	if neg {
		l = ^l + 1
		h = ^h
		if l == 0 {
			h++
		}
	}
	return int64(h), l
}

func absU64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}
